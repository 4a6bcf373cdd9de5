package services

import (
	"context"
	"fmt"

	"blogcms/metrics"
	"blogcms/models"
	"blogcms/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostInput is the mutable part of a post, independent of the wire DTOs.
type PostInput struct {
	Title            string
	Content          string
	FeaturedImageURL *string
	Status           models.PostStatus
	CategoryID       uint
}

type PostService struct {
	db    *gorm.DB
	clock utils.Clock
}

func NewPostService(db *gorm.DB, clock utils.Clock) *PostService {
	return &PostService{db: db, clock: clock}
}

func (s *PostService) withAssociations(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("Category").Preload("User")
}

func (s *PostService) List(ctx context.Context) ([]models.Post, error) {
	posts := []models.Post{}
	if err := s.withAssociations(ctx).Order("id").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (s *PostService) Get(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := s.withAssociations(ctx).First(&post, id).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

// Create files the post under the principal; any owner sent by the client
// never reaches this point.
func (s *PostService) Create(ctx context.Context, input PostInput, principal utils.Principal) (*models.Post, error) {
	status := input.Status
	if status == "" {
		status = models.StatusDraft
	}

	post := &models.Post{
		Title:            input.Title,
		Content:          input.Content,
		FeaturedImageURL: input.FeaturedImageURL,
		Status:           status,
		CategoryID:       input.CategoryID,
		UserID:           principal.UserID,
		CreatedAt:        s.clock.NowUtc(),
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	metrics.PostMutations.WithLabelValues("create").Inc()
	return s.Get(ctx, post.ID)
}

// Update reports ErrNotFound both when the post is missing and when the
// principal does not own it.
func (s *PostService) Update(ctx context.Context, id uint, input PostInput, principal utils.Principal) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, principal.UserID).First(&post).Error; err != nil {
		return nil, translate(err)
	}

	changes := models.Post{
		Title:            input.Title,
		Content:          input.Content,
		FeaturedImageURL: input.FeaturedImageURL,
		Status:           input.Status,
		CategoryID:       input.CategoryID,
	}
	err := s.db.WithContext(ctx).Model(&post).
		Select("title", "content", "featured_image_url", "status", "category_id").
		Updates(changes).Error
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	metrics.PostMutations.WithLabelValues("update").Inc()
	return s.Get(ctx, id)
}

func (s *PostService) Delete(ctx context.Context, id uint, principal utils.Principal) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, principal.UserID).Delete(&models.Post{})
	if result.Error != nil {
		return fmt.Errorf("delete post: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	metrics.PostMutations.WithLabelValues("delete").Inc()
	return nil
}
