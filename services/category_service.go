package services

import (
	"context"
	"fmt"

	"blogcms/models"
	"blogcms/utils"

	"gorm.io/gorm"
)

type CategoryService struct {
	db    *gorm.DB
	clock utils.Clock
}

func NewCategoryService(db *gorm.DB, clock utils.Clock) *CategoryService {
	return &CategoryService{db: db, clock: clock}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	if err := s.db.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (s *CategoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	category := &models.Category{
		Name:      name,
		CreatedAt: s.clock.NowUtc(),
	}
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

// Update overwrites the name only.
func (s *CategoryService) Update(ctx context.Context, id uint, name string) (*models.Category, error) {
	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(category).Update("name", name).Error; err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	category.Name = name
	return category, nil
}

// Delete removes the category. Posts filed under it go with it through the
// foreign key cascade.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Category{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
