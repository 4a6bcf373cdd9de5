package client

import (
	"context"
	"fmt"
	"net/http"

	"blogcms/models"
)

func (s *Session) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.do(ctx, http.MethodGet, "/Category", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *Session) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	if err := s.do(ctx, http.MethodPost, "/Category", models.CategoryRequest{Name: name}, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *Session) UpdateCategory(ctx context.Context, id uint, name string) (*models.Category, error) {
	var category models.Category
	if err := s.do(ctx, http.MethodPut, fmt.Sprintf("/Category/%d", id), models.CategoryRequest{Name: name}, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *Session) DeleteCategory(ctx context.Context, id uint) error {
	return s.do(ctx, http.MethodDelete, fmt.Sprintf("/Category/%d", id), nil, nil)
}

func (s *Session) ListPosts(ctx context.Context) ([]models.Post, error) {
	if !s.Authenticated() {
		return nil, ErrNotLoggedIn
	}
	var posts []models.Post
	if err := s.do(ctx, http.MethodGet, "/Post", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *Session) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	if !s.Authenticated() {
		return nil, ErrNotLoggedIn
	}
	var post models.Post
	if err := s.do(ctx, http.MethodGet, fmt.Sprintf("/Post/%d", id), nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// CreatePost sends the locally decoded user id along like the web dashboard
// does; the server ignores it.
func (s *Session) CreatePost(ctx context.Context, req models.CreatePostRequest) (*models.Post, error) {
	if !s.Authenticated() {
		return nil, ErrNotLoggedIn
	}
	req.UserID = s.DisplayUserID()

	var post models.Post
	if err := s.do(ctx, http.MethodPost, "/Post", req, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *Session) UpdatePost(ctx context.Context, id uint, req models.UpdatePostRequest) (*models.Post, error) {
	if !s.Authenticated() {
		return nil, ErrNotLoggedIn
	}
	req.UserID = s.DisplayUserID()

	var post models.Post
	if err := s.do(ctx, http.MethodPut, fmt.Sprintf("/Post/%d", id), req, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *Session) DeletePost(ctx context.Context, id uint) error {
	if !s.Authenticated() {
		return ErrNotLoggedIn
	}
	return s.do(ctx, http.MethodDelete, fmt.Sprintf("/Post/%d?userId=%d", id, s.DisplayUserID()), nil, nil)
}
