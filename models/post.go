package models

import "time"

type PostStatus string

const (
	StatusDraft     PostStatus = "Draft"
	StatusPublished PostStatus = "Published"
)

type Post struct {
	ID               uint       `json:"id" gorm:"primaryKey"`
	Title            string     `json:"title" gorm:"not null"`
	Content          string     `json:"content" gorm:"type:text"`
	FeaturedImageURL *string    `json:"featuredImageUrl"`
	Status           PostStatus `json:"status" gorm:"not null;default:'Draft'"`
	CategoryID       uint       `json:"categoryId" gorm:"not null;index"`
	Category         *Category  `json:"category,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	UserID           uint       `json:"userId" gorm:"not null;index"`
	User             *User      `json:"user,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt        time.Time  `json:"createdAt" gorm:"autoCreateTime:false"`
}

// CreatePostRequest accepts userId for wire compatibility with the dashboard;
// the owner is always taken from the token.
type CreatePostRequest struct {
	Title            string     `json:"title" binding:"required"`
	Content          string     `json:"content"`
	FeaturedImageURL *string    `json:"featuredImageUrl"`
	Status           PostStatus `json:"status" binding:"omitempty,oneof=Draft Published"`
	CategoryID       uint       `json:"categoryId" binding:"required"`
	UserID           uint       `json:"userId"`
}

type UpdatePostRequest struct {
	Title            string     `json:"title" binding:"required"`
	Content          string     `json:"content"`
	FeaturedImageURL *string    `json:"featuredImageUrl"`
	Status           PostStatus `json:"status" binding:"required,oneof=Draft Published"`
	CategoryID       uint       `json:"categoryId" binding:"required"`
	UserID           uint       `json:"userId"`
}
