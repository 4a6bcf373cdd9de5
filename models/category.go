package models

import "time"

type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime:false"`
}

// CategoryRequest is the create/update payload. The name is not validated
// server side; the dashboard enforces it.
type CategoryRequest struct {
	Name string `json:"name"`
}
