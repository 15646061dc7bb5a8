package models

import "time"

// Post is an article written by a single creator.
type Post struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Category    string    `gorm:"size:64;not null;index" json:"category"`
	Description string    `gorm:"type:text;not null" json:"description"`
	CreatorID   uint      `gorm:"index;not null" json:"creator"`
	CommentIDs  IDList    `gorm:"type:text" json:"comments"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `gorm:"index" json:"updated_at"`
}
