package models

import "time"

// Comment is a reply to a post.
type Comment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PostID      uint      `gorm:"index;not null" json:"post_id"`
	CommenterID uint      `gorm:"index;not null" json:"commenter_id"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Commenter   *Author   `gorm:"-" json:"commenter,omitempty"`
}
