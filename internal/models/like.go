package models

import "time"

// Like represents a like on a post. At most one per (user, post).
type Like struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	UserID    uint      `json:"user" gorm:"index;uniqueIndex:idx_like_user_post;not null"`
	User      *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	PostID    uint      `json:"post" gorm:"index;uniqueIndex:idx_like_user_post;not null"`
	Post      *Post     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
}
