package models

import "time"

const (
	VerbLikedPost  = "liked your post"
	TargetTypePost = "post"
)

// Notification represents a user notification
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	RecipientID uint      `json:"recipient_id" gorm:"index;not null"`
	Recipient   *User     `json:"-" gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE"`
	ActorID     uint      `json:"actor_id" gorm:"index;not null"`
	Actor       *User     `json:"-" gorm:"foreignKey:ActorID;constraint:OnDelete:CASCADE"`
	Verb        string    `json:"verb" gorm:"size:255;not null"`
	TargetType  string    `json:"target_type" gorm:"size:20"` // post
	TargetID    uint      `json:"target_id"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}
