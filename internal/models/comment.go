package models

import "time"

// Comment represents a comment on a post
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"index;not null"` // ID of the post the comment belongs to
	Post      *Post     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	AuthorID  uint      `json:"author_id" gorm:"index;not null"` // ID of the user who made the comment
	Author    *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"<-:create;index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentRequest defines the request body for creating or editing a comment
type CommentRequest struct {
	Content string `json:"content" validate:"required,min=10,max=5000"`
}

// CommentResponse is the wire representation of a comment
type CommentResponse struct {
	ID        uint      `json:"id"`
	Post      uint      `json:"post"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Comment) ToResponse() CommentResponse {
	resp := CommentResponse{
		ID:        c.ID,
		Post:      c.PostID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.Author != nil {
		resp.Author = c.Author.Username
	}
	return resp
}
