package models

import (
	"time"
)

// Post represents a blog / social post
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"size:200;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	AuthorID  uint      `json:"author_id" gorm:"index;not null"`
	Author    *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Tags      []Tag     `json:"-" gorm:"many2many:post_tags;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at" gorm:"<-:create;index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post.
// Tags is free text: comma separated tag names.
type CreatePostRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=200"`
	Content string `json:"content" validate:"required,min=1"`
	Tags    string `json:"tags" validate:"max=1000"`
}

// UpdatePostRequest defines the request body for updating an existing post.
// A nil Tags leaves the tag set alone; a present one replaces it.
type UpdatePostRequest struct {
	Title   *string `json:"title" validate:"omitnil,min=1,max=200"`
	Content *string `json:"content" validate:"omitnil,min=1"`
	Tags    *string `json:"tags" validate:"omitnil,max=1000"`
}

// PostResponse is the wire representation of a post
type PostResponse struct {
	ID        uint      `json:"id"`
	Author    string    `json:"author"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToResponse expects Author and Tags to be preloaded.
func (p *Post) ToResponse() PostResponse {
	resp := PostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Tags:      make([]string, 0, len(p.Tags)),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Author != nil {
		resp.Author = p.Author.Username
	}
	for _, t := range p.Tags {
		resp.Tags = append(resp.Tags, t.Name)
	}
	return resp
}

func PostsToResponse(posts []Post) []PostResponse {
	out := make([]PostResponse, len(posts))
	for i := range posts {
		out[i] = posts[i].ToResponse()
	}
	return out
}
