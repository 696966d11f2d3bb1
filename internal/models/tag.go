package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/anonto42/nano-social/backend/pkg/slug"
	"gorm.io/gorm"
)

// Tag is a unique label attached to posts
type Tag struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:50;uniqueIndex;not null"`
	Slug      string    `json:"slug" gorm:"size:100;uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate derives the slug from the name when none was given. The slug is
// never rewritten afterwards.
func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.Slug != "" {
		return nil
	}
	s, err := availableSlug(tx.Session(&gorm.Session{NewDB: true}), slug.Make(t.Name))
	if err != nil {
		return err
	}
	t.Slug = s
	return nil
}

// maxSlugBase leaves room for a "-N" suffix within the slug column. NFKD can
// expand one rune into several letters, so a short name may give a long slug.
const maxSlugBase = 90

func availableSlug(db *gorm.DB, base string) (string, error) {
	if len(base) > maxSlugBase {
		base = strings.TrimRight(base[:maxSlugBase], "-_")
	}
	if base == "" {
		base = "tag"
	}
	candidate := base
	for i := 2; ; i++ {
		var count int64
		if err := db.Model(&Tag{}).Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
