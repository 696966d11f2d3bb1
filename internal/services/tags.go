package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

const maxTagNameLength = 50

// ParseTagNames splits comma separated tag input into trimmed, non-empty names
// in their original order. Duplicates are kept.
func ParseTagNames(raw string) []string {
	names := []string{}
	for _, segment := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(segment); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func validateTagNames(names []string) error {
	for _, name := range names {
		if utf8.RuneCountInString(name) > maxTagNameLength {
			return ErrTagTooLong
		}
	}
	return nil
}

// reconcileTags links post to the tags called names, creating missing tags.
// With clearExisting the previous links are dropped first. It must run inside
// the transaction that writes the post.
func reconcileTags(ctx context.Context, tx *gorm.DB, post *models.Post, names []string, clearExisting bool) error {
	posts := repositories.NewPostgresPostRepository(tx)
	tags := repositories.NewPostgresTagRepository(tx)

	if clearExisting {
		if err := posts.ClearTags(ctx, post); err != nil {
			return fmt.Errorf("clear tags: %w", err)
		}
	}

	linked := make([]models.Tag, 0, len(names))
	for _, name := range names {
		tag, err := tags.FindOrCreateTag(ctx, name)
		if err != nil {
			return fmt.Errorf("find or create tag %q: %w", name, err)
		}
		linked = append(linked, *tag)
	}
	linked = lo.UniqBy(linked, func(t models.Tag) uint { return t.ID })

	if err := posts.AppendTags(ctx, post, linked); err != nil {
		return fmt.Errorf("link tags: %w", err)
	}
	return nil
}
