package services

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"gorm.io/gorm"
)

type FeedService struct {
	db *gorm.DB
}

func NewFeedService(db *gorm.DB) *FeedService {
	return &FeedService{db: db}
}

// Feed returns every post written by someone userID follows, newest first.
// No follows means an empty feed.
func (s *FeedService) Feed(ctx context.Context, userID uint) ([]models.Post, error) {
	following, err := repositories.NewPostgresFollowRepository(s.db).GetFollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return repositories.NewPostgresPostRepository(s.db).GetPostsByAuthorIDs(ctx, following)
}
