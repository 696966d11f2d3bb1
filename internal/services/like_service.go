package services

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/metrics"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/notifier"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// LikeResult is the successful outcome of a like request
type LikeResult int

const (
	LikeCreated LikeResult = iota
	AlreadyLiked
)

func (r LikeResult) String() string {
	if r == AlreadyLiked {
		return "already_liked"
	}
	return "created"
}

// UnlikeResult is the successful outcome of an unlike request
type UnlikeResult int

const (
	Unliked UnlikeResult = iota
	NotLiked
)

func (r UnlikeResult) String() string {
	if r == NotLiked {
		return "not_liked"
	}
	return "unliked"
}

type LikeService struct {
	db         *gorm.DB
	publisher  notifier.Publisher
	activities repositories.ActivityRepository
}

func NewLikeService(db *gorm.DB, publisher notifier.Publisher, activities repositories.ActivityRepository) *LikeService {
	return &LikeService{db: db, publisher: publisher, activities: activities}
}

// Like records that userID likes postID. The first like also notifies the
// post's author, in the same transaction; repeated likes change nothing.
// Liking your own post is allowed.
func (s *LikeService) Like(ctx context.Context, userID, postID uint) (LikeResult, error) {
	var notification *models.Notification
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := repositories.NewPostgresPostRepository(tx).GetPostByID(ctx, postID)
		if err != nil {
			return notFound(err, ErrPostNotFound)
		}

		created, err := repositories.NewPostgresLikeRepository(tx).CreateLikeIfAbsent(ctx, &models.Like{
			UserID: userID,
			PostID: postID,
		})
		if err != nil || !created {
			return err
		}

		notification = &models.Notification{
			RecipientID: post.AuthorID,
			ActorID:     userID,
			Verb:        models.VerbLikedPost,
			TargetType:  models.TargetTypePost,
			TargetID:    post.ID,
		}
		return repositories.NewPostgresNotificationRepository(tx).CreateNotification(ctx, notification)
	})
	if err != nil {
		return LikeCreated, err
	}

	if notification == nil {
		metrics.LikeOutcomes.WithLabelValues(AlreadyLiked.String()).Inc()
		return AlreadyLiked, nil
	}

	metrics.LikeOutcomes.WithLabelValues(LikeCreated.String()).Inc()
	metrics.NotificationsCreated.Inc()
	s.publish(ctx, notification)
	recordActivity(ctx, s.activities, models.Activity{
		ActorID:    userID,
		Kind:       models.ActivityPostLiked,
		TargetType: models.TargetTypePost,
		TargetID:   postID,
	})
	return LikeCreated, nil
}

// Unlike removes the like if there is one. A missing like is reported as
// NotLiked, not as an error.
func (s *LikeService) Unlike(ctx context.Context, userID, postID uint) (UnlikeResult, error) {
	var removed bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repositories.NewPostgresPostRepository(tx).GetPostByID(ctx, postID); err != nil {
			return notFound(err, ErrPostNotFound)
		}
		var err error
		removed, err = repositories.NewPostgresLikeRepository(tx).DeleteLike(ctx, postID, userID)
		return err
	})
	if err != nil {
		return NotLiked, err
	}

	result := NotLiked
	if removed {
		result = Unliked
	}
	metrics.LikeOutcomes.WithLabelValues(result.String()).Inc()
	return result, nil
}

// Likes returns the likes on postID, newest first, with their total
func (s *LikeService) Likes(ctx context.Context, postID uint) ([]models.Like, int64, error) {
	if _, err := repositories.NewPostgresPostRepository(s.db).GetPostByID(ctx, postID); err != nil {
		return nil, 0, notFound(err, ErrPostNotFound)
	}
	likes := repositories.NewPostgresLikeRepository(s.db)
	list, err := likes.GetLikesByPostID(ctx, postID)
	if err != nil {
		return nil, 0, err
	}
	count, err := likes.GetLikesCountByPostID(ctx, postID)
	if err != nil {
		return nil, 0, err
	}
	return list, count, nil
}

func (s *LikeService) HasLiked(ctx context.Context, userID, postID uint) (bool, error) {
	if _, err := repositories.NewPostgresPostRepository(s.db).GetPostByID(ctx, postID); err != nil {
		return false, notFound(err, ErrPostNotFound)
	}
	return repositories.NewPostgresLikeRepository(s.db).HasUserLikedPost(ctx, postID, userID)
}

func (s *LikeService) publish(ctx context.Context, n *models.Notification) {
	err := s.publisher.PublishUser(ctx, n.RecipientID, notifier.Event{
		ID:         n.ID,
		ActorID:    n.ActorID,
		Verb:       n.Verb,
		TargetType: n.TargetType,
		TargetID:   n.TargetID,
		CreatedAt:  n.CreatedAt,
	})
	if err != nil {
		log.Warn().Err(err).Uint("recipient_id", n.RecipientID).Msg("failed to publish notification")
	}
}
