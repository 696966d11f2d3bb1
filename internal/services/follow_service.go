package services

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/metrics"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"gorm.io/gorm"
)

// FollowResult is the successful outcome of a follow request
type FollowResult int

const (
	Followed FollowResult = iota
	FollowSelfRejected
)

func (r FollowResult) String() string {
	if r == FollowSelfRejected {
		return "self_rejected"
	}
	return "followed"
}

// UnfollowResult is the successful outcome of an unfollow request
type UnfollowResult int

const (
	Unfollowed UnfollowResult = iota
	NotFollowing
)

func (r UnfollowResult) String() string {
	if r == NotFollowing {
		return "not_following"
	}
	return "unfollowed"
}

const TargetTypeUser = "user"

type FollowService struct {
	db         *gorm.DB
	activities repositories.ActivityRepository
}

func NewFollowService(db *gorm.DB, activities repositories.ActivityRepository) *FollowService {
	return &FollowService{db: db, activities: activities}
}

// Follow adds targetID to the actor's following set. Following yourself is
// rejected without touching any state; repeating a follow changes nothing.
func (s *FollowService) Follow(ctx context.Context, actorID, targetID uint) (FollowResult, error) {
	if actorID == targetID {
		metrics.FollowOutcomes.WithLabelValues(FollowSelfRejected.String()).Inc()
		return FollowSelfRejected, nil
	}

	var created bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repositories.NewPostgresUserRepository(tx).GetUserByID(ctx, targetID); err != nil {
			return notFound(err, ErrUserNotFound)
		}
		var err error
		created, err = repositories.NewPostgresFollowRepository(tx).CreateFollowIfAbsent(ctx, &models.Follow{
			FollowerID:  actorID,
			FollowingID: targetID,
		})
		return err
	})
	if err != nil {
		return Followed, err
	}

	metrics.FollowOutcomes.WithLabelValues(Followed.String()).Inc()
	if created {
		recordActivity(ctx, s.activities, models.Activity{
			ActorID:    actorID,
			Kind:       models.ActivityFollowed,
			TargetType: TargetTypeUser,
			TargetID:   targetID,
		})
	}
	return Followed, nil
}

// Unfollow removes targetID from the actor's following set. Removing an
// absent edge reports NotFollowing and is not an error.
func (s *FollowService) Unfollow(ctx context.Context, actorID, targetID uint) (UnfollowResult, error) {
	var removed bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repositories.NewPostgresUserRepository(tx).GetUserByID(ctx, targetID); err != nil {
			return notFound(err, ErrUserNotFound)
		}
		var err error
		removed, err = repositories.NewPostgresFollowRepository(tx).DeleteFollow(ctx, actorID, targetID)
		return err
	})
	if err != nil {
		return NotFollowing, err
	}

	result := NotFollowing
	if removed {
		result = Unfollowed
	}
	metrics.FollowOutcomes.WithLabelValues(result.String()).Inc()
	return result, nil
}

// Followers lists the users following userID
func (s *FollowService) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return repositories.NewPostgresFollowRepository(s.db).GetFollowers(ctx, userID)
}

// Following lists the users userID follows
func (s *FollowService) Following(ctx context.Context, userID uint) ([]models.User, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return repositories.NewPostgresFollowRepository(s.db).GetFollowing(ctx, userID)
}

// IsFollowing reports whether actorID follows targetID
func (s *FollowService) IsFollowing(ctx context.Context, actorID, targetID uint) (bool, error) {
	if err := s.requireUser(ctx, targetID); err != nil {
		return false, err
	}
	return repositories.NewPostgresFollowRepository(s.db).IsFollowing(ctx, actorID, targetID)
}

// Counts returns how many users follow userID and how many userID follows
func (s *FollowService) Counts(ctx context.Context, userID uint) (followers, following int64, err error) {
	if err = s.requireUser(ctx, userID); err != nil {
		return 0, 0, err
	}
	follows := repositories.NewPostgresFollowRepository(s.db)
	if followers, err = follows.GetFollowersCount(ctx, userID); err != nil {
		return 0, 0, err
	}
	if following, err = follows.GetFollowingCount(ctx, userID); err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}

func (s *FollowService) requireUser(ctx context.Context, userID uint) error {
	_, err := repositories.NewPostgresUserRepository(s.db).GetUserByID(ctx, userID)
	return notFound(err, ErrUserNotFound)
}
