package services

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const activityPageSize = 50

// ActivityService reads the public activity log of a user
type ActivityService struct {
	db         *gorm.DB
	activities repositories.ActivityRepository
}

func NewActivityService(db *gorm.DB, activities repositories.ActivityRepository) *ActivityService {
	return &ActivityService{db: db, activities: activities}
}

// ListForUser returns the newest entries of the user's activity log
func (s *ActivityService) ListForUser(ctx context.Context, userID uint) ([]models.Activity, error) {
	if _, err := repositories.NewPostgresUserRepository(s.db).GetUserByID(ctx, userID); err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return s.activities.GetActivitiesByActorID(ctx, userID, activityPageSize)
}

// recordActivity is best effort: the database write it describes has
// already committed.
func recordActivity(ctx context.Context, repo repositories.ActivityRepository, activity models.Activity) {
	if err := repo.RecordActivity(ctx, &activity); err != nil {
		log.Warn().Err(err).
			Uint("actor_id", activity.ActorID).
			Str("kind", activity.Kind).
			Msg("failed to record activity")
	}
}
