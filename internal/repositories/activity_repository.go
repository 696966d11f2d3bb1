package repositories

import (
	"context"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const activityCollection = "activities"

// ActivityRepository defines the interface for the user activity log
type ActivityRepository interface {
	RecordActivity(ctx context.Context, activity *models.Activity) error
	GetActivitiesByActorID(ctx context.Context, actorID uint, limit int64) ([]models.Activity, error)
}

type mongoActivityRepository struct {
	collection *mongo.Collection
}

func NewMongoActivityRepository(mongoDB *mongo.Database) ActivityRepository {
	return &mongoActivityRepository{collection: mongoDB.Collection(activityCollection)}
}

func (r *mongoActivityRepository) RecordActivity(ctx context.Context, activity *models.Activity) error {
	activity.ID = primitive.NewObjectID()
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, activity)
	return err
}

// GetActivitiesByActorID returns the newest entries first
func (r *mongoActivityRepository) GetActivitiesByActorID(ctx context.Context, actorID uint, limit int64) ([]models.Activity, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.collection.Find(ctx, bson.M{"actor_id": actorID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	activities := []models.Activity{}
	if err = cursor.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// nopActivityRepository is used when no MongoDB is configured
type nopActivityRepository struct{}

func NewNopActivityRepository() ActivityRepository {
	return nopActivityRepository{}
}

func (nopActivityRepository) RecordActivity(context.Context, *models.Activity) error {
	return nil
}

func (nopActivityRepository) GetActivitiesByActorID(context.Context, uint, int64) ([]models.Activity, error) {
	return []models.Activity{}, nil
}
