package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ActivityPostCreated = "post_created"
	ActivityPostLiked   = "post_liked"
	ActivityFollowed    = "followed"
)

// Activity is an entry of a user's public activity log stored in MongoDB
type Activity struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ActorID    uint               `json:"actor_id" bson:"actor_id"`
	Kind       string             `json:"kind" bson:"kind"`
	TargetType string             `json:"target_type" bson:"target_type"`
	TargetID   uint               `json:"target_id" bson:"target_id"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}
