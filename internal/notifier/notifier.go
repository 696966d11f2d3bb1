// Package notifier fans new notifications out to Redis channels so that
// connected clients can be told about them in real time.
package notifier

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Event is the payload published for every new notification
type Event struct {
	ID         uint      `json:"id"`
	ActorID    uint      `json:"actor_id"`
	Verb       string    `json:"verb"`
	TargetType string    `json:"target_type"`
	TargetID   uint      `json:"target_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Publisher delivers notification events to a recipient
type Publisher interface {
	PublishUser(ctx context.Context, userID uint, event Event) error
}

// UserChannel returns the Redis channel for a recipient
func UserChannel(userID uint) string {
	return fmt.Sprintf("notifications:user:%d", userID)
}

// RedisPublisher publishes events with PUBLISH. A nil client makes it a no-op.
type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) PublishUser(ctx context.Context, userID uint, event Event) error {
	if p.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return p.rdb.Publish(ctx, UserChannel(userID), payload).Err()
}
