package services

import (
	"context"
	"sync"
	"testing"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/notifier"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events map[uint][]notifier.Event
	err    error
}

func (p *recordingPublisher) PublishUser(_ context.Context, userID uint, event notifier.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.events == nil {
		p.events = map[uint][]notifier.Event{}
	}
	p.events[userID] = append(p.events[userID], event)
	return p.err
}

type recordingActivities struct {
	mu      sync.Mutex
	entries []models.Activity
	err     error
}

func (r *recordingActivities) RecordActivity(_ context.Context, activity *models.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *activity)
	return r.err
}

func (r *recordingActivities) GetActivitiesByActorID(_ context.Context, actorID uint, _ int64) ([]models.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Activity{}
	for _, a := range r.entries {
		if a.ActorID == actorID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *recordingActivities) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.entries))
	for i, a := range r.entries {
		out[i] = a.Kind
	}
	return out
}

func strPtr(s string) *string { return &s }

func tagNames(post *models.Post) []string {
	return post.ToResponse().Tags
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
