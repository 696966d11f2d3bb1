package services

import (
	"context"
	"time"

	"github.com/anonto42/nano-social/backend/internal/metrics"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	DefaultNotificationLimit = 20
	MaxNotificationLimit     = 100
)

// GroupedNotifications buckets a recipient's notifications by age
type GroupedNotifications struct {
	Today     []models.Notification `json:"today"`
	Yesterday []models.Notification `json:"yesterday"`
	ThisWeek  []models.Notification `json:"this_week"`
	Older     []models.Notification `json:"older"`
}

type NotificationService struct {
	repo repositories.NotificationRepository
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{repo: repositories.NewPostgresNotificationRepository(db)}
}

// List returns one page of the recipient's notifications, newest first, and
// the total count. Out of range page or limit values are clamped.
func (s *NotificationService) List(ctx context.Context, recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultNotificationLimit
	}
	if limit > MaxNotificationLimit {
		limit = MaxNotificationLimit
	}
	return s.repo.GetByRecipientID(ctx, recipientID, page, limit)
}

func (s *NotificationService) Grouped(ctx context.Context, recipientID uint) (*GroupedNotifications, error) {
	today, yesterday, thisWeek, older, err := s.repo.GetGrouped(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	return &GroupedNotifications{Today: today, Yesterday: yesterday, ThisWeek: thisWeek, Older: older}, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	return s.repo.GetUnreadCount(ctx, recipientID)
}

// MarkRead reports ErrNotificationNotFound for ids that do not exist or
// belong to someone else.
func (s *NotificationService) MarkRead(ctx context.Context, recipientID, notificationID uint) error {
	found, err := s.repo.MarkAsRead(ctx, notificationID, recipientID)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID uint) error {
	return s.repo.MarkAllAsRead(ctx, recipientID)
}

// Prune deletes read notifications older than retention
func (s *NotificationService) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	deleted, err := s.repo.DeleteReadBefore(ctx, time.Now().Add(-retention))
	if err != nil {
		return 0, err
	}
	metrics.NotificationsPruned.Add(float64(deleted))
	return deleted, nil
}

// SchedulePrune registers retention pruning on c using a cron spec such as
// "@every 1h".
func (s *NotificationService) SchedulePrune(c *cron.Cron, spec string, retention time.Duration) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		deleted, err := s.Prune(context.Background(), retention)
		if err != nil {
			log.Error().Err(err).Msg("failed to prune notifications")
			return
		}
		log.Debug().Int64("deleted", deleted).Msg("pruned read notifications")
	})
}
