package services

import (
	"context"

	"github.com/anonto42/futsal-matcher/backend/internal/apperrors"
	"github.com/anonto42/futsal-matcher/backend/internal/models"
	"github.com/anonto42/futsal-matcher/backend/internal/repositories"
	"github.com/anonto42/futsal-matcher/backend/pkg/metrics"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationEvent is emitted by a domain operation for one recipient.
type NotificationEvent struct {
	RecipientID string
	SenderID    string
	Type        string
	Content     string
	ChatID      string
	MatchID     string
}

// Notifier receives notification events. Delivery is best-effort: Notify never
// fails the operation that emitted the events.
type Notifier interface {
	Notify(ctx context.Context, events ...NotificationEvent)
}

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 100
)

// NotificationList is the response of the list operation.
type NotificationList struct {
	Notifications []models.NotificationView `json:"notifications"`
	UnreadCount   int64                     `json:"unread_count"`
}

// NotificationService persists notification events and serves them back to recipients.
type NotificationService struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	log           logrus.FieldLogger
}

var _ Notifier = (*NotificationService)(nil)

func NewNotificationService(notifications repositories.NotificationRepository, users repositories.UserRepository, log logrus.FieldLogger) *NotificationService {
	return &NotificationService{notifications: notifications, users: users, log: log}
}

// Notify writes the events as one batch. Events addressed to their own sender are dropped.
func (s *NotificationService) Notify(ctx context.Context, events ...NotificationEvent) {
	batch := make([]*models.Notification, 0, len(events))
	for _, e := range events {
		if e.RecipientID == "" || e.RecipientID == e.SenderID {
			continue
		}
		batch = append(batch, &models.Notification{
			RecipientID: e.RecipientID,
			SenderID:    e.SenderID,
			Type:        e.Type,
			Content:     e.Content,
			ChatID:      e.ChatID,
			MatchID:     e.MatchID,
		})
	}
	if len(batch) == 0 {
		return
	}

	if err := s.notifications.CreateNotifications(ctx, batch); err != nil {
		metrics.NotificationFailure()
		s.log.WithError(err).WithFields(logrus.Fields{
			"type":       batch[0].Type,
			"recipients": len(batch),
		}).Warn("failed to write notifications")
		return
	}

	counts := make(map[string]int)
	for _, n := range batch {
		counts[n.Type]++
	}
	for notificationType, n := range counts {
		metrics.NotificationsCreated(notificationType, n)
	}
}

// List returns the caller's notifications, newest first, with the unread count.
func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool, limit int) (*NotificationList, error) {
	limit = clamp(limit, 1, maxNotificationLimit, defaultNotificationLimit)

	notifications, err := s.notifications.GetNotificationsByRecipient(ctx, userID, unreadOnly, int64(limit))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	unread, err := s.notifications.CountUnreadNotifications(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &NotificationList{
		Notifications: s.enrich(ctx, notifications),
		UnreadCount:   unread,
	}, nil
}

func (s *NotificationService) enrich(ctx context.Context, notifications []models.Notification) []models.NotificationView {
	senderIDs := make([]string, 0, len(notifications))
	for _, n := range notifications {
		if n.SenderID != "" {
			senderIDs = append(senderIDs, n.SenderID)
		}
	}
	senders, err := compactUsers(ctx, s.users, senderIDs)
	if err != nil {
		s.log.WithError(err).Warn("failed to load notification senders")
		senders = map[string]models.UserCompact{}
	}

	views := make([]models.NotificationView, len(notifications))
	for i, n := range notifications {
		views[i] = models.NotificationView{Notification: n}
		if sender, ok := senders[n.SenderID]; ok {
			views[i].Sender = &sender
		}
	}
	return views
}

// MarkRead flips the given notifications, or all of them, to read and returns how many changed.
func (s *NotificationService) MarkRead(ctx context.Context, userID string, req *models.MarkNotificationsReadRequest) (int64, error) {
	if req.All {
		n, err := s.notifications.MarkAllNotificationsRead(ctx, userID)
		if err != nil {
			return 0, apperrors.Internal(err)
		}
		return n, nil
	}
	if len(req.NotificationIDs) == 0 {
		return 0, apperrors.Validation("Either notification_ids or all is required")
	}

	ids := make([]primitive.ObjectID, 0, len(req.NotificationIDs))
	for _, hex := range req.NotificationIDs {
		if id, err := primitive.ObjectIDFromHex(hex); err == nil {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return 0, apperrors.Validation("No valid notification ids supplied")
	}

	n, err := s.notifications.MarkNotificationsRead(ctx, userID, ids)
	if err != nil {
		return 0, apperrors.Internal(err)
	}
	return n, nil
}
