package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-api/internal/domain/identity"
	domain "github.com/BruksfildServices01/booking-api/internal/domain/notification"
	"github.com/BruksfildServices01/booking-api/internal/events"
	"github.com/BruksfildServices01/booking-api/internal/httperr"
	"github.com/BruksfildServices01/booking-api/internal/models"
	"github.com/BruksfildServices01/booking-api/internal/monitoring"
)

type Repository interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, recipientID uint, unreadOnly bool) ([]models.Notification, error)
	GetNotificationForRecipient(ctx context.Context, id, recipientID uint) (*models.Notification, error)
	MarkNotificationRead(ctx context.Context, id uint) error
	CountUnread(ctx context.Context, recipientID uint) (int64, error)
}

// ======================================================
// DISPATCHER
// ======================================================

type Dispatcher struct {
	repo      Repository
	publisher events.NotificationPublisher
	log       logrus.FieldLogger
}

func NewDispatcher(repo Repository, publisher events.NotificationPublisher, log logrus.FieldLogger) *Dispatcher {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Dispatcher{repo: repo, publisher: publisher, log: log}
}

// Notify records a message for recipient. A zero recipient or unknown type
// is a caller bug and is returned as a plain error.
func (d *Dispatcher) Notify(
	ctx context.Context,
	recipient uint,
	typ domain.Type,
	title string,
	message string,
	appointmentID *uint,
) (*models.Notification, error) {

	if recipient == 0 {
		return nil, fmt.Errorf("notify: missing recipient")
	}
	if !typ.Valid() {
		return nil, fmt.Errorf("notify: unknown type %q", typ)
	}

	n := &models.Notification{
		RecipientID:   recipient,
		Type:          typ,
		Title:         title,
		Message:       message,
		AppointmentID: appointmentID,
	}
	if err := d.repo.CreateNotification(ctx, n); err != nil {
		return nil, fmt.Errorf("notify: %w", err)
	}

	monitoring.NotificationsCreated.WithLabelValues(string(typ)).Inc()

	if err := d.publisher.PublishNotification(ctx, events.NotificationMessage{
		NotificationID: n.ID,
		RecipientID:    n.RecipientID,
		Type:           string(n.Type),
		Title:          n.Title,
		Message:        n.Message,
		AppointmentID:  n.AppointmentID,
		CreatedAt:      n.CreatedAt,
	}); err != nil {
		d.log.WithError(err).WithField("notification_id", n.ID).Warn("notification fan-out failed")
	}

	return n, nil
}

// List returns the principal's notifications, newest first.
func (d *Dispatcher) List(ctx context.Context, p identity.Principal, unreadOnly bool) ([]models.Notification, error) {
	return d.repo.ListNotifications(ctx, p.UserID, unreadOnly)
}

// MarkRead is idempotent. Someone else's notification reads as not found.
func (d *Dispatcher) MarkRead(ctx context.Context, p identity.Principal, id uint) (*models.Notification, error) {
	n, err := d.repo.GetNotificationForRecipient(ctx, id, p.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("notification_not_found")
		}
		return nil, err
	}

	if n.IsRead {
		return n, nil
	}

	if err := d.repo.MarkNotificationRead(ctx, n.ID); err != nil {
		return nil, err
	}
	n.IsRead = true
	return n, nil
}

func (d *Dispatcher) UnreadCount(ctx context.Context, p identity.Principal) (int64, error) {
	return d.repo.CountUnread(ctx, p.UserID)
}
