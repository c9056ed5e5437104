// Package events holds the messages emitted after a lifecycle change has
// committed, and the publisher contracts the usecases depend on.
package events

import (
	"context"
	"time"
)

const (
	AppointmentCreated       = "appointment.created"
	AppointmentStatusChanged = "appointment.status_changed"
	AppointmentReviewed      = "appointment.reviewed"
	AppointmentPaid          = "appointment.paid"
)

type AppointmentEvent struct {
	Type          string    `json:"type"`
	AppointmentID uint      `json:"appointment_id"`
	ClientID      uint      `json:"client_id"`
	EmployerID    uint      `json:"employer_id"`
	Status        string    `json:"status"`
	PreviousState string    `json:"previous_status,omitempty"`
	Date          time.Time `json:"date"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type NotificationMessage struct {
	NotificationID uint      `json:"notification_id"`
	RecipientID    uint      `json:"recipient_id"`
	Type           string    `json:"notification_type"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	AppointmentID  *uint     `json:"appointment_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type AppointmentPublisher interface {
	PublishAppointment(ctx context.Context, ev AppointmentEvent) error
}

type NotificationPublisher interface {
	PublishNotification(ctx context.Context, msg NotificationMessage) error
}

// Noop satisfies both publishers when no broker is configured.
type Noop struct{}

func (Noop) PublishAppointment(context.Context, AppointmentEvent) error     { return nil }
func (Noop) PublishNotification(context.Context, NotificationMessage) error { return nil }

var (
	_ AppointmentPublisher  = Noop{}
	_ NotificationPublisher = Noop{}
)
