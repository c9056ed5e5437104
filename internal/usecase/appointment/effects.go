package appointment

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/booking-api/internal/audit"
	"github.com/BruksfildServices01/booking-api/internal/domain/identity"
	"github.com/BruksfildServices01/booking-api/internal/domain/notification"
	"github.com/BruksfildServices01/booking-api/internal/events"
	"github.com/BruksfildServices01/booking-api/internal/models"
)

// Effects are the after-commit side effects of a lifecycle operation.
// Every one of them is best-effort: failures are logged, never returned.
type Effects struct {
	Notifier Notifier
	Audit    audit.Recorder
	Events   events.AppointmentPublisher
	Log      logrus.FieldLogger
}

func (fx Effects) logger() logrus.FieldLogger {
	if fx.Log == nil {
		return logrus.StandardLogger()
	}
	return fx.Log
}

func (fx Effects) notify(
	ctx context.Context,
	recipient uint,
	typ notification.Type,
	title string,
	message string,
	ap *models.Appointment,
) {
	if fx.Notifier == nil {
		return
	}
	if _, err := fx.Notifier.Notify(ctx, recipient, typ, title, message, &ap.ID); err != nil {
		fx.logger().WithError(err).WithFields(logrus.Fields{
			"appointment_id": ap.ID,
			"type":           typ,
		}).Error("notification failed")
	}
}

// record writes an audit row. A zero principal is the system itself.
func (fx Effects) record(ctx context.Context, p identity.Principal, action string, ap *models.Appointment, meta any) {
	if fx.Audit == nil {
		return
	}
	var userID *uint
	if p.UserID != 0 {
		userID = &p.UserID
	}
	if err := fx.Audit.Record(ctx, audit.Event{
		UserID:   userID,
		Action:   action,
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: meta,
	}); err != nil {
		fx.logger().WithError(err).WithField("action", action).Warn("audit write failed")
	}
}

func (fx Effects) publish(ctx context.Context, typ string, ap *models.Appointment, previous string) {
	if fx.Events == nil {
		return
	}
	if err := fx.Events.PublishAppointment(ctx, events.AppointmentEvent{
		Type:          typ,
		AppointmentID: ap.ID,
		ClientID:      ap.ClientID,
		EmployerID:    ap.EmployerID,
		Status:        string(ap.Status),
		PreviousState: previous,
		Date:          ap.Date,
		OccurredAt:    time.Now().UTC(),
	}); err != nil {
		fx.logger().WithError(err).WithFields(logrus.Fields{
			"appointment_id": ap.ID,
			"event":          typ,
		}).Warn("event publish failed")
	}
}
