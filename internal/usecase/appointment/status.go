package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/booking-api/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-api/internal/domain/identity"
	"github.com/BruksfildServices01/booking-api/internal/domain/notification"
	"github.com/BruksfildServices01/booking-api/internal/events"
	"github.com/BruksfildServices01/booking-api/internal/models"
	"github.com/BruksfildServices01/booking-api/internal/monitoring"
)

type UpdateStatus struct {
	repo Repository
	fx   Effects
	now  func() time.Time
}

func NewUpdateStatus(repo Repository, fx Effects) *UpdateStatus {
	return &UpdateStatus{repo: repo, fx: fx, now: time.Now}
}

// Execute moves the appointment along one edge of the status graph. The
// graph is checked before the caller's role, so an impossible edge is an
// illegal-state error for everyone.
func (uc *UpdateStatus) Execute(
	ctx context.Context,
	p identity.Principal,
	appointmentID uint,
	rawStatus string,
) (*models.Appointment, error) {

	next, err := domain.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	var (
		ap       *models.Appointment
		previous domain.Status
	)

	err = uc.repo.WithinTx(ctx, func(tx Repository) error {
		ap, err = lockAppointment(ctx, tx, appointmentID)
		if err != nil {
			return err
		}

		party, err := resolveParty(ctx, tx, p, ap)
		if err != nil {
			return err
		}
		if err := domain.CanTransition(ap.Status, next); err != nil {
			return err
		}
		if err := domain.CanRequest(party, next); err != nil {
			return err
		}

		previous = ap.Status
		ap.Status = next
		stampTransition(ap, next, uc.now().UTC())

		return tx.UpdateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	monitoring.StatusTransitions.WithLabelValues(string(next)).Inc()

	uc.notifyTransition(ctx, ap)
	uc.fx.record(ctx, p, "appointment_"+string(next), ap, map[string]any{
		"from": previous,
		"to":   next,
	})
	uc.fx.publish(ctx, events.AppointmentStatusChanged, ap, string(previous))

	return ap, nil
}

func (uc *UpdateStatus) notifyTransition(ctx context.Context, ap *models.Appointment) {
	var (
		typ      notification.Type
		title    string
		toClient bool
	)

	switch ap.Status {
	case domain.StatusAccepted:
		typ, title, toClient = notification.TypeAppointmentAccepted, "Appointment accepted", true
	case domain.StatusRejected:
		typ, title, toClient = notification.TypeAppointmentRejected, "Appointment rejected", true
	case domain.StatusCancelled:
		typ, title = notification.TypeAppointmentCancelled, "Appointment cancelled"
	default:
		return
	}

	clientUser, employerUser, err := recipients(ctx, uc.repo, ap)
	if err != nil {
		uc.fx.logger().WithError(err).WithField("appointment_id", ap.ID).Error("notification recipients lookup failed")
		return
	}

	recipient := employerUser
	if toClient {
		recipient = clientUser
	}

	uc.fx.notify(ctx, recipient, typ, title,
		"Your appointment on "+ap.Date.Format(messageDateLayout)+" is now "+string(ap.Status)+".",
		ap,
	)
}

func stampTransition(ap *models.Appointment, next domain.Status, at time.Time) {
	switch next {
	case domain.StatusAccepted:
		ap.AcceptedAt = &at
	case domain.StatusRejected:
		ap.RejectedAt = &at
	case domain.StatusInProgress:
		ap.StartedAt = &at
	case domain.StatusCompleted:
		ap.CompletedAt = &at
	case domain.StatusCancelled:
		ap.CancelledAt = &at
	}
}
