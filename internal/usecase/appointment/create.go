package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/booking-api/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-api/internal/domain/identity"
	"github.com/BruksfildServices01/booking-api/internal/domain/notification"
	"github.com/BruksfildServices01/booking-api/internal/events"
	"github.com/BruksfildServices01/booking-api/internal/httperr"
	"github.com/BruksfildServices01/booking-api/internal/models"
	"github.com/BruksfildServices01/booking-api/internal/monitoring"
	"github.com/BruksfildServices01/booking-api/internal/usecase/availability"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	// ClientID is optional; when present it must be the caller's own client.
	ClientID   *uint
	EmployerID uint
	ServiceID  *uint

	Date        time.Time
	Description string

	PaymentMethod string
	TotalAmount   *decimal.Decimal
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo    Repository
	checker *availability.Checker
	fx      Effects
	now     func() time.Time
}

func NewCreateAppointment(
	repo Repository,
	checker *availability.Checker,
	fx Effects,
) *CreateAppointment {
	return &CreateAppointment{
		repo:    repo,
		checker: checker,
		fx:      fx,
		now:     time.Now,
	}
}

// WithClock replaces the time source used for the future-date rule.
func (uc *CreateAppointment) WithClock(now func() time.Time) *CreateAppointment {
	uc.now = now
	return uc
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	p identity.Principal,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1. Date strictly in the future, on the slot grid
	// --------------------------------------------------
	slot := domain.NormalizeSlot(in.Date)
	if !slot.After(uc.now()) {
		return nil, httperr.ErrField("date_not_in_future", "date", "must be in the future")
	}

	// --------------------------------------------------
	// 2. Client (from the principal)
	// --------------------------------------------------
	if err := p.RequireClient(); err != nil {
		return nil, err
	}

	client, err := uc.repo.GetClientByUserID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("client_not_found")
		}
		return nil, err
	}
	if in.ClientID != nil && *in.ClientID != client.ID {
		return nil, httperr.ErrForbidden("client_mismatch")
	}

	// --------------------------------------------------
	// 3. Employer and service
	// --------------------------------------------------
	employer, err := uc.repo.GetEmployer(ctx, in.EmployerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("employer_not_found")
		}
		return nil, err
	}
	if !employer.IsActive {
		return nil, httperr.ErrConflict("employer_inactive")
	}

	if in.ServiceID != nil {
		svc, err := uc.repo.GetService(ctx, *in.ServiceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, httperr.ErrNotFound("service_not_found")
			}
			return nil, err
		}
		if !svc.IsActive {
			return nil, httperr.ErrField("service_inactive", "service", "service is not active")
		}
	}

	// --------------------------------------------------
	// 4. Payment fields
	// --------------------------------------------------
	method := domain.DefaultPaymentMethod
	if in.PaymentMethod != "" {
		if method, err = domain.ParsePaymentMethod(in.PaymentMethod); err != nil {
			return nil, err
		}
	}

	amount, err := domain.NormalizeAmount(in.TotalAmount)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5. Availability check + insert, one transaction
	// --------------------------------------------------
	ap := &models.Appointment{
		ClientID:      client.ID,
		EmployerID:    employer.ID,
		ServiceID:     in.ServiceID,
		Date:          slot,
		Status:        domain.InitialStatus(),
		Description:   in.Description,
		PaymentMethod: method,
		TotalAmount:   amount,
	}

	err = uc.repo.WithinTx(ctx, func(tx Repository) error {
		locked, err := tx.LockEmployer(ctx, employer.ID)
		if err != nil {
			return err
		}

		ok, err := uc.checker.WithRepository(tx).IsAvailable(ctx, locked, ap.Date)
		if err != nil {
			return err
		}
		if !ok {
			return httperr.ErrConflict("slot_unavailable")
		}

		return tx.CreateAppointment(ctx, ap)
	})
	if err != nil {
		if httperr.KindOf(err) == httperr.KindConflict {
			monitoring.SlotConflicts.Inc()
		}
		return nil, err
	}

	monitoring.AppointmentsCreated.Inc()

	// --------------------------------------------------
	// 6. After commit
	// --------------------------------------------------
	uc.fx.notify(ctx,
		employer.UserID,
		notification.TypeAppointmentRequest,
		"New appointment request",
		fmt.Sprintf("%s requested an appointment on %s.", client.Name, ap.Date.Format(messageDateLayout)),
		ap,
	)
	uc.fx.record(ctx, p, "appointment_created", ap, map[string]any{
		"employer_id": employer.ID,
		"date":        ap.Date,
	})
	uc.fx.publish(ctx, events.AppointmentCreated, ap, "")

	return ap, nil
}
