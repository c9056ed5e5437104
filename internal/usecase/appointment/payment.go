package appointment

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/booking-api/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-api/internal/domain/identity"
	"github.com/BruksfildServices01/booking-api/internal/domain/notification"
	"github.com/BruksfildServices01/booking-api/internal/events"
	"github.com/BruksfildServices01/booking-api/internal/httperr"
	"github.com/BruksfildServices01/booking-api/internal/models"
	"github.com/BruksfildServices01/booking-api/internal/monitoring"
)

// ======================================================
// PROCESS PAYMENT
// ======================================================

type ProcessPayment struct {
	repo    Repository
	gateway PaymentGateway
	fx      Effects
}

// NewProcessPayment accepts a nil gateway; card payments are then taken at
// the counter and settle immediately, like cash.
func NewProcessPayment(repo Repository, gateway PaymentGateway, fx Effects) *ProcessPayment {
	return &ProcessPayment{repo: repo, gateway: gateway, fx: fx}
}

// Execute records the client's payment. Cash, and card without a gateway,
// settle at once. Card with a gateway only opens a checkout: the reference
// and URL are stored and is_paid stays false until ConfirmPayment sees the
// gateway approve it. The amount is the one fixed at creation; repeated
// calls never open a second checkout or settle twice.
func (uc *ProcessPayment) Execute(
	ctx context.Context,
	p identity.Principal,
	appointmentID uint,
	rawMethod string,
) (*models.Appointment, error) {

	method, err := domain.ParsePaymentMethod(rawMethod)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 1. Unlocked pre-check; the gateway is never called
	//    while a row lock is held.
	// --------------------------------------------------
	current, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("appointment_not_found")
		}
		return nil, err
	}
	if err := payable(ctx, uc.repo, p, current); err != nil {
		return nil, err
	}
	if current.IsPaid {
		return current, nil
	}

	online := method == domain.PaymentCard && uc.gateway != nil

	var session *CheckoutSession
	if online && current.PaymentReference == "" {
		session, err = uc.gateway.Checkout(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("payment checkout: %w", err)
		}
	}

	// --------------------------------------------------
	// 2. Locked write
	// --------------------------------------------------
	var (
		ap      *models.Appointment
		settled bool
		opened  bool
	)

	err = uc.repo.WithinTx(ctx, func(tx Repository) error {
		ap, err = lockAppointment(ctx, tx, appointmentID)
		if err != nil {
			return err
		}
		if err := payable(ctx, tx, p, ap); err != nil {
			return err
		}
		if ap.IsPaid {
			return nil
		}

		ap.PaymentMethod = method

		if online {
			if ap.PaymentReference == "" && session != nil {
				ap.PaymentReference = session.Reference
				ap.CheckoutURL = session.URL
				opened = true
			}
			return tx.UpdateAppointment(ctx, ap)
		}

		ap.IsPaid = true
		settled = true
		return tx.UpdateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3. After commit
	// --------------------------------------------------
	switch {
	case settled:
		announcePaid(ctx, uc.repo, uc.fx, p, ap, nil)
	case opened:
		uc.fx.record(ctx, p, "appointment_checkout_opened", ap, map[string]any{
			"payment_reference": ap.PaymentReference,
			"amount":            ap.TotalAmount.StringFixed(2),
		})
	}

	return ap, nil
}

// payable allows only the owning client, and only while the appointment
// has not been refused or called off.
func payable(ctx context.Context, repo Repository, p identity.Principal, ap *models.Appointment) error {
	party, err := resolveParty(ctx, repo, p, ap)
	if err != nil {
		return err
	}
	if party != domain.PartyClient {
		return httperr.ErrForbidden("only_client_can_pay")
	}
	return domain.CanPay(ap.Status)
}

// ======================================================
// CONFIRM PAYMENT (gateway callback)
// ======================================================

type ConfirmPayment struct {
	repo    Repository
	gateway PaymentGateway
	fx      Effects
}

func NewConfirmPayment(repo Repository, gateway PaymentGateway, fx Effects) *ConfirmPayment {
	return &ConfirmPayment{repo: repo, gateway: gateway, fx: fx}
}

// Execute asks the gateway about paymentID and settles the appointment it
// belongs to once approved. The callback payload itself is never trusted.
// A payment that is not approved leaves the appointment untouched.
func (uc *ConfirmPayment) Execute(ctx context.Context, paymentID string) (*models.Appointment, error) {
	if uc.gateway == nil {
		return nil, httperr.ErrNotFound("payment_gateway_disabled")
	}

	conf, err := uc.gateway.Confirm(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("payment confirm: %w", err)
	}

	var (
		ap      *models.Appointment
		settled bool
	)

	err = uc.repo.WithinTx(ctx, func(tx Repository) error {
		ap, err = lockAppointment(ctx, tx, conf.AppointmentID)
		if err != nil {
			return err
		}
		if ap.IsPaid || !conf.Approved {
			return nil
		}

		ap.PaymentMethod = domain.PaymentCard
		ap.IsPaid = true
		settled = true
		return tx.UpdateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	if settled {
		if err := domain.CanPay(ap.Status); err != nil {
			uc.fx.logger().WithField("appointment_id", ap.ID).
				Warn("payment approved for an appointment that is no longer payable")
		}
		announcePaid(ctx, uc.repo, uc.fx, identity.Principal{}, ap, map[string]any{
			"payment_id": conf.PaymentID,
		})
	}

	return ap, nil
}

// ======================================================
// SHARED
// ======================================================

func announcePaid(
	ctx context.Context,
	repo Repository,
	fx Effects,
	p identity.Principal,
	ap *models.Appointment,
	extra map[string]any,
) {
	monitoring.PaymentsProcessed.WithLabelValues(string(ap.PaymentMethod)).Inc()

	_, employerUser, err := recipients(ctx, repo, ap)
	if err != nil {
		fx.logger().WithError(err).WithField("appointment_id", ap.ID).Error("notification recipients lookup failed")
	} else {
		fx.notify(ctx,
			employerUser,
			notification.TypePaymentReceived,
			"Payment received",
			fmt.Sprintf("Payment of %s by %s received.", ap.TotalAmount.StringFixed(2), ap.PaymentMethod),
			ap,
		)
	}

	meta := map[string]any{
		"payment_method": ap.PaymentMethod,
		"amount":         ap.TotalAmount.StringFixed(2),
	}
	for k, v := range extra {
		meta[k] = v
	}
	fx.record(ctx, p, "appointment_paid", ap, meta)
	fx.publish(ctx, events.AppointmentPaid, ap, "")
}
