package payment

import (
	"context"
	"fmt"
	"strconv"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"

	"github.com/BruksfildServices01/booking-api/internal/models"
	ucAppointment "github.com/BruksfildServices01/booking-api/internal/usecase/appointment"
)

const statusApproved = "approved"

// MercadoPago opens checkout preferences for card payments and looks up
// the payments made through them. The appointment id travels as the
// preference's external reference.
type MercadoPago struct {
	preferences preference.Client
	payments    mppayment.Client
}

var _ ucAppointment.PaymentGateway = (*MercadoPago)(nil)

func NewMercadoPago(accessToken string) (*MercadoPago, error) {
	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	return &MercadoPago{
		preferences: preference.NewClient(cfg),
		payments:    mppayment.NewClient(cfg),
	}, nil
}

func (m *MercadoPago) Checkout(ctx context.Context, ap *models.Appointment) (*ucAppointment.CheckoutSession, error) {
	amount, _ := ap.TotalAmount.Float64()

	title := "Appointment #" + strconv.FormatUint(uint64(ap.ID), 10)
	if ap.Service != nil && ap.Service.Name != "" {
		title = ap.Service.Name
	}

	res, err := m.preferences.Create(ctx, preference.Request{
		Items: []preference.ItemRequest{
			{
				Title:     title,
				Quantity:  1,
				UnitPrice: amount,
			},
		},
		ExternalReference: strconv.FormatUint(uint64(ap.ID), 10),
	})
	if err != nil {
		return nil, fmt.Errorf("mercadopago preference: %w", err)
	}

	return &ucAppointment.CheckoutSession{Reference: res.ID, URL: res.InitPoint}, nil
}

// Confirm fetches the payment from MercadoPago itself; webhook payloads
// only carry the id.
func (m *MercadoPago) Confirm(ctx context.Context, paymentID string) (*ucAppointment.PaymentConfirmation, error) {
	id, err := strconv.Atoi(paymentID)
	if err != nil {
		return nil, fmt.Errorf("mercadopago payment id %q: %w", paymentID, err)
	}

	res, err := m.payments.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("mercadopago payment: %w", err)
	}

	appointmentID, err := strconv.ParseUint(res.ExternalReference, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("mercadopago payment %d: external reference %q: %w", res.ID, res.ExternalReference, err)
	}

	return &ucAppointment.PaymentConfirmation{
		AppointmentID: uint(appointmentID),
		PaymentID:     strconv.Itoa(res.ID),
		Approved:      res.Status == statusApproved,
	}, nil
}
