package appointment

import (
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/booking-api/internal/httperr"
)

type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentCash PaymentMethod = "cash"
)

const DefaultPaymentMethod = PaymentCash

func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	switch PaymentMethod(raw) {
	case PaymentCard, PaymentCash:
		return PaymentMethod(raw), nil
	default:
		return "", httperr.ErrField("invalid_payment_method", "payment_method", "must be one of: card, cash")
	}
}

// CanPay blocks payments on appointments that were refused or called off.
func CanPay(current Status) error {
	if current == StatusRejected || current == StatusCancelled {
		return httperr.ErrIllegalState("appointment_not_payable")
	}
	return nil
}

// NormalizeAmount defaults a missing amount to zero and rejects negatives.
func NormalizeAmount(amount *decimal.Decimal) (decimal.Decimal, error) {
	if amount == nil {
		return decimal.Zero, nil
	}
	if amount.IsNegative() {
		return decimal.Zero, httperr.ErrField("invalid_amount", "total_amount", "must be non-negative")
	}
	return amount.Round(2), nil
}
