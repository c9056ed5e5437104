package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/booking-api/internal/domain/appointment"
)

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID uint    `gorm:"not null;index" json:"client_id"`
	Client   *Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"client,omitempty"`

	EmployerID uint      `gorm:"not null;index" json:"employer_id"`
	Employer   *Employer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"employer,omitempty"`

	ServiceID *uint    `json:"service_id"`
	Service   *Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service,omitempty"`

	Date        time.Time          `gorm:"not null" json:"date"`
	Status      appointment.Status `gorm:"size:20;not null;default:'pending'" json:"status"`
	Description string             `gorm:"type:text" json:"description"`

	PaymentMethod    appointment.PaymentMethod `gorm:"size:20;not null;default:'cash'" json:"payment_method"`
	TotalAmount      decimal.Decimal           `gorm:"type:numeric(10,2);not null;default:0" json:"total_amount"`
	IsPaid           bool                      `gorm:"default:false" json:"is_paid"`
	PaymentReference string                    `gorm:"size:100" json:"payment_reference,omitempty"`
	CheckoutURL      string                    `gorm:"size:255" json:"checkout_url,omitempty"`

	Feedback *string `gorm:"type:text" json:"feedback"`
	Rating   *int    `json:"rating"`

	AcceptedAt  *time.Time `json:"accepted_at"`
	RejectedAt  *time.Time `json:"rejected_at"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	ReviewedAt  *time.Time `json:"reviewed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
