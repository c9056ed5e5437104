package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type AppointmentListDTO struct {
	ID            uint            `json:"id"`
	Date          time.Time       `json:"date"`
	Status        string          `json:"status"`
	ClientID      uint            `json:"client_id"`
	ClientName    string          `json:"client_name"`
	EmployerID    uint            `json:"employer_id"`
	EmployerName  string          `json:"employer_name"`
	ServiceName   string          `json:"service_name,omitempty"`
	PaymentMethod string          `json:"payment_method"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	IsPaid        bool            `json:"is_paid"`
	Rating        *int            `json:"rating,omitempty"`
}
