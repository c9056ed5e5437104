package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/booking-api/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-api/internal/domain/notification"
	"github.com/BruksfildServices01/booking-api/internal/models"
	"github.com/BruksfildServices01/booking-api/internal/usecase/availability"
	"github.com/BruksfildServices01/booking-api/internal/usecase/rating"
)

// ListFilter scopes a listing to one side of the appointment. Exactly one
// of ClientID and EmployerID is set by the usecase.
type ListFilter struct {
	ClientID   *uint
	EmployerID *uint
	Status     *domain.Status
}

type Repository interface {
	availability.Repository
	rating.Repository

	GetClient(ctx context.Context, id uint) (*models.Client, error)
	GetClientByUserID(ctx context.Context, userID uint) (*models.Client, error)
	GetEmployerByUserID(ctx context.Context, userID uint) (*models.Employer, error)
	GetService(ctx context.Context, id uint) (*models.Service, error)

	CreateAppointment(ctx context.Context, ap *models.Appointment) error
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)
	LockAppointment(ctx context.Context, id uint) (*models.Appointment, error)
	UpdateAppointment(ctx context.Context, ap *models.Appointment) error
	ListAppointments(ctx context.Context, f ListFilter) ([]models.Appointment, error)

	// WithinTx runs fn against a repository bound to one transaction.
	WithinTx(ctx context.Context, fn func(tx Repository) error) error
}

type Notifier interface {
	Notify(
		ctx context.Context,
		recipient uint,
		typ notification.Type,
		title string,
		message string,
		appointmentID *uint,
	) (*models.Notification, error)
}

// CheckoutSession is an opened card checkout. Nothing has been charged yet.
type CheckoutSession struct {
	Reference string
	URL       string
}

// PaymentConfirmation is the gateway's view of one payment attempt.
type PaymentConfirmation struct {
	AppointmentID uint
	PaymentID     string
	Approved      bool
}

// PaymentGateway opens card checkouts and reports on the payments made
// through them.
type PaymentGateway interface {
	Checkout(ctx context.Context, ap *models.Appointment) (*CheckoutSession, error)
	Confirm(ctx context.Context, paymentID string) (*PaymentConfirmation, error)
}
