package appointment_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-api/internal/audit"
	domainNotification "github.com/BruksfildServices01/booking-api/internal/domain/notification"
	"github.com/BruksfildServices01/booking-api/internal/events"
	"github.com/BruksfildServices01/booking-api/internal/infra/repository"
	"github.com/BruksfildServices01/booking-api/internal/logging"
	"github.com/BruksfildServices01/booking-api/internal/models"
	"github.com/BruksfildServices01/booking-api/internal/testutil"
	ucAppointment "github.com/BruksfildServices01/booking-api/internal/usecase/appointment"
	"github.com/BruksfildServices01/booking-api/internal/usecase/availability"
	"github.com/BruksfildServices01/booking-api/internal/usecase/notification"
)

type recordingEvents struct {
	mu   sync.Mutex
	sent []events.AppointmentEvent
}

func (r *recordingEvents) PublishAppointment(_ context.Context, ev events.AppointmentEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, ev)
	return nil
}

func (r *recordingEvents) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.sent))
	for _, ev := range r.sent {
		out = append(out, ev.Type)
	}
	return out
}

type failingNotifier struct{}

func (failingNotifier) Notify(context.Context, uint, domainNotification.Type, string, string, *uint) (*models.Notification, error) {
	return nil, errors.New("notification store down")
}

// txTrackingRepo reports whether a transaction is open while the
// gateway is being called.
type txTrackingRepo struct {
	ucAppointment.Repository
	open bool
}

func (r *txTrackingRepo) WithinTx(ctx context.Context, fn func(tx ucAppointment.Repository) error) error {
	return r.Repository.WithinTx(ctx, func(tx ucAppointment.Repository) error {
		r.open = true
		defer func() { r.open = false }()
		return fn(tx)
	})
}

type fakeGateway struct {
	session      *ucAppointment.CheckoutSession
	confirmation *ucAppointment.PaymentConfirmation
	err          error

	calls    int
	confirms int

	tx         *txTrackingRepo
	calledInTx bool
}

func (g *fakeGateway) Checkout(_ context.Context, _ *models.Appointment) (*ucAppointment.CheckoutSession, error) {
	g.calls++
	if g.tx != nil && g.tx.open {
		g.calledInTx = true
	}
	if g.err != nil {
		return nil, g.err
	}
	return g.session, nil
}

func (g *fakeGateway) Confirm(_ context.Context, _ string) (*ucAppointment.PaymentConfirmation, error) {
	g.confirms++
	if g.tx != nil && g.tx.open {
		g.calledInTx = true
	}
	if g.err != nil {
		return nil, g.err
	}
	return g.confirmation, nil
}

type fixture struct {
	db       *gorm.DB
	repo     *repository.AppointmentGormRepository
	client   testutil.ClientParty
	employer testutil.EmployerParty
	events   *recordingEvents
	gateway  *fakeGateway
	fx       ucAppointment.Effects

	create  *ucAppointment.CreateAppointment
	status  *ucAppointment.UpdateStatus
	review  *ucAppointment.SubmitReview
	payment *ucAppointment.ProcessPayment
	confirm *ucAppointment.ConfirmPayment
	list    *ucAppointment.ListAppointments
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	repo := repository.NewAppointmentGormRepository(db)
	ev := &recordingEvents{}
	tracked := &txTrackingRepo{Repository: repo}
	gw := &fakeGateway{
		session: &ucAppointment.CheckoutSession{Reference: "pref-123", URL: "https://pay.example/pref-123"},
		tx:      tracked,
	}

	fx := ucAppointment.Effects{
		Notifier: notification.NewDispatcher(repository.NewNotificationGormRepository(db), nil, logging.Discard()),
		Audit:    audit.New(db),
		Events:   ev,
		Log:      logging.Discard(),
	}
	checker := availability.NewChecker(repo, testutil.Paris())

	return &fixture{
		db:       db,
		repo:     repo,
		client:   testutil.SeedClient(t, db, "bob"),
		employer: testutil.SeedEmployer(t, db, "ana"),
		events:   ev,
		gateway:  gw,
		fx:       fx,
		create:   ucAppointment.NewCreateAppointment(repo, checker, fx).WithClock(testutil.Now),
		status:   ucAppointment.NewUpdateStatus(repo, fx),
		review:   ucAppointment.NewSubmitReview(repo, fx),
		payment:  ucAppointment.NewProcessPayment(tracked, gw, fx),
		confirm:  ucAppointment.NewConfirmPayment(tracked, gw, fx),
		list:     ucAppointment.NewListAppointments(repo),
	}
}

func (f *fixture) notifications(t *testing.T, userID uint, typ domainNotification.Type) []models.Notification {
	t.Helper()
	var out []models.Notification
	if err := f.db.Where("recipient_id = ? AND notification_type = ?", userID, typ).Find(&out).Error; err != nil {
		t.Fatalf("notifications: %v", err)
	}
	return out
}

func (f *fixture) reload(t *testing.T, id uint) models.Appointment {
	t.Helper()
	var ap models.Appointment
	if err := f.db.First(&ap, id).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	return ap
}
