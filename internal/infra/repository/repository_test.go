package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/booking-api/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-api/internal/httperr"
	"github.com/BruksfildServices01/booking-api/internal/models"
	"github.com/BruksfildServices01/booking-api/internal/testutil"
	ucAppointment "github.com/BruksfildServices01/booking-api/internal/usecase/appointment"
)

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{gorm.ErrDuplicatedKey, true},
		{fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), true},
		{&pgconn.PgError{Code: "23505"}, true},
		{&pgconn.PgError{Code: "23P01"}, true},
		{&pgconn.PgError{Code: "23503"}, false},
		{errors.New("boom"), false},
		{nil, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, isUniqueViolation(tc.err), "%v", tc.err)
	}
}

func TestHasActiveAppointment_IgnoresClosedStatuses(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAppointmentGormRepository(db)
	ctx := context.Background()

	client := testutil.SeedClient(t, db, "ana")
	employer := testutil.SeedEmployer(t, db, "bob")
	slot := domain.NormalizeSlot(testutil.Slot())

	testutil.SeedAppointment(t, db, client, employer, domain.StatusRejected, slot)
	testutil.SeedAppointment(t, db, client, employer, domain.StatusCancelled, slot)

	taken, err := repo.HasActiveAppointment(ctx, employer.Employer.ID, slot)
	require.NoError(t, err)
	assert.False(t, taken)

	testutil.SeedAppointment(t, db, client, employer, domain.StatusAccepted, slot)

	taken, err = repo.HasActiveAppointment(ctx, employer.Employer.ID, slot)
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestCreateAppointment_ActiveSlotIndexMapsToConflict(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAppointmentGormRepository(db)

	client := testutil.SeedClient(t, db, "ana")
	employer := testutil.SeedEmployer(t, db, "bob")
	testutil.SeedAppointment(t, db, client, employer, domain.StatusPending, testutil.Slot())

	err := repo.CreateAppointment(context.Background(), &models.Appointment{
		ClientID:      client.Client.ID,
		EmployerID:    employer.Employer.ID,
		Date:          domain.NormalizeSlot(testutil.Slot()),
		Status:        domain.StatusPending,
		PaymentMethod: domain.PaymentCash,
	})
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "slot_unavailable"))
}

func TestListAppointments_FiltersAndOrder(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAppointmentGormRepository(db)
	ctx := context.Background()

	ana := testutil.SeedClient(t, db, "ana")
	carla := testutil.SeedClient(t, db, "carla")
	employer := testutil.SeedEmployer(t, db, "bob")

	first := testutil.SeedAppointment(t, db, ana, employer, domain.StatusPending, testutil.Slot())
	later := testutil.SeedAppointment(t, db, ana, employer, domain.StatusCompleted, testutil.Slot().Add(7*24*time.Hour))
	testutil.SeedAppointment(t, db, carla, employer, domain.StatusPending, testutil.Slot().Add(time.Hour))

	got, err := repo.ListAppointments(ctx, ucAppointment.ListFilter{ClientID: &ana.Client.ID})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, later.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
	assert.Equal(t, "ana", got[0].Client.Name)
	assert.Equal(t, "bob", got[0].Employer.Name)

	pending := domain.StatusPending
	got, err = repo.ListAppointments(ctx, ucAppointment.ListFilter{EmployerID: &employer.Employer.ID, Status: &pending})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestNotifications_NewestFirstAndUnreadCount(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewNotificationGormRepository(db)
	ctx := context.Background()

	client := testutil.SeedClient(t, db, "ana")
	uid := client.User.ID

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.CreateNotification(ctx, &models.Notification{
			RecipientID: uid,
			Type:        "appointment_accepted",
			Title:       fmt.Sprintf("n%d", i),
		}))
	}

	all, err := repo.ListNotifications(ctx, uid, false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "n2", all[0].Title)

	require.NoError(t, repo.MarkNotificationRead(ctx, all[0].ID))

	n, err := repo.CountUnread(ctx, uid)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, err = repo.GetNotificationForRecipient(ctx, all[0].ID, uid+100)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestInactiveFlagsSurviveCreate(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAppointmentGormRepository(db)
	ctx := context.Background()

	u := models.User{Email: "off@employer.test", Name: "off", Role: "employer"}
	require.NoError(t, db.Create(&u).Error)
	emp := models.Employer{UserID: u.ID, Name: "off", IsActive: false}
	require.NoError(t, db.Create(&emp).Error)

	svc := models.Service{Name: "Retired", IsActive: false}
	require.NoError(t, db.Create(&svc).Error)

	gotEmp, err := repo.GetEmployer(ctx, emp.ID)
	require.NoError(t, err)
	assert.False(t, gotEmp.IsActive)

	gotSvc, err := repo.GetService(ctx, svc.ID)
	require.NoError(t, err)
	assert.False(t, gotSvc.IsActive)
}
