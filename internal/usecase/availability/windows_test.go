package availability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/booking-api/internal/audit"
	"github.com/BruksfildServices01/booking-api/internal/httperr"
	"github.com/BruksfildServices01/booking-api/internal/infra/repository"
	"github.com/BruksfildServices01/booking-api/internal/logging"
	"github.com/BruksfildServices01/booking-api/internal/models"
	"github.com/BruksfildServices01/booking-api/internal/testutil"
	"github.com/BruksfildServices01/booking-api/internal/usecase/availability"
)

func newWindows(t *testing.T) (*availability.Windows, testutil.EmployerParty) {
	t.Helper()
	db := testutil.NewDB(t)
	emp := testutil.SeedEmployer(t, db, "ana")
	w := availability.NewWindows(
		repository.NewAvailabilityGormRepository(db),
		audit.New(db),
		logging.Discard(),
	)
	return w, emp
}

func TestWindows_AddListRemove(t *testing.T) {
	w, emp := newWindows(t)
	ctx := context.Background()

	added, err := w.Add(ctx, emp.Principal, availability.WindowInput{
		DayOfWeek: int(time.Tuesday),
		StartTime: "10:00",
		EndTime:   "12:00",
	})
	require.NoError(t, err)
	assert.True(t, added.IsAvailable)
	assert.Equal(t, emp.Employer.ID, added.EmployerID)

	list, err := w.List(ctx, emp.Employer.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, w.Remove(ctx, emp.Principal, added.ID))

	list, err = w.List(ctx, emp.Employer.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestWindows_AddUnavailable(t *testing.T) {
	w, emp := newWindows(t)
	off := false

	added, err := w.Add(context.Background(), emp.Principal, availability.WindowInput{
		DayOfWeek:   int(time.Sunday),
		StartTime:   "10:00",
		EndTime:     "12:00",
		IsAvailable: &off,
	})
	require.NoError(t, err)
	assert.False(t, added.IsAvailable)
}

func TestWindows_DuplicateIsConflict(t *testing.T) {
	w, emp := newWindows(t)

	_, err := w.Add(context.Background(), emp.Principal, availability.WindowInput{
		DayOfWeek: int(time.Monday),
		StartTime: "09:00",
		EndTime:   "17:00",
	})
	assert.Equal(t, httperr.KindConflict, httperr.KindOf(err))
}

func TestWindows_Validation(t *testing.T) {
	w, emp := newWindows(t)

	_, err := w.Add(context.Background(), emp.Principal, availability.WindowInput{
		DayOfWeek: 9,
		StartTime: "18:00",
		EndTime:   "08:00",
	})
	require.Error(t, err)

	var be httperr.BusinessError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, httperr.KindValidation, be.Kind)
	assert.Contains(t, be.Fields, "day_of_week")
	assert.Contains(t, be.Fields, "end_time")
}

func TestWindows_OnlyOwnerCanChange(t *testing.T) {
	db := testutil.NewDB(t)
	ana := testutil.SeedEmployer(t, db, "ana")
	other := testutil.SeedEmployer(t, db, "carl")
	cli := testutil.SeedClient(t, db, "bob")

	w := availability.NewWindows(repository.NewAvailabilityGormRepository(db), audit.New(db), logging.Discard())
	ctx := context.Background()

	var anaWindow models.Availability
	require.NoError(t, db.Where("employer_id = ?", ana.Employer.ID).First(&anaWindow).Error)

	_, err := w.SetAvailable(ctx, other.Principal, anaWindow.ID, false)
	assert.Equal(t, httperr.KindNotFound, httperr.KindOf(err))

	err = w.Remove(ctx, other.Principal, anaWindow.ID)
	assert.Equal(t, httperr.KindNotFound, httperr.KindOf(err))

	_, err = w.Add(ctx, cli.Principal, availability.WindowInput{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00"})
	assert.Equal(t, httperr.KindForbidden, httperr.KindOf(err))

	updated, err := w.SetAvailable(ctx, ana.Principal, anaWindow.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsAvailable)
}

func TestWindows_ListUnknownEmployer(t *testing.T) {
	w, _ := newWindows(t)

	_, err := w.List(context.Background(), 4242)
	assert.Equal(t, httperr.KindNotFound, httperr.KindOf(err))
}

func TestWindows_WritesAuditRows(t *testing.T) {
	db := testutil.NewDB(t)
	emp := testutil.SeedEmployer(t, db, "ana")
	w := availability.NewWindows(repository.NewAvailabilityGormRepository(db), audit.New(db), logging.Discard())

	_, err := w.Add(context.Background(), emp.Principal, availability.WindowInput{
		DayOfWeek: int(time.Friday),
		StartTime: "09:00",
		EndTime:   "12:00",
	})
	require.NoError(t, err)

	var rows []models.AuditLog
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "availability_created", rows[0].Action)
	assert.Equal(t, emp.User.ID, *rows[0].UserID)
}
