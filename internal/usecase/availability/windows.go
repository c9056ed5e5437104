package availability

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-api/internal/audit"
	domain "github.com/BruksfildServices01/booking-api/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-api/internal/domain/identity"
	"github.com/BruksfildServices01/booking-api/internal/httperr"
	"github.com/BruksfildServices01/booking-api/internal/models"
)

type WindowRepository interface {
	GetEmployer(ctx context.Context, id uint) (*models.Employer, error)
	GetEmployerByUserID(ctx context.Context, userID uint) (*models.Employer, error)
	ListWindows(ctx context.Context, employerID uint) ([]models.Availability, error)
	GetWindow(ctx context.Context, id uint) (*models.Availability, error)
	CreateWindow(ctx context.Context, w *models.Availability) error
	SaveWindow(ctx context.Context, w *models.Availability) error
	DeleteWindow(ctx context.Context, id uint) error
}

type WindowInput struct {
	DayOfWeek   int
	StartTime   string
	EndTime     string
	IsAvailable *bool
}

// Windows lets an employer maintain their weekly availability.
type Windows struct {
	repo  WindowRepository
	audit audit.Recorder
	log   logrus.FieldLogger
}

func NewWindows(repo WindowRepository, rec audit.Recorder, log logrus.FieldLogger) *Windows {
	return &Windows{repo: repo, audit: rec, log: log}
}

func (w *Windows) List(ctx context.Context, employerID uint) ([]models.Availability, error) {
	if _, err := w.repo.GetEmployer(ctx, employerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("employer_not_found")
		}
		return nil, err
	}
	return w.repo.ListWindows(ctx, employerID)
}

func (w *Windows) Add(ctx context.Context, p identity.Principal, in WindowInput) (*models.Availability, error) {
	employer, err := w.ownEmployer(ctx, p)
	if err != nil {
		return nil, err
	}

	available := true
	if in.IsAvailable != nil {
		available = *in.IsAvailable
	}

	if err := domain.ValidateWindow(domain.Window{
		DayOfWeek: in.DayOfWeek,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Available: available,
	}); err != nil {
		return nil, err
	}

	row := &models.Availability{
		EmployerID:  employer.ID,
		DayOfWeek:   in.DayOfWeek,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		IsAvailable: available,
	}
	if err := w.repo.CreateWindow(ctx, row); err != nil {
		return nil, err
	}

	w.record(ctx, p, "availability_created", row)
	return row, nil
}

// SetAvailable toggles a window without removing it.
func (w *Windows) SetAvailable(ctx context.Context, p identity.Principal, id uint, available bool) (*models.Availability, error) {
	row, err := w.ownWindow(ctx, p, id)
	if err != nil {
		return nil, err
	}

	row.IsAvailable = available
	if err := w.repo.SaveWindow(ctx, row); err != nil {
		return nil, err
	}

	w.record(ctx, p, "availability_updated", row)
	return row, nil
}

func (w *Windows) Remove(ctx context.Context, p identity.Principal, id uint) error {
	row, err := w.ownWindow(ctx, p, id)
	if err != nil {
		return err
	}

	if err := w.repo.DeleteWindow(ctx, row.ID); err != nil {
		return err
	}

	w.record(ctx, p, "availability_deleted", row)
	return nil
}

func (w *Windows) ownEmployer(ctx context.Context, p identity.Principal) (*models.Employer, error) {
	if err := p.RequireEmployer(); err != nil {
		return nil, err
	}

	employer, err := w.repo.GetEmployerByUserID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("employer_not_found")
		}
		return nil, err
	}
	return employer, nil
}

// ownWindow hides windows of other employers behind a not-found.
func (w *Windows) ownWindow(ctx context.Context, p identity.Principal, id uint) (*models.Availability, error) {
	employer, err := w.ownEmployer(ctx, p)
	if err != nil {
		return nil, err
	}

	row, err := w.repo.GetWindow(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("availability_not_found")
		}
		return nil, err
	}
	if row.EmployerID != employer.ID {
		return nil, httperr.ErrNotFound("availability_not_found")
	}
	return row, nil
}

func (w *Windows) record(ctx context.Context, p identity.Principal, action string, row *models.Availability) {
	if w.audit == nil {
		return
	}
	if err := w.audit.Record(ctx, audit.Event{
		UserID:   &p.UserID,
		Action:   action,
		Entity:   "availability",
		EntityID: &row.ID,
		Metadata: row.Window(),
	}); err != nil {
		w.log.WithError(err).WithField("action", action).Warn("audit write failed")
	}
}
