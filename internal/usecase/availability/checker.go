package availability

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/booking-api/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-api/internal/httperr"
	"github.com/BruksfildServices01/booking-api/internal/models"
)

// Repository is the read side the checker needs. Lifecycle repositories
// embed it so the checker can run inside their transactions.
type Repository interface {
	GetEmployer(ctx context.Context, id uint) (*models.Employer, error)
	ListWindows(ctx context.Context, employerID uint) ([]models.Availability, error)
	HasActiveAppointment(ctx context.Context, employerID uint, slot time.Time) (bool, error)
}

// ======================================================
// CHECKER
// ======================================================

type Checker struct {
	repo Repository
	loc  *time.Location
}

// NewChecker evaluates weekly windows in loc.
func NewChecker(repo Repository, loc *time.Location) *Checker {
	if loc == nil {
		loc = time.UTC
	}
	return &Checker{repo: repo, loc: loc}
}

// WithRepository returns a checker bound to repo, typically a
// transaction-scoped repository.
func (c *Checker) WithRepository(repo Repository) *Checker {
	return &Checker{repo: repo, loc: c.loc}
}

// IsAvailable reports whether employer can take a booking at the given
// time. An inactive employer is simply unavailable.
func (c *Checker) IsAvailable(ctx context.Context, employer *models.Employer, at time.Time) (bool, error) {
	if employer == nil || !employer.IsActive {
		return false, nil
	}

	ok, err := c.WithinWindows(ctx, employer.ID, at)
	if err != nil || !ok {
		return false, err
	}

	return c.SlotFree(ctx, employer.ID, at)
}

// WithinWindows checks at against the employer's weekly windows. An
// employer without any window is never bookable.
func (c *Checker) WithinWindows(ctx context.Context, employerID uint, at time.Time) (bool, error) {
	rows, err := c.repo.ListWindows(ctx, employerID)
	if err != nil {
		return false, err
	}

	windows := make([]domain.Window, 0, len(rows))
	for _, r := range rows {
		windows = append(windows, r.Window())
	}

	return domain.IsWithinWindows(windows, at.In(c.loc)), nil
}

// SlotFree checks that no active appointment occupies the slot.
func (c *Checker) SlotFree(ctx context.Context, employerID uint, at time.Time) (bool, error) {
	taken, err := c.repo.HasActiveAppointment(ctx, employerID, domain.NormalizeSlot(at))
	if err != nil {
		return false, err
	}
	return !taken, nil
}

// AvailableAt resolves the employer first; used by the public availability query.
func (c *Checker) AvailableAt(ctx context.Context, employerID uint, at time.Time) (bool, error) {
	employer, err := c.repo.GetEmployer(ctx, employerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, httperr.ErrNotFound("employer_not_found")
		}
		return false, err
	}
	return c.IsAvailable(ctx, employer, at)
}
