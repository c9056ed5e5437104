package appointment

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/booking-api/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-api/internal/domain/identity"
	"github.com/BruksfildServices01/booking-api/internal/httperr"
	"github.com/BruksfildServices01/booking-api/internal/models"
)

// resolveParty maps the principal onto the side of ap it represents.
// Principals unrelated to ap are forbidden.
func resolveParty(
	ctx context.Context,
	repo Repository,
	p identity.Principal,
	ap *models.Appointment,
) (domain.Party, error) {

	switch p.Role {
	case identity.RoleClient:
		client, err := repo.GetClientByUserID(ctx, p.UserID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", err
		}
		if err == nil && client.ID == ap.ClientID {
			return domain.PartyClient, nil
		}

	case identity.RoleEmployer:
		employer, err := repo.GetEmployerByUserID(ctx, p.UserID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", err
		}
		if err == nil && employer.ID == ap.EmployerID {
			return domain.PartyEmployer, nil
		}
	}

	return "", httperr.ErrForbidden("not_appointment_party")
}

func lockAppointment(ctx context.Context, repo Repository, id uint) (*models.Appointment, error) {
	ap, err := repo.LockAppointment(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("appointment_not_found")
		}
		return nil, err
	}
	return ap, nil
}

// recipients resolves the user ids behind both sides of ap.
func recipients(ctx context.Context, repo Repository, ap *models.Appointment) (clientUser, employerUser uint, err error) {
	client, err := repo.GetClient(ctx, ap.ClientID)
	if err != nil {
		return 0, 0, err
	}
	employer, err := repo.GetEmployer(ctx, ap.EmployerID)
	if err != nil {
		return 0, 0, err
	}
	return client.UserID, employer.UserID, nil
}

const messageDateLayout = "2006-01-02 15:04 MST"
