package appointment

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/booking-api/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-api/internal/domain/identity"
	"github.com/BruksfildServices01/booking-api/internal/dto"
	"github.com/BruksfildServices01/booking-api/internal/httperr"
)

type ListAppointments struct {
	repo Repository
}

func NewListAppointments(repo Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

// Execute lists the principal's own appointments, newest date first.
func (uc *ListAppointments) Execute(
	ctx context.Context,
	p identity.Principal,
	rawStatus string,
) ([]dto.AppointmentListDTO, error) {

	var f ListFilter

	if rawStatus != "" {
		st, err := domain.ParseStatus(rawStatus)
		if err != nil {
			return nil, err
		}
		f.Status = &st
	}

	switch p.Role {
	case identity.RoleClient:
		client, err := uc.repo.GetClientByUserID(ctx, p.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, httperr.ErrNotFound("client_not_found")
			}
			return nil, err
		}
		f.ClientID = &client.ID

	case identity.RoleEmployer:
		employer, err := uc.repo.GetEmployerByUserID(ctx, p.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, httperr.ErrNotFound("employer_not_found")
			}
			return nil, err
		}
		f.EmployerID = &employer.ID

	default:
		return nil, httperr.ErrForbidden("unknown_role")
	}

	appointments, err := uc.repo.ListAppointments(ctx, f)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		item := dto.AppointmentListDTO{
			ID:            ap.ID,
			Date:          ap.Date,
			Status:        string(ap.Status),
			ClientID:      ap.ClientID,
			EmployerID:    ap.EmployerID,
			PaymentMethod: string(ap.PaymentMethod),
			TotalAmount:   ap.TotalAmount,
			IsPaid:        ap.IsPaid,
			Rating:        ap.Rating,
		}
		if ap.Client != nil {
			item.ClientName = ap.Client.Name
		}
		if ap.Employer != nil {
			item.EmployerName = ap.Employer.Name
		}
		if ap.Service != nil {
			item.ServiceName = ap.Service.Name
		}
		out = append(out, item)
	}

	return out, nil
}
