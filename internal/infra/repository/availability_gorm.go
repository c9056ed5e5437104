package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-api/internal/httperr"
	"github.com/BruksfildServices01/booking-api/internal/models"
	"github.com/BruksfildServices01/booking-api/internal/usecase/availability"
)

// AvailabilityGormRepository backs window management. Reads shared with
// the booking path come from the embedded appointment repository.
type AvailabilityGormRepository struct {
	*AppointmentGormRepository
	db *gorm.DB
}

func NewAvailabilityGormRepository(db *gorm.DB) *AvailabilityGormRepository {
	return &AvailabilityGormRepository{
		AppointmentGormRepository: NewAppointmentGormRepository(db),
		db:                        db,
	}
}

func (r *AvailabilityGormRepository) GetWindow(ctx context.Context, id uint) (*models.Availability, error) {
	var row models.Availability
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *AvailabilityGormRepository) CreateWindow(ctx context.Context, w *models.Availability) error {
	if err := r.db.WithContext(ctx).Create(w).Error; err != nil {
		if isUniqueViolation(err) {
			return httperr.ErrConflict("availability_exists")
		}
		return err
	}
	return nil
}

func (r *AvailabilityGormRepository) SaveWindow(ctx context.Context, w *models.Availability) error {
	return r.db.WithContext(ctx).Save(w).Error
}

func (r *AvailabilityGormRepository) DeleteWindow(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Availability{}, id).Error
}

var _ availability.WindowRepository = (*AvailabilityGormRepository)(nil)
