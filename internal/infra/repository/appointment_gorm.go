package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/booking-api/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-api/internal/httperr"
	"github.com/BruksfildServices01/booking-api/internal/models"
	ucAppointment "github.com/BruksfildServices01/booking-api/internal/usecase/appointment"
	"github.com/BruksfildServices01/booking-api/internal/usecase/availability"
	"github.com/BruksfildServices01/booking-api/internal/usecase/rating"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func (r *AppointmentGormRepository) WithinTx(
	ctx context.Context,
	fn func(tx ucAppointment.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Parties
// --------------------------------------------------

func (r *AppointmentGormRepository) GetClient(ctx context.Context, id uint) (*models.Client, error) {
	var client models.Client
	if err := r.db.WithContext(ctx).First(&client, id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *AppointmentGormRepository) GetClientByUserID(ctx context.Context, userID uint) (*models.Client, error) {
	var client models.Client
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *AppointmentGormRepository) GetEmployer(ctx context.Context, id uint) (*models.Employer, error) {
	var employer models.Employer
	if err := r.db.WithContext(ctx).First(&employer, id).Error; err != nil {
		return nil, err
	}
	return &employer, nil
}

func (r *AppointmentGormRepository) GetEmployerByUserID(ctx context.Context, userID uint) (*models.Employer, error) {
	var employer models.Employer
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&employer).Error; err != nil {
		return nil, err
	}
	return &employer, nil
}

// LockEmployer serializes bookings and rating updates per employer.
func (r *AppointmentGormRepository) LockEmployer(ctx context.Context, id uint) (*models.Employer, error) {
	var employer models.Employer
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&employer, id).Error; err != nil {
		return nil, err
	}
	return &employer, nil
}

func (r *AppointmentGormRepository) SaveEmployerRating(
	ctx context.Context,
	employerID uint,
	average float64,
	total int,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Employer{}).
		Where("id = ?", employerID).
		Updates(map[string]any{
			"average_rating": average,
			"total_reviews":  total,
		}).Error
}

func (r *AppointmentGormRepository) GetService(ctx context.Context, id uint) (*models.Service, error) {
	var svc models.Service
	if err := r.db.WithContext(ctx).First(&svc, id).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *AppointmentGormRepository) ListWindows(ctx context.Context, employerID uint) ([]models.Availability, error) {
	var rows []models.Availability
	if err := r.db.WithContext(ctx).
		Where("employer_id = ?", employerID).
		Order("day_of_week ASC, start_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AppointmentGormRepository) HasActiveAppointment(
	ctx context.Context,
	employerID uint,
	slot time.Time,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"employer_id = ? AND date = ? AND status IN ?",
			employerID,
			slot,
			domain.ActiveStatuses,
		).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

// CreateAppointment maps a hit on the active-slot index to a conflict.
func (r *AppointmentGormRepository) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	if err := r.db.WithContext(ctx).Create(ap).Error; err != nil {
		if isUniqueViolation(err) {
			return httperr.ErrConflict("slot_unavailable")
		}
		return err
	}
	return nil
}

func (r *AppointmentGormRepository) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, id).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) LockAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&ap, id).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Save(ap).Error
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	f ucAppointment.ListFilter,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Employer").
		Preload("Service")

	if f.ClientID != nil {
		q = q.Where("client_id = ?", *f.ClientID)
	}
	if f.EmployerID != nil {
		q = q.Where("employer_id = ?", *f.EmployerID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}

	var apps []models.Appointment
	if err := q.Order("date DESC, id DESC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// Compile-time checks
var (
	_ ucAppointment.Repository = (*AppointmentGormRepository)(nil)
	_ availability.Repository  = (*AppointmentGormRepository)(nil)
	_ rating.Repository        = (*AppointmentGormRepository)(nil)
)
