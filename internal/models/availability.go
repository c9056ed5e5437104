package models

import (
	"time"

	"github.com/BruksfildServices01/booking-api/internal/domain/appointment"
)

type Availability struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	EmployerID uint `gorm:"not null;uniqueIndex:ux_availability_window,priority:1" json:"employer_id"`

	DayOfWeek int    `gorm:"not null;uniqueIndex:ux_availability_window,priority:2" json:"day_of_week"`
	StartTime string `gorm:"size:5;not null;uniqueIndex:ux_availability_window,priority:3" json:"start_time"`
	EndTime   string `gorm:"size:5;not null;uniqueIndex:ux_availability_window,priority:4" json:"end_time"`

	IsAvailable bool `gorm:"not null" json:"is_available"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a Availability) Window() appointment.Window {
	return appointment.Window{
		DayOfWeek: a.DayOfWeek,
		StartTime: a.StartTime,
		EndTime:   a.EndTime,
		Available: a.IsAvailable,
	}
}
