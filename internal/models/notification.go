package models

import (
	"time"

	"github.com/BruksfildServices01/booking-api/internal/domain/notification"
)

// Notification is immutable once created, apart from IsRead.
type Notification struct {
	ID uint `gorm:"primaryKey" json:"id"`

	RecipientID uint `gorm:"not null;index" json:"recipient"`
	Recipient   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Type    notification.Type `gorm:"column:notification_type;size:40;not null" json:"notification_type"`
	Title   string            `gorm:"size:255;not null" json:"title"`
	Message string            `gorm:"type:text" json:"message"`

	AppointmentID *uint        `gorm:"index" json:"appointment,omitempty"`
	Appointment   *Appointment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	IsRead    bool      `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
