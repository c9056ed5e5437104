package models

import (
	"time"

	"github.com/BruksfildServices01/booking-api/internal/domain/identity"
)

// User mirrors the identity owned by the external token service.
type User struct {
	ID    uint          `gorm:"primaryKey" json:"id"`
	Email string        `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Name  string        `gorm:"size:100;not null" json:"name"`
	Role  identity.Role `gorm:"size:20;not null" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
