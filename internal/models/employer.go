package models

import "time"

type Employer struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	ServiceID *uint    `json:"service_id"`
	Service   *Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service,omitempty"`

	Name        string `gorm:"size:255;not null" json:"name"`
	Email       string `gorm:"size:100" json:"email"`
	Phone       string `gorm:"size:20" json:"phone"`
	Description string `gorm:"type:text" json:"description"`

	IsActive   bool `gorm:"not null" json:"is_active"`
	IsVerified bool `gorm:"default:false" json:"is_verified"`

	AverageRating float64 `gorm:"not null;default:0" json:"average_rating"`
	TotalReviews  int     `gorm:"not null;default:0" json:"total_reviews"`

	Availabilities []Availability `json:"availabilities,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
