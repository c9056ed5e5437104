// Package testutil opens throwaway databases and seeds the parties used by
// package tests.
package testutil

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	dbpkg "github.com/BruksfildServices01/booking-api/internal/db"
	"github.com/BruksfildServices01/booking-api/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-api/internal/domain/identity"
	"github.com/BruksfildServices01/booking-api/internal/models"
	"github.com/BruksfildServices01/booking-api/internal/timezone"
)

// NewDB opens a private in-memory SQLite database with the full schema.
// One connection only: transactions serialize the way row locks would.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gdb, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := dbpkg.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

// Paris is the business timezone used across tests.
func Paris() *time.Location {
	return timezone.Location("Europe/Paris")
}

// Now is a fixed Monday morning, one week before Slot.
func Now() time.Time {
	return time.Date(2030, time.January, 7, 8, 0, 0, 0, time.UTC)
}

// Slot is Monday 2030-01-14 10:00 in Paris, inside the default window.
func Slot() time.Time {
	return time.Date(2030, time.January, 14, 10, 0, 0, 0, Paris())
}

type Party struct {
	User      models.User
	Principal identity.Principal
}

type ClientParty struct {
	Party
	Client models.Client
}

type EmployerParty struct {
	Party
	Employer models.Employer
}

func SeedClient(t *testing.T, db *gorm.DB, name string) ClientParty {
	t.Helper()

	u := models.User{Email: name + "@client.test", Name: name, Role: identity.RoleClient}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("user: %v", err)
	}
	c := models.Client{UserID: u.ID, Name: name, Email: u.Email}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("client: %v", err)
	}

	return ClientParty{
		Party:  Party{User: u, Principal: identity.Principal{UserID: u.ID, Role: identity.RoleClient}},
		Client: c,
	}
}

// SeedEmployer creates an active employer working Mondays 09:00-17:00.
func SeedEmployer(t *testing.T, db *gorm.DB, name string) EmployerParty {
	t.Helper()

	u := models.User{Email: name + "@employer.test", Name: name, Role: identity.RoleEmployer}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("user: %v", err)
	}
	e := models.Employer{UserID: u.ID, Name: name, Email: u.Email, IsActive: true}
	if err := db.Create(&e).Error; err != nil {
		t.Fatalf("employer: %v", err)
	}
	SeedWindow(t, db, e.ID, int(time.Monday), "09:00", "17:00", true)

	return EmployerParty{
		Party:    Party{User: u, Principal: identity.Principal{UserID: u.ID, Role: identity.RoleEmployer}},
		Employer: e,
	}
}

func SeedWindow(t *testing.T, db *gorm.DB, employerID uint, day int, start, end string, available bool) models.Availability {
	t.Helper()

	w := models.Availability{
		EmployerID:  employerID,
		DayOfWeek:   day,
		StartTime:   start,
		EndTime:     end,
		IsAvailable: available,
	}
	if err := db.Create(&w).Error; err != nil {
		t.Fatalf("window: %v", err)
	}
	return w
}

// SeedAppointment inserts an appointment in the given status, bypassing
// the booking rules.
func SeedAppointment(
	t *testing.T,
	db *gorm.DB,
	client ClientParty,
	employer EmployerParty,
	status appointment.Status,
	at time.Time,
) models.Appointment {
	t.Helper()

	ap := models.Appointment{
		ClientID:      client.Client.ID,
		EmployerID:    employer.Employer.ID,
		Date:          appointment.NormalizeSlot(at),
		Status:        status,
		PaymentMethod: appointment.DefaultPaymentMethod,
		TotalAmount:   decimal.RequireFromString("40.00"),
	}
	if err := db.Create(&ap).Error; err != nil {
		t.Fatalf("appointment: %v", err)
	}
	return ap
}
