// Package store defines the persistence boundary: lookup-by-id/email and
// save semantics over users and appointments. The business services only
// see these interfaces; the gorm implementation backs production and the
// in-memory implementation backs tests.
package store

import (
	"context"
	"errors"

	"healify-server/internal/models"
)

var (
	ErrNotFound   = errors.New("store: record not found")
	ErrEmailTaken = errors.New("store: email already registered")
	// ErrStale is returned by UpdateStatus when the expected prior status
	// no longer matches, i.e. another writer got there first.
	ErrStale = errors.New("store: status changed concurrently")
)

// UserStore is the credential store adapter.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	// FindDoctors lists doctors, optionally filtered by specialization and
	// location (substring match, case-insensitive).
	FindDoctors(ctx context.Context, specialization, location string) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// AppointmentStore persists appointments. Reads return appointments with
// Patient and Doctor relations populated.
type AppointmentStore interface {
	FindByID(ctx context.Context, id string) (*models.Appointment, error)
	FindByDoctorID(ctx context.Context, doctorID string) ([]models.Appointment, error)
	Create(ctx context.Context, appt *models.Appointment) error
	// UpdateStatus transitions an appointment from one status to another
	// as a single compare-and-swap, so two concurrent writers cannot both
	// win. Returns ErrStale when the appointment is no longer in `from`.
	UpdateStatus(ctx context.Context, id string, from, to models.AppointmentStatus) error
}
