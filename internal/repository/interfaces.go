package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jwalitptl/frontdesk-api/internal/model"
)

var (
	// ErrNotFound is returned by single-row lookups that match nothing.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
	// ErrInvalidReference is returned when a foreign key names a missing row.
	ErrInvalidReference = errors.New("referenced record does not exist")
)

// All repository interfaces in one file
type (
	// AppointmentRepository is the only persistence the scheduler talks to.
	// Times passed in and returned are UTC.
	AppointmentRepository interface {
		Insert(ctx context.Context, appointment *model.Appointment) (int64, error)
		// QueryInRange returns appointments with scheduled_at in [start, end],
		// ascending, optionally restricted to one clinic location.
		QueryInRange(ctx context.Context, start, end time.Time, clinicLocationID *int64) ([]*model.Appointment, error)
		// UpdateByID returns the re-read row and the number of rows affected.
		UpdateByID(ctx context.Context, id int64, fields *model.AppointmentFields) (*model.Appointment, int64, error)
		DeleteByID(ctx context.Context, id int64) (int64, error)
		GetByID(ctx context.Context, id int64) (*model.Appointment, error)
	}

	ClinicLocationRepository interface {
		List(ctx context.Context) ([]*model.ClinicLocation, error)
	}

	PatientRepository interface {
		List(ctx context.Context) ([]*model.Patient, error)
		Get(ctx context.Context, id int64) (*model.Patient, error)
		Create(ctx context.Context, patient *model.Patient) error
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id int64) error
		SearchByPhone(ctx context.Context, fragment string, limit int) ([]*model.Patient, error)
	}

	AllowedUserRepository interface {
		List(ctx context.Context) ([]*model.AllowedUser, error)
		GetByEmail(ctx context.Context, email string) (*model.AllowedUser, error)
		Create(ctx context.Context, user *model.AllowedUser) error
		Update(ctx context.Context, user *model.AllowedUser) error
		Delete(ctx context.Context, id int64) error
	}
)
