package model

import (
	"strings"
	"time"

	apperrors "github.com/jwalitptl/frontdesk-api/pkg/errors"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// MaxPatientNameLength is counted in characters, not bytes.
const MaxPatientNameLength = 100

// MaxAmount is the largest value a NUMERIC(12,2) amount column holds.
const MaxAmount = 9999999999.99

func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

func (s AppointmentStatus) String() string {
	return string(s)
}

// ParseAppointmentStatus accepts exactly one of the three status values.
// Any status may move to any other; there is no transition table.
func ParseAppointmentStatus(value string) (AppointmentStatus, error) {
	status := AppointmentStatus(strings.TrimSpace(value))
	if !status.IsValid() {
		return "", apperrors.NewInvalidStatus(value)
	}
	return status, nil
}

// Appointment is the stored appointment row. ScheduledAt and UpdatedAt are UTC.
type Appointment struct {
	ID                 int64             `db:"id" json:"id"`
	ScheduledAt        time.Time         `db:"scheduled_at" json:"scheduled_at"`
	Status             AppointmentStatus `db:"status" json:"status"`
	PatientName        string            `db:"patient_name" json:"patient_name"`
	PatientPhone       *string           `db:"patient_phone" json:"patient_phone"`
	PatientID          *int64            `db:"patient_id" json:"patient_id,omitempty"`
	ClinicLocationID   int64             `db:"clinic_location_id" json:"clinic_location_id"`
	ClinicLocationName string            `db:"clinic_location_name" json:"clinic_location_name,omitempty"`
	Diagnosis          string            `db:"diagnosis" json:"diagnosis"`
	Notes              string            `db:"notes" json:"notes"`
	Amount             *float64          `db:"amount" json:"amount"`
	UpdatedAt          time.Time         `db:"updated_at" json:"updated_at"`
	UpdatedBy          string            `db:"updated_by" json:"updated_by"`
}

// AmountValue returns the amount or 0 when absent.
func (a *Appointment) AmountValue() float64 {
	if a.Amount == nil {
		return 0
	}
	return *a.Amount
}

// CreateAppointmentInput books a new appointment. ActorName is filled from the
// authenticated identity, never from the request body.
type CreateAppointmentInput struct {
	PatientName      string  `json:"patient_name"`
	LocalDateTime    string  `json:"datetime"`
	ZoneName         string  `json:"time_zone"`
	ClinicLocationID int64   `json:"clinic_location_id"`
	PatientPhone     *string `json:"patient_phone"`
	Notes            string  `json:"notes"`
	PatientID        *int64  `json:"patient_id"`
	ActorName        string  `json:"-"`
}

// UpdateAppointmentInput replaces every mutable field of an appointment.
type UpdateAppointmentInput struct {
	PatientName      string   `json:"patient_name"`
	PatientPhone     *string  `json:"patient_phone"`
	Status           string   `json:"status"`
	Diagnosis        string   `json:"diagnosis"`
	Notes            string   `json:"notes"`
	Amount           *float64 `json:"amount"`
	ClinicLocationID int64    `json:"clinic_location_id"`
	ActorName        string   `json:"-"`
}

// AppointmentFields is the validated column set written by an update.
type AppointmentFields struct {
	PatientName      string
	PatientPhone     *string
	Status           AppointmentStatus
	Diagnosis        string
	Notes            string
	Amount           float64
	ClinicLocationID int64
	UpdatedAt        time.Time
	UpdatedBy        string
}

// DashboardSummary is the same-day roll-up shown on the report screen.
type DashboardSummary struct {
	Total          int     `json:"total"`
	CompletedCount int     `json:"completed_count"`
	UpcomingCount  int     `json:"upcoming_count"`
	CancelledCount int     `json:"cancelled_count"`
	TotalRevenue   float64 `json:"total_revenue"`
}

// DailyReport pairs a summary with the records it was computed from.
type DailyReport struct {
	Date             string           `json:"date"`
	TimeZone         string           `json:"time_zone"`
	ClinicLocationID *int64           `json:"clinic_location_id,omitempty"`
	Summary          DashboardSummary `json:"summary"`
	Appointments     []*Appointment   `json:"appointments"`
}
