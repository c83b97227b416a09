package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/repository"
)

type appointmentRepository struct {
	BaseRepository
}

func NewAppointmentRepository(base BaseRepository) repository.AppointmentRepository {
	return &appointmentRepository{base}
}

const appointmentColumns = `
	a.id, a.scheduled_at, a.status, a.patient_name, a.patient_phone,
	a.patient_id, a.clinic_location_id, l.name AS clinic_location_name,
	a.diagnosis, a.notes, a.amount, a.updated_at, a.updated_by
`

func (r *appointmentRepository) Insert(ctx context.Context, appointment *model.Appointment) (id int64, err error) {
	defer r.timed("appointment_insert")(&err)

	query := `
		INSERT INTO appointments (
			scheduled_at, status, patient_name, patient_phone, patient_id,
			clinic_location_id, diagnosis, notes, amount, updated_at, updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	err = r.db.QueryRowxContext(ctx, query,
		appointment.ScheduledAt.UTC(),
		appointment.Status,
		appointment.PatientName,
		appointment.PatientPhone,
		appointment.PatientID,
		appointment.ClinicLocationID,
		appointment.Diagnosis,
		appointment.Notes,
		appointment.AmountValue(),
		appointment.UpdatedAt.UTC(),
		appointment.UpdatedBy,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert appointment: %w", translate(err))
	}
	return id, nil
}

func (r *appointmentRepository) QueryInRange(ctx context.Context, start, end time.Time, clinicLocationID *int64) (appointments []*model.Appointment, err error) {
	defer r.timed("appointment_query_range")(&err)

	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments a
		JOIN clinic_locations l ON l.id = a.clinic_location_id
		WHERE a.scheduled_at BETWEEN $1 AND $2
	`
	args := []interface{}{start.UTC(), end.UTC()}

	if clinicLocationID != nil {
		query += " AND a.clinic_location_id = $3"
		args = append(args, *clinicLocationID)
	}

	query += " ORDER BY a.scheduled_at ASC, a.id ASC"

	appointments = []*model.Appointment{}
	if err = r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	for _, a := range appointments {
		normalize(a)
	}
	return appointments, nil
}

func (r *appointmentRepository) UpdateByID(ctx context.Context, id int64, fields *model.AppointmentFields) (_ *model.Appointment, affected int64, err error) {
	defer r.timed("appointment_update")(&err)

	query := `
		WITH a AS (
			UPDATE appointments
			SET patient_name = $1, patient_phone = $2, status = $3, diagnosis = $4,
				notes = $5, amount = $6, clinic_location_id = $7, updated_at = $8, updated_by = $9
			WHERE id = $10
			RETURNING *
		)
		SELECT ` + appointmentColumns + `
		FROM a
		JOIN clinic_locations l ON l.id = a.clinic_location_id
	`
	var appointment model.Appointment
	err = r.db.GetContext(ctx, &appointment, query,
		fields.PatientName,
		fields.PatientPhone,
		fields.Status,
		fields.Diagnosis,
		fields.Notes,
		fields.Amount,
		fields.ClinicLocationID,
		fields.UpdatedAt.UTC(),
		fields.UpdatedBy,
		id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to update appointment: %w", translate(err))
	}

	normalize(&appointment)
	return &appointment, 1, nil
}

func (r *appointmentRepository) DeleteByID(ctx context.Context, id int64) (rows int64, err error) {
	defer r.timed("appointment_delete")(&err)

	query := `
		DELETE FROM appointments
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete appointment: %w", err)
	}

	rows, err = result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}

func (r *appointmentRepository) GetByID(ctx context.Context, id int64) (_ *model.Appointment, err error) {
	defer r.timed("appointment_get")(&err)

	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments a
		JOIN clinic_locations l ON l.id = a.clinic_location_id
		WHERE a.id = $1
	`
	var appointment model.Appointment
	if err = r.db.GetContext(ctx, &appointment, query, id); err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", translate(err))
	}

	normalize(&appointment)
	return &appointment, nil
}

// normalize puts timestamps read back from the driver into UTC.
func normalize(a *model.Appointment) {
	a.ScheduledAt = a.ScheduledAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
}
