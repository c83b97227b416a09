package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/repository"
)

type patientRepository struct {
	BaseRepository
}

func NewPatientRepository(base BaseRepository) repository.PatientRepository {
	return &patientRepository{base}
}

const patientColumns = `id, name, dob, sex, email, phone, address, medical_history, created_at`

func (r *patientRepository) List(ctx context.Context) (patients []*model.Patient, err error) {
	defer r.timed("patient_list")(&err)

	query := `SELECT ` + patientColumns + ` FROM patients ORDER BY name`

	patients = []*model.Patient{}
	if err = r.db.SelectContext(ctx, &patients, query); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) Get(ctx context.Context, id int64) (_ *model.Patient, err error) {
	defer r.timed("patient_get")(&err)

	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`

	var patient model.Patient
	if err = r.db.GetContext(ctx, &patient, query, id); err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", translate(err))
	}
	return &patient, nil
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) (err error) {
	defer r.timed("patient_create")(&err)

	query := `
		INSERT INTO patients (
			name, dob, sex, email, phone, address, medical_history, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err = r.db.QueryRowxContext(ctx, query,
		patient.Name,
		patient.DOB,
		patient.Sex,
		patient.Email,
		patient.Phone,
		patient.Address,
		patient.MedicalHistory,
		patient.CreatedAt,
	).Scan(&patient.ID)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", translate(err))
	}
	return nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) (err error) {
	defer r.timed("patient_update")(&err)

	query := `
		UPDATE patients
		SET name = $1, dob = $2, sex = $3, email = $4, phone = $5,
			address = $6, medical_history = $7
		WHERE id = $8
	`
	result, err := r.db.ExecContext(ctx, query,
		patient.Name,
		patient.DOB,
		patient.Sex,
		patient.Email,
		patient.Phone,
		patient.Address,
		patient.MedicalHistory,
		patient.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", translate(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the patient and detaches their appointments, which keep the
// patient name and phone they were booked with.
func (r *patientRepository) Delete(ctx context.Context, id int64) (err error) {
	defer r.timed("patient_delete")(&err)

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE appointments SET patient_id = NULL WHERE patient_id = $1`, id); err != nil {
			return fmt.Errorf("failed to detach patient appointments: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete patient: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

func (r *patientRepository) SearchByPhone(ctx context.Context, fragment string, limit int) (patients []*model.Patient, err error) {
	defer r.timed("patient_search_phone")(&err)

	query := `
		SELECT ` + patientColumns + `
		FROM patients
		WHERE phone LIKE $1
		ORDER BY name
		LIMIT $2
	`
	patients = []*model.Patient{}
	if err = r.db.SelectContext(ctx, &patients, query, "%"+fragment+"%", limit); err != nil {
		return nil, fmt.Errorf("failed to search patients by phone: %w", err)
	}
	return patients, nil
}
