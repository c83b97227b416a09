package postgres

import (
	"context"
	"fmt"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/repository"
)

type clinicLocationRepository struct {
	BaseRepository
}

func NewClinicLocationRepository(base BaseRepository) repository.ClinicLocationRepository {
	return &clinicLocationRepository{base}
}

func (r *clinicLocationRepository) List(ctx context.Context) (locations []*model.ClinicLocation, err error) {
	defer r.timed("clinic_location_list")(&err)

	query := `
		SELECT id, name
		FROM clinic_locations
		ORDER BY id
	`
	locations = []*model.ClinicLocation{}
	if err = r.db.SelectContext(ctx, &locations, query); err != nil {
		return nil, fmt.Errorf("failed to list clinic locations: %w", err)
	}
	return locations, nil
}
