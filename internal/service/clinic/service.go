package clinic

import (
	"context"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/repository"
	apperrors "github.com/jwalitptl/frontdesk-api/pkg/errors"
)

type ClinicServicer interface {
	ListLocations(ctx context.Context) ([]*model.ClinicLocation, error)
}

type Service struct {
	repo repository.ClinicLocationRepository
}

func NewService(repo repository.ClinicLocationRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListLocations(ctx context.Context) ([]*model.ClinicLocation, error) {
	locations, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.NewPersistence("list clinic locations", err)
	}
	return locations, nil
}
