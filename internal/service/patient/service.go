package patient

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/repository"
	apperrors "github.com/jwalitptl/frontdesk-api/pkg/errors"
	"github.com/jwalitptl/frontdesk-api/pkg/timezone"
	"github.com/jwalitptl/frontdesk-api/pkg/validator"
)

type PatientService interface {
	ListPatients(ctx context.Context) ([]*model.Patient, error)
	GetPatient(ctx context.Context, id int64) (*model.Patient, error)
	CreatePatient(ctx context.Context, req *model.PatientRequest) (*model.Patient, error)
	UpdatePatient(ctx context.Context, id int64, req *model.PatientRequest) (*model.Patient, error)
	DeletePatient(ctx context.Context, id int64) error
	SearchByPhone(ctx context.Context, fragment string) ([]*model.Patient, error)
}

type Service struct {
	repo  repository.PatientRepository
	clock timezone.Clock
}

func NewService(repo repository.PatientRepository, clock timezone.Clock) *Service {
	if clock == nil {
		clock = timezone.SystemClock{}
	}
	return &Service{repo: repo, clock: clock}
}

func (s *Service) ListPatients(ctx context.Context) ([]*model.Patient, error) {
	patients, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.NewPersistence("list patients", err)
	}
	return patients, nil
}

func (s *Service) GetPatient(ctx context.Context, id int64) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, translate("get patient", err)
	}
	return patient, nil
}

func (s *Service) CreatePatient(ctx context.Context, req *model.PatientRequest) (*model.Patient, error) {
	patient, err := fromRequest(req)
	if err != nil {
		return nil, err
	}
	patient.CreatedAt = timezone.NowAsUTCInstant(s.clock)

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, translate("create patient", err)
	}
	return patient, nil
}

// UpdatePatient replaces every field; CreatedAt is kept.
func (s *Service) UpdatePatient(ctx context.Context, id int64, req *model.PatientRequest) (*model.Patient, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, translate("get patient", err)
	}

	patient, err := fromRequest(req)
	if err != nil {
		return nil, err
	}
	patient.ID = id
	patient.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, translate("update patient", err)
	}
	return patient, nil
}

func (s *Service) DeletePatient(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate("delete patient", err)
	}
	return nil
}

// SearchByPhone backs the booking form autocomplete: at most
// model.MaxPhoneSearchResults patients whose phone contains fragment.
func (s *Service) SearchByPhone(ctx context.Context, fragment string) ([]*model.Patient, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" || strings.Trim(fragment, "0123456789") != "" {
		return nil, apperrors.NewBadRequest("phone must contain digits only", nil)
	}

	patients, err := s.repo.SearchByPhone(ctx, fragment, model.MaxPhoneSearchResults)
	if err != nil {
		return nil, apperrors.NewPersistence("search patients", err)
	}
	return patients, nil
}

func fromRequest(req *model.PatientRequest) (*model.Patient, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewInvalidName("patient name is required")
	}

	patient := &model.Patient{
		Name:           name,
		Sex:            blankToNil(req.Sex),
		Email:          blankToNil(req.Email),
		Phone:          blankToNil(req.Phone),
		Address:        blankToNil(req.Address),
		MedicalHistory: blankToNil(req.MedicalHistory),
	}

	if patient.Phone != nil && !validator.IsIndianMobile(*patient.Phone) {
		return nil, apperrors.NewInvalidPhone(*patient.Phone)
	}

	if dob := blankToNil(req.DOB); dob != nil {
		t, err := time.Parse(timezone.DateLayout, *dob)
		if err != nil {
			return nil, apperrors.NewInvalidDateTime(*dob, err)
		}
		patient.DOB = &t
	}
	return patient, nil
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func translate(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("patient", err)
	}
	return apperrors.NewPersistence(op, err)
}
