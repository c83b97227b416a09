package appointment

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/repository"
	apperrors "github.com/jwalitptl/frontdesk-api/pkg/errors"
	"github.com/jwalitptl/frontdesk-api/pkg/metrics"
	"github.com/jwalitptl/frontdesk-api/pkg/timezone"
	"github.com/jwalitptl/frontdesk-api/pkg/validator"
)

// Scheduler is the appointment surface the HTTP layer depends on.
type Scheduler interface {
	Create(ctx context.Context, input model.CreateAppointmentInput) (*model.Appointment, error)
	ListByDay(ctx context.Context, calendarDate, zoneName string, clinicLocationID *int64) ([]*model.Appointment, error)
	Get(ctx context.Context, id int64) (*model.Appointment, error)
	Update(ctx context.Context, id int64, input model.UpdateAppointmentInput) (*model.Appointment, error)
	Delete(ctx context.Context, id int64) error
}

// Service books, lists, edits and removes appointments. It holds no state of
// its own; concurrent updates to one appointment are last-write-wins.
type Service struct {
	repo    repository.AppointmentRepository
	clock   timezone.Clock
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithClock(clock timezone.Clock) Option {
	return func(s *Service) { s.clock = clock }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(repo repository.AppointmentRepository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		clock:  timezone.SystemClock{},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, input model.CreateAppointmentInput) (apt *model.Appointment, err error) {
	defer func() { s.metrics.RecordAppointment("create", err) }()

	name, err := validatePatientName(input.PatientName)
	if err != nil {
		return nil, err
	}
	phone, err := validatePhone(input.PatientPhone)
	if err != nil {
		return nil, err
	}
	scheduledAt, err := timezone.ToUTCInstant(input.LocalDateTime, input.ZoneName)
	if err != nil {
		return nil, err
	}
	if input.ClinicLocationID <= 0 {
		return nil, apperrors.NewBadRequest("clinic location is required", nil)
	}
	actor := strings.TrimSpace(input.ActorName)
	if actor == "" {
		return nil, apperrors.NewBadRequest("actor is required", nil)
	}

	zero := 0.0
	apt = &model.Appointment{
		ScheduledAt:      scheduledAt,
		Status:           model.AppointmentStatusScheduled,
		PatientName:      name,
		PatientPhone:     phone,
		PatientID:        input.PatientID,
		ClinicLocationID: input.ClinicLocationID,
		Diagnosis:        "",
		Notes:            input.Notes,
		Amount:           &zero,
		UpdatedAt:        timezone.NowAsUTCInstant(s.clock),
		UpdatedBy:        actor,
	}

	id, err := s.repo.Insert(ctx, apt)
	if errors.Is(err, repository.ErrInvalidReference) {
		return nil, unknownReference(err)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("patient_name", name).Msg("failed to insert appointment")
		return nil, apperrors.NewPersistence("create appointment", err)
	}
	apt.ID = id

	s.logger.Info().
		Int64("appointment_id", id).
		Int64("clinic_location_id", apt.ClinicLocationID).
		Time("scheduled_at", apt.ScheduledAt).
		Str("updated_by", actor).
		Msg("appointment created")

	return apt, nil
}

// ListByDay returns the appointments whose scheduled instant falls on
// calendarDate as observed in zoneName, earliest first. A failed read is
// logged and reported as an empty day.
func (s *Service) ListByDay(ctx context.Context, calendarDate, zoneName string, clinicLocationID *int64) ([]*model.Appointment, error) {
	start, end, err := timezone.DayWindow(calendarDate, zoneName)
	if err != nil {
		return nil, err
	}

	appointments, err := s.repo.QueryInRange(ctx, start, end, clinicLocationID)
	s.metrics.RecordAppointment("list_by_day", err)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("date", calendarDate).
			Str("time_zone", zoneName).
			Msg("failed to list appointments, returning empty day")
		return []*model.Appointment{}, nil
	}
	if appointments == nil {
		appointments = []*model.Appointment{}
	}
	return appointments, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	apt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("appointment", err)
		}
		return nil, apperrors.NewPersistence("get appointment", err)
	}
	return apt, nil
}

// Update replaces every mutable field of appointment id. A missing status
// means scheduled and a missing amount means 0.
func (s *Service) Update(ctx context.Context, id int64, input model.UpdateAppointmentInput) (apt *model.Appointment, err error) {
	defer func() { s.metrics.RecordAppointment("update", err) }()

	status := model.AppointmentStatusScheduled
	if strings.TrimSpace(input.Status) != "" {
		if status, err = model.ParseAppointmentStatus(input.Status); err != nil {
			return nil, err
		}
	}
	phone, err := validatePhone(input.PatientPhone)
	if err != nil {
		return nil, err
	}
	name, err := validatePatientName(input.PatientName)
	if err != nil {
		return nil, err
	}

	amount := 0.0
	if input.Amount != nil {
		amount = *input.Amount
	}
	if amount < 0 {
		return nil, apperrors.NewBadRequest("amount must not be negative", nil)
	}
	if amount > model.MaxAmount {
		return nil, apperrors.NewBadRequest("amount is too large", nil)
	}
	if input.ClinicLocationID <= 0 {
		return nil, apperrors.NewBadRequest("clinic location is required", nil)
	}
	actor := strings.TrimSpace(input.ActorName)
	if actor == "" {
		return nil, apperrors.NewBadRequest("actor is required", nil)
	}

	fields := &model.AppointmentFields{
		PatientName:      name,
		PatientPhone:     phone,
		Status:           status,
		Diagnosis:        input.Diagnosis,
		Notes:            input.Notes,
		Amount:           amount,
		ClinicLocationID: input.ClinicLocationID,
		UpdatedAt:        timezone.NowAsUTCInstant(s.clock),
		UpdatedBy:        actor,
	}

	apt, affected, err := s.repo.UpdateByID(ctx, id, fields)
	if errors.Is(err, repository.ErrInvalidReference) {
		return nil, unknownReference(err)
	}
	if err != nil {
		s.logger.Error().Err(err).Int64("appointment_id", id).Msg("failed to update appointment")
		return nil, apperrors.NewPersistence("update appointment", err)
	}
	if affected == 0 || apt == nil {
		err = apperrors.NewNotFound("appointment", nil)
		return nil, err
	}

	s.logger.Info().
		Int64("appointment_id", id).
		Str("status", status.String()).
		Str("updated_by", actor).
		Msg("appointment updated")

	return apt, nil
}

func (s *Service) Delete(ctx context.Context, id int64) (err error) {
	defer func() { s.metrics.RecordAppointment("delete", err) }()

	affected, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("appointment_id", id).Msg("failed to delete appointment")
		return apperrors.NewPersistence("delete appointment", err)
	}
	if affected == 0 {
		return apperrors.NewNotFound("appointment", nil)
	}

	s.logger.Info().Int64("appointment_id", id).Msg("appointment deleted")
	return nil
}

func unknownReference(err error) error {
	return apperrors.NewBadRequest("clinic location or patient does not exist", err)
}

func validatePatientName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.NewInvalidName("patient name is required")
	}
	if utf8.RuneCountInString(name) > model.MaxPatientNameLength {
		return "", apperrors.NewInvalidName("patient name must not exceed 100 characters")
	}
	return name, nil
}

// validatePhone treats an empty phone as absent.
func validatePhone(phone *string) (*string, error) {
	if phone == nil {
		return nil, nil
	}
	value := strings.TrimSpace(*phone)
	if value == "" {
		return nil, nil
	}
	if !validator.IsIndianMobile(value) {
		return nil, apperrors.NewInvalidPhone(value)
	}
	return &value, nil
}
