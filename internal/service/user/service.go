package user

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/repository"
	apperrors "github.com/jwalitptl/frontdesk-api/pkg/errors"
	"github.com/jwalitptl/frontdesk-api/pkg/metrics"
	"github.com/jwalitptl/frontdesk-api/pkg/timezone"
)

const defaultCacheTTL = time.Minute

// AllowlistServicer manages who may use the front desk.
type AllowlistServicer interface {
	ListUsers(ctx context.Context) ([]*model.AllowedUser, error)
	GetByEmail(ctx context.Context, email string) (*model.AllowedUser, error)
	AddUser(ctx context.Context, req *model.AllowedUserRequest) (*model.AllowedUser, error)
	UpdateUser(ctx context.Context, id int64, req *model.AllowedUserRequest) (*model.AllowedUser, error)
	DeleteUser(ctx context.Context, id int64) error
	CheckAccess(ctx context.Context, email string) (*model.AllowedUser, bool, error)
}

type Service struct {
	repo  repository.AllowedUserRepository
	cache *gocache.Cache

	// mu orders cache fills against invalidations; generation counts
	// invalidations so a lookup that raced one is not cached.
	mu         sync.Mutex
	generation uint64

	clock   timezone.Clock
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

type Config struct {
	CacheTTL time.Duration
	Clock    timezone.Clock
	Logger   *zerolog.Logger
	Metrics  *metrics.Metrics
}

func NewService(repo repository.AllowedUserRepository, cfg Config) *Service {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	clock := cfg.Clock
	if clock == nil {
		clock = timezone.SystemClock{}
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	return &Service{
		repo:    repo,
		cache:   gocache.New(ttl, 2*ttl),
		clock:   clock,
		logger:  logger,
		metrics: cfg.Metrics,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) ListUsers(ctx context.Context) ([]*model.AllowedUser, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.NewPersistence("list allowed users", err)
	}
	return users, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*model.AllowedUser, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, translate("get allowed user", err)
	}
	return user, nil
}

func (s *Service) AddUser(ctx context.Context, req *model.AllowedUserRequest) (*model.AllowedUser, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, apperrors.NewBadRequest("email is required", nil)
	}

	user := &model.AllowedUser{
		Email:     email,
		IsAdmin:   req.IsAdmin,
		Name:      req.Name,
		Notes:     req.Notes,
		CreatedAt: timezone.NowAsUTCInstant(s.clock),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, translate("add allowed user", err)
	}

	s.invalidate(email)
	s.logger.Info().Str("email", email).Bool("is_admin", user.IsAdmin).Msg("user added to allowlist")
	return user, nil
}

func (s *Service) UpdateUser(ctx context.Context, id int64, req *model.AllowedUserRequest) (*model.AllowedUser, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, apperrors.NewBadRequest("email is required", nil)
	}

	user := &model.AllowedUser{
		ID:      id,
		Email:   email,
		IsAdmin: req.IsAdmin,
		Name:    req.Name,
		Notes:   req.Notes,
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, translate("update allowed user", err)
	}

	// The previous email of this row is unknown here, so drop everything.
	s.invalidate("")
	s.logger.Info().Int64("user_id", id).Str("email", email).Msg("allowlist entry updated")
	return user, nil
}

func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate("delete allowed user", err)
	}

	s.invalidate("")
	s.logger.Info().Int64("user_id", id).Msg("allowlist entry deleted")
	return nil
}

// invalidate drops email from the cache, or everything when email is empty.
func (s *Service) invalidate(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	if email == "" {
		s.cache.Flush()
		return
	}
	s.cache.Delete(email)
}

// remember caches a lookup unless the list changed since it started.
func (s *Service) remember(email string, user *model.AllowedUser, generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != generation {
		return
	}
	s.cache.SetDefault(email, user)
}

func (s *Service) currentGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// CheckAccess reports whether email is on the allowlist. Positive and
// negative answers are both cached until the TTL expires or the list changes.
// The cache is per process, so another replica's change is seen after the TTL.
func (s *Service) CheckAccess(ctx context.Context, email string) (*model.AllowedUser, bool, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, false, nil
	}

	if cached, ok := s.cache.Get(email); ok {
		s.metrics.RecordAllowlistLookup("hit")
		user, _ := cached.(*model.AllowedUser)
		return user, user != nil, nil
	}
	s.metrics.RecordAllowlistLookup("miss")

	generation := s.currentGeneration()
	user, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		s.remember(email, nil, generation)
		return nil, false, nil
	}
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("allowlist lookup failed")
		return nil, false, apperrors.NewPersistence("check access", err)
	}

	s.remember(email, user, generation)
	return user, true, nil
}

func translate(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound("user", err)
	case errors.Is(err, repository.ErrDuplicate):
		return apperrors.NewConflict("email is already on the allowlist", err)
	default:
		return apperrors.NewPersistence(op, err)
	}
}
