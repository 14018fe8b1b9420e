package availability

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bookline/bookline/internal/platform/cache"
)

// Service owns rule, exception and holiday authoring. Every write
// invalidates the affected provider's cached days; business-wide writes
// have no single provider, so holders of cached days learn about them
// only after TTL expiry unless invalidated per provider by the caller.
type Service struct {
	rules      RuleRepository
	exceptions ExceptionRepository
	holidays   HolidayRepository
	cache      cache.DayCache
	logger     zerolog.Logger
}

func NewService(rules RuleRepository, exceptions ExceptionRepository, holidays HolidayRepository, dayCache cache.DayCache, logger zerolog.Logger) *Service {
	return &Service{rules: rules, exceptions: exceptions, holidays: holidays, cache: dayCache, logger: logger}
}

func (s *Service) invalidate(ctx context.Context, providerID uuid.UUID) {
	if err := s.cache.Invalidate(ctx, providerID.String()); err != nil {
		s.logger.Warn().Err(err).Str("provider_id", providerID.String()).Msg("availability cache invalidation failed")
	}
}

func (s *Service) CreateRule(ctx context.Context, r *RecurringRule) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if err := s.rules.Create(ctx, r); err != nil {
		return err
	}
	s.invalidate(ctx, r.ProviderID)
	return nil
}

func (s *Service) UpdateRule(ctx context.Context, r *RecurringRule) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if err := s.rules.Update(ctx, r); err != nil {
		return err
	}
	s.invalidate(ctx, r.ProviderID)
	return nil
}

func (s *Service) DeleteRule(ctx context.Context, id uuid.UUID) error {
	r, err := s.rules.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.rules.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, r.ProviderID)
	return nil
}

func (s *Service) ListRules(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]*RecurringRule, int, error) {
	return s.rules.ListByProvider(ctx, providerID, limit, offset)
}

func (s *Service) CreateException(ctx context.Context, e *Exception) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if err := s.exceptions.Create(ctx, e); err != nil {
		return err
	}
	if e.ProviderID != nil {
		s.invalidate(ctx, *e.ProviderID)
	}
	return nil
}

func (s *Service) DeleteException(ctx context.Context, id uuid.UUID) error {
	return s.exceptions.Delete(ctx, id)
}

func (s *Service) ListExceptions(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]*Exception, int, error) {
	return s.exceptions.ListByProvider(ctx, providerID, limit, offset)
}

func (s *Service) CreateHoliday(ctx context.Context, h *Holiday) error {
	return s.holidays.Create(ctx, h)
}

func (s *Service) DeleteHoliday(ctx context.Context, id uuid.UUID) error {
	return s.holidays.Delete(ctx, id)
}

func (s *Service) ListHolidays(ctx context.Context, limit, offset int) ([]*Holiday, int, error) {
	return s.holidays.List(ctx, limit, offset)
}
