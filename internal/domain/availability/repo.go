package availability

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type RuleRepository interface {
	Create(ctx context.Context, r *RecurringRule) error
	GetByID(ctx context.Context, id uuid.UUID) (*RecurringRule, error)
	Update(ctx context.Context, r *RecurringRule) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByProvider(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]*RecurringRule, int, error)
	// ListForWeekday returns the provider's rules for a weekday; the
	// caller filters by effective date range via AppliesOn.
	ListForWeekday(ctx context.Context, providerID uuid.UUID, weekday int) ([]*RecurringRule, error)
}

type ExceptionRepository interface {
	Create(ctx context.Context, e *Exception) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ListForDate returns provider-scoped exceptions for the provider
	// plus all business-wide exceptions covering the date.
	ListForDate(ctx context.Context, providerID uuid.UUID, date time.Time) ([]*Exception, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]*Exception, int, error)
}

type HolidayRepository interface {
	Create(ctx context.Context, h *Holiday) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsOn(ctx context.Context, date time.Time) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*Holiday, int, error)
}

// BookedInterval is an active appointment's occupied range on a date, in
// minutes since midnight.
type BookedInterval struct {
	Start int
	End   int
}

// AppointmentSource feeds the resolver the active-status appointments
// occupying a provider's day. exclude skips one appointment, used when
// rescheduling so a booking does not conflict with itself.
type AppointmentSource interface {
	ActiveIntervals(ctx context.Context, providerID uuid.UUID, date time.Time, exclude uuid.UUID) ([]BookedInterval, error)
}

// ProviderSource is the slice of the provider repository the resolver
// needs.
type ProviderSource interface {
	IsActive(ctx context.Context, id uuid.UUID) (bool, error)
}
