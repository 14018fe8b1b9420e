package availability

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bookline/bookline/internal/platform/cache"
	"github.com/bookline/bookline/pkg/apperr"
	"github.com/bookline/bookline/pkg/timeutil"
)

// Resolver computes the open slots for a provider on a date. Reads go
// through the injected day cache; rule and appointment writers invalidate
// it per provider.
type Resolver struct {
	providers    ProviderSource
	rules        RuleRepository
	exceptions   ExceptionRepository
	holidays     HolidayRepository
	appointments AppointmentSource
	cache        cache.DayCache
	cacheTTL     time.Duration
	loc          *time.Location
	logger       zerolog.Logger
}

func NewResolver(
	providers ProviderSource,
	rules RuleRepository,
	exceptions ExceptionRepository,
	holidays HolidayRepository,
	appointments AppointmentSource,
	dayCache cache.DayCache,
	cacheTTL time.Duration,
	loc *time.Location,
	logger zerolog.Logger,
) *Resolver {
	return &Resolver{
		providers:    providers,
		rules:        rules,
		exceptions:   exceptions,
		holidays:     holidays,
		appointments: appointments,
		cache:        dayCache,
		cacheTTL:     cacheTTL,
		loc:          loc,
		logger:       logger,
	}
}

// Resolve returns the provider's bookable slots on date, in chronological
// order. An empty list is a valid result: the provider is closed or fully
// booked.
func (r *Resolver) Resolve(ctx context.Context, providerID uuid.UUID, date time.Time, granularity int) ([]Slot, error) {
	if granularity <= 0 {
		return nil, apperr.New(apperr.KindInvalidDuration, "granularity must be positive, got %d", granularity)
	}
	if err := r.checkProvider(ctx, providerID); err != nil {
		return nil, err
	}

	day := timeutil.NormalizeDate(date, r.loc) + ":" + strconv.Itoa(granularity)
	if payload, ok, err := r.cache.Get(ctx, providerID.String(), day); err == nil && ok {
		var slots []Slot
		if json.Unmarshal(payload, &slots) == nil {
			return slots, nil
		}
	} else if err != nil {
		r.logger.Warn().Err(err).Msg("availability cache read failed")
	}

	free, err := r.freeSet(ctx, providerID, date, uuid.Nil)
	if err != nil {
		return nil, err
	}

	slots := make([]Slot, 0)
	for _, iv := range discretize(free, granularity) {
		slots = append(slots, Slot{
			Start: timeutil.FormatClock(iv.start),
			End:   timeutil.FormatClock(iv.end),
		})
	}

	if payload, err := json.Marshal(slots); err == nil {
		if err := r.cache.Set(ctx, providerID.String(), day, payload, r.cacheTTL); err != nil {
			r.logger.Warn().Err(err).Msg("availability cache write failed")
		}
	}
	return slots, nil
}

// IsSlotAvailable reports whether [start, start+duration) fits entirely
// inside one free interval. Partial overlaps are rejected, never
// truncated.
func (r *Resolver) IsSlotAvailable(ctx context.Context, providerID uuid.UUID, date time.Time, startMinutes, durationMinutes int) (bool, error) {
	return r.IsSlotAvailableExcluding(ctx, providerID, date, startMinutes, durationMinutes, uuid.Nil)
}

// IsSlotAvailableExcluding is IsSlotAvailable with one appointment left
// out of the conflict check, so a reschedule does not collide with the
// booking it is moving.
func (r *Resolver) IsSlotAvailableExcluding(ctx context.Context, providerID uuid.UUID, date time.Time, startMinutes, durationMinutes int, exclude uuid.UUID) (bool, error) {
	if durationMinutes <= 0 {
		return false, apperr.New(apperr.KindInvalidDuration, "duration must be positive, got %d", durationMinutes)
	}
	if startMinutes < 0 || startMinutes+durationMinutes > timeutil.MinutesPerDay {
		return false, nil
	}
	if err := r.checkProvider(ctx, providerID); err != nil {
		return false, err
	}
	free, err := r.freeSet(ctx, providerID, date, exclude)
	if err != nil {
		return false, err
	}
	return containedIn(free, interval{startMinutes, startMinutes + durationMinutes}), nil
}

func (r *Resolver) checkProvider(ctx context.Context, providerID uuid.UUID) error {
	active, err := r.providers.IsActive(ctx, providerID)
	if err != nil {
		return err
	}
	if !active {
		return apperr.New(apperr.KindProviderNotFound, "provider is inactive")
	}
	return nil
}

// freeSet runs the subtraction pipeline: recurring rules minus closures,
// exceptions and active appointments.
func (r *Resolver) freeSet(ctx context.Context, providerID uuid.UUID, date time.Time, exclude uuid.UUID) ([]interval, error) {
	localDate := date.In(r.loc)
	weekday := int(localDate.Weekday())

	rules, err := r.rules.ListForWeekday(ctx, providerID, weekday)
	if err != nil {
		return nil, err
	}
	var base []interval
	for _, rule := range rules {
		if !rule.AppliesOn(localDate) {
			continue
		}
		start, err := timeutil.ParseClock(rule.Start)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInvalidRule, err, "stored rule %s has a bad start time", rule.ID)
		}
		end, err := timeutil.ParseClock(rule.End)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInvalidRule, err, "stored rule %s has a bad end time", rule.ID)
		}
		base = append(base, interval{start, end})
	}
	open := mergeIntervals(base)
	if len(open) == 0 {
		return nil, nil
	}

	closed, err := r.holidays.ExistsOn(ctx, localDate)
	if err != nil {
		return nil, err
	}
	if closed {
		return nil, nil
	}

	exceptions, err := r.exceptions.ListForDate(ctx, providerID, localDate)
	if err != nil {
		return nil, err
	}
	for _, e := range exceptions {
		if e.BusinessWide() && e.FullDay() {
			return nil, nil
		}
		cut := interval{0, timeutil.MinutesPerDay}
		if !e.FullDay() {
			cut.start, err = timeutil.ParseClock(*e.Start)
			if err != nil {
				return nil, apperr.Wrap(apperr.KindInvalidRule, err, "stored exception %s has a bad start time", e.ID)
			}
			cut.end, err = timeutil.ParseClock(*e.End)
			if err != nil {
				return nil, apperr.Wrap(apperr.KindInvalidRule, err, "stored exception %s has a bad end time", e.ID)
			}
		}
		open = subtract(open, cut)
	}

	booked, err := r.appointments.ActiveIntervals(ctx, providerID, localDate, exclude)
	if err != nil {
		return nil, err
	}
	for _, b := range booked {
		open = subtract(open, interval{b.Start, b.End})
	}
	return open, nil
}
