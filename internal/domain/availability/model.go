// Package availability derives a provider's bookable time windows from
// recurring weekly rules, date-specific exceptions, business holidays and
// already-booked appointments.
package availability

import (
	"time"

	"github.com/google/uuid"

	"github.com/bookline/bookline/pkg/apperr"
	"github.com/bookline/bookline/pkg/timeutil"
)

// RecurringRule maps to the recurring_rule table: a standing weekly open
// interval for a provider. A non-recurring rule applies only on its
// effective-from date.
type RecurringRule struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	ProviderID     uuid.UUID  `db:"provider_id" json:"provider_id"`
	Weekday        int        `db:"weekday" json:"weekday"` // 0 = Sunday, per time.Weekday
	Start          string     `db:"start_time" json:"start"`
	End            string     `db:"end_time" json:"end"`
	Recurring      bool       `db:"recurring" json:"recurring"`
	EffectiveFrom  *time.Time `db:"effective_from" json:"effective_from,omitempty"`
	EffectiveUntil *time.Time `db:"effective_until" json:"effective_until,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// Validate checks the rule's clock times. Overnight rules, where the end
// is not after the start, are rejected outright rather than resolved.
func (r *RecurringRule) Validate() error {
	if r.ProviderID == uuid.Nil {
		return apperr.New(apperr.KindMissingField, "provider_id is required")
	}
	if r.Weekday < 0 || r.Weekday > 6 {
		return apperr.New(apperr.KindInvalidRule, "weekday must be 0-6, got %d", r.Weekday)
	}
	start, err := timeutil.ParseClock(r.Start)
	if err != nil {
		return apperr.Wrap(apperr.KindInvalidRule, err, "invalid start time %q", r.Start)
	}
	end, err := timeutil.ParseClock(r.End)
	if err != nil {
		return apperr.Wrap(apperr.KindInvalidRule, err, "invalid end time %q", r.End)
	}
	if end <= start {
		return apperr.New(apperr.KindInvalidRule, "end %s must be after start %s on the same day", r.End, r.Start)
	}
	if !r.Recurring && r.EffectiveFrom == nil {
		return apperr.New(apperr.KindInvalidRule, "non-recurring rules need an effective_from date")
	}
	return nil
}

// AppliesOn reports whether the rule is in effect on the given date. The
// weekday match is the repository's concern; this checks the date range.
func (r *RecurringRule) AppliesOn(date time.Time) bool {
	day := timeutil.NormalizeDate(date, date.Location())
	if r.EffectiveFrom != nil && day < timeutil.NormalizeDate(*r.EffectiveFrom, date.Location()) {
		return false
	}
	if r.EffectiveUntil != nil && day > timeutil.NormalizeDate(*r.EffectiveUntil, date.Location()) {
		return false
	}
	if !r.Recurring {
		return day == timeutil.NormalizeDate(*r.EffectiveFrom, date.Location())
	}
	return true
}

// Exception maps to the availability_exception table: a date-specific
// block of time removed from availability. A provider-scoped exception
// affects one provider; a business-scoped one affects everyone. Empty
// start/end means the whole day.
type Exception struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	ProviderID *uuid.UUID `db:"provider_id" json:"provider_id,omitempty"` // nil = business-wide
	Date       time.Time  `db:"date" json:"date"`
	Start      *string    `db:"start_time" json:"start,omitempty"`
	End        *string    `db:"end_time" json:"end,omitempty"`
	Reason     *string    `db:"reason" json:"reason,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// FullDay reports whether the exception blocks the entire day.
func (e *Exception) FullDay() bool { return e.Start == nil || e.End == nil }

// BusinessWide reports whether the exception applies to every provider.
func (e *Exception) BusinessWide() bool { return e.ProviderID == nil }

// Validate checks the exception's clock times when it is partial-day.
func (e *Exception) Validate() error {
	if e.Date.IsZero() {
		return apperr.New(apperr.KindMissingField, "date is required")
	}
	if e.FullDay() {
		return nil
	}
	start, err := timeutil.ParseClock(*e.Start)
	if err != nil {
		return apperr.Wrap(apperr.KindInvalidRule, err, "invalid start time %q", *e.Start)
	}
	end, err := timeutil.ParseClock(*e.End)
	if err != nil {
		return apperr.Wrap(apperr.KindInvalidRule, err, "invalid end time %q", *e.End)
	}
	if end <= start {
		return apperr.New(apperr.KindInvalidRule, "end %s must be after start %s on the same day", *e.End, *e.Start)
	}
	return nil
}

// Holiday maps to the business_holiday table: a business-wide full-day
// closure.
type Holiday struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Date      time.Time `db:"date" json:"date"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Slot is one discrete bookable interval.
type Slot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}
