// Package appointment owns the booking engine: validating and committing
// new bookings against resolved availability, and driving each
// appointment through its lifecycle state machine.
package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/bookline/bookline/pkg/timeutil"
)

// Appointment maps to the appointment table. Rows are never deleted;
// cancelled, completed and no-show are terminal states kept for history.
type Appointment struct {
	ID              uuid.UUID `db:"id" json:"id"`
	ClientID        uuid.UUID `db:"client_id" json:"client_id"`
	ProviderID      uuid.UUID `db:"provider_id" json:"provider_id"`
	ServiceID       uuid.UUID `db:"service_id" json:"service_id"`
	Date            time.Time `db:"date" json:"date"`
	Start           string    `db:"start_time" json:"start"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	Status          Status    `db:"status" json:"status"`
	Notes           *string   `db:"notes" json:"notes,omitempty"`
	CancelReason    *string   `db:"cancel_reason" json:"cancel_reason,omitempty"`
	CalendarRef     *string   `db:"calendar_ref" json:"calendar_ref,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// Interval returns the appointment's occupied [start,end) range in
// minutes since midnight.
func (a *Appointment) Interval() (int, int, error) {
	start, err := timeutil.ParseClock(a.Start)
	if err != nil {
		return 0, 0, err
	}
	return start, start + a.DurationMinutes, nil
}

// StartsAt returns the instant the appointment begins in loc.
func (a *Appointment) StartsAt(loc *time.Location) (time.Time, error) {
	start, err := timeutil.ParseClock(a.Start)
	if err != nil {
		return time.Time{}, err
	}
	return timeutil.AtMinutes(a.Date, start, loc), nil
}

// BookingRequest is the payload for creating an appointment.
type BookingRequest struct {
	ClientID        uuid.UUID `json:"client_id"`
	ProviderID      uuid.UUID `json:"provider_id"`
	ServiceID       uuid.UUID `json:"service_id"`
	Date            string    `json:"date"`
	Start           string    `json:"start"`
	DurationMinutes int       `json:"duration_minutes"`
	Notes           *string   `json:"notes,omitempty"`
}

// RescheduleRequest carries the fields a reschedule may change. Omitted
// fields keep their current values.
type RescheduleRequest struct {
	NewDate       *string    `json:"new_date,omitempty"`
	NewStart      *string    `json:"new_start,omitempty"`
	NewProviderID *uuid.UUID `json:"new_provider_id,omitempty"`
	NewServiceID  *uuid.UUID `json:"new_service_id,omitempty"`
	NewDuration   *int       `json:"new_duration,omitempty"`
	Reason        *string    `json:"reason,omitempty"`
}
