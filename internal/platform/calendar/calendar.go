// Package calendar mirrors appointments into an external calendar. Sync
// failures never fail the booking operation; callers surface them as
// response warnings instead.
package calendar

import (
	"context"
	"time"
)

// Event is the calendar-facing view of an appointment.
type Event struct {
	AppointmentID string
	Summary       string
	Description   string
	Start         time.Time
	End           time.Time
}

// Sync pushes appointment changes to an external calendar.
type Sync interface {
	CreateEvent(ctx context.Context, ev Event) (string, error)
	UpdateEvent(ctx context.Context, eventID string, ev Event) error
	DeleteEvent(ctx context.Context, eventID string) error
}

// NoopSync is used when no external calendar is configured.
type NoopSync struct{}

func (NoopSync) CreateEvent(context.Context, Event) (string, error) { return "", nil }
func (NoopSync) UpdateEvent(context.Context, string, Event) error   { return nil }
func (NoopSync) DeleteEvent(context.Context, string) error          { return nil }
