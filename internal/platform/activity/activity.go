// Package activity records lifecycle events for appointments so staff can
// answer "what happened to this booking". Recording is best effort: a
// failed write never fails the operation that triggered it, it only
// produces a response warning.
package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Entry is one appointment lifecycle event.
type Entry struct {
	ID            uuid.UUID `json:"id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	ProviderID    uuid.UUID `json:"provider_id"`
	ClientID      uuid.UUID `json:"client_id"`
	Action        string    `json:"action"`
	FromStatus    string    `json:"from_status,omitempty"`
	ToStatus      string    `json:"to_status,omitempty"`
	Actor         string    `json:"actor,omitempty"`
	Detail        string    `json:"detail,omitempty"`
	RecordedAt    time.Time `json:"recorded_at"`
}

// Recorder persists lifecycle entries and serves the activity feed.
type Recorder interface {
	Record(ctx context.Context, e *Entry) error
	ListByAppointment(ctx context.Context, appointmentID uuid.UUID, limit, offset int) ([]*Entry, int, error)
	ListRecent(ctx context.Context, limit, offset int) ([]*Entry, int, error)
}
