// Package catalog manages the bookable service types and their allowed
// appointment durations.
package catalog

import (
	"time"

	"github.com/google/uuid"
)

// ServiceType maps to the service_type table. A service with no duration
// options accepts any positive duration.
type ServiceType struct {
	ID              uuid.UUID `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Description     *string   `db:"description" json:"description,omitempty"`
	DurationOptions []int     `db:"duration_options" json:"duration_options"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// AllowsDuration reports whether an appointment of the given length may
// be booked for this service.
func (s *ServiceType) AllowsDuration(minutes int) bool {
	if minutes <= 0 {
		return false
	}
	if len(s.DurationOptions) == 0 {
		return true
	}
	for _, d := range s.DurationOptions {
		if d == minutes {
			return true
		}
	}
	return false
}
