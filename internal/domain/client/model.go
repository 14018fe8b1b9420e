// Package client manages the people appointments are booked for, along
// with the visit history the booking engine maintains as a side effect.
package client

import (
	"time"

	"github.com/google/uuid"
)

// Client maps to the client table. FirstVisit, LastVisit and NoShowCount
// are owned by the appointment lifecycle, not by client CRUD.
type Client struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Email       *string    `db:"email" json:"email,omitempty"`
	Phone       *string    `db:"phone" json:"phone,omitempty"`
	Notes       *string    `db:"notes" json:"notes,omitempty"`
	FirstVisit  *time.Time `db:"first_visit" json:"first_visit,omitempty"`
	LastVisit   *time.Time `db:"last_visit" json:"last_visit,omitempty"`
	NoShowCount int        `db:"no_show_count" json:"no_show_count"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}
