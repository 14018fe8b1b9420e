// Package provider manages the staff members who deliver services and
// own a bookable schedule.
package provider

import (
	"time"

	"github.com/google/uuid"
)

// Provider maps to the provider table.
type Provider struct {
	ID         uuid.UUID   `db:"id" json:"id"`
	Name       string      `db:"name" json:"name"`
	Email      *string     `db:"email" json:"email,omitempty"`
	Phone      *string     `db:"phone" json:"phone,omitempty"`
	Active     bool        `db:"active" json:"active"`
	ServiceIDs []uuid.UUID `db:"service_ids" json:"service_ids"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time   `db:"updated_at" json:"updated_at"`
}

// Offers reports whether the provider offers the given service.
func (p *Provider) Offers(serviceID uuid.UUID) bool {
	for _, id := range p.ServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}
