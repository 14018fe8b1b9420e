package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bookline/bookline/internal/domain/availability"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	ListByProviderDate(ctx context.Context, providerID uuid.UUID, date time.Time) ([]*Appointment, error)
	ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*Appointment, int, error)

	// ActiveIntervals feeds the availability resolver; see
	// availability.AppointmentSource.
	ActiveIntervals(ctx context.Context, providerID uuid.UUID, date time.Time, exclude uuid.UUID) ([]availability.BookedInterval, error)
}
