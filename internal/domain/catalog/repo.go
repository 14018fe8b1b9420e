package catalog

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, s *ServiceType) error
	GetByID(ctx context.Context, id uuid.UUID) (*ServiceType, error)
	Update(ctx context.Context, s *ServiceType) error
	List(ctx context.Context, limit, offset int) ([]*ServiceType, int, error)
}
