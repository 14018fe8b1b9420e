package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/bookline/bookline/pkg/apperr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

func validate(s *ServiceType) error {
	if s.Name == "" {
		return apperr.New(apperr.KindMissingField, "name is required")
	}
	for _, d := range s.DurationOptions {
		if d <= 0 {
			return apperr.New(apperr.KindInvalidDuration, "duration options must be positive, got %d", d)
		}
	}
	return nil
}

func (s *Service) Create(ctx context.Context, st *ServiceType) error {
	if err := validate(st); err != nil {
		return err
	}
	return s.repo.Create(ctx, st)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ServiceType, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, st *ServiceType) error {
	if err := validate(st); err != nil {
		return err
	}
	return s.repo.Update(ctx, st)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*ServiceType, int, error) {
	return s.repo.List(ctx, limit, offset)
}
