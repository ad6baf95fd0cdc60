package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("service not found")

type Repository interface {
	Create(ctx context.Context, svc *Service) (*Service, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Service, error)

	// GetByTitle matches case-insensitively; titles are unique that way.
	GetByTitle(ctx context.Context, title string) (*Service, error)

	List(ctx context.Context) ([]Service, error)
	Update(ctx context.Context, svc *Service) (*Service, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// CountAppointments is the pre-delete referential-integrity guard.
	CountAppointments(ctx context.Context, serviceID uuid.UUID) (int64, error)
}
