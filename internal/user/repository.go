package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("user not found")

type Repository interface {
	Create(ctx context.Context, u *User) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByPhone(ctx context.Context, phone string) (*User, error)

	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, u *User) (*User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
