// Package message stores contact-form submissions shown on the admin
// dashboard.
package message

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("message not found")
	ErrMissingFields = errors.New("all fields are required")
)

type Message struct {
	ID uuid.UUID `json:"id"`

	// UserID links the message to a registered account when the sender's
	// email matches one.
	UserID *uuid.UUID `json:"userId,omitempty"`

	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Body      string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type Repository interface {
	Create(ctx context.Context, m *Message) (*Message, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Message, error)
	List(ctx context.Context) ([]Message, error)
	Update(ctx context.Context, m *Message) (*Message, error)
	Delete(ctx context.Context, id uuid.UUID) error

	FindUserIDByEmail(ctx context.Context, email string) (*uuid.UUID, error)
}
