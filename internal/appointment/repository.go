package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("appointment not found")
	ErrServiceNotFound = errors.New("service not found")
)

// ListFilter narrows List results. A nil Status returns every appointment.
type ListFilter struct {
	Status *Status
}

// Repository contains all persistence interactions needed by the service.
type Repository interface {
	Create(ctx context.Context, apt *Appointment) (*Appointment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	List(ctx context.Context, filter ListFilter) ([]Appointment, error)
	Update(ctx context.Context, apt *Appointment) (*Appointment, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// For the per-user limit check: bookings whose email matches
	// case-insensitively and whose status is pending or postponed.
	FindActiveByEmail(ctx context.Context, email string) ([]Appointment, error)

	// For conflict detection: non-cancelled bookings held by the
	// practitioner on the given calendar date.
	FindByDoctorAndDate(ctx context.Context, doctorID uuid.UUID, date string) ([]Appointment, error)

	// Referential checks against external collaborators.
	ServiceExists(ctx context.Context, id uuid.UUID) (bool, error)
	FindUserIDByEmail(ctx context.Context, email string) (*uuid.UUID, error)

	// Retention sweep: permanently delete terminal appointments whose
	// terminal timestamp is older than cutoff. Returns per-status counts.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (completed, cancelled int64, err error)
}
