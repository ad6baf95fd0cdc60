package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medicore/hospital-booking/internal/events"
)

var (
	ErrMissingFields  = errors.New("title, description, and iconName are required")
	ErrDuplicateTitle = errors.New("a service with this title already exists")
)

// InUseError blocks deletion of a service that appointments still reference.
type InUseError struct {
	Count int64
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("cannot delete service: %d appointment(s) are linked to this service, please reassign or delete them first", e.Count)
}

type Manager struct {
	repo   Repository
	events events.Publisher
	log    zerolog.Logger
}

func NewManager(repo Repository, pub events.Publisher, log zerolog.Logger) *Manager {
	return &Manager{repo: repo, events: pub, log: log}
}

type CreateCommand struct {
	Title       string
	Description string
	KeyServices []string
	IconName    string
}

func (m *Manager) Create(ctx context.Context, cmd CreateCommand) (*Service, error) {
	if cmd.Title == "" || cmd.Description == "" || cmd.IconName == "" {
		return nil, ErrMissingFields
	}

	existing, err := m.repo.GetByTitle(ctx, cmd.Title)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("check title: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateTitle
	}

	keyServices := cmd.KeyServices
	if keyServices == nil {
		keyServices = []string{}
	}

	now := time.Now()
	svc := &Service{
		ID:          uuid.New(),
		Title:       cmd.Title,
		Description: cmd.Description,
		KeyServices: keyServices,
		IconName:    cmd.IconName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := m.repo.Create(ctx, svc)
	if err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}

	m.publish(ctx, events.ServiceCreated, created)
	return created, nil
}

type UpdateCommand struct {
	Title       *string
	Description *string
	KeyServices []string
	IconName    *string
}

func (m *Manager) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Service, error) {
	svc, err := m.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cmd.Title != nil && *cmd.Title != "" && *cmd.Title != svc.Title {
		existing, err := m.repo.GetByTitle(ctx, *cmd.Title)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("check title: %w", err)
		}
		if existing != nil && existing.ID != id {
			return nil, ErrDuplicateTitle
		}
		svc.Title = *cmd.Title
	}
	if cmd.Description != nil && *cmd.Description != "" {
		svc.Description = *cmd.Description
	}
	if cmd.KeyServices != nil {
		svc.KeyServices = cmd.KeyServices
	}
	if cmd.IconName != nil && *cmd.IconName != "" {
		svc.IconName = *cmd.IconName
	}
	svc.UpdatedAt = time.Now()

	updated, err := m.repo.Update(ctx, svc)
	if err != nil {
		return nil, fmt.Errorf("update service: %w", err)
	}

	m.publish(ctx, events.ServiceUpdated, updated)
	return updated, nil
}

func (m *Manager) Get(ctx context.Context, id uuid.UUID) (*Service, error) {
	return m.repo.GetByID(ctx, id)
}

func (m *Manager) List(ctx context.Context) ([]Service, error) {
	return m.repo.List(ctx)
}

// Delete removes a service unless appointments still reference it.
func (m *Manager) Delete(ctx context.Context, id uuid.UUID) error {
	count, err := m.repo.CountAppointments(ctx, id)
	if err != nil {
		return fmt.Errorf("count linked appointments: %w", err)
	}
	if count > 0 {
		return &InUseError{Count: count}
	}

	if err := m.repo.Delete(ctx, id); err != nil {
		return err
	}

	m.publish(ctx, events.ServiceDeleted, deletedPayload{ID: id})
	return nil
}

type deletedPayload struct {
	ID uuid.UUID `json:"id"`
}

func (m *Manager) publish(ctx context.Context, event string, payload any) {
	if err := m.events.Publish(ctx, event, payload); err != nil {
		m.log.Warn().Err(err).Str("event", event).Msg("event publish failed")
	}
}
