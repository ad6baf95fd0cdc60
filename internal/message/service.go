package message

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medicore/hospital-booking/internal/events"
)

type Service struct {
	repo   Repository
	events events.Publisher
	log    zerolog.Logger
}

func NewService(repo Repository, pub events.Publisher, log zerolog.Logger) *Service {
	return &Service{repo: repo, events: pub, log: log}
}

type CreateCommand struct {
	Name  string
	Email string
	Phone string
	Body  string
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Message, error) {
	if cmd.Name == "" || cmd.Email == "" || cmd.Phone == "" || cmd.Body == "" {
		return nil, ErrMissingFields
	}

	userID, err := s.repo.FindUserIDByEmail(ctx, cmd.Email)
	if err != nil {
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	m := &Message{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      cmd.Name,
		Email:     cmd.Email,
		Phone:     cmd.Phone,
		Body:      cmd.Body,
		CreatedAt: time.Now(),
	}

	created, err := s.repo.Create(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	s.publish(ctx, events.MessageCreated, created)
	return created, nil
}

type UpdateCommand struct {
	Name  *string
	Email *string
	Phone *string
	Body  *string
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Message, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil && *cmd.Name != "" {
		m.Name = *cmd.Name
	}
	if cmd.Email != nil && *cmd.Email != "" {
		m.Email = *cmd.Email
	}
	if cmd.Phone != nil && *cmd.Phone != "" {
		m.Phone = *cmd.Phone
	}
	if cmd.Body != nil && *cmd.Body != "" {
		m.Body = *cmd.Body
	}

	updated, err := s.repo.Update(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("update message: %w", err)
	}

	s.publish(ctx, events.MessageUpdated, updated)
	return updated, nil
}

func (s *Service) List(ctx context.Context) ([]Message, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.MessageDeleted, deletedPayload{ID: id})
	return nil
}

type deletedPayload struct {
	ID uuid.UUID `json:"id"`
}

func (s *Service) publish(ctx context.Context, event string, payload any) {
	if err := s.events.Publish(ctx, event, payload); err != nil {
		s.log.Warn().Err(err).Str("event", event).Msg("event publish failed")
	}
}
