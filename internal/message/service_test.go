package message

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicore/hospital-booking/internal/events"
)

type fakeRepo struct {
	messages map[uuid.UUID]Message
	users    map[string]uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		messages: make(map[uuid.UUID]Message),
		users:    make(map[string]uuid.UUID),
	}
}

func (r *fakeRepo) Create(_ context.Context, m *Message) (*Message, error) {
	r.messages[m.ID] = *m
	out := *m
	return &out, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Message, error) {
	m, ok := r.messages[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := m
	return &out, nil
}

func (r *fakeRepo) List(_ context.Context) ([]Message, error) {
	var out []Message
	for _, m := range r.messages {
		out = append(out, m)
	}
	return out, nil
}

func (r *fakeRepo) Update(_ context.Context, m *Message) (*Message, error) {
	if _, ok := r.messages[m.ID]; !ok {
		return nil, ErrNotFound
	}
	r.messages[m.ID] = *m
	out := *m
	return &out, nil
}

func (r *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.messages[id]; !ok {
		return ErrNotFound
	}
	delete(r.messages, id)
	return nil
}

func (r *fakeRepo) FindUserIDByEmail(_ context.Context, email string) (*uuid.UUID, error) {
	if id, ok := r.users[strings.ToLower(email)]; ok {
		out := id
		return &out, nil
	}
	return nil, nil
}

func TestMessageCreate(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo, events.Nop{}, zerolog.Nop())

	t.Run("links a registered account by email", func(t *testing.T) {
		userID := uuid.New()
		repo.users["jane@example.com"] = userID

		m, err := svc.Create(ctx, CreateCommand{
			Name:  "Jane Doe",
			Email: "Jane@Example.com",
			Phone: "9876543210",
			Body:  "Is the clinic open on Saturdays?",
		})
		require.NoError(t, err)
		require.NotNil(t, m.UserID)
		assert.Equal(t, userID, *m.UserID)
	})

	t.Run("unknown sender leaves userId nil", func(t *testing.T) {
		m, err := svc.Create(ctx, CreateCommand{
			Name:  "Stranger",
			Email: "stranger@example.com",
			Phone: "8876543210",
			Body:  "Hello",
		})
		require.NoError(t, err)
		assert.Nil(t, m.UserID)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateCommand{Name: "Jane"})
		assert.ErrorIs(t, err, ErrMissingFields)
	})
}

func TestMessageUpdateDelete(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo, events.Nop{}, zerolog.Nop())

	m, err := svc.Create(ctx, CreateCommand{
		Name:  "Jane Doe",
		Email: "jane@example.com",
		Phone: "9876543210",
		Body:  "Original",
	})
	require.NoError(t, err)

	body := "Edited"
	updated, err := svc.Update(ctx, m.ID, UpdateCommand{Body: &body})
	require.NoError(t, err)
	assert.Equal(t, "Edited", updated.Body)
	assert.Equal(t, "Jane Doe", updated.Name)

	require.NoError(t, svc.Delete(ctx, m.ID))
	assert.ErrorIs(t, svc.Delete(ctx, m.ID), ErrNotFound)
}
