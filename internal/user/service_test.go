package user

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicore/hospital-booking/internal/auth"
	"github.com/medicore/hospital-booking/internal/events"
)

type fakeRepo struct {
	users map[uuid.UUID]User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[uuid.UUID]User)}
}

func (r *fakeRepo) Create(_ context.Context, u *User) (*User, error) {
	r.users[u.ID] = *u
	out := *u
	return &out, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := u
	return &out, nil
}

func (r *fakeRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			out := u
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) GetByPhone(_ context.Context, phone string) (*User, error) {
	for _, u := range r.users {
		if u.Phone == phone {
			out := u
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) List(_ context.Context) ([]User, error) {
	var out []User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeRepo) Update(_ context.Context, u *User) (*User, error) {
	if _, ok := r.users[u.ID]; !ok {
		return nil, ErrNotFound
	}
	r.users[u.ID] = *u
	out := *u
	return &out, nil
}

func (r *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.users[id]; !ok {
		return ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func newTestService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	tokens := auth.NewIssuer("test-secret")
	return NewService(repo, events.Nop{}, tokens, zerolog.Nop()), repo
}

func validRegister() RegisterCommand {
	return RegisterCommand{
		Name:     "Jane Doe",
		Email:    "Jane@Example.com",
		Password: "Str0ng!pass",
		Phone:    "987-654-3210",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		svc, _ := newTestService()

		u, token, err := svc.Register(ctx, validRegister())
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "jane@example.com", u.Email)
		assert.Equal(t, "9876543210", u.Phone)
		assert.Equal(t, RoleUser, u.Role)
		assert.NotEmpty(t, u.PasswordHash)
		assert.NotEqual(t, "Str0ng!pass", u.PasswordHash)
	})

	t.Run("missing fields", func(t *testing.T) {
		svc, _ := newTestService()

		cmd := validRegister()
		cmd.Password = ""
		_, _, err := svc.Register(ctx, cmd)
		assert.ErrorIs(t, err, ErrMissingFields)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, _ := newTestService()

		_, _, err := svc.Register(ctx, validRegister())
		require.NoError(t, err)

		dup := validRegister()
		dup.Email = "JANE@example.COM"
		_, _, err = svc.Register(ctx, dup)
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("weak password reports unmet rules", func(t *testing.T) {
		svc, _ := newTestService()

		cmd := validRegister()
		cmd.Password = "weakpass"
		_, _, err := svc.Register(ctx, cmd)

		var pwErr *PasswordError
		require.ErrorAs(t, err, &pwErr)
		assert.Contains(t, pwErr.Error(), "uppercase")
		assert.Contains(t, pwErr.Error(), "number")
		assert.Contains(t, pwErr.Error(), "special")
	})

	t.Run("invalid phone", func(t *testing.T) {
		svc, _ := newTestService()

		cmd := validRegister()
		cmd.Phone = "1234567890"
		_, _, err := svc.Register(ctx, cmd)
		assert.ErrorIs(t, err, ErrInvalidPhone)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	registered, _, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	t.Run("happy path bumps counters", func(t *testing.T) {
		u, token, err := svc.Login(ctx, "jane@example.com", "Str0ng!pass")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, registered.ID, u.ID)
		assert.Equal(t, 1, u.LogsCount)
		assert.NotNil(t, u.LastLogin)

		u, _, err = svc.Login(ctx, "jane@example.com", "Str0ng!pass")
		require.NoError(t, err)
		assert.Equal(t, 2, u.LogsCount)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "jane@example.com", "Wr0ng!pass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email maps to the same error", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody@example.com", "Str0ng!pass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAdminCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("sets role", func(t *testing.T) {
		svc, _ := newTestService()

		u, err := svc.Create(ctx, CreateCommand{
			Name:     "Ops Admin",
			Email:    "ops@example.com",
			Password: "Str0ng!pass",
			Phone:    "9876543210",
			Role:     RoleAdmin,
		})
		require.NoError(t, err)
		assert.Equal(t, RoleAdmin, u.Role)
	})

	t.Run("invalid role", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.Create(ctx, CreateCommand{
			Name:     "X",
			Email:    "x@example.com",
			Password: "Str0ng!pass",
			Phone:    "9876543210",
			Role:     Role("superuser"),
		})
		assert.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("duplicate phone", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.Create(ctx, CreateCommand{
			Name:     "First",
			Email:    "first@example.com",
			Password: "Str0ng!pass",
			Phone:    "9876543210",
		})
		require.NoError(t, err)

		_, err = svc.Create(ctx, CreateCommand{
			Name:     "Second",
			Email:    "second@example.com",
			Password: "Str0ng!pass",
			Phone:    "987 654 3210",
		})
		assert.ErrorIs(t, err, ErrPhoneTaken)
	})
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	u, _, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	other, _, err := svc.Register(ctx, RegisterCommand{
		Name:     "Other",
		Email:    "other@example.com",
		Password: "Str0ng!pass",
		Phone:    "8876543210",
	})
	require.NoError(t, err)

	t.Run("email change onto taken address rejected", func(t *testing.T) {
		email := "other@example.com"
		_, err := svc.Update(ctx, u.ID, UpdateCommand{Email: &email})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("same email with different case is a no-op not a dup", func(t *testing.T) {
		email := "JANE@example.com"
		updated, err := svc.Update(ctx, u.ID, UpdateCommand{Email: &email})
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", updated.Email)
	})

	t.Run("role change", func(t *testing.T) {
		role := RoleAdmin
		updated, err := svc.Update(ctx, other.ID, UpdateCommand{Role: &role})
		require.NoError(t, err)
		assert.Equal(t, RoleAdmin, updated.Role)
	})

	t.Run("weak new password rejected", func(t *testing.T) {
		pw := "short"
		_, err := svc.Update(ctx, u.ID, UpdateCommand{Password: &pw})
		var pwErr *PasswordError
		assert.ErrorAs(t, err, &pwErr)
	})
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	u, _, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, u.ID))
	assert.ErrorIs(t, svc.Delete(ctx, u.ID), ErrNotFound)
}
