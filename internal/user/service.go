package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/medicore/hospital-booking/internal/auth"
	"github.com/medicore/hospital-booking/internal/events"
	"github.com/medicore/hospital-booking/internal/validate"
)

var (
	ErrMissingFields      = errors.New("all fields are required")
	ErrInvalidPhone       = errors.New("phone number must be 10 digits starting with 6, 7, 8, or 9")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrEmailTaken         = errors.New("email already exists")
	ErrPhoneTaken         = errors.New("phone number already exists")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// PasswordError reports every unmet strength rule so the client can render a
// requirements checklist.
type PasswordError struct {
	Unmet []string
}

func (e *PasswordError) Error() string {
	return strings.Join(e.Unmet, " ")
}

type Service struct {
	repo   Repository
	events events.Publisher
	tokens *auth.Issuer
	log    zerolog.Logger
}

func NewService(repo Repository, pub events.Publisher, tokens *auth.Issuer, log zerolog.Logger) *Service {
	return &Service{repo: repo, events: pub, tokens: tokens, log: log}
}

type RegisterCommand struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// Register is the public signup path. It returns the created user and a
// signed token so the client is logged in immediately.
func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (*User, string, error) {
	if cmd.Name == "" || cmd.Email == "" || cmd.Password == "" || cmd.Phone == "" {
		return nil, "", ErrMissingFields
	}
	if !validate.Email(cmd.Email) {
		return nil, "", ErrInvalidEmail
	}

	existing, err := s.repo.GetByEmail(ctx, cmd.Email)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, "", fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	u, err := s.newUser(cmd.Name, cmd.Email, cmd.Password, cmd.Phone, RoleUser)
	if err != nil {
		return nil, "", err
	}

	created, err := s.repo.Create(ctx, u)
	if err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Sign(created.ID, created.Email, string(created.Role))
	if err != nil {
		return nil, "", err
	}
	return created, token, nil
}

// Login verifies credentials and bumps the login counters.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrMissingFields
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("load user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	now := time.Now()
	u.LogsCount++
	u.LastLogin = &now
	if u, err = s.repo.Update(ctx, u); err != nil {
		return nil, "", fmt.Errorf("record login: %w", err)
	}

	token, err := s.tokens.Sign(u.ID, u.Email, string(u.Role))
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

type CreateCommand struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     Role
}

// Create is the admin user-management path; unlike Register it enforces
// phone format and phone uniqueness, and allows setting the role.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*User, error) {
	if cmd.Name == "" || cmd.Email == "" || cmd.Password == "" || cmd.Phone == "" {
		return nil, ErrMissingFields
	}
	if !validate.Email(cmd.Email) {
		return nil, ErrInvalidEmail
	}

	role := cmd.Role
	if role == "" {
		role = RoleUser
	}
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}

	if existing, err := s.repo.GetByEmail(ctx, cmd.Email); err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	} else if existing != nil {
		return nil, ErrEmailTaken
	}

	phone, ok := validate.Phone(cmd.Phone)
	if !ok {
		return nil, ErrInvalidPhone
	}
	if existing, err := s.repo.GetByPhone(ctx, phone); err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("check phone: %w", err)
	} else if existing != nil {
		return nil, ErrPhoneTaken
	}

	u, err := s.newUser(cmd.Name, cmd.Email, cmd.Password, cmd.Phone, role)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.publish(ctx, events.UserCreated, created)
	return created, nil
}

type UpdateCommand struct {
	Name     *string
	Email    *string
	Password *string
	Phone    *string
	Role     *Role
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cmd.Phone != nil && *cmd.Phone != "" {
		phone, ok := validate.Phone(*cmd.Phone)
		if !ok {
			return nil, ErrInvalidPhone
		}
		u.Phone = phone
	}

	if cmd.Password != nil && *cmd.Password != "" {
		if unmet := validate.Password(*cmd.Password); len(unmet) > 0 {
			return nil, &PasswordError{Unmet: unmet}
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*cmd.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = string(hash)
	}

	if cmd.Email != nil && *cmd.Email != "" && !strings.EqualFold(*cmd.Email, u.Email) {
		if !validate.Email(*cmd.Email) {
			return nil, ErrInvalidEmail
		}
		if existing, err := s.repo.GetByEmail(ctx, *cmd.Email); err != nil && !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("check email: %w", err)
		} else if existing != nil {
			return nil, ErrEmailTaken
		}
		u.Email = validate.NormalizeEmail(*cmd.Email)
	}

	if cmd.Name != nil && *cmd.Name != "" {
		u.Name = *cmd.Name
	}
	if cmd.Role != nil && *cmd.Role != "" {
		if !cmd.Role.IsValid() {
			return nil, ErrInvalidRole
		}
		u.Role = *cmd.Role
	}

	updated, err := s.repo.Update(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.publish(ctx, events.UserUpdated, updated)
	return updated, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.UserDeleted, deletedPayload{ID: id})
	return nil
}

type deletedPayload struct {
	ID uuid.UUID `json:"id"`
}

func (s *Service) newUser(name, email, password, rawPhone string, role Role) (*User, error) {
	phone, ok := validate.Phone(rawPhone)
	if !ok {
		return nil, ErrInvalidPhone
	}
	if unmet := validate.Password(password); len(unmet) > 0 {
		return nil, &PasswordError{Unmet: unmet}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return &User{
		ID:           uuid.New(),
		Name:         name,
		Email:        validate.NormalizeEmail(email),
		PasswordHash: string(hash),
		Phone:        phone,
		Role:         role,
		CreatedAt:    time.Now(),
	}, nil
}

func (s *Service) publish(ctx context.Context, event string, payload any) {
	if err := s.events.Publish(ctx, event, payload); err != nil {
		s.log.Warn().Err(err).Str("event", event).Msg("event publish failed")
	}
}
