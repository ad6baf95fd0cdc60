package user

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

type User struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`

	// PasswordHash never leaves the server.
	PasswordHash string `json:"-"`

	// Phone is stored in digits-only canonical form.
	Phone string `json:"phone"`
	Role  Role   `json:"role"`

	LogsCount int        `json:"logsCount"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}
