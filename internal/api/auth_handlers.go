package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/medicore/hospital-booking/internal/user"
)

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthUser is the account subset returned alongside a token.
type AuthUser struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      user.Role `json:"role"`
	LogsCount int       `json:"logsCount,omitempty"`
}

type AuthResponse struct {
	Message string   `json:"message"`
	Token   string   `json:"token"`
	User    AuthUser `json:"user"`
}

func signupHandler(svc *user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Could not parse request body.")
			return
		}

		u, token, err := svc.Register(r.Context(), user.RegisterCommand{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Phone:    req.Phone,
		})
		if err != nil {
			handleUserError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, AuthResponse{
			Message: "User created successfully.",
			Token:   token,
			User:    AuthUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role},
		})
	}
}

func loginHandler(svc *user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Could not parse request body.")
			return
		}

		u, token, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			handleUserError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, AuthResponse{
			Message: "Login successful.",
			Token:   token,
			User: AuthUser{
				ID:        u.ID,
				Name:      u.Name,
				Email:     u.Email,
				Role:      u.Role,
				LogsCount: u.LogsCount,
			},
		})
	}
}
