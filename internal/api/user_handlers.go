package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/medicore/hospital-booking/internal/user"
)

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Role     string `json:"role,omitempty"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Role     *string `json:"role,omitempty"`
}

func listUsersHandler(svc *user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := svc.List(r.Context())
		if err != nil {
			handleUserError(w, err)
			return
		}
		if users == nil {
			users = []user.User{}
		}
		writeJSON(w, http.StatusOK, users)
	}
}

func createUserHandler(svc *user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Could not parse request body.")
			return
		}

		u, err := svc.Create(r.Context(), user.CreateCommand{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Phone:    req.Phone,
			Role:     user.Role(req.Role),
		})
		if err != nil {
			handleUserError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, u)
	}
}

func updateUserHandler(svc *user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "id must be a valid UUID.")
			return
		}

		var req UpdateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Could not parse request body.")
			return
		}

		cmd := user.UpdateCommand{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Phone:    req.Phone,
		}
		if req.Role != nil && *req.Role != "" {
			role := user.Role(*req.Role)
			cmd.Role = &role
		}

		u, err := svc.Update(r.Context(), id, cmd)
		if err != nil {
			handleUserError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, u)
	}
}

func deleteUserHandler(svc *user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "id must be a valid UUID.")
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			handleUserError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, DeletedResponse{
			Message: "User deleted successfully.",
			ID:      id,
		})
	}
}

func handleUserError(w http.ResponseWriter, err error) {
	var pwErr *user.PasswordError
	switch {
	case errors.Is(err, user.ErrNotFound):
		writeError(w, http.StatusNotFound, "User not found.")
	case errors.Is(err, user.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials.")
	case errors.As(err, &pwErr):
		writeError(w, http.StatusBadRequest, pwErr.Error())
	case errors.Is(err, user.ErrMissingFields),
		errors.Is(err, user.ErrInvalidPhone),
		errors.Is(err, user.ErrInvalidEmail),
		errors.Is(err, user.ErrEmailTaken),
		errors.Is(err, user.ErrPhoneTaken),
		errors.Is(err, user.ErrInvalidRole):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "Server error.")
	}
}
