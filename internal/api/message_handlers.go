package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/medicore/hospital-booking/internal/message"
)

type CreateMessageRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type UpdateMessageRequest struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Message *string `json:"message,omitempty"`
}

func listMessagesHandler(svc *message.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messages, err := svc.List(r.Context())
		if err != nil {
			handleMessageError(w, err)
			return
		}
		if messages == nil {
			messages = []message.Message{}
		}
		writeJSON(w, http.StatusOK, messages)
	}
}

func createMessageHandler(svc *message.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Could not parse request body.")
			return
		}

		m, err := svc.Create(r.Context(), message.CreateCommand{
			Name:  req.Name,
			Email: req.Email,
			Phone: req.Phone,
			Body:  req.Message,
		})
		if err != nil {
			handleMessageError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, m)
	}
}

func updateMessageHandler(svc *message.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "id must be a valid UUID.")
			return
		}

		var req UpdateMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Could not parse request body.")
			return
		}

		m, err := svc.Update(r.Context(), id, message.UpdateCommand{
			Name:  req.Name,
			Email: req.Email,
			Phone: req.Phone,
			Body:  req.Message,
		})
		if err != nil {
			handleMessageError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, m)
	}
}

func deleteMessageHandler(svc *message.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "id must be a valid UUID.")
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			handleMessageError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, DeletedResponse{
			Message: "Message deleted successfully.",
			ID:      id,
		})
	}
}

func handleMessageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, message.ErrNotFound):
		writeError(w, http.StatusNotFound, "Message not found.")
	case errors.Is(err, message.ErrMissingFields):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "Server error.")
	}
}
