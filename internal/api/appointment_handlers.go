package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/medicore/hospital-booking/internal/appointment"
)

type CreateAppointmentRequest struct {
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	ServiceID string  `json:"serviceId"`
	DoctorID  *string `json:"doctorId,omitempty"`
	Date      string  `json:"date"`
	Time      string  `json:"time"`
	Status    string  `json:"status,omitempty"`
	Details   string  `json:"details,omitempty"`
}

type UpdateAppointmentRequest struct {
	Name      *string `json:"name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	ServiceID *string `json:"serviceId,omitempty"`
	Date      *string `json:"date,omitempty"`
	Time      *string `json:"time,omitempty"`
	Status    *string `json:"status,omitempty"`
	Details   *string `json:"details,omitempty"`
}

type BulkTransitionRequest struct {
	IDs    []string `json:"ids"`
	Status string   `json:"status"`
}

type DeletedResponse struct {
	Message string    `json:"message"`
	ID      uuid.UUID `json:"id"`
}

func listAppointmentsHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var filter appointment.ListFilter
		if raw := r.URL.Query().Get("status"); raw != "" {
			status := appointment.Status(raw)
			filter.Status = &status
		}

		appointments, err := svc.List(r.Context(), filter)
		if err != nil {
			handleAppointmentError(w, err)
			return
		}
		if appointments == nil {
			appointments = []appointment.Appointment{}
		}

		writeJSON(w, http.StatusOK, appointments)
	}
}

func createAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Could not parse request body.")
			return
		}

		serviceID, err := uuid.Parse(req.ServiceID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "serviceId must be a valid UUID.")
			return
		}

		var doctorID *uuid.UUID
		if req.DoctorID != nil && *req.DoctorID != "" {
			id, err := uuid.Parse(*req.DoctorID)
			if err != nil {
				writeError(w, http.StatusBadRequest, "doctorId must be a valid UUID.")
				return
			}
			doctorID = &id
		}

		apt, err := svc.Create(r.Context(), appointment.CreateCommand{
			Name:      req.Name,
			Email:     req.Email,
			Phone:     req.Phone,
			ServiceID: serviceID,
			DoctorID:  doctorID,
			Date:      req.Date,
			Time:      req.Time,
			Status:    appointment.Status(req.Status),
			Details:   req.Details,
		})
		if err != nil {
			handleAppointmentError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, apt)
	}
}

func updateAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "id must be a valid UUID.")
			return
		}

		var req UpdateAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Could not parse request body.")
			return
		}

		cmd := appointment.UpdateCommand{
			Name:    req.Name,
			Email:   req.Email,
			Phone:   req.Phone,
			Date:    req.Date,
			Time:    req.Time,
			Details: req.Details,
		}
		if req.ServiceID != nil && *req.ServiceID != "" {
			serviceID, err := uuid.Parse(*req.ServiceID)
			if err != nil {
				writeError(w, http.StatusBadRequest, "serviceId must be a valid UUID.")
				return
			}
			cmd.ServiceID = &serviceID
		}
		if req.Status != nil && *req.Status != "" {
			status := appointment.Status(*req.Status)
			cmd.Status = &status
		}

		apt, err := svc.Update(r.Context(), id, cmd)
		if err != nil {
			handleAppointmentError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, apt)
	}
}

func deleteAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "id must be a valid UUID.")
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			handleAppointmentError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, DeletedResponse{
			Message: "Appointment deleted successfully.",
			ID:      id,
		})
	}
}

func bulkTransitionHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BulkTransitionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Could not parse request body.")
			return
		}
		if len(req.IDs) == 0 {
			writeError(w, http.StatusBadRequest, "ids must not be empty.")
			return
		}

		// Unparseable ids join the failure tally rather than rejecting the
		// whole batch; the executor is best-effort by contract.
		ids := make([]uuid.UUID, 0, len(req.IDs))
		malformed := 0
		for _, raw := range req.IDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				malformed++
				continue
			}
			ids = append(ids, id)
		}

		res, err := svc.BulkTransition(r.Context(), ids, appointment.Status(req.Status))
		if err != nil {
			handleAppointmentError(w, err)
			return
		}

		res.FailureCount += malformed
		if res.Updated == nil {
			res.Updated = []appointment.Appointment{}
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func handleAppointmentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appointment.ErrNotFound):
		writeError(w, http.StatusNotFound, "Appointment not found.")
	case errors.Is(err, appointment.ErrMissingFields),
		errors.Is(err, appointment.ErrInvalidPhone),
		errors.Is(err, appointment.ErrInvalidEmail),
		errors.Is(err, appointment.ErrInvalidStatus),
		errors.Is(err, appointment.ErrLimitExceeded),
		errors.Is(err, appointment.ErrSlotConflict),
		errors.Is(err, appointment.ErrServiceNotFound):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		// Malformed time strings and storage failures both land here: the
		// boundary surfaces them as a generic failure.
		writeError(w, http.StatusInternalServerError, "Server error.")
	}
}
