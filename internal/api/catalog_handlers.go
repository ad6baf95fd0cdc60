package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/medicore/hospital-booking/internal/catalog"
)

type CreateServiceRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	KeyServices []string `json:"keyServices,omitempty"`
	IconName    string   `json:"iconName"`
}

type UpdateServiceRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	KeyServices []string `json:"keyServices,omitempty"`
	IconName    *string  `json:"iconName,omitempty"`
}

func listServicesHandler(mgr *catalog.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services, err := mgr.List(r.Context())
		if err != nil {
			handleCatalogError(w, err)
			return
		}
		if services == nil {
			services = []catalog.Service{}
		}
		writeJSON(w, http.StatusOK, services)
	}
}

func createServiceHandler(mgr *catalog.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateServiceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Could not parse request body.")
			return
		}

		svc, err := mgr.Create(r.Context(), catalog.CreateCommand{
			Title:       req.Title,
			Description: req.Description,
			KeyServices: req.KeyServices,
			IconName:    req.IconName,
		})
		if err != nil {
			handleCatalogError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, svc)
	}
}

func updateServiceHandler(mgr *catalog.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "id must be a valid UUID.")
			return
		}

		var req UpdateServiceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Could not parse request body.")
			return
		}

		svc, err := mgr.Update(r.Context(), id, catalog.UpdateCommand{
			Title:       req.Title,
			Description: req.Description,
			KeyServices: req.KeyServices,
			IconName:    req.IconName,
		})
		if err != nil {
			handleCatalogError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, svc)
	}
}

func deleteServiceHandler(mgr *catalog.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "id must be a valid UUID.")
			return
		}

		if err := mgr.Delete(r.Context(), id); err != nil {
			handleCatalogError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, DeletedResponse{
			Message: "Service deleted successfully.",
			ID:      id,
		})
	}
}

func handleCatalogError(w http.ResponseWriter, err error) {
	var inUse *catalog.InUseError
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "Service not found.")
	case errors.As(err, &inUse):
		writeError(w, http.StatusBadRequest, inUse.Error())
	case errors.Is(err, catalog.ErrMissingFields),
		errors.Is(err, catalog.ErrDuplicateTitle):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "Server error.")
	}
}
