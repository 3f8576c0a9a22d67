package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/igsuryas/raksha-backend/internal/errs"
	"github.com/igsuryas/raksha-backend/internal/middleware"
	"github.com/igsuryas/raksha-backend/internal/services"
)

type SOSHandler struct {
	alerts *services.AlertService
}

func NewSOSHandler(alerts *services.AlertService) *SOSHandler {
	return &SOSHandler{alerts: alerts}
}

type sosRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	// Location overrides the maps link built from the coordinates.
	Location string `json:"location"`

	// NumbersArray is an explicit recipient list; when empty the active
	// trusted contacts are used.
	NumbersArray []string `json:"numbers_array"`
}

// Trigger handles POST /api/sos
func (h *SOSHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req sosRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		respondError(w, http.StatusBadRequest, "Latitude and longitude are required")
		return
	}
	if msg, ok := validCoordinates(*req.Latitude, *req.Longitude); !ok {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	result, err := h.alerts.Dispatch(r.Context(), userID, services.DispatchRequest{
		Latitude:   *req.Latitude,
		Longitude:  *req.Longitude,
		MapsLink:   req.Location,
		Recipients: req.NumbersArray,
	})
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrUserNotFound):
			respondError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, errs.ErrNoTrustedContacts):
			respondError(w, http.StatusBadRequest, "No trusted contacts configured. Add at least one contact before sending an SOS.")
		case errors.Is(err, errs.ErrDispatchFailed):
			respondError(w, http.StatusInternalServerError, "SOS could not be delivered. The attempt has been recorded.")
		default:
			respondError(w, http.StatusInternalServerError, "Failed to send SOS")
		}
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "SOS sent",
		Data:    result,
	})
}

// History handles GET /api/sos/history?limit=
func (h *SOSHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	records, err := h.alerts.History(r.Context(), userID, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch alert history")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"count":  len(records),
			"alerts": records,
		},
	})
}
