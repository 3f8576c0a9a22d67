package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/igsuryas/raksha-backend/internal/middleware"
	"github.com/igsuryas/raksha-backend/internal/models"
	"github.com/igsuryas/raksha-backend/internal/services"
)

// DefaultNearbyRadiusMeters is used when the client does not pass a radius.
const DefaultNearbyRadiusMeters = 500.0

type LocationHandler struct {
	locations *services.LocationService
}

func NewLocationHandler(locations *services.LocationService) *LocationHandler {
	return &LocationHandler{locations: locations}
}

type updateLocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	Accuracy *float64 `json:"accuracy"`
	Altitude *float64 `json:"altitude"`
	Speed    *float64 `json:"speed"`
	Heading  *float64 `json:"heading"`

	Timestamp *time.Time `json:"timestamp"`
}

// Update handles POST /api/location. Samples closer than 5 meters to the
// previous stored one are acknowledged but not persisted.
func (h *LocationHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req updateLocationRequest
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

	sample := models.LocationSample{
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		Accuracy:  req.Accuracy,
		Altitude:  req.Altitude,
		Speed:     req.Speed,
		Heading:   req.Heading,
	}
	if req.Timestamp != nil {
		sample.Timestamp = req.Timestamp.UTC()
	}

	result, err := h.locations.Record(r.Context(), userID.String(), sample)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to record location")
		return
	}

	if !result.Saved {
		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Location not stored, too close to previous position",
			Data: map[string]interface{}{
				"saved":                  false,
				"distance_from_previous": result.DistanceFromPrevious,
				"threshold_meters":       services.DuplicateRadiusMeters,
			},
		})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Location updated",
		Data:    result,
	})
}

// Current handles GET /api/location. 404 when the user has no stored sample.
func (h *LocationHandler) Current(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	sample, err := h.locations.Last(r.Context(), userID.String())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch location")
		return
	}
	if sample == nil {
		respondError(w, http.StatusNotFound, "No location recorded yet")
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: sample})
}

// History handles GET /api/location/history?limit=
func (h *LocationHandler) History(w http.ResponseWriter, r *http.Request) {
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

	samples, err := h.locations.History(r.Context(), userID.String(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch history")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"count":     len(samples),
			"locations": samples,
		},
	})
}

// Nearby handles GET /api/location/nearby?latitude=&longitude=&radius=
// The caller is always excluded from the results.
func (h *LocationHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	query := r.URL.Query()
	latitude, err := strconv.ParseFloat(query.Get("latitude"), 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "latitude is required")
		return
	}
	longitude, err := strconv.ParseFloat(query.Get("longitude"), 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "longitude is required")
		return
	}
	if msg, ok := validCoordinates(latitude, longitude); !ok {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	radius := DefaultNearbyRadiusMeters
	if raw := query.Get("radius"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "radius must be a positive number")
			return
		}
		radius = parsed
	}

	nearby, err := h.locations.FindNearby(r.Context(), latitude, longitude, radius, userID.String())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to search nearby users")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"count":         len(nearby),
			"radius_meters": radius,
			"users":         nearby,
		},
	})
}
