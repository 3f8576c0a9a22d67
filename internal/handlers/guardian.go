package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"

	"github.com/igsuryas/raksha-backend/internal/errs"
	"github.com/igsuryas/raksha-backend/internal/middleware"
	"github.com/igsuryas/raksha-backend/internal/models"
	"github.com/igsuryas/raksha-backend/internal/store"
)

var mobilePattern = regexp.MustCompile(`^\d{10}$`)

// GuardianHandler sits directly on the store; the guardian registry has no
// business rules beyond field validation.
type GuardianHandler struct {
	guardians store.GuardianStore
}

func NewGuardianHandler(guardians store.GuardianStore) *GuardianHandler {
	return &GuardianHandler{guardians: guardians}
}

type addGuardianRequest struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Mobile       string `json:"mobile"`
	Email        string `json:"email"`
	Priority     int    `json:"priority"`
}

type updateGuardianRequest struct {
	Name         *string `json:"name"`
	Relationship *string `json:"relationship"`
	Mobile       *string `json:"mobile"`
	Email        *string `json:"email"`
	Priority     *int    `json:"priority"`
}

// Add handles POST /api/guardians
func (h *GuardianHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req addGuardianRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Relationship == "" || req.Mobile == "" {
		respondError(w, http.StatusBadRequest, "Name, relationship and mobile are required")
		return
	}
	if !mobilePattern.MatchString(req.Mobile) {
		respondError(w, http.StatusBadRequest, "Mobile must be a 10-digit number")
		return
	}

	guardian := &models.Guardian{
		UserID:       userID,
		Name:         req.Name,
		Relationship: req.Relationship,
		Mobile:       req.Mobile,
		Email:        req.Email,
		Priority:     req.Priority,
	}
	if err := h.guardians.Insert(r.Context(), guardian); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to add guardian")
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Guardian added",
		Data:    guardian,
	})
}

// List handles GET /api/guardians
func (h *GuardianHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	guardians, err := h.guardians.ListByUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch guardians")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"count":     len(guardians),
			"guardians": guardians,
		},
	})
}

// Update handles PUT /api/guardians/{id}
func (h *GuardianHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	guardianID, ok := parseID(w, r)
	if !ok {
		return
	}

	var req updateGuardianRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Mobile != nil && !mobilePattern.MatchString(*req.Mobile) {
		respondError(w, http.StatusBadRequest, "Mobile must be a 10-digit number")
		return
	}

	guardian, err := h.guardians.Update(r.Context(), userID, guardianID,
		req.Name, req.Relationship, req.Mobile, req.Email, req.Priority)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Guardian not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to update guardian")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Guardian updated",
		Data:    guardian,
	})
}

// Delete handles DELETE /api/guardians/{id}
func (h *GuardianHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	guardianID, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.guardians.Delete(r.Context(), userID, guardianID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Guardian not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to delete guardian")
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Guardian removed"})
}
