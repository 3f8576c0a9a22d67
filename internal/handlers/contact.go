package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/igsuryas/raksha-backend/internal/errs"
	"github.com/igsuryas/raksha-backend/internal/middleware"
	"github.com/igsuryas/raksha-backend/internal/services"
)

type ContactHandler struct {
	contacts *services.ContactService
}

func NewContactHandler(contacts *services.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

type addContactRequest struct {
	Name         string `json:"name"`
	Mobile       string `json:"mobile"`
	Relationship string `json:"relationship"`
}

type updateContactRequest struct {
	Name         *string `json:"name"`
	Relationship *string `json:"relationship"`
}

// Add handles POST /api/contacts
func (h *ContactHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req addContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Mobile == "" {
		respondError(w, http.StatusBadRequest, "Name and mobile are required")
		return
	}

	contact, err := h.contacts.Add(r.Context(), userID, req.Name, req.Mobile, req.Relationship)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrUserNotFound):
			respondError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, errs.ErrSelfContact):
			respondError(w, http.StatusBadRequest, "You cannot add your own number as a trusted contact")
		case errors.Is(err, errs.ErrDuplicateContact):
			respondError(w, http.StatusConflict, "This number is already a trusted contact")
		default:
			respondError(w, http.StatusInternalServerError, "Failed to add contact")
		}
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Contact added",
		Data:    contact,
	})
}

// List handles GET /api/contacts?include_inactive=
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	includeInactive := r.URL.Query().Get("include_inactive") == "true"

	contacts, err := h.contacts.List(r.Context(), userID, includeInactive)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch contacts")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"count":    len(contacts),
			"contacts": contacts,
		},
	})
}

// Update handles PUT /api/contacts/{id}. Only name and relationship are
// mutable; the mobile number is fixed at creation.
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	contactID, ok := parseID(w, r)
	if !ok {
		return
	}

	var req updateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == nil && req.Relationship == nil {
		respondError(w, http.StatusBadRequest, "Nothing to update")
		return
	}

	contact, err := h.contacts.Update(r.Context(), userID, contactID, req.Name, req.Relationship)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Contact not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to update contact")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Contact updated",
		Data:    contact,
	})
}

// Deactivate handles POST /api/contacts/{id}/deactivate
func (h *ContactHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, "Contact deactivated", func(r *http.Request, userID, contactID uuid.UUID) error {
		return h.contacts.Deactivate(r.Context(), userID, contactID)
	})
}

// Delete handles DELETE /api/contacts/{id}
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, "Contact deleted", func(r *http.Request, userID, contactID uuid.UUID) error {
		return h.contacts.Delete(r.Context(), userID, contactID)
	})
}

func (h *ContactHandler) remove(w http.ResponseWriter, r *http.Request, successMsg string, fn func(*http.Request, uuid.UUID, uuid.UUID) error) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	contactID, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := fn(r, userID, contactID); err != nil {
		switch {
		case errors.Is(err, errs.ErrLastContact):
			respondError(w, http.StatusBadRequest, "Cannot remove your last active trusted contact")
		case errors.Is(err, errs.ErrNotFound):
			respondError(w, http.StatusNotFound, "Contact not found")
		default:
			respondError(w, http.StatusInternalServerError, "Failed to remove contact")
		}
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: successMsg})
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid id")
		return uuid.Nil, false
	}
	return id, true
}
