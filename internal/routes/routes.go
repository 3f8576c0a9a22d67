package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/igsuryas/raksha-backend/internal/handlers"
	"github.com/igsuryas/raksha-backend/internal/middleware"
)

// Handlers bundles everything SetupRoutes wires into the router.
type Handlers struct {
	Auth     *handlers.AuthHandler
	Location *handlers.LocationHandler
	Contact  *handlers.ContactHandler
	Guardian *handlers.GuardianHandler
	SOS      *handlers.SOSHandler
}

// SetupRoutes registers every API route. Signup and signin are public;
// everything else under /api requires a valid session.
func SetupRoutes(r *chi.Mux, h Handlers) {
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Public auth routes
	r.Post("/api/auth/signup", h.Auth.Signup)
	r.Post("/api/auth/signin", h.Auth.Signin)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/api/auth/me", h.Auth.Me)
		r.Post("/api/auth/logout", h.Auth.Logout)

		// Location tracking
		r.Post("/api/location", h.Location.Update)
		r.Get("/api/location", h.Location.Current)
		r.Get("/api/location/history", h.Location.History)
		r.Get("/api/location/nearby", h.Location.Nearby)

		// Trusted contacts
		r.Post("/api/contacts", h.Contact.Add)
		r.Get("/api/contacts", h.Contact.List)
		r.Put("/api/contacts/{id}", h.Contact.Update)
		r.Post("/api/contacts/{id}/deactivate", h.Contact.Deactivate)
		r.Delete("/api/contacts/{id}", h.Contact.Delete)

		// Guardians
		r.Post("/api/guardians", h.Guardian.Add)
		r.Get("/api/guardians", h.Guardian.List)
		r.Put("/api/guardians/{id}", h.Guardian.Update)
		r.Delete("/api/guardians/{id}", h.Guardian.Delete)

		// SOS
		r.Post("/api/sos", h.SOS.Trigger)
		r.Get("/api/sos/history", h.SOS.History)
	})
}
