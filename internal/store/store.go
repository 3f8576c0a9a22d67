// Package store defines the persistence contracts for the core and their
// MongoDB/PostgreSQL implementations. Services depend only on the
// interfaces, so tests run against in-memory fakes.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/igsuryas/raksha-backend/internal/models"
)

// LocationStore persists per-user location samples. Samples are append-only;
// the distance gate lives in the location service, not here.
type LocationStore interface {
	// Insert appends a sample.
	Insert(ctx context.Context, sample *models.LocationSample) error

	// Last returns the most recent sample by timestamp, or nil if the user
	// has none.
	Last(ctx context.Context, userID string) (*models.LocationSample, error)

	// History returns up to limit samples, newest first.
	History(ctx context.Context, userID string, limit int64) ([]models.LocationSample, error)

	// LatestPerUser returns the single most recent sample of every user.
	LatestPerUser(ctx context.Context) ([]models.LocationSample, error)

	// DeleteOlderThan removes samples with a timestamp before cutoff and
	// returns how many were removed. Housekeeping, not a core contract.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// AlertStore persists the append-only SOS audit trail.
type AlertStore interface {
	Insert(ctx context.Context, record *models.AlertRecord) error

	// History returns up to limit records for a user, newest first.
	History(ctx context.Context, userID string, limit int64) ([]models.AlertRecord, error)

	// CountSince counts a user's dispatch attempts since the given time,
	// used for rate accounting.
	CountSince(ctx context.Context, userID string, since time.Time) (int64, error)
}

// UserStore reads and mutates user accounts.
type UserStore interface {
	// Create inserts a user. Returns errs.ErrAlreadyExists when the email
	// or mobile is already registered.
	Create(ctx context.Context, user *models.User) error

	// FindByID returns nil, nil when the user does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// FindByIdentifier looks a user up by email or mobile (exact match on
	// either column). Returns nil, nil when not found.
	FindByIdentifier(ctx context.Context, identifier string) (*models.User, error)

	// FindByIDs returns the users for the given ids, keyed by id. Missing
	// ids are simply absent from the map.
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.User, error)

	// SetTrustedContactsFlag flips the onboarding gate.
	SetTrustedContactsFlag(ctx context.Context, id uuid.UUID, configured bool) error

	// UpdateLastLogin stamps a successful signin.
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// ContactStore persists trusted contacts. The guarded removal methods
// enforce the minimum-one-active-contact invariant atomically: the owner's
// active rows are locked for the duration of the check and the write, so
// two racing removals cannot both pass the count check.
type ContactStore interface {
	Insert(ctx context.Context, contact *models.TrustedContact) error

	// Get returns nil, nil when no such contact belongs to the owner.
	Get(ctx context.Context, ownerID, contactID uuid.UUID) (*models.TrustedContact, error)

	// List returns the owner's contacts newest first, active only unless
	// includeInactive is set.
	List(ctx context.Context, ownerID uuid.UUID, includeInactive bool) ([]models.TrustedContact, error)

	// ListActive returns the owner's active contacts newest first.
	ListActive(ctx context.Context, ownerID uuid.UUID) ([]models.TrustedContact, error)

	// CountActive returns the owner's active-contact count.
	CountActive(ctx context.Context, ownerID uuid.UUID) (int, error)

	// Update mutates name and/or relationship of an active contact.
	// Nil fields are left unchanged. Returns errs.ErrNotFound when the
	// contact does not exist, is inactive, or belongs to someone else.
	Update(ctx context.Context, ownerID, contactID uuid.UUID, name, relationship *string) (*models.TrustedContact, error)

	// DeactivateGuarded sets is_active=false only when the owner has more
	// than one active contact. Returns the remaining active count on
	// success, errs.ErrLastContact when the guard refuses, errs.ErrNotFound
	// when the contact is missing or already inactive.
	DeactivateGuarded(ctx context.Context, ownerID, contactID uuid.UUID) (remaining int, err error)

	// DeleteGuarded permanently removes an active contact under the same
	// guard and with the same error contract as DeactivateGuarded.
	DeleteGuarded(ctx context.Context, ownerID, contactID uuid.UUID) (remaining int, err error)
}

// GuardianStore persists registered guardians.
type GuardianStore interface {
	Insert(ctx context.Context, guardian *models.Guardian) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Guardian, error)

	// Update mutates the mutable guardian fields; nil means unchanged.
	Update(ctx context.Context, userID, guardianID uuid.UUID, name, relationship, mobile, email *string, priority *int) (*models.Guardian, error)

	// Delete removes a guardian. Returns errs.ErrNotFound when absent.
	Delete(ctx context.Context, userID, guardianID uuid.UUID) error
}
