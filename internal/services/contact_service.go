package services

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/igsuryas/raksha-backend/internal/errs"
	"github.com/igsuryas/raksha-backend/internal/models"
	"github.com/igsuryas/raksha-backend/internal/store"
	"github.com/igsuryas/raksha-backend/pkg/phone"
)

// ContactService is the trusted-contact registry. It owns the duplicate and
// self-reference checks, guardian auto-flagging, and the user's
// set_trusted_contacts onboarding flag. The minimum-one-active-contact
// invariant itself is enforced atomically inside the contact store.
type ContactService struct {
	contacts  store.ContactStore
	guardians store.GuardianStore
	users     store.UserStore
}

func NewContactService(contacts store.ContactStore, guardians store.GuardianStore, users store.UserStore) *ContactService {
	return &ContactService{contacts: contacts, guardians: guardians, users: users}
}

// Add registers a new trusted contact for the owner. The mobile is stored
// raw; all comparisons use the canonical form. IsGuardian is computed here
// and never changes afterwards.
func (s *ContactService) Add(ctx context.Context, ownerID uuid.UUID, name, mobile, relationship string) (*models.TrustedContact, error) {
	owner, err := s.users.FindByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, errs.ErrUserNotFound
	}

	if owner.Mobile != "" && phone.Same(owner.Mobile, mobile) {
		return nil, errs.ErrSelfContact
	}

	active, err := s.contacts.ListActive(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for _, existing := range active {
		if phone.Same(existing.Mobile, mobile) {
			return nil, errs.ErrDuplicateContact
		}
	}

	guardians, err := s.guardians.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	isGuardian := false
	for _, g := range guardians {
		if phone.Same(g.Mobile, mobile) {
			isGuardian = true
			break
		}
	}

	contact := &models.TrustedContact{
		UserID:       ownerID,
		Name:         name,
		Mobile:       mobile,
		Relationship: relationship,
		IsGuardian:   isGuardian,
		IsActive:     true,
	}
	if err := s.contacts.Insert(ctx, contact); err != nil {
		return nil, err
	}

	count, err := s.contacts.CountActive(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if count == 1 {
		if err := s.users.SetTrustedContactsFlag(ctx, ownerID, true); err != nil {
			log.Printf("failed to set trusted-contacts flag for user %s: %v", ownerID, err)
		}
	}

	return contact, nil
}

// Update mutates name and/or relationship. Mobile and the guardian flag are
// immutable after creation.
func (s *ContactService) Update(ctx context.Context, ownerID, contactID uuid.UUID, name, relationship *string) (*models.TrustedContact, error) {
	return s.contacts.Update(ctx, ownerID, contactID, name, relationship)
}

// Deactivate soft-removes a contact. Refused with errs.ErrLastContact when
// it would leave the owner with zero active contacts.
func (s *ContactService) Deactivate(ctx context.Context, ownerID, contactID uuid.UUID) error {
	remaining, err := s.contacts.DeactivateGuarded(ctx, ownerID, contactID)
	if err != nil {
		return err
	}
	s.clearFlagIfEmpty(ctx, ownerID, remaining)
	return nil
}

// Delete permanently removes a contact under the same guard as Deactivate.
func (s *ContactService) Delete(ctx context.Context, ownerID, contactID uuid.UUID) error {
	remaining, err := s.contacts.DeleteGuarded(ctx, ownerID, contactID)
	if err != nil {
		return err
	}
	s.clearFlagIfEmpty(ctx, ownerID, remaining)
	return nil
}

// clearFlagIfEmpty is a race-safety net: the guarded store mutation never
// reports zero remaining contacts on success, but if it ever does, the
// onboarding flag must be cleared so the client forces re-setup.
func (s *ContactService) clearFlagIfEmpty(ctx context.Context, ownerID uuid.UUID, remaining int) {
	if remaining > 0 {
		return
	}
	if err := s.users.SetTrustedContactsFlag(ctx, ownerID, false); err != nil {
		log.Printf("failed to clear trusted-contacts flag for user %s: %v", ownerID, err)
	}
}

// List returns the owner's contacts, active only unless includeInactive.
func (s *ContactService) List(ctx context.Context, ownerID uuid.UUID, includeInactive bool) ([]models.TrustedContact, error) {
	return s.contacts.List(ctx, ownerID, includeInactive)
}

// Count returns the owner's active-contact count.
func (s *ContactService) Count(ctx context.Context, ownerID uuid.UUID) (int, error) {
	return s.contacts.CountActive(ctx, ownerID)
}

// HasAny reports whether the owner has at least one active contact.
func (s *ContactService) HasAny(ctx context.Context, ownerID uuid.UUID) (bool, error) {
	count, err := s.contacts.CountActive(ctx, ownerID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
