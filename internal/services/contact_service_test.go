package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/uuid"

	"github.com/igsuryas/raksha-backend/internal/errs"
	"github.com/igsuryas/raksha-backend/internal/models"
)

func newContactFixture() (*ContactService, *fakeContactStore, *fakeGuardianStore, *fakeUserStore) {
	contacts := &fakeContactStore{}
	guardians := &fakeGuardianStore{}
	users := newFakeUserStore()
	return NewContactService(contacts, guardians, users), contacts, guardians, users
}

func TestAddContact(t *testing.T) {
	svc, _, _, users := newContactFixture()
	owner := users.add(models.User{Name: "Asha", Mobile: "9876543210"})

	contact, err := svc.Add(context.Background(), owner.ID, "Priya", "9123456789", "sister")
	require.NoError(t, err)

	assert.Equal(t, owner.ID, contact.UserID)
	assert.True(t, contact.IsActive)
	assert.False(t, contact.IsGuardian)
}

func TestAddContactUnknownOwner(t *testing.T) {
	svc, _, _, _ := newContactFixture()

	_, err := svc.Add(context.Background(), uuid.New(), "Priya", "9123456789", "sister")
	assert.ErrorIs(t, err, errs.ErrUserNotFound)
}

func TestAddContactRejectsOwnNumber(t *testing.T) {
	svc, _, _, users := newContactFixture()
	owner := users.add(models.User{Name: "Asha", Mobile: "9876543210"})

	// Same number in different formats must all be refused.
	for _, mobile := range []string{"9876543210", "+91 98765 43210", "919876543210"} {
		_, err := svc.Add(context.Background(), owner.ID, "Me", mobile, "self")
		assert.ErrorIs(t, err, errs.ErrSelfContact, "format %q", mobile)
	}
}

func TestAddContactRejectsDuplicateNumber(t *testing.T) {
	svc, _, _, users := newContactFixture()
	owner := users.add(models.User{Name: "Asha", Mobile: "9876543210"})
	ctx := context.Background()

	_, err := svc.Add(ctx, owner.ID, "Priya", "9123456789", "sister")
	require.NoError(t, err)

	_, err = svc.Add(ctx, owner.ID, "Priya Again", "+91 91234 56789", "sister")
	assert.ErrorIs(t, err, errs.ErrDuplicateContact)
}

func TestAddContactAllowsNumberOfInactiveContact(t *testing.T) {
	svc, contacts, _, users := newContactFixture()
	owner := users.add(models.User{Name: "Asha", Mobile: "9876543210"})
	ctx := context.Background()

	first, err := svc.Add(ctx, owner.ID, "Priya", "9123456789", "sister")
	require.NoError(t, err)
	_, err = svc.Add(ctx, owner.ID, "Rahul", "9111111111", "friend")
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, owner.ID, first.ID))

	// The number is free again once its contact is inactive.
	_, err = svc.Add(ctx, owner.ID, "Priya", "9123456789", "sister")
	require.NoError(t, err)

	count, err := contacts.CountActive(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestAddContactFlagsGuardianNumber(t *testing.T) {
	svc, _, guardians, users := newContactFixture()
	owner := users.add(models.User{Name: "Asha", Mobile: "9876543210"})
	ctx := context.Background()

	require.NoError(t, guardians.Insert(ctx, &models.Guardian{
		UserID: owner.ID, Name: "Amma", Relationship: "mother",
		Mobile: "9123456789", Email: "amma@example.com",
	}))

	contact, err := svc.Add(ctx, owner.ID, "Amma", "+91 91234 56789", "mother")
	require.NoError(t, err)
	assert.True(t, contact.IsGuardian)
}

func TestAddFirstContactSetsOnboardingFlag(t *testing.T) {
	svc, _, _, users := newContactFixture()
	owner := users.add(models.User{Name: "Asha", Mobile: "9876543210"})
	ctx := context.Background()

	_, err := svc.Add(ctx, owner.ID, "Priya", "9123456789", "sister")
	require.NoError(t, err)
	assert.True(t, users.flags[owner.ID])

	// A second contact must not touch the flag again.
	users.flags[owner.ID] = false
	_, err = svc.Add(ctx, owner.ID, "Rahul", "9111111111", "friend")
	require.NoError(t, err)
	assert.False(t, users.flags[owner.ID])
}

func TestDeactivateRefusesLastActiveContact(t *testing.T) {
	svc, _, _, users := newContactFixture()
	owner := users.add(models.User{Name: "Asha", Mobile: "9876543210"})
	ctx := context.Background()

	only, err := svc.Add(ctx, owner.ID, "Priya", "9123456789", "sister")
	require.NoError(t, err)

	err = svc.Deactivate(ctx, owner.ID, only.ID)
	assert.ErrorIs(t, err, errs.ErrLastContact)

	// Still active and the onboarding flag untouched.
	count, err := svc.Count(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.True(t, users.flags[owner.ID])
}

func TestDeleteRefusesLastActiveContact(t *testing.T) {
	svc, contacts, _, users := newContactFixture()
	owner := users.add(models.User{Name: "Asha", Mobile: "9876543210"})
	ctx := context.Background()

	only, err := svc.Add(ctx, owner.ID, "Priya", "9123456789", "sister")
	require.NoError(t, err)

	err = svc.Delete(ctx, owner.ID, only.ID)
	assert.ErrorIs(t, err, errs.ErrLastContact)
	assert.Len(t, contacts.contacts, 1)
}

func TestDeactivateWithRemainingContacts(t *testing.T) {
	svc, _, _, users := newContactFixture()
	owner := users.add(models.User{Name: "Asha", Mobile: "9876543210"})
	ctx := context.Background()

	first, err := svc.Add(ctx, owner.ID, "Priya", "9123456789", "sister")
	require.NoError(t, err)
	_, err = svc.Add(ctx, owner.ID, "Rahul", "9111111111", "friend")
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, owner.ID, first.ID))

	count, err := svc.Count(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.True(t, users.flags[owner.ID], "flag stays set while contacts remain")
}

func TestDeactivateUnknownContact(t *testing.T) {
	svc, _, _, users := newContactFixture()
	owner := users.add(models.User{Name: "Asha", Mobile: "9876543210"})
	ctx := context.Background()

	_, err := svc.Add(ctx, owner.ID, "Priya", "9123456789", "sister")
	require.NoError(t, err)
	_, err = svc.Add(ctx, owner.ID, "Rahul", "9111111111", "friend")
	require.NoError(t, err)

	err = svc.Deactivate(ctx, owner.ID, uuid.New())
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUpdateContact(t *testing.T) {
	svc, _, _, users := newContactFixture()
	owner := users.add(models.User{Name: "Asha", Mobile: "9876543210"})
	ctx := context.Background()

	contact, err := svc.Add(ctx, owner.ID, "Priya", "9123456789", "sister")
	require.NoError(t, err)

	name := "Priya S"
	updated, err := svc.Update(ctx, owner.ID, contact.ID, &name, nil)
	require.NoError(t, err)

	assert.Equal(t, "Priya S", updated.Name)
	assert.Equal(t, "sister", updated.Relationship, "nil field left unchanged")
	assert.Equal(t, "9123456789", updated.Mobile, "mobile is immutable")
}

func TestListIncludeInactive(t *testing.T) {
	svc, _, _, users := newContactFixture()
	owner := users.add(models.User{Name: "Asha", Mobile: "9876543210"})
	ctx := context.Background()

	first, err := svc.Add(ctx, owner.ID, "Priya", "9123456789", "sister")
	require.NoError(t, err)
	_, err = svc.Add(ctx, owner.ID, "Rahul", "9111111111", "friend")
	require.NoError(t, err)
	require.NoError(t, svc.Deactivate(ctx, owner.ID, first.ID))

	active, err := svc.List(ctx, owner.ID, false)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := svc.List(ctx, owner.ID, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestHasAny(t *testing.T) {
	svc, _, _, users := newContactFixture()
	owner := users.add(models.User{Name: "Asha", Mobile: "9876543210"})
	ctx := context.Background()

	has, err := svc.HasAny(ctx, owner.ID)
	require.NoError(t, err)
	assert.False(t, has)

	_, err = svc.Add(ctx, owner.ID, "Priya", "9123456789", "sister")
	require.NoError(t, err)

	has, err = svc.HasAny(ctx, owner.ID)
	require.NoError(t, err)
	assert.True(t, has)
}
