// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUserNotFound indicates the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrSelfContact indicates an attempt to add the owner's own number
	// as a trusted contact.
	ErrSelfContact = errors.New("cannot add your own number as a trusted contact")

	// ErrDuplicateContact indicates the normalized mobile already matches
	// an active trusted contact of the same owner.
	ErrDuplicateContact = errors.New("contact is already in your trusted contacts")

	// ErrLastContact indicates a removal that would leave the owner with
	// zero active trusted contacts.
	ErrLastContact = errors.New("cannot remove the last trusted contact")

	// ErrNoTrustedContacts indicates an SOS dispatch with no explicit
	// recipients and no active trusted contacts to fall back on.
	ErrNoTrustedContacts = errors.New("no trusted contacts")

	// ErrDispatchFailed indicates the text channel did not confirm an SOS
	// send. An audit record exists by the time this is returned.
	ErrDispatchFailed = errors.New("failed to send emergency alerts")

	// ErrAlreadyExists indicates a unique constraint violation
	// (e.g. email or mobile already registered).
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidCredentials indicates a failed signin attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountInactive indicates a signin on a suspended or deleted account.
	ErrAccountInactive = errors.New("account is not active")
)
