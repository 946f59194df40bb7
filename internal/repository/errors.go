package repository

import "errors"

// Sentinel errors surfaced by store implementations. Services translate
// these into response-level failures.
var (
	// ErrNotFound means the referenced user record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrEmailTaken means another user already holds the email address.
	ErrEmailTaken = errors.New("email already registered")

	// ErrDuplicateItem means the target list already contains an item with
	// the same stringified id.
	ErrDuplicateItem = errors.New("item already in list")

	// ErrItemNotFound means no item with the given id exists in the list.
	ErrItemNotFound = errors.New("item not in list")
)
