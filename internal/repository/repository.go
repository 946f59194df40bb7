package repository

import (
	"context"
	"encoding/json"

	"github.com/shubham03062002/ChillScreen-Backend/internal/domain"
)

// UserRepository persists users and their item lists.
//
// List mutations are conditional writes: the duplicate and absence checks
// run inside the same statement as the update, so two concurrent requests
// cannot both pass the check and both write.
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)

	// AppendListItem appends item to the named list unless an item with the
	// same stringified id is already present. Returns the updated list, or
	// ErrDuplicateItem / ErrNotFound.
	AppendListItem(ctx context.Context, userID string, list domain.ListName, itemID string, item json.RawMessage) (domain.List, error)

	// RemoveListItem drops every item whose stringified id equals itemID,
	// preserving the order of the remainder. Returns the updated list, or
	// ErrItemNotFound / ErrNotFound.
	RemoveListItem(ctx context.Context, userID string, list domain.ListName, itemID string) (domain.List, error)

	// GetList returns the named list for the user, or ErrNotFound when the
	// user record is absent.
	GetList(ctx context.Context, userID string, list domain.ListName) (domain.List, error)
}
