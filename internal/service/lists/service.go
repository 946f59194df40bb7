package lists

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"log/slog"

	"github.com/shubham03062002/ChillScreen-Backend/internal/cache"
	"github.com/shubham03062002/ChillScreen-Backend/internal/domain"
	"github.com/shubham03062002/ChillScreen-Backend/internal/repository"
)

// Service mutates a user's watchlist and favourites. Both lists share the
// same semantics and are handled by the same code paths.
type Service struct {
	users    repository.UserRepository
	profiles *cache.ProfileCache
	logger   *slog.Logger
}

// New constructs a Service. profiles may be nil when caching is disabled.
func New(users repository.UserRepository, profiles *cache.ProfileCache, logger *slog.Logger) Service {
	return Service{users: users, profiles: profiles, logger: logger}
}

// ErrMissingItemID is returned when the payload carries no usable item id.
var ErrMissingItemID = errors.New("item id is required")

// Add appends the caller-supplied item to the named list. The item is stored
// verbatim; only its id field is interpreted. Items whose stringified id is
// already present are rejected without mutation.
func (s Service) Add(ctx context.Context, userID string, list domain.ListName, item json.RawMessage) (domain.List, error) {
	if !list.Valid() {
		return nil, fmt.Errorf("unknown list %q", list)
	}
	itemID, ok := domain.ItemID(item)
	if !ok {
		return nil, ErrMissingItemID
	}

	updated, err := s.users.AppendListItem(ctx, userID, list, itemID, item)
	if err != nil {
		return nil, err
	}
	s.profiles.Invalidate(ctx, userID)
	s.logger.Info("list item added", "user_id", userID, "list", string(list), "item_id", itemID)
	return updated, nil
}

// Remove drops every item matching the stringified id from the named list.
// When nothing matches, the list is left untouched and ErrItemNotFound
// surfaces from the store.
func (s Service) Remove(ctx context.Context, userID string, list domain.ListName, rawID any) (domain.List, error) {
	if !list.Valid() {
		return nil, fmt.Errorf("unknown list %q", list)
	}
	itemID, ok := domain.StringifyID(rawID)
	if !ok {
		return nil, ErrMissingItemID
	}

	updated, err := s.users.RemoveListItem(ctx, userID, list, itemID)
	if err != nil {
		return nil, err
	}
	s.profiles.Invalidate(ctx, userID)
	s.logger.Info("list item removed", "user_id", userID, "list", string(list), "item_id", itemID)
	return updated, nil
}

// Get returns the named list. A missing user record yields an empty list,
// never an error; only store failures propagate.
func (s Service) Get(ctx context.Context, userID string, list domain.ListName) (domain.List, error) {
	if !list.Valid() {
		return nil, fmt.Errorf("unknown list %q", list)
	}
	items, err := s.users.GetList(ctx, userID, list)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.List{}, nil
		}
		return nil, err
	}
	return items, nil
}
