package profile

import (
	"context"

	"log/slog"

	"github.com/shubham03062002/ChillScreen-Backend/internal/cache"
	"github.com/shubham03062002/ChillScreen-Backend/internal/domain"
	"github.com/shubham03062002/ChillScreen-Backend/internal/repository"
)

// Service assembles the public view of a user record.
type Service struct {
	users    repository.UserRepository
	profiles *cache.ProfileCache
	logger   *slog.Logger
}

// New constructs a Service. profiles may be nil when caching is disabled.
func New(users repository.UserRepository, profiles *cache.ProfileCache, logger *slog.Logger) Service {
	return Service{users: users, profiles: profiles, logger: logger}
}

// Get returns the profile projection for userID. The projection never
// includes the password hash or the phone number. A valid session whose
// user record has vanished surfaces repository.ErrNotFound.
func (s Service) Get(ctx context.Context, userID string) (domain.Profile, error) {
	if cached, ok := s.profiles.Get(ctx, userID); ok {
		return *cached, nil
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return domain.Profile{}, err
	}

	projection := domain.NewProfile(user)
	s.profiles.Set(ctx, userID, projection)
	return projection, nil
}
