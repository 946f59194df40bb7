package auth

import (
	"context"
	"errors"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/shubham03062002/ChillScreen-Backend/internal/domain"
	"github.com/shubham03062002/ChillScreen-Backend/internal/repository"
	"github.com/shubham03062002/ChillScreen-Backend/pkg/config"
	"github.com/shubham03062002/ChillScreen-Backend/pkg/crypto"
	jwtpkg "github.com/shubham03062002/ChillScreen-Backend/pkg/jwt"
)

// Service handles registration, login, and session token verification.
type Service struct {
	users  repository.UserRepository
	logger *slog.Logger
	cfg    config.APIConfig
}

// New constructs a Service.
func New(users repository.UserRepository, logger *slog.Logger, cfg config.APIConfig) Service {
	return Service{users: users, logger: logger, cfg: cfg}
}

var (
	// ErrMissingFields is returned when a required registration field is absent.
	ErrMissingFields = errors.New("all fields are required")

	// ErrUserExists is returned when the email is already registered.
	ErrUserExists = errors.New("user already exists")

	// ErrInvalidCredentials covers both unknown email and wrong password.
	// The two cases are deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// RegisterInput carries the registration payload. Every field is required.
type RegisterInput struct {
	Name     string
	Surname  string
	Email    string
	Phone    string
	Password string
}

// Register creates a new account with empty watchlist and favourites.
// Validation runs before any store access. No session is issued; login is a
// separate step.
func (s Service) Register(ctx context.Context, in RegisterInput) error {
	if in.Name == "" || in.Surname == "" || in.Email == "" || in.Phone == "" || in.Password == "" {
		return ErrMissingFields
	}

	_, err := s.users.GetUserByEmail(ctx, in.Email)
	if err == nil {
		return ErrUserExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hash, err := crypto.HashPassword(in.Password)
	if err != nil {
		return err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Surname:      in.Surname,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hash,
		Watchlist:    domain.List{},
		Favourites:   domain.List{},
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		// Two concurrent registrations can both pass the lookup; the unique
		// index catches the loser.
		if errors.Is(err, repository.ErrEmailTaken) {
			return ErrUserExists
		}
		return err
	}
	s.logger.Info("user registered", "user_id", user.ID)
	return nil
}

// Login verifies credentials and returns a signed session token.
func (s Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !crypto.CheckPassword(user.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}

	token, err := jwtpkg.GenerateToken(user.ID, s.cfg.JWTSecret, s.cfg.SessionTTL)
	if err != nil {
		return "", err
	}
	s.logger.Info("user logged in", "user_id", user.ID)
	return token, nil
}

// Authorize validates a session token and returns the embedded user id.
// It performs no store access; the token alone establishes identity.
func (s Service) Authorize(token string) (string, error) {
	claims, err := jwtpkg.Parse(token, s.cfg.JWTSecret)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
