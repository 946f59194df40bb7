package profile

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"log/slog"

	"github.com/shubham03062002/ChillScreen-Backend/internal/domain"
	"github.com/shubham03062002/ChillScreen-Backend/internal/repository"
)

type userRepoMock struct {
	getByIDFunc func(ctx context.Context, id string) (*domain.User, error)
}

func (m *userRepoMock) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	if m.getByIDFunc == nil {
		return nil, repository.ErrNotFound
	}
	return m.getByIDFunc(ctx, id)
}

func (m *userRepoMock) CreateUser(context.Context, *domain.User) error {
	return errors.New("not implemented")
}

func (m *userRepoMock) GetUserByEmail(context.Context, string) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (m *userRepoMock) AppendListItem(context.Context, string, domain.ListName, string, json.RawMessage) (domain.List, error) {
	return nil, errors.New("not implemented")
}

func (m *userRepoMock) RemoveListItem(context.Context, string, domain.ListName, string) (domain.List, error) {
	return nil, errors.New("not implemented")
}

func (m *userRepoMock) GetList(context.Context, string, domain.ListName) (domain.List, error) {
	return nil, errors.New("not implemented")
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGetProjectsUserWithoutCache(t *testing.T) {
	repo := &userRepoMock{
		getByIDFunc: func(_ context.Context, id string) (*domain.User, error) {
			return &domain.User{
				ID:           id,
				Name:         "Ada",
				Surname:      "Lovelace",
				Email:        "ada@example.com",
				Phone:        "555-0100",
				PasswordHash: []byte("$2a$10$fake"),
				Watchlist:    domain.List{json.RawMessage(`{"id":1}`)},
			}, nil
		},
	}
	svc := New(repo, nil, newLogger())

	got, err := svc.Get(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != "user-1" || got.Email != "ada@example.com" {
		t.Fatalf("unexpected projection: %+v", got)
	}
	if len(got.Watchlist) != 1 || got.Favourites == nil || len(got.Favourites) != 0 {
		t.Fatalf("lists must be present and non-nil: %+v", got)
	}

	raw, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal projection: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("unmarshal projection: %v", err)
	}
	for _, forbidden := range []string{"phone", "password_hash", "password"} {
		if _, ok := fields[forbidden]; ok {
			t.Fatalf("projection must not expose %q", forbidden)
		}
	}
}

func TestGetMissingUserPassesThroughNotFound(t *testing.T) {
	svc := New(&userRepoMock{}, nil, newLogger())

	_, err := svc.Get(context.Background(), "ghost")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected repository.ErrNotFound, got %v", err)
	}
}
