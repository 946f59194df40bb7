package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shubham03062002/ChillScreen-Backend/internal/domain"
	"github.com/shubham03062002/ChillScreen-Backend/internal/repository"
)

// Repository implements persistence interfaces on PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// New constructs a Repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ repository.UserRepository = (*Repository)(nil)

// CreateUser inserts a user. A concurrent registration with the same email
// trips the unique index and surfaces as ErrEmailTaken.
func (r *Repository) CreateUser(ctx context.Context, user *domain.User) error {
	const query = `INSERT INTO users (id, name, surname, email, phone, password_hash, watchlist, favourites, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	watchlist, err := marshalList(user.Watchlist)
	if err != nil {
		return err
	}
	favourites, err := marshalList(user.Favourites)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, query,
		user.ID, user.Name, user.Surname, user.Email, user.Phone,
		string(user.PasswordHash), watchlist, favourites, user.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return repository.ErrEmailTaken
	}
	return err
}

// GetUserByEmail fetches a user by email.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `SELECT id, name, surname, email, phone, password_hash, watchlist, favourites, created_at
		FROM users WHERE email = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

// GetUserByID retrieves a user by identifier.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `SELECT id, name, surname, email, phone, password_hash, watchlist, favourites, created_at
		FROM users WHERE id = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

// AppendListItem appends item to the named list in a single conditional
// write. The duplicate check compares the stringified id of every element,
// so numeric 5 and string "5" collide.
func (r *Repository) AppendListItem(ctx context.Context, userID string, list domain.ListName, itemID string, item json.RawMessage) (domain.List, error) {
	column, err := listColumn(list)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`UPDATE users
		SET %[1]s = %[1]s || $3::jsonb
		WHERE id = $1
		  AND NOT EXISTS (
			SELECT 1 FROM jsonb_array_elements(%[1]s) AS e
			WHERE e->>'id' = $2
		  )
		RETURNING %[1]s`, column)

	var raw []byte
	err = r.pool.QueryRow(ctx, query, userID, itemID, []byte(item)).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, r.explainNoRows(ctx, userID, repository.ErrDuplicateItem)
	}
	if err != nil {
		return nil, err
	}
	return unmarshalList(raw)
}

// RemoveListItem filters out every element matching itemID, keeping the
// remaining order. The absence check and the rewrite happen in one statement.
func (r *Repository) RemoveListItem(ctx context.Context, userID string, list domain.ListName, itemID string) (domain.List, error) {
	column, err := listColumn(list)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`UPDATE users
		SET %[1]s = COALESCE(
			(SELECT jsonb_agg(e ORDER BY ord)
			 FROM jsonb_array_elements(%[1]s) WITH ORDINALITY AS t(e, ord)
			 WHERE e->>'id' IS DISTINCT FROM $2),
			'[]'::jsonb)
		WHERE id = $1
		  AND EXISTS (
			SELECT 1 FROM jsonb_array_elements(%[1]s) AS e
			WHERE e->>'id' = $2
		  )
		RETURNING %[1]s`, column)

	var raw []byte
	err = r.pool.QueryRow(ctx, query, userID, itemID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, r.explainNoRows(ctx, userID, repository.ErrItemNotFound)
	}
	if err != nil {
		return nil, err
	}
	return unmarshalList(raw)
}

// GetList returns the named list for the user.
func (r *Repository) GetList(ctx context.Context, userID string, list domain.ListName) (domain.List, error) {
	column, err := listColumn(list)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, column)

	var raw []byte
	err = r.pool.QueryRow(ctx, query, userID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return unmarshalList(raw)
}

// explainNoRows distinguishes "user record missing" from a failed list
// condition after a conditional update matched nothing.
func (r *Repository) explainNoRows(ctx context.Context, userID string, conditionErr error) error {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return repository.ErrNotFound
	}
	return conditionErr
}

func (r *Repository) scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u             domain.User
		passwordHash  string
		rawWatchlist  []byte
		rawFavourites []byte
	)
	err := row.Scan(&u.ID, &u.Name, &u.Surname, &u.Email, &u.Phone,
		&passwordHash, &rawWatchlist, &rawFavourites, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.PasswordHash = []byte(passwordHash)
	if u.Watchlist, err = unmarshalList(rawWatchlist); err != nil {
		return nil, err
	}
	if u.Favourites, err = unmarshalList(rawFavourites); err != nil {
		return nil, err
	}
	return &u, nil
}

// listColumn maps a list name to its column, rejecting anything outside the
// fixed pair so list names can never reach SQL text unchecked.
func listColumn(list domain.ListName) (string, error) {
	switch list {
	case domain.Watchlist:
		return "watchlist", nil
	case domain.Favourites:
		return "favourites", nil
	default:
		return "", fmt.Errorf("unknown list %q", list)
	}
}

func marshalList(list domain.List) ([]byte, error) {
	if list == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(list)
}

func unmarshalList(raw []byte) (domain.List, error) {
	if len(raw) == 0 {
		return domain.List{}, nil
	}
	list := domain.List{}
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode list payload: %w", err)
	}
	return list, nil
}
