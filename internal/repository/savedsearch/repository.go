package savedsearch

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/bulatminnakhmetov/inkmatch-backend/internal/filter"
)

// SavedSearch is a named, immutable snapshot of a filter state owned by a user
type SavedSearch struct {
	ID        uuid.UUID    `json:"id"`
	UserID    int          `json:"-"`
	Name      string       `json:"name"`
	Filters   filter.State `json:"filters"`
	CreatedAt time.Time    `json:"created_at"`
}

var (
	ErrSavedSearchNotFound = errors.New("saved search not found")
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new saved search repository
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
	}
}

// Create inserts s and sets its creation time
func (r *PostgresRepository) Create(ctx context.Context, s *SavedSearch) error {
	filters, err := json.Marshal(s.Filters)
	if err != nil {
		return errors.Wrap(err, "failed to encode filters")
	}

	query := `
        INSERT INTO saved_searches (id, user_id, name, filters)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at
    `
	err = r.db.QueryRowContext(ctx, query, s.ID, s.UserID, s.Name, filters).Scan(&s.CreatedAt)
	if err != nil {
		return errors.Wrap(err, "failed to insert saved search")
	}
	return nil
}

// ListByUser returns the user's saved searches, newest first
func (r *PostgresRepository) ListByUser(ctx context.Context, userID int) ([]SavedSearch, error) {
	query := `
        SELECT id, user_id, name, filters, created_at
        FROM saved_searches
        WHERE user_id = $1
        ORDER BY created_at DESC, id
    `
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list saved searches")
	}
	defer rows.Close()

	items := make([]SavedSearch, 0)
	for rows.Next() {
		s, err := scanSavedSearch(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating saved search rows")
	}
	return items, nil
}

// GetByID returns the saved search id if it belongs to userID
func (r *PostgresRepository) GetByID(ctx context.Context, userID int, id uuid.UUID) (*SavedSearch, error) {
	query := `
        SELECT id, user_id, name, filters, created_at
        FROM saved_searches
        WHERE id = $1 AND user_id = $2
    `
	s, err := scanSavedSearch(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return nil, ErrSavedSearchNotFound
		}
		return nil, err
	}
	return s, nil
}

// Delete removes the saved search id if it belongs to userID
func (r *PostgresRepository) Delete(ctx context.Context, userID int, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM saved_searches WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return errors.Wrap(err, "failed to delete saved search")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to get affected rows")
	}
	if affected == 0 {
		return ErrSavedSearchNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSavedSearch(row scanner) (*SavedSearch, error) {
	var (
		s       SavedSearch
		filters []byte
	)
	if err := row.Scan(&s.ID, &s.UserID, &s.Name, &filters, &s.CreatedAt); err != nil {
		return nil, errors.Wrap(err, "failed to scan saved search")
	}
	if err := json.Unmarshal(filters, &s.Filters); err != nil {
		return nil, errors.Wrap(err, "failed to decode filters")
	}
	return &s, nil
}
