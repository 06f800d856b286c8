package savedsearch

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/bulatminnakhmetov/inkmatch-backend/internal/filter"
	repo "github.com/bulatminnakhmetov/inkmatch-backend/internal/repository/savedsearch"
)

type SavedSearch = repo.SavedSearch

// MaxNameLength is the longest accepted name, in characters
const MaxNameLength = 100

var (
	ErrNotFound    = repo.ErrSavedSearchNotFound
	ErrInvalidName = errors.New("name must be between 1 and 100 characters")
)

type Repository interface {
	Create(ctx context.Context, s *SavedSearch) error
	ListByUser(ctx context.Context, userID int) ([]SavedSearch, error)
	GetByID(ctx context.Context, userID int, id uuid.UUID) (*SavedSearch, error)
	Delete(ctx context.Context, userID int, id uuid.UUID) error
}

// SavedSearchService manages the saved searches of the current user. Every
// operation is scoped to userID; searches of other users are reported as
// ErrNotFound.
type SavedSearchService interface {
	Create(ctx context.Context, userID int, name string, filters filter.State) (*SavedSearch, error)
	List(ctx context.Context, userID int) ([]SavedSearch, error)
	Get(ctx context.Context, userID int, id uuid.UUID) (*SavedSearch, error)
	Delete(ctx context.Context, userID int, id uuid.UUID) error
}

type SavedSearchServiceImpl struct {
	repo   Repository
	logger *slog.Logger
}

func NewSavedSearchService(repo Repository, logger *slog.Logger) *SavedSearchServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &SavedSearchServiceImpl{repo: repo, logger: logger}
}

// Create snapshots filters under name. The snapshot is normalized and
// starts at the first page.
func (s *SavedSearchServiceImpl) Create(ctx context.Context, userID int, name string, filters filter.State) (*SavedSearch, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n == 0 || n > MaxNameLength {
		return nil, ErrInvalidName
	}

	normalized, warnings := filter.Normalize(filters)
	for _, w := range warnings {
		s.logger.Warn("saved search filter normalized", "field", w.Field, "value", w.Value)
	}
	normalized.Page = 1

	saved := &SavedSearch{
		ID:      uuid.New(),
		UserID:  userID,
		Name:    name,
		Filters: normalized,
	}
	if err := s.repo.Create(ctx, saved); err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *SavedSearchServiceImpl) List(ctx context.Context, userID int) ([]SavedSearch, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *SavedSearchServiceImpl) Get(ctx context.Context, userID int, id uuid.UUID) (*SavedSearch, error) {
	return s.repo.GetByID(ctx, userID, id)
}

func (s *SavedSearchServiceImpl) Delete(ctx context.Context, userID int, id uuid.UUID) error {
	return s.repo.Delete(ctx, userID, id)
}

// QueryString is the browser URL form that reopens a saved search
func QueryString(saved SavedSearch) string {
	return filter.EncodeString(saved.Filters, filter.StyleURL)
}
