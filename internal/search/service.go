package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/bulatminnakhmetov/inkmatch-backend/internal/filter"
)

// ErrMalformedResult is wrapped by ExecutionError when a store answers with
// something that cannot be shaped into an envelope
var ErrMalformedResult = errors.New("malformed store response")

// ProfileStore runs compiled plans. Count and Find must evaluate the same
// Predicates so that Total matches the reachable pages.
type ProfileStore interface {
	CountProfiles(ctx context.Context, plan *Plan) (int, error)
	FindProfiles(ctx context.Context, plan *Plan) ([]Profile, error)
	ListSpecialties(ctx context.Context) ([]Specialty, error)
}

// Cache stores envelopes by key. A miss is (nil, nil).
type Cache interface {
	Get(ctx context.Context, key string) (*Envelope, error)
	Set(ctx context.Context, key string, env *Envelope) error
}

// Envelope is one page of results plus the totals needed to paginate
type Envelope struct {
	Items      []Profile `json:"items"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	TotalPages int       `json:"totalPages"`
	HasNext    bool      `json:"hasNext"`
	HasPrev    bool      `json:"hasPrev"`
}

// NewEnvelope derives the page counters from total and the page window
func NewEnvelope(items []Profile, total, page, pageSize int) *Envelope {
	if items == nil {
		items = make([]Profile, 0)
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return &Envelope{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// ExecutionError reports a failed search. No partial results accompany it.
type ExecutionError struct {
	Op  string
	Err error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("search %s: %v", e.Op, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// SearchService defines the profile search operations
type SearchService interface {
	Search(ctx context.Context, s filter.State, origin *filter.Coordinate) (*Envelope, error)
	Specialties(ctx context.Context) ([]Specialty, error)
}

// SearchServiceImpl compiles filter states and runs them against a store
type SearchServiceImpl struct {
	store  ProfileStore
	cache  Cache
	logger *slog.Logger
}

// Option configures a SearchServiceImpl
type Option func(*SearchServiceImpl)

// WithCache enables envelope caching
func WithCache(c Cache) Option {
	return func(s *SearchServiceImpl) {
		s.cache = c
	}
}

// WithLogger replaces the default logger
func WithLogger(l *slog.Logger) Option {
	return func(s *SearchServiceImpl) {
		s.logger = l
	}
}

// NewSearchService creates a new search service
func NewSearchService(store ProfileStore, opts ...Option) *SearchServiceImpl {
	s := &SearchServiceImpl{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search compiles s and returns the requested page. Out-of-domain values are
// clamped and logged, never rejected.
func (s *SearchServiceImpl) Search(ctx context.Context, state filter.State, origin *filter.Coordinate) (*Envelope, error) {
	plan, warnings := Compile(state, origin)
	for _, w := range warnings {
		s.logger.Warn("search filter normalized", "field", w.Field, "value", w.Value)
	}

	key := CacheKey(state, plan.Origin)
	if s.cache != nil {
		env, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("search cache read failed", "error", err)
		} else if env != nil {
			return env, nil
		}
	}

	env, err := s.Execute(ctx, plan)
	if err != nil {
		s.logger.Error("search failed", "error", err)
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, env); err != nil {
			s.logger.Warn("search cache write failed", "error", err)
		}
	}
	return env, nil
}

// Execute runs the count and the page fetch concurrently and joins them
func (s *SearchServiceImpl) Execute(ctx context.Context, plan *Plan) (*Envelope, error) {
	var (
		total int
		items []Profile
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.store.CountProfiles(gctx, plan)
		if err != nil {
			return &ExecutionError{Op: "count", Err: err}
		}
		total = n
		return nil
	})
	g.Go(func() error {
		found, err := s.store.FindProfiles(gctx, plan)
		if err != nil {
			return &ExecutionError{Op: "find", Err: err}
		}
		items = found
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if total < 0 {
		return nil, &ExecutionError{Op: "count", Err: errors.Wrapf(ErrMalformedResult, "negative total %d", total)}
	}
	if len(items) > plan.Limit {
		return nil, &ExecutionError{Op: "find", Err: errors.Wrapf(ErrMalformedResult, "%d items for limit %d", len(items), plan.Limit)}
	}

	return NewEnvelope(items, total, plan.Page, plan.PageSize), nil
}

// Specialties lists the specialty catalog
func (s *SearchServiceImpl) Specialties(ctx context.Context) ([]Specialty, error) {
	items, err := s.store.ListSpecialties(ctx)
	if err != nil {
		return nil, &ExecutionError{Op: "catalog", Err: err}
	}
	if items == nil {
		items = make([]Specialty, 0)
	}
	return items, nil
}

// CacheKey identifies a search by the canonical encoding of its normalized
// filters and the reference coordinate
func CacheKey(state filter.State, origin *filter.Coordinate) string {
	normalized, _ := filter.Normalize(state)
	key := "search:" + filter.EncodeString(normalized, filter.StyleAPI)
	if origin != nil {
		key += fmt.Sprintf("@%.6f,%.6f", origin.Lat, origin.Lng)
	}
	return key
}
