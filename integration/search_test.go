//go:build integration

package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/bulatminnakhmetov/inkmatch-backend/internal/filter"
	"github.com/bulatminnakhmetov/inkmatch-backend/internal/repository/profile"
	"github.com/bulatminnakhmetov/inkmatch-backend/internal/repository/savedsearch"
	"github.com/bulatminnakhmetov/inkmatch-backend/internal/search"
)

// SearchIntegrationTestSuite runs the same searches against PostgreSQL and
// the in-memory store and expects identical answers
type SearchIntegrationTestSuite struct {
	suite.Suite
	ctx      context.Context
	db       *sql.DB
	teardown func()
	postgres *profile.PostgresRepository
	memory   *profile.MemoryRepository
}

func (s *SearchIntegrationTestSuite) SetupSuite() {
	s.ctx = context.Background()
	s.db, s.teardown = startPostgres(s.T(), s.ctx)

	_, err := s.db.ExecContext(s.ctx, "TRUNCATE saved_searches, profile_working_hours, profiles, specialties RESTART IDENTITY CASCADE")
	s.Require().NoError(err)

	s.postgres = profile.NewPostgresRepository(s.db)
	s.memory = profile.NewMemoryRepository()
	seed(s.T(), s.ctx, s.postgres)
	seed(s.T(), s.ctx, s.memory)
}

func (s *SearchIntegrationTestSuite) TearDownSuite() {
	if s.teardown != nil {
		s.teardown()
	}
}

func names(profiles []search.Profile) []string {
	out := make([]string, len(profiles))
	for i, p := range profiles {
		out[i] = p.Name
	}
	return out
}

func (s *SearchIntegrationTestSuite) TestStoresAgree() {
	berlin := &filter.Coordinate{Lat: 52.52, Lng: 13.405}

	tests := []struct {
		name     string
		params   string
		origin   *filter.Coordinate
		expected []string
	}{
		{
			name:     "defaults hide inactive profiles",
			params:   "",
			expected: []string{"Ink & Rose Collective", "Northside Studio", "Koi Kenji", "Rose Ink"},
		},
		{
			name:     "free text reaches names, bios and services",
			params:   "q=rose&sortBy=rating",
			expected: []string{"Rose Ink", "Ink & Rose Collective"},
		},
		{
			name:     "specialties with OR",
			params:   "specialties=japanese,realism&sortBy=rating",
			expected: []string{"Koi Kenji", "Northside Studio", "Ink & Rose Collective"},
		},
		{
			name:     "specialties with AND",
			params:   "specialties=blackwork,realism&specialty_op=AND",
			expected: []string{"Northside Studio"},
		},
		{
			name:     "studios with amenities",
			params:   "type=studio&amenities=wifi,parking&amenities_op=AND",
			expected: []string{"Northside Studio"},
		},
		{
			name:     "price range excludes unpriced profiles",
			params:   "minPrice=100&maxPrice=160&sortBy=price&sortOrder=asc",
			expected: []string{"Rose Ink", "Koi Kenji"},
		},
		{
			name:     "experience sort",
			params:   "minExperience=5&sortBy=experience&sortOrder=desc",
			expected: []string{"Koi Kenji", "Rose Ink"},
		},
		{
			name:     "fractional experience bounds",
			params:   "minExperience=2.5&maxExperience=10.5&sortBy=experience&sortOrder=asc",
			expected: []string{"Rose Ink"},
		},
		{
			name:     "distance radius around the origin",
			params:   "maxDistance=10&sortBy=distance&sortOrder=asc",
			origin:   berlin,
			expected: []string{"Rose Ink", "Ink & Rose Collective"},
		},
		{
			name:     "custom availability on monday mornings",
			params:   "availability=custom&availability_days=mon&availability_time=morning",
			expected: []string{"Northside Studio", "Rose Ink"},
		},
		{
			name:     "flags",
			params:   "verified_only=true&accepts_new_clients=true&sortBy=rating",
			expected: []string{"Rose Ink", "Northside Studio"},
		},
		{
			name:     "inactive profiles on request",
			params:   "include_inactive=true&verified_only=true&sortBy=rating",
			expected: []string{"Retired Rita", "Rose Ink", "Northside Studio"},
		},
		{
			name:     "second page",
			params:   "limit=3&page=2&sortBy=newest&sortOrder=asc",
			expected: []string{"Ink & Rose Collective"},
		},
		{
			name:     "nothing matches",
			params:   "q=watercolor",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			values, err := url.ParseQuery(tt.params)
			s.Require().NoError(err)
			state, _, err := filter.Decode(values)
			s.Require().NoError(err)

			plan, _ := search.Compile(state, tt.origin)

			fromPostgres, err := s.postgres.FindProfiles(s.ctx, plan)
			s.Require().NoError(err)
			fromMemory, err := s.memory.FindProfiles(s.ctx, plan)
			s.Require().NoError(err)

			s.Equal(tt.expected, names(fromPostgres))
			s.Equal(names(fromPostgres), names(fromMemory))

			pgTotal, err := s.postgres.CountProfiles(s.ctx, plan)
			s.Require().NoError(err)
			memTotal, err := s.memory.CountProfiles(s.ctx, plan)
			s.Require().NoError(err)
			s.Equal(pgTotal, memTotal)
		})
	}
}

func (s *SearchIntegrationTestSuite) TestDistanceAndWorkingHoursAreLoaded() {
	state := filter.DefaultState()
	state.Query = "Rose Ink"
	state.SortBy = filter.SortDistance
	state.SortOrder = filter.SortAsc
	state.MaxDistance = 5

	plan, _ := search.Compile(state, &filter.Coordinate{Lat: 52.52, Lng: 13.405})

	found, err := s.postgres.FindProfiles(s.ctx, plan)
	s.Require().NoError(err)
	s.Require().Len(found, 1)

	s.Require().NotNil(found[0].Distance)
	s.InDelta(0, *found[0].Distance, 0.01)
	s.Equal([]search.WorkingHours{{Weekday: time.Monday, OpensAt: 540, ClosesAt: 780}}, found[0].WorkingHours)
}

func (s *SearchIntegrationTestSuite) TestSpecialtiesCatalog() {
	fromPostgres, err := s.postgres.ListSpecialties(s.ctx)
	s.Require().NoError(err)
	fromMemory, err := s.memory.ListSpecialties(s.ctx)
	s.Require().NoError(err)

	s.Equal(fromMemory, fromPostgres)
	s.Len(fromPostgres, 4)
	s.Equal("Blackwork", fromPostgres[0].Name)
}

func (s *SearchIntegrationTestSuite) TestSearchEndpoint() {
	handler := search.NewSearchHandler(search.NewSearchService(s.postgres), nil)
	server := httptest.NewServer(http.HandlerFunc(handler.SearchProfiles))
	defer server.Close()

	resp, err := http.Get(server.URL + "?specialties=blackwork&limit=1&sortBy=rating")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var body search.ProfileSearchResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	s.True(body.Success)
	s.Equal([]string{"Rose Ink"}, names(body.Data))
	s.Equal(2, body.Pagination.Total)
	s.Equal(2, body.Pagination.TotalPages)
	s.True(body.Pagination.HasNext)

	resp, err = http.Get(server.URL + "?page=0")
	s.Require().NoError(err)
	resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *SearchIntegrationTestSuite) TestSavedSearchLifecycle() {
	repo := savedsearch.NewPostgresRepository(s.db)
	t := s.T()

	state := filter.DefaultState()
	state.Query = "koi"
	state.Specialties = []string{"japanese"}
	state.AvailabilityDays = []time.Weekday{time.Saturday}

	saved := &savedsearch.SavedSearch{ID: uuid.New(), UserID: 7, Name: "Koi sleeves", Filters: state}
	require.NoError(t, repo.Create(s.ctx, saved))
	assert.False(t, saved.CreatedAt.IsZero())

	loaded, err := repo.GetByID(s.ctx, 7, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, state, loaded.Filters)
	assert.Equal(t, "Koi sleeves", loaded.Name)

	_, err = repo.GetByID(s.ctx, 8, saved.ID)
	assert.ErrorIs(t, err, savedsearch.ErrSavedSearchNotFound)

	list, err := repo.ListByUser(s.ctx, 7)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(s.ctx, 7, saved.ID))
	assert.ErrorIs(t, repo.Delete(s.ctx, 7, saved.ID), savedsearch.ErrSavedSearchNotFound)
}

func TestSearchIntegration(t *testing.T) {
	if os.Getenv("SKIP_INTEGRATION_TESTS") != "" {
		t.Skip("Skipping integration tests")
	}
	suite.Run(t, new(SearchIntegrationTestSuite))
}
