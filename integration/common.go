//go:build integration

package integration

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/bulatminnakhmetov/inkmatch-backend/internal/database"
	"github.com/bulatminnakhmetov/inkmatch-backend/internal/filter"
	"github.com/bulatminnakhmetov/inkmatch-backend/internal/search"
)

// startPostgres runs a disposable PostgreSQL with the schema applied.
// TEST_DATABASE_URL points the suite at an existing database instead.
func startPostgres(t *testing.T, ctx context.Context) (*sql.DB, func()) {
	t.Helper()

	if dsn := os.Getenv("TEST_DATABASE_URL"); dsn != "" {
		db, err := database.Open(dsn)
		require.NoError(t, err)
		require.NoError(t, database.Migrate(db))
		return db, func() { db.Close() }
	}

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("inkmatch_test"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Open(dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return db, func() {
		db.Close()
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}
}

// seedStore is implemented by both profile repositories
type seedStore interface {
	CreateSpecialty(ctx context.Context, s search.Specialty) error
	CreateProfile(ctx context.Context, p *search.Profile) error
}

var seedEpoch = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func rate(v float64) *float64 { return &v }
func years(v int) *int        { return &v }

// seedCatalog returns a small marketplace around Berlin with every facet
// represented at least once
func seedCatalog() ([]search.Specialty, []search.Profile) {
	specialties := []search.Specialty{
		{ID: "blackwork", Name: "Blackwork"},
		{ID: "fineline", Name: "Fine Line"},
		{ID: "japanese", Name: "Japanese"},
		{ID: "realism", Name: "Realism"},
	}

	berlin := &filter.Coordinate{Lat: 52.52, Lng: 13.405}
	potsdam := &filter.Coordinate{Lat: 52.3906, Lng: 13.0645}
	hamburg := &filter.Coordinate{Lat: 53.5511, Lng: 9.9937}

	profiles := []search.Profile{
		{
			ID: 1, Type: filter.ProfileTypeArtist, Name: "Rose Ink", Bio: "Botanical fine line work",
			Location: "Berlin Mitte", Coordinate: berlin, Rating: 4.8, HourlyRate: rate(120), YearsExperience: years(8),
			SpecialtyIDs: []string{"fineline", "blackwork"}, ServiceNames: []string{"custom design", "cover-up"},
			IsActive: true, IsVerified: true, HasPortfolio: true, AcceptsNewClients: true, IsAvailable: true,
			WorkingHours: []search.WorkingHours{{Weekday: time.Monday, OpensAt: 9 * 60, ClosesAt: 13 * 60}},
			CreatedAt:    seedEpoch,
		},
		{
			ID: 2, Type: filter.ProfileTypeArtist, Name: "Koi Kenji", Bio: "Irezumi and koi fish sleeves",
			Location: "Potsdam", Coordinate: potsdam, Rating: 4.5, HourlyRate: rate(150), YearsExperience: years(15),
			SpecialtyIDs: []string{"japanese"}, ServiceNames: []string{"custom design"},
			IsActive: true, IsVerified: false, HasPortfolio: true, AcceptsNewClients: false, IsAvailable: false,
			WorkingHours: []search.WorkingHours{{Weekday: time.Saturday, OpensAt: 14 * 60, ClosesAt: 20 * 60}},
			CreatedAt:    seedEpoch.Add(24 * time.Hour),
		},
		{
			ID: 3, Type: filter.ProfileTypeStudio, Name: "Northside Studio", Bio: "Walk-ins welcome",
			Location: "Hamburg", Coordinate: hamburg, Rating: 4.1, HourlyRate: rate(90),
			SpecialtyIDs: []string{"blackwork", "realism"}, ServiceNames: []string{"walk-in", "piercing"},
			AmenityNames: []string{"parking", "wifi"},
			IsActive:     true, IsVerified: true, HasPortfolio: false, AcceptsNewClients: true, IsAvailable: true,
			WorkingHours: []search.WorkingHours{
				{Weekday: time.Monday, OpensAt: 10 * 60, ClosesAt: 18 * 60},
				{Weekday: time.Friday, OpensAt: 12 * 60, ClosesAt: 22 * 60},
			},
			CreatedAt: seedEpoch.Add(48 * time.Hour),
		},
		{
			ID: 4, Type: filter.ProfileTypeStudio, Name: "Ink & Rose Collective", Bio: "Realism specialists",
			Location: "Berlin Kreuzberg", Coordinate: &filter.Coordinate{Lat: 52.4986, Lng: 13.4030}, Rating: 3.9,
			SpecialtyIDs: []string{"realism"}, AmenityNames: []string{"wifi"},
			IsActive: true, IsVerified: false, HasPortfolio: true, AcceptsNewClients: true, IsAvailable: true,
			CreatedAt: seedEpoch.Add(72 * time.Hour),
		},
		{
			ID: 5, Type: filter.ProfileTypeArtist, Name: "Retired Rita", Bio: "Classic flash",
			Location: "Berlin", Rating: 5, HourlyRate: rate(200), YearsExperience: years(30),
			SpecialtyIDs: []string{"blackwork"},
			IsActive:     false, IsVerified: true, HasPortfolio: true,
			CreatedAt: seedEpoch.Add(96 * time.Hour),
		},
	}
	return specialties, profiles
}

func seed(t *testing.T, ctx context.Context, store seedStore) {
	t.Helper()
	specialties, profiles := seedCatalog()
	for _, s := range specialties {
		require.NoError(t, store.CreateSpecialty(ctx, s))
	}
	for i := range profiles {
		require.NoError(t, store.CreateProfile(ctx, &profiles[i]))
	}
}
