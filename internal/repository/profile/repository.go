package profile

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/bulatminnakhmetov/inkmatch-backend/internal/filter"
	"github.com/bulatminnakhmetov/inkmatch-backend/internal/search"
)

// Repository errors
var (
	ErrInvalidProfileType  = errors.New("invalid profile type")
	ErrInvalidWorkingHours = errors.New("invalid working hours")
)

// PostgresRepository is the profile store backed by PostgreSQL
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CountProfiles counts every profile matching the plan's predicates
func (r *PostgresRepository) CountProfiles(ctx context.Context, plan *search.Plan) (int, error) {
	query, args := newQueryBuilder(plan).buildCountQuery()

	var total int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, errors.Wrap(err, "failed to count profiles")
	}
	return total, nil
}

// FindProfiles returns the plan's page window in plan order
func (r *PostgresRepository) FindProfiles(ctx context.Context, plan *search.Plan) ([]search.Profile, error) {
	query, args := newQueryBuilder(plan).buildQuery(plan)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search profiles")
	}
	defer rows.Close()

	profiles := make([]search.Profile, 0, plan.Limit)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan profile row")
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating profile rows")
	}

	if err := r.attachWorkingHours(ctx, profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// ListSpecialties returns the specialty catalog ordered by name
func (r *PostgresRepository) ListSpecialties(ctx context.Context) ([]search.Specialty, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM specialties ORDER BY name, id`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list specialties")
	}
	defer rows.Close()

	items := make([]search.Specialty, 0)
	for rows.Next() {
		var item search.Specialty
		if err := rows.Scan(&item.ID, &item.Name); err != nil {
			return nil, errors.Wrap(err, "failed to scan specialty row")
		}
		items = append(items, item)
	}
	return items, errors.Wrap(rows.Err(), "error iterating specialty rows")
}

// CreateSpecialty inserts or renames a catalog entry
func (r *PostgresRepository) CreateSpecialty(ctx context.Context, s search.Specialty) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO specialties (id, name) VALUES ($1, $2)
        ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
    `, s.ID, s.Name)
	return errors.Wrap(err, "failed to create specialty")
}

// CreateProfile inserts p with its working hours and sets p.ID and
// p.CreatedAt. A zero CreatedAt takes the database clock.
func (r *PostgresRepository) CreateProfile(ctx context.Context, p *search.Profile) error {
	if p.Type != filter.ProfileTypeArtist && p.Type != filter.ProfileTypeStudio {
		return ErrInvalidProfileType
	}
	for _, wh := range p.WorkingHours {
		if wh.Weekday < time.Sunday || wh.Weekday > time.Saturday || wh.OpensAt < 0 || wh.OpensAt >= wh.ClosesAt || wh.ClosesAt > 24*60 {
			return ErrInvalidWorkingHours
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	var lat, lng sql.NullFloat64
	if p.Coordinate != nil {
		lat = sql.NullFloat64{Float64: p.Coordinate.Lat, Valid: true}
		lng = sql.NullFloat64{Float64: p.Coordinate.Lng, Valid: true}
	}
	var rate sql.NullFloat64
	if p.HourlyRate != nil {
		rate = sql.NullFloat64{Float64: *p.HourlyRate, Valid: true}
	}
	var years sql.NullInt64
	if p.YearsExperience != nil {
		years = sql.NullInt64{Int64: int64(*p.YearsExperience), Valid: true}
	}
	createdAt := sql.NullTime{Time: p.CreatedAt, Valid: !p.CreatedAt.IsZero()}

	err = tx.QueryRowContext(ctx, `
        INSERT INTO profiles (
            profile_type, name, bio, location, latitude, longitude, rating, hourly_rate, years_experience,
            specialty_ids, service_names, amenity_names,
            is_active, is_verified, has_portfolio, accepts_new_clients, is_available, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, COALESCE($18, now()))
        RETURNING id, created_at
    `,
		string(p.Type), p.Name, p.Bio, p.Location, lat, lng, p.Rating, rate, years,
		pq.Array(nonNil(p.SpecialtyIDs)), pq.Array(nonNil(p.ServiceNames)), pq.Array(nonNil(p.AmenityNames)),
		p.IsActive, p.IsVerified, p.HasPortfolio, p.AcceptsNewClients, p.IsAvailable, createdAt,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return errors.Wrap(err, "failed to insert profile")
	}

	for _, wh := range p.WorkingHours {
		_, err := tx.ExecContext(ctx, `
            INSERT INTO profile_working_hours (profile_id, weekday, opens_at, closes_at)
            VALUES ($1, $2, $3, $4)
        `, p.ID, int(wh.Weekday), wh.OpensAt, wh.ClosesAt)
		if err != nil {
			return errors.Wrap(err, "failed to insert working hours")
		}
	}

	return errors.Wrap(tx.Commit(), "failed to commit profile")
}

// attachWorkingHours loads the schedules of a page in one query
func (r *PostgresRepository) attachWorkingHours(ctx context.Context, profiles []search.Profile) error {
	if len(profiles) == 0 {
		return nil
	}

	ids := make([]int64, len(profiles))
	index := make(map[int64]int, len(profiles))
	for i, p := range profiles {
		ids[i] = p.ID
		index[p.ID] = i
	}

	rows, err := r.db.QueryContext(ctx, `
        SELECT profile_id, weekday, opens_at, closes_at
        FROM profile_working_hours
        WHERE profile_id = ANY($1)
        ORDER BY profile_id, weekday, opens_at
    `, pq.Array(ids))
	if err != nil {
		return errors.Wrap(err, "failed to load working hours")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			profileID int64
			weekday   int
			wh        search.WorkingHours
		)
		if err := rows.Scan(&profileID, &weekday, &wh.OpensAt, &wh.ClosesAt); err != nil {
			return errors.Wrap(err, "failed to scan working hours row")
		}
		wh.Weekday = time.Weekday(weekday)
		if i, ok := index[profileID]; ok {
			profiles[i].WorkingHours = append(profiles[i].WorkingHours, wh)
		}
	}
	return errors.Wrap(rows.Err(), "error iterating working hours rows")
}

func scanProfile(rows *sql.Rows) (search.Profile, error) {
	var (
		p           search.Profile
		profileType string
		lat, lng    sql.NullFloat64
		rate        sql.NullFloat64
		years       sql.NullInt64
		distance    sql.NullFloat64
	)

	err := rows.Scan(
		&p.ID,
		&profileType,
		&p.Name,
		&p.Bio,
		&p.Location,
		&lat,
		&lng,
		&p.Rating,
		&rate,
		&years,
		pq.Array(&p.SpecialtyIDs),
		pq.Array(&p.ServiceNames),
		pq.Array(&p.AmenityNames),
		&p.IsActive,
		&p.IsVerified,
		&p.HasPortfolio,
		&p.AcceptsNewClients,
		&p.IsAvailable,
		&p.CreatedAt,
		&distance,
	)
	if err != nil {
		return p, err
	}

	p.Type = filter.ProfileType(profileType)
	if lat.Valid && lng.Valid {
		p.Coordinate = &filter.Coordinate{Lat: lat.Float64, Lng: lng.Float64}
	}
	if rate.Valid {
		v := rate.Float64
		p.HourlyRate = &v
	}
	if years.Valid {
		v := int(years.Int64)
		p.YearsExperience = &v
	}
	if distance.Valid {
		v := distance.Float64
		p.Distance = &v
	}
	p.WorkingHours = make([]search.WorkingHours, 0)
	return p, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
