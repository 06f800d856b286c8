package search

import (
	"time"

	"github.com/bulatminnakhmetov/inkmatch-backend/internal/filter"
)

// Plan is a compiled search: the predicates every result must satisfy, the
// ordering and the page window. Count and page fetch read the same
// Predicates, so the total always matches the reachable pages.
type Plan struct {
	Predicates []Predicate
	Sort       []SortKey
	Origin     *filter.Coordinate
	Page       int
	PageSize   int
	Limit      int
	Offset     int
}

// Predicate is one facet clause. Stores switch over the concrete types.
type Predicate interface {
	isPredicate()
}

// TextMatch matches the term (case-insensitive substring) against name, bio,
// location, specialty names and service names
type TextMatch struct {
	Term string
}

// ProfileTypeIs restricts to artists or studios
type ProfileTypeIs struct {
	Type filter.ProfileType
}

// LocationContains is a case-insensitive substring match on location
type LocationContains struct {
	Term string
}

// SetField names a multi-valued profile attribute
type SetField string

const (
	SetSpecialties SetField = "specialties"
	SetServices    SetField = "services"
	SetAmenities   SetField = "amenities"
)

// SetMatch requires at least one (OR) or all (AND) of Values
type SetMatch struct {
	Field    SetField
	Values   []string
	Operator filter.Operator
}

// MinRating requires rating >= Value
type MinRating struct {
	Value float64
}

// NumericField names a nullable numeric profile attribute
type NumericField string

const (
	FieldHourlyRate      NumericField = "hourly_rate"
	FieldYearsExperience NumericField = "years_experience"
)

// RangeMatch is an inclusive interval. A nil Max is open-ended; IncludeNull
// admits profiles with no value set.
type RangeMatch struct {
	Field       NumericField
	Min         float64
	Max         *float64
	IncludeNull bool
}

// WithinDistance keeps profiles whose coordinate lies within Km of Origin
type WithinDistance struct {
	Origin filter.Coordinate
	Km     float64
}

// HasCoordinate keeps profiles with a known coordinate
type HasCoordinate struct{}

// AvailabilityIs matches the precomputed availability flag
type AvailabilityIs struct {
	Available bool
}

// WorkingHoursMatch requires a working-hours slot on one of Days whose window
// intersects [FromMinute, ToMinute). Empty Days means any day.
type WorkingHoursMatch struct {
	Days       []time.Weekday
	FromMinute int
	ToMinute   int
}

// FlagField names a boolean profile attribute
type FlagField string

const (
	FlagActive            FlagField = "is_active"
	FlagVerified          FlagField = "is_verified"
	FlagHasPortfolio      FlagField = "has_portfolio"
	FlagAcceptsNewClients FlagField = "accepts_new_clients"
)

// FlagIs requires the flag to be true
type FlagIs struct {
	Field FlagField
}

func (TextMatch) isPredicate()         {}
func (ProfileTypeIs) isPredicate()     {}
func (LocationContains) isPredicate()  {}
func (SetMatch) isPredicate()          {}
func (MinRating) isPredicate()         {}
func (RangeMatch) isPredicate()        {}
func (WithinDistance) isPredicate()    {}
func (HasCoordinate) isPredicate()     {}
func (AvailabilityIs) isPredicate()    {}
func (WorkingHoursMatch) isPredicate() {}
func (FlagIs) isPredicate()            {}

// SortField names an ordering key
type SortField string

const (
	// SortNameMatch puts profiles whose name contains Term first
	SortNameMatch  SortField = "name_match"
	SortRating     SortField = "rating"
	SortDistance   SortField = "distance"
	SortHourlyRate SortField = "hourly_rate"
	SortExperience SortField = "years_experience"
	SortCreatedAt  SortField = "created_at"
	SortID         SortField = "id"
)

// SortKey is one ordering term. Nulls always sort last.
type SortKey struct {
	Field SortField
	Desc  bool
	Term  string
}
