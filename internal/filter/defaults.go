package filter

import "math"

// Field domains. Values outside them are clamped by Normalize.
const (
	MaxRating       = 5.0
	MaxDistanceKm   = 500.0
	MaxHourlyRate   = 1000.0
	MaxYearsOfWork  = 50.0
	DefaultPageSize = 12
	MaxPageSize     = 50
	// MaxPage keeps (page-1)*pageSize inside an int32
	MaxPage = math.MaxInt32 / MaxPageSize
)

// DefaultPriceRange and DefaultExperienceRange span the whole domain
var (
	DefaultPriceRange      = Range{Min: 0, Max: MaxHourlyRate}
	DefaultExperienceRange = Range{Min: 0, Max: MaxYearsOfWork}
)

// DefaultState returns the zero-state advanced filters
func DefaultState() State {
	return State{
		ProfileType:       ProfileTypeAll,
		SpecialtyOperator: OperatorOr,
		ServicesOperator:  OperatorOr,
		AmenitiesOperator: OperatorOr,
		PriceRange:        DefaultPriceRange,
		ExperienceRange:   DefaultExperienceRange,
		Availability:      AvailabilityAll,
		AvailabilityTime:  TimeAny,
		SortBy:            SortRelevance,
		SortOrder:         SortDesc,
		Page:              1,
		PageSize:          DefaultPageSize,
	}
}

// DefaultBasic returns the zero-state basic filters
func DefaultBasic() Basic {
	return ToBasic(DefaultState())
}

// Default returns the zero-state filters for the given mode
func Default(mode Mode) Filters {
	if mode == ModeBasic {
		return DefaultBasic()
	}
	return DefaultState()
}
