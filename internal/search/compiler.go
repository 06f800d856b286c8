package search

import (
	"fmt"

	"github.com/bulatminnakhmetov/inkmatch-backend/internal/filter"
)

// Time-of-day bands in minutes since midnight
var timeBands = map[filter.TimeOfDay][2]int{
	filter.TimeMorning:   {9 * 60, 12 * 60},
	filter.TimeAfternoon: {12 * 60, 18 * 60},
	filter.TimeEvening:   {18 * 60, 22 * 60},
}

// Compile turns filters into a Plan. It never fails: out-of-domain values are
// normalized first and reported as warnings. origin may be nil; without it the
// distance filter is skipped and distance sorting falls back to relevance.
func Compile(s filter.State, origin *filter.Coordinate) (*Plan, []filter.Warning) {
	s, warnings := filter.Normalize(s)

	if origin != nil && !origin.Valid() {
		warnings = append(warnings, filter.Warning{Field: "origin", Value: fmt.Sprintf("%v,%v", origin.Lat, origin.Lng)})
		origin = nil
	}

	plan := &Plan{
		Predicates: make([]Predicate, 0),
		Origin:     origin,
		Page:       s.Page,
		PageSize:   s.PageSize,
		Limit:      s.PageSize,
		Offset:     (s.Page - 1) * s.PageSize,
	}

	add := func(p Predicate) {
		plan.Predicates = append(plan.Predicates, p)
	}

	if s.Query != "" {
		add(TextMatch{Term: s.Query})
	}
	if s.ProfileType != filter.ProfileTypeAll {
		add(ProfileTypeIs{Type: s.ProfileType})
	}
	if s.Location != "" {
		add(LocationContains{Term: s.Location})
	}

	addSet(add, SetSpecialties, s.Specialties, s.SpecialtyOperator)
	addSet(add, SetServices, s.Services, s.ServicesOperator)
	addSet(add, SetAmenities, s.Amenities, s.AmenitiesOperator)

	if s.MinRating > 0 {
		add(MinRating{Value: s.MinRating})
	}

	if r, ok := rangeMatch(FieldHourlyRate, s.PriceRange, filter.DefaultPriceRange); ok {
		add(r)
	}
	if r, ok := rangeMatch(FieldYearsExperience, s.ExperienceRange, filter.DefaultExperienceRange); ok {
		add(r)
	}

	if origin != nil && s.MaxDistance > 0 {
		add(WithinDistance{Origin: *origin, Km: s.MaxDistance})
	}

	switch s.Availability {
	case filter.AvailabilityAvailable:
		add(AvailabilityIs{Available: true})
	case filter.AvailabilityBusy:
		add(AvailabilityIs{Available: false})
	case filter.AvailabilityCustom:
		if p, ok := workingHours(s); ok {
			add(p)
		}
	}

	if !s.IncludeInactive {
		add(FlagIs{Field: FlagActive})
	}
	if s.VerifiedOnly {
		add(FlagIs{Field: FlagVerified})
	}
	if s.HasPortfolio {
		add(FlagIs{Field: FlagHasPortfolio})
	}
	if s.AcceptsNewClients {
		add(FlagIs{Field: FlagAcceptsNewClients})
	}

	sortBy := s.SortBy
	if sortBy == filter.SortDistance && origin == nil {
		warnings = append(warnings, filter.Warning{Field: "sortBy", Value: string(sortBy)})
		sortBy = filter.SortRelevance
	}
	if sortBy == filter.SortDistance && s.MaxDistance == 0 {
		// WithinDistance already excludes profiles without a coordinate
		add(HasCoordinate{})
	}
	plan.Sort = sortKeys(sortBy, s.SortOrder == filter.SortDesc, s.Query)

	return plan, warnings
}

func addSet(add func(Predicate), field SetField, values []string, op filter.Operator) {
	if len(values) == 0 {
		return
	}
	// with a single value AND and OR coincide
	if len(values) == 1 {
		op = filter.OperatorOr
	}
	add(SetMatch{Field: field, Values: values, Operator: op})
}

// rangeMatch compiles a range only when it deviates from the full domain.
// A zero lower bound admits unset values and an upper bound at the domain
// maximum is open-ended.
func rangeMatch(field NumericField, r, domain filter.Range) (RangeMatch, bool) {
	if r == domain {
		return RangeMatch{}, false
	}
	m := RangeMatch{
		Field:       field,
		Min:         r.Min,
		IncludeNull: r.Min <= domain.Min,
	}
	if r.Max < domain.Max {
		upper := r.Max
		m.Max = &upper
	}
	return m, true
}

func workingHours(s filter.State) (WorkingHoursMatch, bool) {
	band, banded := timeBands[s.AvailabilityTime]
	if !banded && len(s.AvailabilityDays) == 0 {
		// custom with no days and any time matches every schedule, even empty ones
		return WorkingHoursMatch{}, false
	}
	m := WorkingHoursMatch{
		Days:       s.AvailabilityDays,
		FromMinute: 0,
		ToMinute:   24 * 60,
	}
	if banded {
		m.FromMinute, m.ToMinute = band[0], band[1]
	}
	return m, true
}

func sortKeys(sortBy filter.SortBy, desc bool, query string) []SortKey {
	tieBreak := SortKey{Field: SortID}

	switch sortBy {
	case filter.SortRating:
		return []SortKey{{Field: SortRating, Desc: desc}, tieBreak}
	case filter.SortDistance:
		return []SortKey{{Field: SortDistance, Desc: desc}, tieBreak}
	case filter.SortPrice:
		return []SortKey{{Field: SortHourlyRate, Desc: desc}, tieBreak}
	case filter.SortExperience:
		return []SortKey{{Field: SortExperience, Desc: desc}, tieBreak}
	case filter.SortNewest:
		return []SortKey{{Field: SortCreatedAt, Desc: desc}, tieBreak}
	}

	// relevance ranks best-first regardless of direction
	if query == "" {
		return []SortKey{{Field: SortCreatedAt, Desc: true}, tieBreak}
	}
	return []SortKey{
		{Field: SortNameMatch, Desc: true, Term: query},
		{Field: SortRating, Desc: true},
		{Field: SortCreatedAt, Desc: true},
		tieBreak,
	}
}
