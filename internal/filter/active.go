package filter

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Chip keys, one per removable filter
const (
	ChipQuery             = "query"
	ChipProfileType       = "type"
	ChipLocation          = "location"
	ChipSpecialties       = "specialties"
	ChipServices          = "services"
	ChipAmenities         = "amenities"
	ChipMinRating         = "minRating"
	ChipMaxDistance       = "maxDistance"
	ChipPrice             = "price"
	ChipExperience        = "experience"
	ChipAvailability      = "availability"
	ChipVerifiedOnly      = "verified"
	ChipHasPortfolio      = "portfolio"
	ChipAcceptsNewClients = "acceptingNewClients"
	ChipIncludeInactive   = "includeInactive"
)

// Chip is one removable active-filter badge
type Chip struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Chips lists the fields of f that deviate from their defaults, in display
// order. Operators, sorting and pagination are not filters and never appear.
func Chips(f Filters) []Chip {
	s := Advanced(f)
	d := DefaultState()
	chips := make([]Chip, 0)

	add := func(key, label string) {
		chips = append(chips, Chip{Key: key, Label: label})
	}

	if s.Query != d.Query {
		add(ChipQuery, fmt.Sprintf("%q", s.Query))
	}
	if s.ProfileType != d.ProfileType {
		add(ChipProfileType, string(s.ProfileType))
	}
	if s.Location != d.Location {
		add(ChipLocation, s.Location)
	}
	if len(s.Specialties) > 0 {
		add(ChipSpecialties, setLabel(s.Specialties, s.SpecialtyOperator))
	}
	if len(s.Services) > 0 {
		add(ChipServices, setLabel(s.Services, s.ServicesOperator))
	}
	if len(s.Amenities) > 0 {
		add(ChipAmenities, setLabel(s.Amenities, s.AmenitiesOperator))
	}
	if s.MinRating != d.MinRating {
		add(ChipMinRating, formatFloat(s.MinRating)+"+ stars")
	}
	if s.MaxDistance != d.MaxDistance {
		add(ChipMaxDistance, "within "+formatFloat(s.MaxDistance)+" km")
	}
	if s.PriceRange != d.PriceRange {
		add(ChipPrice, "$"+formatRange(s.PriceRange))
	}
	if s.ExperienceRange != d.ExperienceRange {
		add(ChipExperience, formatRange(s.ExperienceRange)+" years")
	}
	if s.Availability != d.Availability {
		add(ChipAvailability, availabilityLabel(s))
	}
	if s.VerifiedOnly {
		add(ChipVerifiedOnly, "verified")
	}
	if s.HasPortfolio {
		add(ChipHasPortfolio, "has portfolio")
	}
	if s.AcceptsNewClients {
		add(ChipAcceptsNewClients, "accepting new clients")
	}
	if s.IncludeInactive {
		add(ChipIncludeInactive, "including inactive")
	}

	return chips
}

// CountActive is the number of active filter chips for f
func CountActive(f Filters) int {
	return len(Chips(f))
}

// RemoveChip resets the field behind the chip key. Removing a filter returns
// to the first page like any other filter change.
func RemoveChip(s State, key string) State {
	d := DefaultState()
	next := s

	switch key {
	case ChipQuery:
		next.Query = d.Query
	case ChipProfileType:
		next.ProfileType = d.ProfileType
	case ChipLocation:
		next.Location = d.Location
	case ChipSpecialties:
		next.Specialties, next.SpecialtyOperator = nil, d.SpecialtyOperator
	case ChipServices:
		next.Services, next.ServicesOperator = nil, d.ServicesOperator
	case ChipAmenities:
		next.Amenities, next.AmenitiesOperator = nil, d.AmenitiesOperator
	case ChipMinRating:
		next.MinRating = d.MinRating
	case ChipMaxDistance:
		next.MaxDistance = d.MaxDistance
	case ChipPrice:
		next.PriceRange = d.PriceRange
	case ChipExperience:
		next.ExperienceRange = d.ExperienceRange
	case ChipAvailability:
		next.Availability, next.AvailabilityDays, next.AvailabilityTime = d.Availability, nil, d.AvailabilityTime
	case ChipVerifiedOnly:
		next.VerifiedOnly = false
	case ChipHasPortfolio:
		next.HasPortfolio = false
	case ChipAcceptsNewClients:
		next.AcceptsNewClients = false
	case ChipIncludeInactive:
		next.IncludeInactive = false
	default:
		return s
	}

	return Update(s, next)
}

// Update returns next, moved back to page 1 if any non-pagination field
// differs from prev
func Update(prev, next State) State {
	if !sameFilters(prev, next) {
		next.Page = 1
	}
	return next
}

func sameFilters(a, b State) bool {
	a.Page, a.PageSize = 0, 0
	b.Page, b.PageSize = 0, 0
	return reflect.DeepEqual(a, b)
}

func setLabel(values []string, op Operator) string {
	if len(values) < 2 {
		return strings.Join(values, "")
	}
	sep := " or "
	if op == OperatorAnd {
		sep = " and "
	}
	return strings.Join(values, sep)
}

func availabilityLabel(s State) string {
	if s.Availability != AvailabilityCustom {
		return string(s.Availability)
	}
	days := make([]string, 0, len(s.AvailabilityDays))
	for _, d := range s.AvailabilityDays {
		days = append(days, weekdayToken(d))
	}
	label := "custom"
	if len(days) > 0 {
		label += " " + strings.Join(days, ",")
	}
	if s.AvailabilityTime != TimeAny {
		label += " " + string(s.AvailabilityTime)
	}
	return label
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatRange(r Range) string {
	return formatFloat(r.Min) + "-" + formatFloat(r.Max)
}

var weekdayTokens = [...]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

func weekdayToken(d time.Weekday) string {
	if d < time.Sunday || d > time.Saturday {
		return ""
	}
	return weekdayTokens[d]
}

func parseWeekday(token string) (time.Weekday, bool) {
	token = strings.ToLower(strings.TrimSpace(token))
	if len(token) > 3 {
		token = token[:3]
	}
	for i, t := range weekdayTokens {
		if t == token {
			return time.Weekday(i), true
		}
	}
	return 0, false
}
