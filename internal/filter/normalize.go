package filter

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// Warning records a value that was out of its domain and got replaced
type Warning struct {
	Field string
	Value string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s=%q", w.Field, w.Value)
}

type normalizer struct {
	warnings []Warning
}

func (n *normalizer) warn(field string, value interface{}) {
	n.warnings = append(n.warnings, Warning{Field: field, Value: fmt.Sprint(value)})
}

// Normalize maps every field of s onto its valid domain. It never fails;
// each replaced value is reported as a Warning.
func Normalize(s State) (State, []Warning) {
	n := &normalizer{}

	s.Query = strings.TrimSpace(s.Query)
	s.Location = strings.TrimSpace(s.Location)

	switch s.ProfileType {
	case ProfileTypeAll, ProfileTypeArtist, ProfileTypeStudio:
	case "":
		s.ProfileType = ProfileTypeAll
	default:
		n.warn("profileType", s.ProfileType)
		s.ProfileType = ProfileTypeAll
	}

	s.Specialties = normalizeSet(s.Specialties)
	s.Services = normalizeSet(s.Services)
	s.Amenities = normalizeSet(s.Amenities)
	s.SpecialtyOperator = n.operator("specialtyOperator", s.SpecialtyOperator)
	s.ServicesOperator = n.operator("servicesOperator", s.ServicesOperator)
	s.AmenitiesOperator = n.operator("amenitiesOperator", s.AmenitiesOperator)

	s.MinRating = n.clamp("minRating", s.MinRating, 0, MaxRating)
	s.MaxDistance = n.clamp("maxDistance", s.MaxDistance, 0, MaxDistanceKm)
	s.PriceRange = n.rangeOf("priceRange", s.PriceRange, DefaultPriceRange)
	s.ExperienceRange = n.rangeOf("experienceRange", s.ExperienceRange, DefaultExperienceRange)

	switch s.Availability {
	case AvailabilityAll, AvailabilityAvailable, AvailabilityBusy, AvailabilityCustom:
	case "":
		s.Availability = AvailabilityAll
	default:
		n.warn("availability", s.Availability)
		s.Availability = AvailabilityAll
	}
	if s.Availability == AvailabilityCustom {
		s.AvailabilityDays = n.weekdays(s.AvailabilityDays)
		switch s.AvailabilityTime {
		case TimeAny, TimeMorning, TimeAfternoon, TimeEvening:
		case "":
			s.AvailabilityTime = TimeAny
		default:
			n.warn("availabilityTime", s.AvailabilityTime)
			s.AvailabilityTime = TimeAny
		}
	} else {
		// days and time band only exist under custom availability
		s.AvailabilityDays = nil
		s.AvailabilityTime = TimeAny
	}

	switch s.SortBy {
	case SortRelevance, SortRating, SortDistance, SortPrice, SortExperience, SortNewest:
	case "":
		s.SortBy = SortRelevance
	default:
		n.warn("sortBy", s.SortBy)
		s.SortBy = SortRelevance
	}
	switch s.SortOrder {
	case SortAsc, SortDesc:
	case "":
		s.SortOrder = SortDesc
	default:
		n.warn("sortOrder", s.SortOrder)
		s.SortOrder = SortDesc
	}

	switch {
	case s.Page < 1:
		n.warn("page", s.Page)
		s.Page = 1
	case s.Page > MaxPage:
		n.warn("page", s.Page)
		s.Page = MaxPage
	}
	switch {
	case s.PageSize == 0:
		s.PageSize = DefaultPageSize
	case s.PageSize < 1:
		n.warn("pageSize", s.PageSize)
		s.PageSize = 1
	case s.PageSize > MaxPageSize:
		n.warn("pageSize", s.PageSize)
		s.PageSize = MaxPageSize
	}

	return s, n.warnings
}

// NormalizeBasic is Normalize for the basic projection
func NormalizeBasic(b Basic) (Basic, []Warning) {
	if b.Availability == AvailabilityCustom {
		b.Availability = AvailabilityAll
	}
	s, warnings := Normalize(ToAdvanced(b))
	return ToBasic(s), warnings
}

func (n *normalizer) operator(field string, op Operator) Operator {
	switch Operator(strings.ToUpper(string(op))) {
	case OperatorAnd:
		return OperatorAnd
	case OperatorOr:
		return OperatorOr
	case "":
		return OperatorOr
	}
	n.warn(field, op)
	return OperatorOr
}

func (n *normalizer) clamp(field string, v, lo, hi float64) float64 {
	switch {
	case math.IsNaN(v):
		n.warn(field, v)
		return lo
	case v < lo:
		n.warn(field, v)
		return lo
	case v > hi:
		n.warn(field, v)
		return hi
	}
	return v
}

func (n *normalizer) rangeOf(field string, r, domain Range) Range {
	r.Min = n.clamp(field+".min", r.Min, domain.Min, domain.Max)
	r.Max = n.clamp(field+".max", r.Max, domain.Min, domain.Max)
	if r.Min > r.Max {
		n.warn(field, fmt.Sprintf("%v-%v", r.Min, r.Max))
		r.Min = r.Max
	}
	return r
}

func (n *normalizer) weekdays(days []time.Weekday) []time.Weekday {
	if len(days) == 0 {
		return nil
	}
	seen := make(map[time.Weekday]bool, len(days))
	out := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		if d < time.Sunday || d > time.Saturday {
			n.warn("availabilityDays", int(d))
			continue
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// normalizeSet trims, drops empty and comma-bearing members, dedupes and sorts.
// Commas are the list separator on the wire.
func normalizeSet(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || strings.Contains(v, ",") || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}
