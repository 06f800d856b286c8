package filter

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Style selects the parameter names used by Encode
type Style int

const (
	// StyleAPI produces the parameters of GET /api/profiles
	StyleAPI Style = iota
	// StyleURL produces the shorter aliases shown in the browser address bar
	StyleURL
)

type keySet struct {
	query, profileType, location             string
	specialties, specialtyOp                 string
	services, servicesOp                     string
	amenities, amenitiesOp                   string
	minRating, maxDistance                   string
	minPrice, maxPrice, price                string
	minExperience, maxExperience, experience string
	availability, days, timeOfDay            string
	verified, portfolio, accepting, inactive string
	sortBy, sortOrder, page, limit           string
}

var apiKeys = keySet{
	query: "q", profileType: "type", location: "location",
	specialties: "specialties", specialtyOp: "specialty_op",
	services: "services", servicesOp: "services_op",
	amenities: "amenities", amenitiesOp: "amenities_op",
	minRating: "minRating", maxDistance: "maxDistance",
	minPrice: "minPrice", maxPrice: "maxPrice",
	minExperience: "minExperience", maxExperience: "maxExperience",
	availability: "availability", days: "availability_days", timeOfDay: "availability_time",
	verified: "verified_only", portfolio: "has_portfolio", accepting: "accepts_new_clients", inactive: "include_inactive",
	sortBy: "sortBy", sortOrder: "sortOrder", page: "page", limit: "limit",
}

var urlKeys = keySet{
	query: "q", profileType: "type", location: "location",
	specialties: "specialties", specialtyOp: "match",
	services: "services", servicesOp: "services_match",
	amenities: "amenities", amenitiesOp: "amenities_match",
	minRating: "rating", maxDistance: "within",
	price: "price", experience: "experience",
	availability: "availability", days: "days", timeOfDay: "time",
	verified: "verified", portfolio: "portfolio", accepting: "accepting", inactive: "inactive",
	sortBy: "sort", sortOrder: "order", page: "page", limit: "per_page",
}

// ValidationError is returned for requests that cannot be served as sent.
// Only malformed pagination is refused; everything else is clamped.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Encode flattens s into query parameters, omitting every field that is at
// its default value
func Encode(s State, style Style) url.Values {
	k := apiKeys
	if style == StyleURL {
		k = urlKeys
	}
	d := DefaultState()
	v := url.Values{}

	setString := func(key, value, def string) {
		if value != def {
			v.Set(key, value)
		}
	}
	setFloat := func(key string, value, def float64) {
		if value != def {
			v.Set(key, formatFloat(value))
		}
	}
	setBool := func(key string, value bool) {
		if value {
			v.Set(key, "true")
		}
	}
	setSet := func(key string, values []string, opKey string, op Operator) {
		if len(values) == 0 {
			return
		}
		v.Set(key, strings.Join(values, ","))
		if op != OperatorOr {
			v.Set(opKey, string(op))
		}
	}
	setRange := func(single, minKey, maxKey string, r, def Range) {
		if style == StyleURL {
			if r != def {
				v.Set(single, formatRange(r))
			}
			return
		}
		setFloat(minKey, r.Min, def.Min)
		setFloat(maxKey, r.Max, def.Max)
	}

	setString(k.query, s.Query, d.Query)
	setString(k.profileType, string(s.ProfileType), string(d.ProfileType))
	setString(k.location, s.Location, d.Location)
	setSet(k.specialties, s.Specialties, k.specialtyOp, s.SpecialtyOperator)
	setSet(k.services, s.Services, k.servicesOp, s.ServicesOperator)
	setSet(k.amenities, s.Amenities, k.amenitiesOp, s.AmenitiesOperator)
	setFloat(k.minRating, s.MinRating, d.MinRating)
	setFloat(k.maxDistance, s.MaxDistance, d.MaxDistance)
	setRange(k.price, k.minPrice, k.maxPrice, s.PriceRange, d.PriceRange)
	setRange(k.experience, k.minExperience, k.maxExperience, s.ExperienceRange, d.ExperienceRange)

	setString(k.availability, string(s.Availability), string(d.Availability))
	if s.Availability == AvailabilityCustom {
		if len(s.AvailabilityDays) > 0 {
			days := make([]string, 0, len(s.AvailabilityDays))
			for _, day := range s.AvailabilityDays {
				days = append(days, weekdayToken(day))
			}
			v.Set(k.days, strings.Join(days, ","))
		}
		setString(k.timeOfDay, string(s.AvailabilityTime), string(d.AvailabilityTime))
	}

	setBool(k.verified, s.VerifiedOnly)
	setBool(k.portfolio, s.HasPortfolio)
	setBool(k.accepting, s.AcceptsNewClients)
	setBool(k.inactive, s.IncludeInactive)

	setString(k.sortBy, string(s.SortBy), string(d.SortBy))
	setString(k.sortOrder, string(s.SortOrder), string(d.SortOrder))
	if s.Page != d.Page {
		v.Set(k.page, strconv.Itoa(s.Page))
	}
	if s.PageSize != d.PageSize {
		v.Set(k.limit, strconv.Itoa(s.PageSize))
	}

	return v
}

// EncodeString is Encode rendered as a query string
func EncodeString(s State, style Style) string {
	return Encode(s, style).Encode()
}

// Decode rebuilds a State from parameters in either naming style. Unknown
// keys are ignored and malformed values fall back to the field default with
// a Warning. Malformed pagination is a *ValidationError.
func Decode(values url.Values) (State, []Warning, error) {
	s := DefaultState()
	p := &paramReader{values: values}

	if q, ok := p.get(apiKeys.query); ok {
		s.Query = q
	}
	if t, ok := p.get(apiKeys.profileType, urlKeys.profileType); ok {
		s.ProfileType = ProfileType(strings.ToLower(t))
	}
	if l, ok := p.get(apiKeys.location); ok {
		s.Location = l
	}

	s.Specialties = p.list(apiKeys.specialties)
	s.Services = p.list(apiKeys.services)
	s.Amenities = p.list(apiKeys.amenities)
	if op, ok := p.get(apiKeys.specialtyOp, urlKeys.specialtyOp); ok {
		s.SpecialtyOperator = Operator(op)
	}
	if op, ok := p.get(apiKeys.servicesOp, urlKeys.servicesOp); ok {
		s.ServicesOperator = Operator(op)
	}
	if op, ok := p.get(apiKeys.amenitiesOp, urlKeys.amenitiesOp); ok {
		s.AmenitiesOperator = Operator(op)
	}

	s.MinRating = p.float(s.MinRating, apiKeys.minRating, urlKeys.minRating)
	s.MaxDistance = p.float(s.MaxDistance, apiKeys.maxDistance, urlKeys.maxDistance)
	s.PriceRange = p.rangeOf(s.PriceRange, urlKeys.price, apiKeys.minPrice, apiKeys.maxPrice)
	s.ExperienceRange = p.rangeOf(s.ExperienceRange, urlKeys.experience, apiKeys.minExperience, apiKeys.maxExperience)

	if a, ok := p.get(apiKeys.availability); ok {
		s.Availability = Availability(strings.ToLower(a))
	}
	for _, token := range p.list(apiKeys.days, urlKeys.days) {
		day, ok := parseWeekday(token)
		if !ok {
			p.warn(apiKeys.days, token)
			continue
		}
		s.AvailabilityDays = append(s.AvailabilityDays, day)
	}
	if t, ok := p.get(apiKeys.timeOfDay, urlKeys.timeOfDay); ok {
		s.AvailabilityTime = TimeOfDay(strings.ToLower(t))
	}

	s.VerifiedOnly = p.bool(apiKeys.verified, urlKeys.verified)
	s.HasPortfolio = p.bool(apiKeys.portfolio, urlKeys.portfolio)
	s.AcceptsNewClients = p.bool(apiKeys.accepting, urlKeys.accepting)
	s.IncludeInactive = p.bool(apiKeys.inactive, urlKeys.inactive)

	if sb, ok := p.get(apiKeys.sortBy, urlKeys.sortBy); ok {
		s.SortBy = SortBy(strings.ToLower(sb))
	}
	if so, ok := p.get(apiKeys.sortOrder, urlKeys.sortOrder); ok {
		s.SortOrder = SortOrder(strings.ToLower(so))
	}

	if raw, ok := p.get(apiKeys.page); ok {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 || page > MaxPage {
			return State{}, nil, &ValidationError{Field: "page", Message: fmt.Sprintf("must be an integer between 1 and %d", MaxPage)}
		}
		s.Page = page
	}
	if raw, ok := p.get(apiKeys.limit, urlKeys.limit); ok {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > MaxPageSize {
			return State{}, nil, &ValidationError{Field: "limit", Message: fmt.Sprintf("must be an integer between 1 and %d", MaxPageSize)}
		}
		s.PageSize = limit
	}

	s, clamped := Normalize(s)
	return s, append(p.warnings, clamped...), nil
}

type paramReader struct {
	values   url.Values
	warnings []Warning
}

func (p *paramReader) warn(key, raw string) {
	p.warnings = append(p.warnings, Warning{Field: key, Value: raw})
}

// get returns the first non-empty value among the candidate keys
func (p *paramReader) get(keys ...string) (string, bool) {
	for _, key := range keys {
		if raw := strings.TrimSpace(p.values.Get(key)); raw != "" {
			return raw, true
		}
	}
	return "", false
}

func (p *paramReader) list(keys ...string) []string {
	raw, ok := p.get(keys...)
	if !ok {
		return nil
	}
	return strings.Split(raw, ",")
}

func (p *paramReader) float(def float64, keys ...string) float64 {
	raw, ok := p.get(keys...)
	if !ok {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		p.warn(keys[0], raw)
		return def
	}
	return v
}

func (p *paramReader) bool(keys ...string) bool {
	raw, ok := p.get(keys...)
	if !ok {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.warn(keys[0], raw)
		return false
	}
	return v
}

// rangeOf accepts a single "min-max" token or separate bound parameters
func (p *paramReader) rangeOf(def Range, single, minKey, maxKey string) Range {
	r := def
	if raw, ok := p.get(single); ok {
		lo, hi, found := strings.Cut(raw, "-")
		minV, errMin := strconv.ParseFloat(strings.TrimSpace(lo), 64)
		maxV, errMax := strconv.ParseFloat(strings.TrimSpace(hi), 64)
		if !found || errMin != nil || errMax != nil {
			p.warn(single, raw)
			return def
		}
		return Range{Min: minV, Max: maxV}
	}
	r.Min = p.float(def.Min, minKey)
	r.Max = p.float(def.Max, maxKey)
	return r
}
