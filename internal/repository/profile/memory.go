package profile

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bulatminnakhmetov/inkmatch-backend/internal/filter"
	"github.com/bulatminnakhmetov/inkmatch-backend/internal/search"
)

// MemoryRepository evaluates plans over profiles held in memory. It follows
// the same semantics as PostgresRepository and backs tests and local demos.
type MemoryRepository struct {
	mu          sync.RWMutex
	profiles    []search.Profile
	specialties map[string]string
	nextID      int64
}

// NewMemoryRepository creates an empty in-memory store
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		specialties: make(map[string]string),
		nextID:      1,
	}
}

// CreateSpecialty inserts or renames a catalog entry
func (r *MemoryRepository) CreateSpecialty(_ context.Context, s search.Specialty) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.specialties[s.ID] = s.Name
	return nil
}

// CreateProfile stores a copy of p. A zero ID is assigned from a sequence,
// a zero CreatedAt takes the current time.
func (r *MemoryRepository) CreateProfile(_ context.Context, p *search.Profile) error {
	if p.Type != filter.ProfileTypeArtist && p.Type != filter.ProfileTypeStudio {
		return ErrInvalidProfileType
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == 0 {
		p.ID = r.nextID
	}
	if p.ID >= r.nextID {
		r.nextID = p.ID + 1
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	r.profiles = append(r.profiles, cloneProfile(*p))
	return nil
}

// CountProfiles counts every profile matching the plan's predicates
func (r *MemoryRepository) CountProfiles(_ context.Context, plan *search.Plan) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0
	for i := range r.profiles {
		if r.matches(&r.profiles[i], plan.Predicates) {
			total++
		}
	}
	return total, nil
}

// FindProfiles returns the plan's page window in plan order
func (r *MemoryRepository) FindProfiles(_ context.Context, plan *search.Plan) ([]search.Profile, error) {
	r.mu.RLock()
	matched := make([]search.Profile, 0)
	for i := range r.profiles {
		if r.matches(&r.profiles[i], plan.Predicates) {
			p := cloneProfile(r.profiles[i])
			if plan.Origin != nil && p.Coordinate != nil {
				d := search.DistanceKm(*plan.Origin, *p.Coordinate)
				p.Distance = &d
			}
			matched = append(matched, p)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return less(&matched[i], &matched[j], plan.Sort)
	})

	if plan.Offset < 0 || plan.Offset >= len(matched) {
		return make([]search.Profile, 0), nil
	}
	end := len(matched)
	if plan.Limit > 0 && plan.Offset+plan.Limit < end {
		end = plan.Offset + plan.Limit
	}
	return matched[plan.Offset:end], nil
}

// ListSpecialties returns the specialty catalog ordered by name
func (r *MemoryRepository) ListSpecialties(_ context.Context) ([]search.Specialty, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]search.Specialty, 0, len(r.specialties))
	for id, name := range r.specialties {
		items = append(items, search.Specialty{ID: id, Name: name})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (r *MemoryRepository) matches(p *search.Profile, predicates []search.Predicate) bool {
	for _, pred := range predicates {
		if !r.match(p, pred) {
			return false
		}
	}
	return true
}

func (r *MemoryRepository) match(p *search.Profile, pred search.Predicate) bool {
	switch m := pred.(type) {
	case search.TextMatch:
		return r.textMatches(p, m.Term)

	case search.ProfileTypeIs:
		return p.Type == m.Type

	case search.LocationContains:
		return containsFold(p.Location, m.Term)

	case search.SetMatch:
		return setMatches(profileSet(p, m.Field), m.Values, m.Operator)

	case search.MinRating:
		return p.Rating >= m.Value

	case search.RangeMatch:
		v, ok := numericField(p, m.Field)
		if !ok {
			return m.IncludeNull
		}
		return v >= m.Min && (m.Max == nil || v <= *m.Max)

	case search.WithinDistance:
		return p.Coordinate != nil && search.DistanceKm(m.Origin, *p.Coordinate) <= m.Km

	case search.HasCoordinate:
		return p.Coordinate != nil

	case search.AvailabilityIs:
		return p.IsAvailable == m.Available

	case search.WorkingHoursMatch:
		for _, wh := range p.WorkingHours {
			if len(m.Days) > 0 && !containsDay(m.Days, wh.Weekday) {
				continue
			}
			if wh.Intersects(m.FromMinute, m.ToMinute) {
				return true
			}
		}
		return false

	case search.FlagIs:
		switch m.Field {
		case search.FlagActive:
			return p.IsActive
		case search.FlagVerified:
			return p.IsVerified
		case search.FlagHasPortfolio:
			return p.HasPortfolio
		case search.FlagAcceptsNewClients:
			return p.AcceptsNewClients
		}
	}
	return false
}

func (r *MemoryRepository) textMatches(p *search.Profile, term string) bool {
	if containsFold(p.Name, term) || containsFold(p.Bio, term) || containsFold(p.Location, term) {
		return true
	}
	for _, id := range p.SpecialtyIDs {
		if name, ok := r.specialties[id]; ok && containsFold(name, term) {
			return true
		}
	}
	for _, name := range p.ServiceNames {
		if containsFold(name, term) {
			return true
		}
	}
	return false
}

func setMatches(have, want []string, op filter.Operator) bool {
	present := make(map[string]struct{}, len(have))
	for _, v := range have {
		present[v] = struct{}{}
	}
	for _, v := range want {
		_, ok := present[v]
		if op == filter.OperatorAnd && !ok {
			return false
		}
		if op != filter.OperatorAnd && ok {
			return true
		}
	}
	return op == filter.OperatorAnd
}

func profileSet(p *search.Profile, field search.SetField) []string {
	switch field {
	case search.SetServices:
		return p.ServiceNames
	case search.SetAmenities:
		return p.AmenityNames
	default:
		return p.SpecialtyIDs
	}
}

func numericField(p *search.Profile, field search.NumericField) (float64, bool) {
	switch field {
	case search.FieldHourlyRate:
		if p.HourlyRate != nil {
			return *p.HourlyRate, true
		}
	case search.FieldYearsExperience:
		if p.YearsExperience != nil {
			return float64(*p.YearsExperience), true
		}
	}
	return 0, false
}

// less orders by the sort keys with nulls last in either direction
func less(a, b *search.Profile, keys []search.SortKey) bool {
	for _, key := range keys {
		c := compareKey(a, b, key)
		if c == 0 {
			continue
		}
		return c < 0
	}
	return false
}

func compareKey(a, b *search.Profile, key search.SortKey) int {
	var av, bv *float64

	switch key.Field {
	case search.SortNameMatch:
		av, bv = boolValue(containsFold(a.Name, key.Term)), boolValue(containsFold(b.Name, key.Term))
	case search.SortRating:
		av, bv = &a.Rating, &b.Rating
	case search.SortDistance:
		av, bv = a.Distance, b.Distance
	case search.SortHourlyRate:
		av, bv = a.HourlyRate, b.HourlyRate
	case search.SortExperience:
		av, bv = intValue(a.YearsExperience), intValue(b.YearsExperience)
	case search.SortCreatedAt:
		switch {
		case a.CreatedAt.Equal(b.CreatedAt):
			return 0
		case a.CreatedAt.Before(b.CreatedAt) != key.Desc:
			return -1
		default:
			return 1
		}
	case search.SortID:
		ai, bi := float64(a.ID), float64(b.ID)
		av, bv = &ai, &bi
	}

	switch {
	case av == nil && bv == nil:
		return 0
	case av == nil:
		return 1
	case bv == nil:
		return -1
	case *av == *bv:
		return 0
	case (*av < *bv) != key.Desc:
		return -1
	default:
		return 1
	}
}

func boolValue(b bool) *float64 {
	v := 0.0
	if b {
		v = 1
	}
	return &v
}

func intValue(i *int) *float64 {
	if i == nil {
		return nil
	}
	v := float64(*i)
	return &v
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func containsDay(days []time.Weekday, d time.Weekday) bool {
	for _, day := range days {
		if day == d {
			return true
		}
	}
	return false
}

func cloneProfile(p search.Profile) search.Profile {
	out := p
	out.SpecialtyIDs = append(make([]string, 0, len(p.SpecialtyIDs)), p.SpecialtyIDs...)
	out.ServiceNames = append(make([]string, 0, len(p.ServiceNames)), p.ServiceNames...)
	out.AmenityNames = append(make([]string, 0, len(p.AmenityNames)), p.AmenityNames...)
	out.WorkingHours = append(make([]search.WorkingHours, 0, len(p.WorkingHours)), p.WorkingHours...)
	if p.Coordinate != nil {
		c := *p.Coordinate
		out.Coordinate = &c
	}
	if p.HourlyRate != nil {
		v := *p.HourlyRate
		out.HourlyRate = &v
	}
	if p.YearsExperience != nil {
		v := *p.YearsExperience
		out.YearsExperience = &v
	}
	out.Distance = nil
	return out
}
