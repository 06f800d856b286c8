package filter

import (
	"fmt"
	"math/rand"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullState() State {
	s := DefaultState()
	s.Query = "geometric & dotwork"
	s.ProfileType = ProfileTypeStudio
	s.Location = "Berlin"
	s.Specialties = []string{"blackwork", "geometric"}
	s.SpecialtyOperator = OperatorAnd
	s.Services = []string{"cover-ups", "piercing"}
	s.Amenities = []string{"parking"}
	s.AmenitiesOperator = OperatorAnd
	s.MinRating = 4.5
	s.MaxDistance = 25
	s.PriceRange = Range{Min: 80, Max: 250.5}
	s.ExperienceRange = Range{Min: 3, Max: MaxYearsOfWork}
	s.Availability = AvailabilityCustom
	s.AvailabilityDays = []time.Weekday{time.Monday, time.Saturday}
	s.AvailabilityTime = TimeEvening
	s.VerifiedOnly = true
	s.HasPortfolio = true
	s.AcceptsNewClients = true
	s.IncludeInactive = true
	s.SortBy = SortPrice
	s.SortOrder = SortAsc
	s.Page = 3
	s.PageSize = 24
	return s
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	onlyQuery := DefaultState()
	onlyQuery.Query = "fine line"

	availableNow := DefaultState()
	availableNow.Availability = AvailabilityAvailable
	availableNow.PriceRange = Range{Min: 0, Max: 100}

	customAnyTime := DefaultState()
	customAnyTime.Availability = AvailabilityCustom

	states := map[string]State{
		"defaults":             DefaultState(),
		"only query":           onlyQuery,
		"available with price": availableNow,
		"custom without days":  customAnyTime,
		"every field":          fullState(),
	}

	for name, s := range states {
		for _, style := range []Style{StyleAPI, StyleURL} {
			t.Run(name, func(t *testing.T) {
				encoded := EncodeString(s, style)
				values, err := url.ParseQuery(encoded)
				require.NoError(t, err)

				decoded, warnings, err := Decode(values)
				require.NoError(t, err)
				assert.Empty(t, warnings)
				assert.Equal(t, s, decoded)
			})
		}
	}
}

// randomState draws a canonical State from small pools of every facet.
// Set operators other than OR are only drawn for non-empty sets since Encode
// leaves the operator out when nothing is selected.
func randomState(rng *rand.Rand) State {
	pick := func(n int) int { return rng.Intn(n) }
	subset := func(pool []string) []string {
		var out []string
		for _, v := range pool {
			if rng.Intn(3) == 0 {
				out = append(out, v)
			}
		}
		return out
	}
	operator := func(values []string) Operator {
		if len(values) > 0 && rng.Intn(2) == 0 {
			return OperatorAnd
		}
		return OperatorOr
	}
	span := func(steps []float64) Range {
		a, b := steps[pick(len(steps))], steps[pick(len(steps))]
		if a > b {
			a, b = b, a
		}
		return Range{Min: a, Max: b}
	}

	s := DefaultState()
	s.Query = []string{"", "koi", "fine line", "black & grey"}[pick(4)]
	s.ProfileType = []ProfileType{ProfileTypeAll, ProfileTypeArtist, ProfileTypeStudio}[pick(3)]
	s.Location = []string{"", "Berlin", "Potsdam Mitte"}[pick(3)]

	s.Specialties = subset([]string{"blackwork", "dotwork", "japanese", "realism"})
	s.SpecialtyOperator = operator(s.Specialties)
	s.Services = subset([]string{"cover-ups", "custom design", "piercing"})
	s.ServicesOperator = operator(s.Services)
	s.Amenities = subset([]string{"parking", "wheelchair access", "wifi"})
	s.AmenitiesOperator = operator(s.Amenities)

	s.MinRating = []float64{0, 3, 4.5, MaxRating}[pick(4)]
	s.MaxDistance = []float64{0, 0.5, 25, MaxDistanceKm}[pick(4)]
	s.PriceRange = span([]float64{0, 49.5, 120, 250.25, MaxHourlyRate})
	s.ExperienceRange = span([]float64{0, 2.5, 10, MaxYearsOfWork})

	s.Availability = []Availability{AvailabilityAll, AvailabilityAvailable, AvailabilityBusy, AvailabilityCustom}[pick(4)]
	if s.Availability == AvailabilityCustom {
		for d := time.Sunday; d <= time.Saturday; d++ {
			if rng.Intn(3) == 0 {
				s.AvailabilityDays = append(s.AvailabilityDays, d)
			}
		}
		s.AvailabilityTime = []TimeOfDay{TimeAny, TimeMorning, TimeAfternoon, TimeEvening}[pick(4)]
	}

	s.VerifiedOnly = rng.Intn(2) == 0
	s.HasPortfolio = rng.Intn(2) == 0
	s.AcceptsNewClients = rng.Intn(2) == 0
	s.IncludeInactive = rng.Intn(2) == 0

	s.SortBy = []SortBy{SortRelevance, SortRating, SortDistance, SortPrice, SortExperience, SortNewest}[pick(6)]
	s.SortOrder = []SortOrder{SortAsc, SortDesc}[pick(2)]
	s.Page = []int{1, 2, 17, MaxPage}[pick(4)]
	s.PageSize = []int{1, DefaultPageSize, 24, MaxPageSize}[pick(4)]
	return s
}

func TestEncodeDecodeRoundTripSweep(t *testing.T) {
	rng := rand.New(rand.NewSource(20240301))

	for i := 0; i < 500; i++ {
		generated := randomState(rng)
		s, warnings := Normalize(generated)
		require.Empty(t, warnings, "generated state %d is not canonical", i)
		require.Equal(t, generated, s, "generated state %d is not canonical", i)

		for _, style := range []Style{StyleAPI, StyleURL} {
			encoded := EncodeString(s, style)
			t.Run(fmt.Sprintf("state %d style %d", i, style), func(t *testing.T) {
				values, err := url.ParseQuery(encoded)
				require.NoError(t, err)

				decoded, warnings, err := Decode(values)
				require.NoError(t, err, encoded)
				assert.Empty(t, warnings, encoded)
				assert.Equal(t, s, decoded, encoded)
			})
		}
	}
}

func TestEncodeOmitsDefaults(t *testing.T) {
	assert.Empty(t, Encode(DefaultState(), StyleAPI))
	assert.Empty(t, Encode(DefaultState(), StyleURL))

	s := DefaultState()
	s.PriceRange.Min = 50
	v := Encode(s, StyleAPI)
	assert.Equal(t, url.Values{"minPrice": {"50"}}, v)
}

func TestEncodeStyles(t *testing.T) {
	s := fullState()

	api := Encode(s, StyleAPI)
	assert.Equal(t, "price", api.Get("sortBy"))
	assert.Equal(t, "80", api.Get("minPrice"))
	assert.Equal(t, "250.5", api.Get("maxPrice"))
	assert.Equal(t, "blackwork,geometric", api.Get("specialties"))
	assert.Equal(t, "AND", api.Get("specialty_op"))
	assert.Equal(t, "mon,sat", api.Get("availability_days"))
	assert.Equal(t, "24", api.Get("limit"))
	assert.Equal(t, "true", api.Get("verified_only"))

	browser := Encode(s, StyleURL)
	assert.Equal(t, "price", browser.Get("sort"))
	assert.Equal(t, "asc", browser.Get("order"))
	assert.Equal(t, "80-250.5", browser.Get("price"))
	assert.Equal(t, "3-50", browser.Get("experience"))
	assert.Equal(t, "24", browser.Get("per_page"))
	assert.Empty(t, browser.Get("sortBy"))
}

func TestDecodeAcceptsBothRangeForms(t *testing.T) {
	single, _, err := Decode(url.Values{"price": {"100-200"}})
	require.NoError(t, err)
	split, _, err := Decode(url.Values{"minPrice": {"100"}, "maxPrice": {"200"}})
	require.NoError(t, err)

	assert.Equal(t, Range{Min: 100, Max: 200}, single.PriceRange)
	assert.Equal(t, single, split)
}

func TestDecodeIsTolerant(t *testing.T) {
	values := url.Values{
		"unknown":      {"x"},
		"minRating":    {"lots"},
		"type":         {"wizard"},
		"sortBy":       {"popularity"},
		"specialty_op": {"xor"},
		"price":        {"cheap"},
		"verified":     {"maybe"},
		"maxDistance":  {"9000"},
		"q":            {"  koi  "},
	}

	s, warnings, err := Decode(values)
	require.NoError(t, err)

	assert.Equal(t, "koi", s.Query)
	assert.Equal(t, 0.0, s.MinRating)
	assert.Equal(t, ProfileTypeAll, s.ProfileType)
	assert.Equal(t, SortRelevance, s.SortBy)
	assert.Equal(t, OperatorOr, s.SpecialtyOperator)
	assert.Equal(t, DefaultPriceRange, s.PriceRange)
	assert.False(t, s.VerifiedOnly)
	assert.Equal(t, MaxDistanceKm, s.MaxDistance)
	assert.Len(t, warnings, 7)
}

func TestDecodeRejectsBadPagination(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
		field  string
	}{
		{"zero page", url.Values{"page": {"0"}}, "page"},
		{"negative page", url.Values{"page": {"-2"}}, "page"},
		{"text page", url.Values{"page": {"two"}}, "page"},
		{"page past the last reachable offset", url.Values{"page": {strconv.Itoa(MaxPage + 1)}}, "page"},
		{"page overflowing int64", url.Values{"page": {"922337203685477580"}}, "page"},
		{"zero limit", url.Values{"limit": {"0"}}, "limit"},
		{"limit too big", url.Values{"limit": {"51"}}, "limit"},
		{"alias limit too big", url.Values{"per_page": {"500"}}, "limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode(tt.values)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestDecodeAcceptsLastPage(t *testing.T) {
	s, _, err := Decode(url.Values{"page": {strconv.Itoa(MaxPage)}, "limit": {strconv.Itoa(MaxPageSize)}})
	require.NoError(t, err)
	assert.Equal(t, MaxPage, s.Page)
}

func TestDecodeWeekdays(t *testing.T) {
	s, warnings, err := Decode(url.Values{
		"availability": {"custom"},
		"days":         {"Saturday,mon,someday,mon"},
		"time":         {"MORNING"},
	})
	require.NoError(t, err)

	assert.Equal(t, []time.Weekday{time.Monday, time.Saturday}, s.AvailabilityDays)
	assert.Equal(t, TimeMorning, s.AvailabilityTime)
	assert.Len(t, warnings, 1)
}
