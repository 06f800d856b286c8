package filter

import "time"

// Mode identifies which projection of the filter model a value belongs to
type Mode string

const (
	ModeBasic    Mode = "basic"
	ModeAdvanced Mode = "advanced"
)

// ProfileType restricts results to artists, studios or both
type ProfileType string

const (
	ProfileTypeAll    ProfileType = "all"
	ProfileTypeArtist ProfileType = "artist"
	ProfileTypeStudio ProfileType = "studio"
)

// Operator combines the values selected inside one multi-valued facet
type Operator string

const (
	OperatorAnd Operator = "AND"
	OperatorOr  Operator = "OR"
)

// Availability is the availability facet
type Availability string

const (
	AvailabilityAll       Availability = "all"
	AvailabilityAvailable Availability = "available"
	AvailabilityBusy      Availability = "busy"
	AvailabilityCustom    Availability = "custom"
)

// TimeOfDay is the time band used by custom availability
type TimeOfDay string

const (
	TimeAny       TimeOfDay = "any"
	TimeMorning   TimeOfDay = "morning"
	TimeAfternoon TimeOfDay = "afternoon"
	TimeEvening   TimeOfDay = "evening"
)

// SortBy selects the ordering key
type SortBy string

const (
	SortRelevance  SortBy = "relevance"
	SortRating     SortBy = "rating"
	SortDistance   SortBy = "distance"
	SortPrice      SortBy = "price"
	SortExperience SortBy = "experience"
	SortNewest     SortBy = "newest"
)

// SortOrder is the ordering direction
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Range is an inclusive numeric interval
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Filters is either a Basic or an advanced State. The unexported method
// keeps the set of implementations closed to this package.
type Filters interface {
	Mode() Mode
	isFilters()
}

// State is the complete (advanced) description of a profile search
type State struct {
	Query       string      `json:"query,omitempty"`
	ProfileType ProfileType `json:"profileType"`
	Location    string      `json:"location,omitempty"`

	Specialties       []string `json:"specialties,omitempty"`
	SpecialtyOperator Operator `json:"specialtyOperator"`
	Services          []string `json:"services,omitempty"`
	ServicesOperator  Operator `json:"servicesOperator"`
	Amenities         []string `json:"amenities,omitempty"`
	AmenitiesOperator Operator `json:"amenitiesOperator"`

	MinRating       float64 `json:"minRating"`
	MaxDistance     float64 `json:"maxDistance"`
	PriceRange      Range   `json:"priceRange"`
	ExperienceRange Range   `json:"experienceRange"`

	Availability     Availability   `json:"availability"`
	AvailabilityDays []time.Weekday `json:"availabilityDays,omitempty"`
	AvailabilityTime TimeOfDay      `json:"availabilityTime"`

	IncludeInactive   bool `json:"includeInactive"`
	VerifiedOnly      bool `json:"verifiedOnly"`
	HasPortfolio      bool `json:"hasPortfolio"`
	AcceptsNewClients bool `json:"acceptsNewClients"`

	SortBy    SortBy    `json:"sortBy"`
	SortOrder SortOrder `json:"sortOrder"`
	Page      int       `json:"page"`
	PageSize  int       `json:"pageSize"`
}

func (State) Mode() Mode { return ModeAdvanced }
func (State) isFilters()  {}

// Basic is the reduced projection shown by the simple search form.
// Specialties always combine with OR.
type Basic struct {
	Query           string       `json:"query,omitempty"`
	ProfileType     ProfileType  `json:"profileType"`
	Location        string       `json:"location,omitempty"`
	Specialties     []string     `json:"specialties,omitempty"`
	MinRating       float64      `json:"minRating"`
	MaxDistance     float64      `json:"maxDistance"`
	PriceRange      Range        `json:"priceRange"`
	ExperienceRange Range        `json:"experienceRange"`
	Availability    Availability `json:"availability"`
	VerifiedOnly    bool         `json:"verifiedOnly"`
	HasPortfolio    bool         `json:"hasPortfolio"`
	SortBy          SortBy       `json:"sortBy"`
	SortOrder       SortOrder    `json:"sortOrder"`
	Page            int          `json:"page"`
	PageSize        int          `json:"pageSize"`
}

func (Basic) Mode() Mode { return ModeBasic }
func (Basic) isFilters()  {}

// Coordinate is a WGS84 point in degrees
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the coordinate lies inside the lat/lng domain
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}
