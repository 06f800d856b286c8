package search

import (
	"time"

	"github.com/bulatminnakhmetov/inkmatch-backend/internal/filter"
)

// WorkingHours is one weekly slot, minutes since midnight, closing exclusive
type WorkingHours struct {
	Weekday  time.Weekday `json:"weekday"`
	OpensAt  int          `json:"opensAt"`
	ClosesAt int          `json:"closesAt"`
}

// Intersects reports whether the slot overlaps [from, to)
func (h WorkingHours) Intersects(from, to int) bool {
	return h.OpensAt < to && h.ClosesAt > from
}

// Profile is an artist or studio as returned by search
type Profile struct {
	ID                int64              `json:"id"`
	Type              filter.ProfileType `json:"type"`
	Name              string             `json:"name"`
	Bio               string             `json:"bio"`
	Location          string             `json:"location"`
	Coordinate        *filter.Coordinate `json:"coordinate,omitempty"`
	Rating            float64            `json:"rating"`
	HourlyRate        *float64           `json:"hourlyRate"`
	YearsExperience   *int               `json:"yearsExperience"`
	SpecialtyIDs      []string           `json:"specialtyIds"`
	ServiceNames      []string           `json:"serviceNames"`
	AmenityNames      []string           `json:"amenityNames"`
	IsActive          bool               `json:"isActive"`
	IsVerified        bool               `json:"isVerified"`
	HasPortfolio      bool               `json:"hasPortfolio"`
	AcceptsNewClients bool               `json:"acceptsNewClients"`
	IsAvailable       bool               `json:"isAvailable"`
	WorkingHours      []WorkingHours     `json:"workingHours"`
	CreatedAt         time.Time          `json:"createdAt"`

	// Distance in km from the reference coordinate, set only when one was given
	Distance *float64 `json:"distance,omitempty"`
}

// Specialty is a catalog entry referenced by Profile.SpecialtyIDs
type Specialty struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
