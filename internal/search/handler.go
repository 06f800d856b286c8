package search

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/bulatminnakhmetov/inkmatch-backend/internal/filter"
	"github.com/bulatminnakhmetov/inkmatch-backend/internal/handler/response"
)

// Pagination mirrors Envelope without the items
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// ProfileSearchResponse is the body of a successful search
type ProfileSearchResponse struct {
	Data       []Profile  `json:"data"`
	Pagination Pagination `json:"pagination"`
	Success    bool       `json:"success"`
}

// SpecialtiesResponse is the body of the specialty catalog
type SpecialtiesResponse struct {
	Data    []Specialty `json:"data"`
	Success bool        `json:"success"`
}

// NewProfileSearchResponse shapes an envelope for the wire
func NewProfileSearchResponse(env *Envelope) ProfileSearchResponse {
	return ProfileSearchResponse{
		Data: env.Items,
		Pagination: Pagination{
			Page:       env.Page,
			Limit:      env.PageSize,
			Total:      env.Total,
			TotalPages: env.TotalPages,
			HasNext:    env.HasNext,
			HasPrev:    env.HasPrev,
		},
		Success: true,
	}
}

// SearchHandler handles search functionality
type SearchHandler struct {
	searchService SearchService
	logger        *slog.Logger
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(searchService SearchService, logger *slog.Logger) *SearchHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchHandler{
		searchService: searchService,
		logger:        logger,
	}
}

// @Summary      Search profiles
// @Description  Faceted profile search. Every parameter is optional; out-of-range values are clamped.
// @Tags         search
// @Produce      json
// @Param        q                    query  string  false  "Free text matched against name, bio, location, specialties and services"
// @Param        type                 query  string  false  "all, artist or studio"
// @Param        location             query  string  false  "Location substring"
// @Param        specialties          query  string  false  "Comma-separated specialty ids"
// @Param        specialty_op         query  string  false  "AND or OR (default OR)"
// @Param        services             query  string  false  "Comma-separated service names"
// @Param        services_op          query  string  false  "AND or OR (default OR)"
// @Param        amenities            query  string  false  "Comma-separated amenity names"
// @Param        amenities_op         query  string  false  "AND or OR (default OR)"
// @Param        minRating            query  number  false  "Minimum rating 0-5"
// @Param        maxDistance          query  number  false  "Radius in km, needs lat and lng"
// @Param        lat                  query  number  false  "Reference latitude"
// @Param        lng                  query  number  false  "Reference longitude"
// @Param        minPrice             query  number  false  "Minimum hourly rate"
// @Param        maxPrice             query  number  false  "Maximum hourly rate"
// @Param        minExperience        query  number  false  "Minimum years of experience"
// @Param        maxExperience        query  number  false  "Maximum years of experience"
// @Param        availability         query  string  false  "all, available, busy or custom"
// @Param        availability_days    query  string  false  "Comma-separated weekdays (mon,tue,...) for custom availability"
// @Param        availability_time    query  string  false  "any, morning, afternoon or evening"
// @Param        verified_only        query  bool    false  "Only verified profiles"
// @Param        has_portfolio        query  bool    false  "Only profiles with a portfolio"
// @Param        accepts_new_clients  query  bool    false  "Only profiles accepting new clients"
// @Param        include_inactive     query  bool    false  "Include inactive profiles"
// @Param        sortBy               query  string  false  "relevance, rating, distance, price, experience or newest"
// @Param        sortOrder            query  string  false  "asc or desc"
// @Param        page                 query  int     false  "Page number, from 1"
// @Param        limit                query  int     false  "Page size, 1-50 (default 12)"
// @Success      200  {object}  ProfileSearchResponse
// @Failure      400  {object}  response.ErrorResponse
// @Failure      500  {object}  response.ErrorResponse
// @Router       /api/profiles [get]
func (h *SearchHandler) SearchProfiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.MethodNotAllowed(w)
		return
	}

	query := r.URL.Query()

	state, warnings, err := filter.Decode(query)
	if err != nil {
		h.handleError(w, err)
		return
	}
	for _, warning := range warnings {
		h.logger.Warn("search parameter normalized", "field", warning.Field, "value", warning.Value)
	}

	origin := h.parseOrigin(query)

	env, err := h.searchService.Search(r.Context(), state, origin)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, NewProfileSearchResponse(env))
}

// @Summary      Specialty catalog
// @Description  Lists the specialties usable in the specialties filter
// @Tags         search
// @Produce      json
// @Success      200  {object}  SpecialtiesResponse
// @Failure      500  {object}  response.ErrorResponse
// @Router       /api/profiles/catalog/specialties [get]
func (h *SearchHandler) GetSpecialties(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.MethodNotAllowed(w)
		return
	}

	items, err := h.searchService.Specialties(r.Context())
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, SpecialtiesResponse{Data: items, Success: true})
}

func (h *SearchHandler) handleError(w http.ResponseWriter, err error) {
	var validationErr *filter.ValidationError
	var execErr *ExecutionError

	switch {
	case errors.As(err, &validationErr):
		response.Error(w, http.StatusBadRequest, response.CodeValidation, validationErr.Error())
	case errors.As(err, &execErr):
		response.Error(w, http.StatusInternalServerError, response.CodeSearchFailed, "Failed to load results")
	default:
		h.logger.Error("unexpected search error", "error", err)
		response.Error(w, http.StatusInternalServerError, response.CodeInternal, "Internal server error")
	}
}

// parseOrigin reads the optional reference coordinate. Both lat and lng must
// be present and valid; anything else means no coordinate.
func (h *SearchHandler) parseOrigin(query url.Values) *filter.Coordinate {
	rawLat, rawLng := query.Get("lat"), query.Get("lng")
	if rawLat == "" && rawLng == "" {
		return nil
	}
	origin, ok := ParseCoordinate(rawLat, rawLng)
	if !ok {
		h.logger.Warn("reference coordinate ignored", "lat", rawLat, "lng", rawLng)
		return nil
	}
	return origin
}

// ParseCoordinate parses a lat/lng pair, rejecting values outside the domain
func ParseCoordinate(rawLat, rawLng string) (*filter.Coordinate, bool) {
	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil {
		return nil, false
	}
	lng, err := strconv.ParseFloat(rawLng, 64)
	if err != nil {
		return nil, false
	}
	c := filter.Coordinate{Lat: lat, Lng: lng}
	if !c.Valid() {
		return nil, false
	}
	return &c, true
}
