package savedsearch

import (
	"encoding/json"
	"time"

	"github.com/bulatminnakhmetov/inkmatch-backend/internal/filter"
	service "github.com/bulatminnakhmetov/inkmatch-backend/internal/service/savedsearch"
)

// CreateSavedSearchRequest is the body of POST /api/saved-searches. Exactly
// one of filters (a filter state object) or params (search parameters in
// either naming style) is used; filters wins when both are present.
type CreateSavedSearchRequest struct {
	Name    string          `json:"name" validate:"required,min=1,max=100"`
	Filters json.RawMessage `json:"filters,omitempty" validate:"required_without=Params" swaggertype:"object"`
	Params  string          `json:"params,omitempty" validate:"required_without=Filters" example:"q=koi&specialties=japanese"`
}

// SavedSearchResponse describes one saved search
type SavedSearchResponse struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Filters     filter.State `json:"filters"`
	QueryString string       `json:"query_string"`
	CreatedAt   time.Time    `json:"created_at"`
}

type SavedSearchEnvelope struct {
	Data    SavedSearchResponse `json:"data"`
	Success bool                `json:"success"`
}

type SavedSearchListEnvelope struct {
	Data    []SavedSearchResponse `json:"data"`
	Success bool                  `json:"success"`
}

func toResponse(s service.SavedSearch) SavedSearchResponse {
	return SavedSearchResponse{
		ID:          s.ID.String(),
		Name:        s.Name,
		Filters:     s.Filters,
		QueryString: service.QueryString(s),
		CreatedAt:   s.CreatedAt,
	}
}
