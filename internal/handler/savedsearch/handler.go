package savedsearch

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/bulatminnakhmetov/inkmatch-backend/internal/auth"
	"github.com/bulatminnakhmetov/inkmatch-backend/internal/filter"
	"github.com/bulatminnakhmetov/inkmatch-backend/internal/handler/response"
	service "github.com/bulatminnakhmetov/inkmatch-backend/internal/service/savedsearch"
)

type SavedSearchHandler struct {
	service  service.SavedSearchService
	validate *validator.Validate
	logger   *slog.Logger
}

func NewSavedSearchHandler(svc service.SavedSearchService, logger *slog.Logger) *SavedSearchHandler {
	if logger == nil {
		logger = slog.Default()
	}

	v := validator.New()
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &SavedSearchHandler{service: svc, validate: v, logger: logger}
}

// CreateSavedSearch godoc
// @Summary      Save a search
// @Description  Stores an immutable snapshot of a filter state. Filters are given either as a filter state object or as search parameters; omitted fields take their defaults.
// @Tags         saved-searches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      CreateSavedSearchRequest  true  "Saved search"
// @Success      201      {object}  SavedSearchEnvelope
// @Failure      400      {object}  response.ErrorResponse
// @Failure      401      {object}  response.ErrorResponse
// @Failure      500      {object}  response.ErrorResponse
// @Router       /api/saved-searches [post]
func (h *SavedSearchHandler) CreateSavedSearch(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, response.CodeUnauthorized, "Unauthorized")
		return
	}

	var req CreateSavedSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, response.CodeValidation, validationMessage(err))
		return
	}

	filters, err := req.state()
	if err != nil {
		response.Error(w, http.StatusBadRequest, response.CodeValidation, err.Error())
		return
	}

	saved, err := h.service.Create(r.Context(), userID, req.Name, filters)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, SavedSearchEnvelope{Data: toResponse(*saved), Success: true})
}

// ListSavedSearches godoc
// @Summary      List saved searches
// @Description  Returns the current user's saved searches, newest first
// @Tags         saved-searches
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  SavedSearchListEnvelope
// @Failure      401  {object}  response.ErrorResponse
// @Failure      500  {object}  response.ErrorResponse
// @Router       /api/saved-searches [get]
func (h *SavedSearchHandler) ListSavedSearches(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, response.CodeUnauthorized, "Unauthorized")
		return
	}

	items, err := h.service.List(r.Context(), userID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	data := make([]SavedSearchResponse, 0, len(items))
	for _, item := range items {
		data = append(data, toResponse(item))
	}
	response.JSON(w, http.StatusOK, SavedSearchListEnvelope{Data: data, Success: true})
}

// GetSavedSearch godoc
// @Summary      Get a saved search
// @Tags         saved-searches
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Saved search ID"
// @Success      200  {object}  SavedSearchEnvelope
// @Failure      401  {object}  response.ErrorResponse
// @Failure      404  {object}  response.ErrorResponse
// @Router       /api/saved-searches/{id} [get]
func (h *SavedSearchHandler) GetSavedSearch(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, response.CodeUnauthorized, "Unauthorized")
		return
	}

	// malformed ids cannot exist
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, http.StatusNotFound, response.CodeNotFound, "Saved search not found")
		return
	}

	saved, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, SavedSearchEnvelope{Data: toResponse(*saved), Success: true})
}

// DeleteSavedSearch godoc
// @Summary      Delete a saved search
// @Tags         saved-searches
// @Security     BearerAuth
// @Param        id   path  string  true  "Saved search ID"
// @Success      204
// @Failure      401  {object}  response.ErrorResponse
// @Failure      404  {object}  response.ErrorResponse
// @Router       /api/saved-searches/{id} [delete]
func (h *SavedSearchHandler) DeleteSavedSearch(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, response.CodeUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, http.StatusNotFound, response.CodeNotFound, "Saved search not found")
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		h.handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *SavedSearchHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.Error(w, http.StatusNotFound, response.CodeNotFound, "Saved search not found")
	case errors.Is(err, service.ErrInvalidName):
		response.Error(w, http.StatusBadRequest, response.CodeValidation, err.Error())
	default:
		h.logger.Error("saved search request failed", "error", err)
		response.Error(w, http.StatusInternalServerError, response.CodeInternal, "Internal server error")
	}
}

// state builds the filter state of a create request
func (req CreateSavedSearchRequest) state() (filter.State, error) {
	if len(req.Filters) > 0 && string(req.Filters) != "null" {
		s := filter.DefaultState()
		if err := json.Unmarshal(req.Filters, &s); err != nil {
			return filter.State{}, fmt.Errorf("invalid filters: %v", err)
		}
		return s, nil
	}

	values, err := url.ParseQuery(strings.TrimPrefix(req.Params, "?"))
	if err != nil {
		return filter.State{}, fmt.Errorf("invalid params: %v", err)
	}
	s, _, err := filter.Decode(values)
	return s, err
}

func validationMessage(err error) string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return "Invalid request"
	}

	msgs := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		switch fe.Tag() {
		case "required", "required_without":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters long", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return strings.Join(msgs, "; ")
}
