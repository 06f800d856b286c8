package savedsearch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bulatminnakhmetov/inkmatch-backend/internal/auth"
	"github.com/bulatminnakhmetov/inkmatch-backend/internal/filter"
	"github.com/bulatminnakhmetov/inkmatch-backend/internal/handler/response"
	service "github.com/bulatminnakhmetov/inkmatch-backend/internal/service/savedsearch"
)

// MockSavedSearchService is a mock implementation of SavedSearchService for testing
type MockSavedSearchService struct {
	mock.Mock
}

func (m *MockSavedSearchService) Create(ctx context.Context, userID int, name string, filters filter.State) (*service.SavedSearch, error) {
	args := m.Called(ctx, userID, name, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SavedSearch), args.Error(1)
}

func (m *MockSavedSearchService) List(ctx context.Context, userID int) ([]service.SavedSearch, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.SavedSearch), args.Error(1)
}

func (m *MockSavedSearchService) Get(ctx context.Context, userID int, id uuid.UUID) (*service.SavedSearch, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SavedSearch), args.Error(1)
}

func (m *MockSavedSearchService) Delete(ctx context.Context, userID int, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

const currentUser = 9

// newRouter mounts the handler the way the service does, with the current
// user injected in place of token verification
func newRouter(svc service.SavedSearchService, userID int) http.Handler {
	h := NewSavedSearchHandler(svc, nil)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID > 0 {
				r = r.WithContext(auth.WithUserID(r.Context(), userID))
			}
			next.ServeHTTP(w, r)
		})
	})
	r.Post("/api/saved-searches", h.CreateSavedSearch)
	r.Get("/api/saved-searches", h.ListSavedSearches)
	r.Get("/api/saved-searches/{id}", h.GetSavedSearch)
	r.Delete("/api/saved-searches/{id}", h.DeleteSavedSearch)
	return r
}

func koiFilters() filter.State {
	s := filter.DefaultState()
	s.Query = "koi"
	s.Specialties = []string{"japanese"}
	return s
}

func TestCreateSavedSearch(t *testing.T) {
	id := uuid.New()
	createdAt := time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)
	saved := &service.SavedSearch{ID: id, UserID: currentUser, Name: "Koi", Filters: koiFilters(), CreatedAt: createdAt}

	tests := []struct {
		name               string
		body               string
		userID             int
		expectFilters      *filter.State
		mockError          error
		expectedStatusCode int
		expectedCode       string
	}{
		{
			name:               "Filter state object",
			body:               `{"name":"Koi","filters":{"query":"koi","specialties":["japanese"]}}`,
			userID:             currentUser,
			expectFilters:      statePtr(koiFilters()),
			expectedStatusCode: http.StatusCreated,
		},
		{
			name:               "Search parameters",
			body:               `{"name":"Koi","params":"?q=koi&specialties=japanese"}`,
			userID:             currentUser,
			expectFilters:      statePtr(koiFilters()),
			expectedStatusCode: http.StatusCreated,
		},
		{
			name:               "Missing name",
			body:               `{"filters":{}}`,
			userID:             currentUser,
			expectedStatusCode: http.StatusBadRequest,
			expectedCode:       response.CodeValidation,
		},
		{
			name:               "Name too long",
			body:               `{"name":"` + strings.Repeat("n", 101) + `","filters":{}}`,
			userID:             currentUser,
			expectedStatusCode: http.StatusBadRequest,
			expectedCode:       response.CodeValidation,
		},
		{
			name:               "Neither filters nor params",
			body:               `{"name":"Koi"}`,
			userID:             currentUser,
			expectedStatusCode: http.StatusBadRequest,
			expectedCode:       response.CodeValidation,
		},
		{
			name:               "Malformed pagination in params",
			body:               `{"name":"Koi","params":"page=0"}`,
			userID:             currentUser,
			expectedStatusCode: http.StatusBadRequest,
			expectedCode:       response.CodeValidation,
		},
		{
			name:               "Invalid JSON",
			body:               `{"name":`,
			userID:             currentUser,
			expectedStatusCode: http.StatusBadRequest,
			expectedCode:       response.CodeValidation,
		},
		{
			name:               "Blank name rejected by service",
			body:               `{"name":"   ","filters":{}}`,
			userID:             currentUser,
			expectFilters:      statePtr(filter.DefaultState()),
			mockError:          service.ErrInvalidName,
			expectedStatusCode: http.StatusBadRequest,
			expectedCode:       response.CodeValidation,
		},
		{
			name:               "Storage failure",
			body:               `{"name":"Koi","filters":{}}`,
			userID:             currentUser,
			expectFilters:      statePtr(filter.DefaultState()),
			mockError:          errors.New("pq: connection reset"),
			expectedStatusCode: http.StatusInternalServerError,
			expectedCode:       response.CodeInternal,
		},
		{
			name:               "No user",
			body:               `{"name":"Koi","filters":{}}`,
			expectedStatusCode: http.StatusUnauthorized,
			expectedCode:       response.CodeUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockSavedSearchService)
			if tt.expectFilters != nil {
				var req CreateSavedSearchRequest
				require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
				if tt.mockError != nil {
					mockService.On("Create", mock.Anything, currentUser, req.Name, *tt.expectFilters).Return(nil, tt.mockError)
				} else {
					mockService.On("Create", mock.Anything, currentUser, req.Name, *tt.expectFilters).Return(saved, nil)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/api/saved-searches", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			newRouter(mockService, tt.userID).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatusCode, rr.Code)
			mockService.AssertExpectations(t)

			if tt.expectedStatusCode == http.StatusCreated {
				var body SavedSearchEnvelope
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
				assert.True(t, body.Success)
				assert.Equal(t, id.String(), body.Data.ID)
				assert.Equal(t, "q=koi&specialties=japanese", body.Data.QueryString)
				assert.Equal(t, createdAt, body.Data.CreatedAt)
				return
			}

			var body response.ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedCode, body.Error.Code)
			assert.NotContains(t, body.Error.Message, "pq:")
		})
	}
}

func TestListSavedSearches(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockSavedSearchService)
		mockService.On("List", mock.Anything, currentUser).Return([]service.SavedSearch{
			{ID: uuid.New(), Name: "Koi", Filters: koiFilters()},
			{ID: uuid.New(), Name: "Everything", Filters: filter.DefaultState()},
		}, nil)

		rr := httptest.NewRecorder()
		newRouter(mockService, currentUser).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/saved-searches", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		var body SavedSearchListEnvelope
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		require.Len(t, body.Data, 2)
		assert.Equal(t, "Koi", body.Data[0].Name)
		assert.Equal(t, "", body.Data[1].QueryString)
		mockService.AssertExpectations(t)
	})

	t.Run("Empty list is an array", func(t *testing.T) {
		mockService := new(MockSavedSearchService)
		mockService.On("List", mock.Anything, currentUser).Return([]service.SavedSearch{}, nil)

		rr := httptest.NewRecorder()
		newRouter(mockService, currentUser).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/saved-searches", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"data":[],"success":true}`, rr.Body.String())
	})

	t.Run("Unauthorized", func(t *testing.T) {
		rr := httptest.NewRecorder()
		newRouter(new(MockSavedSearchService), 0).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/saved-searches", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestGetSavedSearch(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name               string
		path               string
		setup              func(m *MockSavedSearchService)
		expectedStatusCode int
	}{
		{
			name: "Found",
			path: "/api/saved-searches/" + id.String(),
			setup: func(m *MockSavedSearchService) {
				m.On("Get", mock.Anything, currentUser, id).Return(&service.SavedSearch{ID: id, Name: "Koi", Filters: koiFilters()}, nil)
			},
			expectedStatusCode: http.StatusOK,
		},
		{
			name: "Owned by someone else",
			path: "/api/saved-searches/" + id.String(),
			setup: func(m *MockSavedSearchService) {
				m.On("Get", mock.Anything, currentUser, id).Return(nil, service.ErrNotFound)
			},
			expectedStatusCode: http.StatusNotFound,
		},
		{
			name:               "Malformed id",
			path:               "/api/saved-searches/not-a-uuid",
			setup:              func(m *MockSavedSearchService) {},
			expectedStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockSavedSearchService)
			tt.setup(mockService)

			rr := httptest.NewRecorder()
			newRouter(mockService, currentUser).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.expectedStatusCode, rr.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestDeleteSavedSearch(t *testing.T) {
	id := uuid.New()

	t.Run("Deleted", func(t *testing.T) {
		mockService := new(MockSavedSearchService)
		mockService.On("Delete", mock.Anything, currentUser, id).Return(nil)

		rr := httptest.NewRecorder()
		newRouter(mockService, currentUser).ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/saved-searches/"+id.String(), nil))

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Body.String())
		mockService.AssertExpectations(t)
	})

	t.Run("Not found", func(t *testing.T) {
		mockService := new(MockSavedSearchService)
		mockService.On("Delete", mock.Anything, currentUser, id).Return(service.ErrNotFound)

		rr := httptest.NewRecorder()
		newRouter(mockService, currentUser).ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/saved-searches/"+id.String(), nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func statePtr(s filter.State) *filter.State {
	return &s
}
