package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie_ranking/internal/feature/movies/domain/entity"
	"movie_ranking/internal/feature/movies/transport/http/dto"
	"movie_ranking/internal/feature/movies/usecase"
)

// mockMovieUsecase はMovieUsecaseインターフェースのモック実装です。
type mockMovieUsecase struct {
	ListFunc          func(ctx context.Context) ([]entity.Movie, error)
	SearchFunc        func(ctx context.Context, title string) ([]entity.Candidate, error)
	AddFromLookupFunc func(ctx context.Context, externalID string) (*entity.Movie, error)
	GetFunc           func(ctx context.Context, id uint) (*entity.Movie, error)
	EditFunc          func(ctx context.Context, id uint, rating, review string) (*entity.Movie, error)
	DeleteFunc        func(ctx context.Context, id uint) error
}

func (m *mockMovieUsecase) List(ctx context.Context) ([]entity.Movie, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *mockMovieUsecase) Search(ctx context.Context, title string) ([]entity.Candidate, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, title)
	}
	return nil, nil
}

func (m *mockMovieUsecase) AddFromLookup(ctx context.Context, externalID string) (*entity.Movie, error) {
	if m.AddFromLookupFunc != nil {
		return m.AddFromLookupFunc(ctx, externalID)
	}
	return nil, usecase.ErrLookupFailed
}

func (m *mockMovieUsecase) Get(ctx context.Context, id uint) (*entity.Movie, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, usecase.ErrNotFound
}

func (m *mockMovieUsecase) Edit(ctx context.Context, id uint, rating, review string) (*entity.Movie, error) {
	if m.EditFunc != nil {
		return m.EditFunc(ctx, id, rating, review)
	}
	return nil, usecase.ErrNotFound
}

func (m *mockMovieUsecase) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// stubTokens は固定のトークンを発行するFormTokenIssuerです。
type stubTokens struct{ err error }

func (s stubTokens) Issue(form string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "token-for-" + form, nil
}

func ptrFloat(v float64) *float64 { return &v }
func ptrInt(v int) *int           { return &v }

func setupRouter(uc MovieUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewMovieHandler(uc, stubTokens{})
	r := gin.New()
	r.GET("/", h.List)
	r.GET("/add", h.AddForm)
	r.POST("/add", h.Search)
	r.GET("/find", h.Find)
	r.GET("/edit", h.EditForm)
	r.POST("/edit", h.Edit)
	r.GET("/delete", h.Delete)
	return r
}

func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestNewMovieHandler(t *testing.T) {
	t.Parallel()

	h := NewMovieHandler(&mockMovieUsecase{}, stubTokens{})

	assert.NotNil(t, h)
	assert.NotNil(t, h.uc)
	assert.NotNil(t, h.tokens)
}

func TestMovieHandler_List(t *testing.T) {
	tests := []struct {
		name           string
		listFunc       func(ctx context.Context) ([]entity.Movie, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success: returns ranked movies",
			listFunc: func(ctx context.Context) ([]entity.Movie, error) {
				return []entity.Movie{
					{ID: 1, Title: "Inception", Year: 2010, Description: "A thief...", ImageURL: "img", Rating: ptrFloat(9), Ranking: ptrInt(1)},
				}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[{"id":1,"title":"Inception","year":2010,"description":"A thief...","rating":9,"ranking":1,"review":null,"img_url":"img"}]`,
		},
		{
			name:           "success: empty collection",
			listFunc:       func(ctx context.Context) ([]entity.Movie, error) { return nil, nil },
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name: "failure: store error is hidden",
			listFunc: func(ctx context.Context) ([]entity.Movie, error) {
				return nil, errors.New("database connection failed")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(&mockMovieUsecase{ListFunc: tt.listFunc})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestMovieHandler_AddForm(t *testing.T) {
	router := setupRouter(&mockMovieUsecase{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/add", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"form":"/add","csrf_token":"token-for-/add"}`, w.Body.String())
}

func TestMovieHandler_AddForm_TokenError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewMovieHandler(&mockMovieUsecase{}, stubTokens{err: errors.New("no secret")})
	r := gin.New()
	r.GET("/add", h.AddForm)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/add", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestMovieHandler_Search(t *testing.T) {
	tests := []struct {
		name           string
		title          string
		searchFunc     func(ctx context.Context, title string) ([]entity.Candidate, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "success: returns candidates",
			title: "Inception",
			searchFunc: func(ctx context.Context, title string) ([]entity.Candidate, error) {
				return []entity.Candidate{{ExternalID: 42, Title: title, ReleaseDate: "2010-07-16", Year: 2010, Overview: "A thief..."}}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"results":[{"id":42,"title":"Inception","release_date":"2010-07-16","year":2010,"overview":"A thief..."}]}`,
		},
		{
			name:  "failure: empty title re-prompts the form",
			title: "",
			searchFunc: func(ctx context.Context, title string) ([]entity.Candidate, error) {
				_, err := usecase.ValidateTitle(title)
				return nil, err
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"title is required","field":"title","csrf_token":"token-for-/add"}`,
		},
		{
			name:  "failure: lookup failed",
			title: "Inception",
			searchFunc: func(ctx context.Context, title string) ([]entity.Candidate, error) {
				return nil, fmt.Errorf("%w: tmdb http 401: Invalid API key", usecase.ErrLookupFailed)
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `{"error":"movie lookup failed"}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(&mockMovieUsecase{SearchFunc: tt.searchFunc})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, postForm("/add", url.Values{"title": {tt.title}}))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestMovieHandler_Find(t *testing.T) {
	tests := []struct {
		name             string
		query            string
		addFunc          func(ctx context.Context, externalID string) (*entity.Movie, error)
		expectedStatus   int
		expectedLocation string
	}{
		{
			name:  "success: redirects to edit form",
			query: "?id=42",
			addFunc: func(ctx context.Context, externalID string) (*entity.Movie, error) {
				return &entity.Movie{ID: 7}, nil
			},
			expectedStatus:   http.StatusFound,
			expectedLocation: "/edit?id=7",
		},
		{
			name:  "failure: duplicate add",
			query: "?id=42",
			addFunc: func(ctx context.Context, externalID string) (*entity.Movie, error) {
				return nil, usecase.ErrConstraintViolation
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:  "failure: lookup failed",
			query: "?id=42",
			addFunc: func(ctx context.Context, externalID string) (*entity.Movie, error) {
				return nil, usecase.ErrLookupFailed
			},
			expectedStatus: http.StatusBadGateway,
		},
		{
			name:  "failure: invalid id",
			query: "?id=abc",
			addFunc: func(ctx context.Context, externalID string) (*entity.Movie, error) {
				_, err := usecase.ParseID("id", externalID)
				return nil, err
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(&mockMovieUsecase{AddFromLookupFunc: tt.addFunc})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/find"+tt.query, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedLocation != "" {
				assert.Equal(t, tt.expectedLocation, w.Header().Get("Location"))
			}
		})
	}
}

func TestMovieHandler_EditForm(t *testing.T) {
	uc := &mockMovieUsecase{
		GetFunc: func(ctx context.Context, id uint) (*entity.Movie, error) {
			if id != 1 {
				return nil, usecase.ErrNotFound
			}
			return &entity.Movie{ID: 1, Title: "Inception", Year: 2010, Rating: ptrFloat(8)}, nil
		},
	}
	router := setupRouter(uc)

	t.Run("success: form with current values", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/edit?id=1", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var res dto.FormResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, "/edit", res.Form)
		assert.Equal(t, "token-for-/edit", res.CSRFToken)
		require.NotNil(t, res.Movie)
		assert.Equal(t, "Inception", res.Movie.Title)
		assert.Equal(t, 8.0, *res.Movie.Rating)
	})

	t.Run("failure: unknown id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/edit?id=2", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"movie not found"}`, w.Body.String())
	})

	t.Run("failure: missing id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/edit", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestMovieHandler_Edit(t *testing.T) {
	tests := []struct {
		name             string
		target           string
		form             url.Values
		editFunc         func(ctx context.Context, id uint, rating, review string) (*entity.Movie, error)
		expectedStatus   int
		expectedLocation string
		expectedBody     string
	}{
		{
			name:   "success: redirects to list",
			target: "/edit?id=1",
			form:   url.Values{"rating": {"9,0"}, "review": {"Great"}},
			editFunc: func(ctx context.Context, id uint, rating, review string) (*entity.Movie, error) {
				if id != 1 || rating != "9,0" || review != "Great" {
					return nil, fmt.Errorf("unexpected input %d %q %q", id, rating, review)
				}
				return &entity.Movie{ID: id}, nil
			},
			expectedStatus:   http.StatusSeeOther,
			expectedLocation: "/",
		},
		{
			name:   "success: id in form body",
			target: "/edit",
			form:   url.Values{"id": {"3"}, "rating": {"7"}},
			editFunc: func(ctx context.Context, id uint, rating, review string) (*entity.Movie, error) {
				return &entity.Movie{ID: id}, nil
			},
			expectedStatus:   http.StatusSeeOther,
			expectedLocation: "/",
		},
		{
			name:   "failure: malformed rating re-prompts the form",
			target: "/edit?id=1",
			form:   url.Values{"rating": {"nine"}},
			editFunc: func(ctx context.Context, id uint, rating, review string) (*entity.Movie, error) {
				_, err := usecase.ParseRating(rating)
				return nil, err
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"rating must be a number, e.g. 7,5","field":"rating","csrf_token":"token-for-/edit"}`,
		},
		{
			name:   "failure: unknown id",
			target: "/edit?id=9",
			form:   url.Values{"rating": {"7"}},
			editFunc: func(ctx context.Context, id uint, rating, review string) (*entity.Movie, error) {
				return nil, usecase.ErrNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(&mockMovieUsecase{EditFunc: tt.editFunc})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, postForm(tt.target, tt.form))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedLocation != "" {
				assert.Equal(t, tt.expectedLocation, w.Header().Get("Location"))
			}
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}
		})
	}
}

func TestMovieHandler_Delete(t *testing.T) {
	uc := &mockMovieUsecase{
		DeleteFunc: func(ctx context.Context, id uint) error {
			if id != 1 {
				return usecase.ErrNotFound
			}
			return nil
		},
	}
	router := setupRouter(uc)

	t.Run("success: redirects to list", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/delete?id=1", nil))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
	})

	t.Run("failure: unknown id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/delete?id=5", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
