package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/pantrychef/backend/internal/mapper"
	"github.com/pageza/pantrychef/backend/internal/middleware"
	"github.com/pageza/pantrychef/backend/internal/mocks"
	"github.com/pageza/pantrychef/backend/internal/service"
	"github.com/pageza/pantrychef/backend/internal/session"
	"github.com/pageza/pantrychef/backend/internal/telemetry"
	"github.com/pageza/pantrychef/backend/internal/testhelpers"
	"github.com/pageza/pantrychef/backend/internal/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router    *gin.Engine
	generator *mocks.MockTextGenerator
	metrics   *telemetry.Metrics
}

func setupTestRouter(t *testing.T, tracker session.Tracker) *testEnv {
	t.Helper()

	m, err := mapper.New()
	require.NoError(t, err)

	gen := new(mocks.MockTextGenerator)
	metrics := telemetry.NewMetrics("apitest")
	v := validation.New()
	logger := zap.NewNop()

	guard := NewSubmissionGuard(tracker, logger, metrics)
	router := gin.New()
	router.Use(middleware.RequestID())
	RegisterRoutes(router,
		NewRecipeHandler(service.NewRecipeService(v, gen, m, logger, metrics), guard),
		NewSubstitutionHandler(service.NewSubstitutionService(v, gen, m, logger, metrics), guard),
		metrics.Handler(),
	)

	return &testEnv{router: router, generator: gen, metrics: metrics}
}

func (e *testEnv) post(path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestGenerateRecipes(t *testing.T) {
	t.Run("should return recipes", func(t *testing.T) {
		env := setupTestRouter(t, nil)
		env.generator.On("GenerateText", mock.Anything, mock.Anything).Return(testhelpers.ThreeRecipes(), nil)

		w := env.post("/recipes", `{"ingredients":["chicken","rice"],"servings":4}`)
		require.Equal(t, http.StatusOK, w.Code)

		var resp RecipesResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, 3, resp.TotalCount)
		require.Len(t, resp.Recipes, 3)
		assert.NotEmpty(t, resp.Recipes[0].ID)
		assert.GreaterOrEqual(t, resp.ProcessingTime, int64(0))
		assert.Empty(t, w.Header().Get(middleware.HeaderRequestSequence))
	})

	t.Run("should answer 400 with details for invalid input", func(t *testing.T) {
		env := setupTestRouter(t, nil)

		w := env.post("/recipes", `{"ingredients":[]}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, "Validation Error", resp.Error)
		assert.Equal(t, "At least 2 ingredients are required", resp.Message)
		require.Len(t, resp.Details, 1)
		assert.Equal(t, "ingredients", resp.Details[0].Field)
		env.generator.AssertNotCalled(t, "GenerateText", mock.Anything, mock.Anything)
	})

	t.Run("should answer 400 for malformed JSON", func(t *testing.T) {
		env := setupTestRouter(t, nil)

		for _, body := range []string{`{"ingredients":`, `not json`} {
			w := env.post("/recipes", body)
			assert.Equal(t, http.StatusBadRequest, w.Code, body)
			resp := decode(t, w)
			assert.Equal(t, "Validation Error", resp["error"])
			assert.Equal(t, "Request body must be valid JSON", resp["message"])
		}
	})

	t.Run("should name a field sent with the wrong type", func(t *testing.T) {
		env := setupTestRouter(t, nil)

		tests := []struct {
			body    string
			field   string
			message string
		}{
			{`{"ingredients":["chicken","rice"],"servings":"4"}`, "servings", "Invalid type for servings: expected number"},
			{`{"ingredients":"chicken, rice"}`, "ingredients", "Invalid type for ingredients: expected array"},
		}
		for _, tt := range tests {
			w := env.post("/recipes", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code, tt.body)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.message, resp.Message)
			require.Len(t, resp.Details, 1)
			assert.Equal(t, tt.field, resp.Details[0].Field)
		}
		env.generator.AssertNotCalled(t, "GenerateText", mock.Anything, mock.Anything)
	})

	t.Run("should hide model prose behind a parsing error", func(t *testing.T) {
		env := setupTestRouter(t, nil)
		env.generator.On("GenerateText", mock.Anything, mock.Anything).
			Return("I'm sorry, I can only suggest recipes that include vegetables.", nil)

		w := env.post("/recipes", `{"ingredients":["chicken","rice"]}`)
		require.Equal(t, http.StatusInternalServerError, w.Code)

		body := decode(t, w)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Parsing Error", body["error"])
		assert.Equal(t, "Failed to produce recipes from the AI response. Please try again.", body["message"])
		assert.NotContains(t, w.Body.String(), "sorry")
		assert.NotContains(t, body, "details")
	})

	t.Run("should hide provider errors", func(t *testing.T) {
		env := setupTestRouter(t, nil)
		env.generator.On("GenerateText", mock.Anything, mock.Anything).
			Return("", errors.New("API request failed with status 403: key leaked"))

		w := env.post("/recipes", `{"ingredients":["chicken","rice"]}`)
		require.Equal(t, http.StatusInternalServerError, w.Code)

		body := decode(t, w)
		assert.Equal(t, "Generation Error", body["error"])
		assert.Equal(t, "Failed to generate recipes. Please try again later.", body["message"])
		assert.False(t, strings.Contains(w.Body.String(), "403"))
	})

	t.Run("should return an empty list for an empty model result", func(t *testing.T) {
		env := setupTestRouter(t, nil)
		env.generator.On("GenerateText", mock.Anything, mock.Anything).Return(testhelpers.Fenced(`{"recipes":[]}`), nil)

		w := env.post("/recipes", `{"ingredients":["chicken","rice"]}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"recipes":[]`)
		assert.Contains(t, w.Body.String(), `"totalCount":0`)
	})
}

func TestSuggestSubstitutions(t *testing.T) {
	env := setupTestRouter(t, nil)
	env.generator.On("GenerateText", mock.Anything, mock.Anything).Return(testhelpers.SubstitutionsCompletion(), nil)

	w := env.post("/substitutions", `{"ingredients":["butter"],"recipeName":"Shortbread"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp SubstitutionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Substitutions, 1)
	assert.Equal(t, "butter", resp.Substitutions[0].Original)
	assert.Len(t, resp.GeneralTips, 1)

	w = env.post("/substitutions", `{"ingredients":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "At least 1 ingredient is required", decode(t, w)["message"])
}

func TestOptions(t *testing.T) {
	env := setupTestRouter(t, nil)

	for _, path := range []string{"/recipes", "/substitutions"} {
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, path, nil))

		assert.Equal(t, http.StatusNoContent, w.Code, path)
		assert.Equal(t, "POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Session-ID")
	}
}

func TestHealthAndMetrics(t *testing.T) {
	env := setupTestRouter(t, nil)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])

	env.metrics.RecordOutcome("recipes", "success")
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "apitest_pipeline_outcomes_total")
}

func TestSubmissionGuard(t *testing.T) {
	t.Run("should echo the sequence for a session", func(t *testing.T) {
		env := setupTestRouter(t, session.NewMemoryTracker())
		env.generator.On("GenerateText", mock.Anything, mock.Anything).Return(testhelpers.ThreeRecipes(), nil)

		body := `{"ingredients":["chicken","rice"]}`
		w := env.post("/recipes", body, middleware.HeaderSessionID, "tab-1")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "1", w.Header().Get(middleware.HeaderRequestSequence))

		w = env.post("/recipes", body, middleware.HeaderSessionID, "tab-1")
		assert.Equal(t, "2", w.Header().Get(middleware.HeaderRequestSequence))

		w = env.post("/recipes", body, middleware.HeaderSessionID, "tab-2")
		assert.Equal(t, "1", w.Header().Get(middleware.HeaderRequestSequence))
	})

	t.Run("should discard a response overtaken by a newer submission", func(t *testing.T) {
		tracker := session.NewMemoryTracker()
		env := setupTestRouter(t, tracker)
		env.generator.On("GenerateText", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				// a second submission arrives while the model is still working
				_, err := tracker.Begin(context.Background(), "recipes:tab-1")
				require.NoError(t, err)
			}).
			Return(testhelpers.ThreeRecipes(), nil).Once()

		w := env.post("/recipes", `{"ingredients":["chicken","rice"]}`, middleware.HeaderSessionID, "tab-1")
		require.Equal(t, http.StatusConflict, w.Code)

		var resp SupersededResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, "Superseded", resp.Error)
		assert.Equal(t, int64(1), resp.Sequence)
	})

	t.Run("should not let a stale failure replace newer state", func(t *testing.T) {
		tracker := session.NewMemoryTracker()
		env := setupTestRouter(t, tracker)
		env.generator.On("GenerateText", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				_, _ = tracker.Begin(context.Background(), "substitutions:tab-1")
			}).
			Return("", errors.New("timeout")).Once()

		w := env.post("/substitutions", `{"ingredients":["butter"]}`, middleware.HeaderSessionID, "tab-1")
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("should serve the request when tracking fails", func(t *testing.T) {
		tracker := new(mocks.MockTracker)
		tracker.On("Begin", mock.Anything, "recipes:tab-1").Return(int64(0), errors.New("redis down"))

		env := setupTestRouter(t, tracker)
		env.generator.On("GenerateText", mock.Anything, mock.Anything).Return(testhelpers.ThreeRecipes(), nil)

		w := env.post("/recipes", `{"ingredients":["chicken","rice"]}`, middleware.HeaderSessionID, "tab-1")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get(middleware.HeaderRequestSequence))
		tracker.AssertNotCalled(t, "IsLatest", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should serve the request when the latest check fails", func(t *testing.T) {
		tracker := new(mocks.MockTracker)
		tracker.On("Begin", mock.Anything, "recipes:tab-1").Return(int64(7), nil)
		tracker.On("IsLatest", mock.Anything, "recipes:tab-1", int64(7)).Return(false, errors.New("redis down"))

		env := setupTestRouter(t, tracker)
		env.generator.On("GenerateText", mock.Anything, mock.Anything).Return(testhelpers.ThreeRecipes(), nil)

		w := env.post("/recipes", `{"ingredients":["chicken","rice"]}`, middleware.HeaderSessionID, "tab-1")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "7", w.Header().Get(middleware.HeaderRequestSequence))
	})
}
