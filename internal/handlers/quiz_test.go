package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calmana/apiserver/internal/services"
	"github.com/calmana/apiserver/internal/store"
	"github.com/calmana/apiserver/types"
)

type fakeQuizRepo struct {
	results []types.QuizResult
}

func (f *fakeQuizRepo) Create(_ context.Context, result types.QuizResult) (types.QuizResult, error) {
	result.ID = len(f.results) + 1
	f.results = append(f.results, result)
	return result, nil
}

func (f *fakeQuizRepo) LatestAttemptSince(_ context.Context, userID int, quizSlug string, since time.Time) (types.QuizResult, error) {
	for i := len(f.results) - 1; i >= 0; i-- {
		r := f.results[i]
		if r.UserID == userID && r.QuizSlug == quizSlug && !r.TakenAt.Before(since) {
			return r, nil
		}
	}
	return types.QuizResult{}, store.ErrNotFound
}

func (f *fakeQuizRepo) ListByDay(_ context.Context, userID int, dateKey string) ([]types.QuizResult, error) {
	var out []types.QuizResult
	for _, r := range f.results {
		if r.UserID == userID && r.DateKey == dateKey {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeQuizRepo) ListByKeyRange(_ context.Context, userID int, startKey, endKey string) ([]types.QuizResult, error) {
	var out []types.QuizResult
	for _, r := range f.results {
		if r.UserID == userID && r.DateKey >= startKey && r.DateKey <= endKey {
			out = append(out, r)
		}
	}
	return out, nil
}

func newQuizRouter(repo *fakeQuizRepo) *chi.Mux {
	router := chi.NewRouter()
	router.Route("/api/quiz", func(r chi.Router) {
		QuizRouter(r, services.NewQuizService(repo), fakeAuth(1))
	})
	return router
}

// fakeAuth injects a fixed subject, standing in for the JWT middleware.
func fakeAuth(userID int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), contextSubjectKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func TestQuizSaveReturnsResult(t *testing.T) {
	router := newQuizRouter(&fakeQuizRepo{})

	rec := postJSON(t, router, "/api/quiz/save", QuizSaveRequest{
		QuizSlug:  "stress",
		QuizTitle: "Stress Check",
		Score:     12,
		MaxScore:  20,
		Level:     "Moderate",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp QuizSaveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.Result.UserID)
	assert.NotEmpty(t, resp.Result.DateKey)
}

func TestQuizSaveCooldownIsBadRequest(t *testing.T) {
	router := newQuizRouter(&fakeQuizRepo{})

	body := QuizSaveRequest{QuizSlug: "stress", QuizTitle: "Stress Check"}
	rec := postJSON(t, router, "/api/quiz/save", body, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, router, "/api/quiz/save", body, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "COOLDOWN", resp.Error)
}

func TestQuizSaveRequiresSlug(t *testing.T) {
	router := newQuizRouter(&fakeQuizRepo{})

	rec := postJSON(t, router, "/api/quiz/save", QuizSaveRequest{QuizTitle: "No Slug"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuizMonthKeyedByDay(t *testing.T) {
	repo := &fakeQuizRepo{results: []types.QuizResult{
		{ID: 1, UserID: 1, QuizSlug: "stress", QuizTitle: "First", Level: "Low", DateKey: "2025-03-05"},
		{ID: 2, UserID: 1, QuizSlug: "anxiety", QuizTitle: "Second", Level: "High", DateKey: "2025-03-05"},
	}}
	router := newQuizRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/quiz/month?year=2025&month=3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var byDay map[string]types.QuizSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &byDay))
	require.Len(t, byDay, 1)
	assert.Equal(t, "First", byDay["2025-03-05"].QuizTitle)
}
