package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/calmana/apiserver/internal/services"
	"github.com/calmana/apiserver/internal/store"
	"github.com/calmana/apiserver/types"
)

const defaultAnalyticsDays = 30

// AdminHandler provides the admin data and analytics endpoints. List
// endpoints return every user's rows with owner summaries attached;
// journal listings expose metadata only.
type AdminHandler struct {
	analyticsService *services.AnalyticsService
	accountService   *services.AccountService
	userService      *services.UserService
	adminRepo        *store.AdminRepository
	journalRepo      *store.JournalRepository
}

func NewAdminHandler(
	analyticsService *services.AnalyticsService,
	accountService *services.AccountService,
	userService *services.UserService,
	adminRepo *store.AdminRepository,
	journalRepo *store.JournalRepository,
) *AdminHandler {
	return &AdminHandler{
		analyticsService: analyticsService,
		accountService:   accountService,
		userService:      userService,
		adminRepo:        adminRepo,
		journalRepo:      journalRepo,
	}
}

// AdminRouter registers admin routes on the given router. Callers
// must pass an adminMiddleware that enforces both authentication and
// the admin role.
func AdminRouter(
	r chi.Router,
	analyticsService *services.AnalyticsService,
	accountService *services.AccountService,
	userService *services.UserService,
	adminRepo *store.AdminRepository,
	journalRepo *store.JournalRepository,
	adminMiddleware func(http.Handler) http.Handler,
) {
	handler := NewAdminHandler(analyticsService, accountService, userService, adminRepo, journalRepo)

	r.Use(adminMiddleware)
	r.Get("/summary", handler.Summary)
	r.Get("/users", handler.Users)
	r.Get("/moods", handler.Moods)
	r.Get("/quizzes", handler.Quizzes)
	r.Get("/breathing", handler.Breathing)
	r.Get("/affirmations", handler.Affirmations)
	r.Get("/journals", handler.Journals)
	r.Get("/affirmations-summary", handler.AffirmationsSummary)
	r.Get("/breathing-summary", handler.BreathingSummary)
	r.Get("/analytics/mood-trend", handler.MoodTrend)
	r.Get("/analytics/daily-active-users", handler.DailyActiveUsers)
	r.Get("/analytics/quiz-distribution", handler.QuizDistribution)
	r.Get("/analytics/affirmation-popularity", handler.AffirmationPopularity)
	r.Delete("/users/{userID}", handler.DeleteUser)
	r.Delete("/journals/{entryID}", handler.DeleteJournal)
}

func (h *AdminHandler) parseRange(w http.ResponseWriter, r *http.Request) (services.Range, bool) {
	rng, err := services.ParseRange(r.URL.Query().Get("start"), r.URL.Query().Get("end"), defaultAnalyticsDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date range")
		return services.Range{}, false
	}
	return rng, true
}

func (h *AdminHandler) Summary(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.parseRange(w, r)
	if !ok {
		return
	}

	summary, err := h.analyticsService.Summary(r.Context(), rng)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute summary")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load users")
		return
	}

	summaries := make([]types.UserSummary, 0, len(users))
	for _, user := range users {
		summaries = append(summaries, user.Summary())
	}
	writeJSON(w, http.StatusOK, map[string][]types.UserSummary{"users": summaries})
}

func (h *AdminHandler) Moods(w http.ResponseWriter, r *http.Request) {
	moods, err := h.adminRepo.ListMoods(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load moods")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]store.OwnedMood{"moods": moods})
}

func (h *AdminHandler) Quizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.adminRepo.ListQuizzes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load quizzes")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]store.OwnedQuiz{"quizzes": quizzes})
}

func (h *AdminHandler) Breathing(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.adminRepo.ListBreathing(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load sessions")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]store.OwnedBreathing{"sessions": sessions})
}

func (h *AdminHandler) Affirmations(w http.ResponseWriter, r *http.Request) {
	favorites, err := h.adminRepo.ListAffirmations(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load affirmations")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]store.OwnedAffirmation{"affirmations": favorites})
}

// Journals lists entry metadata for moderation. Ciphertext and
// plaintext never leave the store on this path.
func (h *AdminHandler) Journals(w http.ResponseWriter, r *http.Request) {
	entries, err := h.adminRepo.ListJournalMeta(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load journals")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]types.JournalMeta{"journals": entries})
}

func (h *AdminHandler) AffirmationsSummary(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	top, err := h.analyticsService.TopAffirmations(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute summary")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]store.LabelCount{"topAffirmations": top})
}

func (h *AdminHandler) BreathingSummary(w http.ResponseWriter, r *http.Request) {
	total, err := h.analyticsService.BreathingTotal(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute summary")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"totalSessions": total})
}

func (h *AdminHandler) MoodTrend(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.parseRange(w, r)
	if !ok {
		return
	}

	trend, err := h.analyticsService.MoodTrend(r.Context(), rng)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute trend")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]services.TrendPoint{"trend": trend})
}

func (h *AdminHandler) DailyActiveUsers(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.parseRange(w, r)
	if !ok {
		return
	}

	series, err := h.analyticsService.DailyActiveUsers(r.Context(), rng)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute series")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]services.ActivePoint{"dailyActiveUsers": series})
}

func (h *AdminHandler) QuizDistribution(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.parseRange(w, r)
	if !ok {
		return
	}

	distribution, err := h.analyticsService.QuizDistribution(r.Context(), rng)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute distribution")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]store.LabelCount{"distribution": distribution})
}

func (h *AdminHandler) AffirmationPopularity(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.parseRange(w, r)
	if !ok {
		return
	}

	popularity, err := h.analyticsService.AffirmationPopularity(r.Context(), rng)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute popularity")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]store.LabelCount{"popularity": popularity})
}

// DeleteUser removes a user and everything the user owns. Admin
// accounts cannot be deleted through this endpoint.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.accountService.DeleteByAdmin(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, services.ErrAdminAccount):
			writeError(w, http.StatusForbidden, "cannot delete admin account")
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to delete user")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *AdminHandler) DeleteJournal(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "entryID"))
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "invalid entry id")
		return
	}

	if err := h.journalRepo.DeleteByID(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete entry")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
