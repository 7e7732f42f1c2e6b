package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/calmana/apiserver/internal/dates"
	"github.com/calmana/apiserver/internal/services"
)

// DashboardHandler provides HTTP handlers for the combined calendar
// and single-day views.
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// DashboardRouter registers dashboard routes on the given router.
func DashboardRouter(r chi.Router, dashboardService *services.DashboardService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewDashboardHandler(dashboardService)

	r.Use(authMiddleware)
	r.Get("/calendar", handler.Calendar)
	r.Get("/day", handler.Day)
}

func (h *DashboardHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	now := time.Now().In(dates.IST)
	year := now.Year()
	month := int(now.Month())
	if v := r.URL.Query().Get("year"); v != "" {
		if year, err = strconv.Atoi(v); err != nil {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
	}
	if v := r.URL.Query().Get("month"); v != "" {
		month, err = strconv.Atoi(v)
		if err != nil || month < 1 || month > 12 {
			writeError(w, http.StatusBadRequest, "invalid month")
			return
		}
	}

	calendar, err := h.dashboardService.Calendar(r.Context(), userID, year, month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build calendar")
		return
	}

	writeJSON(w, http.StatusOK, calendar)
}

func (h *DashboardHandler) Day(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		date = dates.Today()
	}

	day, err := h.dashboardService.Day(r.Context(), userID, date)
	if err != nil {
		if errors.Is(err, dates.ErrInvalidKey) {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load day")
		return
	}

	writeJSON(w, http.StatusOK, day)
}
