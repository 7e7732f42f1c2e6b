package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/calmana/apiserver/internal/dates"
	"github.com/calmana/apiserver/internal/services"
)

// MoodHandler provides HTTP handlers for mood logging and views.
type MoodHandler struct {
	moodService *services.MoodService
}

func NewMoodHandler(moodService *services.MoodService) *MoodHandler {
	return &MoodHandler{moodService: moodService}
}

// MoodRouter registers mood routes on the given router.
func MoodRouter(r chi.Router, moodService *services.MoodService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewMoodHandler(moodService)

	r.Use(authMiddleware)
	r.Post("/add", handler.Add)
	r.Get("/day", handler.Day)
	r.Get("/week", handler.Week)
	r.Get("/month", handler.Month)
}

type AddMoodRequest struct {
	Mood string `json:"mood"`
}

func (h *MoodHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req AddMoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	entry, err := h.moodService.Add(r.Context(), userID, strings.TrimSpace(req.Mood))
	if err != nil {
		if errors.Is(err, services.ErrInvalidMood) {
			writeError(w, http.StatusBadRequest, "invalid mood")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to save mood")
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// Day returns the moods and average for one IST day, defaulting to
// today.
func (h *MoodHandler) Day(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		date = dates.Today()
	}

	day, err := h.moodService.Day(r.Context(), userID, date)
	if err != nil {
		if errors.Is(err, dates.ErrInvalidKey) {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load moods")
		return
	}

	writeJSON(w, http.StatusOK, day)
}

type MoodRangeResponse struct {
	Days  []services.MoodDaySummary `json:"days"`
	Start string                    `json:"start"`
	End   string                    `json:"end"`
}

func (h *MoodHandler) Week(w http.ResponseWriter, r *http.Request) {
	h.rangeView(w, r, h.moodService.Week)
}

func (h *MoodHandler) Month(w http.ResponseWriter, r *http.Request) {
	h.rangeView(w, r, h.moodService.Month)
}

func (h *MoodHandler) rangeView(
	w http.ResponseWriter,
	r *http.Request,
	view func(ctx context.Context, userID, offset int) ([]services.MoodDaySummary, error),
) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	offset, err := parseOffset(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid offset")
		return
	}

	days, err := view(r.Context(), userID, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load moods")
		return
	}

	writeJSON(w, http.StatusOK, MoodRangeResponse{
		Days:  days,
		Start: days[0].Date,
		End:   days[len(days)-1].Date,
	})
}

func parseOffset(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("offset"))
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
