package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/calmana/apiserver/internal/services"
	"github.com/calmana/apiserver/types"
)

// QuizHandler provides HTTP handlers for quiz results.
type QuizHandler struct {
	quizService *services.QuizService
}

func NewQuizHandler(quizService *services.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// QuizRouter registers quiz routes on the given router.
func QuizRouter(r chi.Router, quizService *services.QuizService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewQuizHandler(quizService)

	r.Use(authMiddleware)
	r.Post("/save", handler.Save)
	r.Get("/month", handler.Month)
}

type QuizSaveRequest struct {
	QuizSlug   string             `json:"quizSlug"`
	QuizTitle  string             `json:"quizTitle"`
	Answers    []types.QuizAnswer `json:"answers"`
	Score      int                `json:"score"`
	MaxScore   int                `json:"maxScore"`
	Percentage int                `json:"percentage"`
	Level      string             `json:"level"`
}

type QuizSaveResponse struct {
	Success bool             `json:"success"`
	Result  types.QuizResult `json:"result"`
}

func (h *QuizHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req QuizSaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if strings.TrimSpace(req.QuizSlug) == "" {
		writeError(w, http.StatusBadRequest, "quizSlug is required")
		return
	}

	result, err := h.quizService.Save(r.Context(), types.QuizResult{
		UserID:     userID,
		QuizSlug:   req.QuizSlug,
		QuizTitle:  req.QuizTitle,
		Answers:    req.Answers,
		Score:      req.Score,
		MaxScore:   req.MaxScore,
		Percentage: req.Percentage,
		Level:      req.Level,
	})
	if err != nil {
		if errors.Is(err, services.ErrCooldown) {
			// The client keys retry messaging off this exact code.
			writeError(w, http.StatusBadRequest, "COOLDOWN")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to save result")
		return
	}

	writeJSON(w, http.StatusCreated, QuizSaveResponse{Success: true, Result: result})
}

func (h *QuizHandler) Month(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	now := time.Now()
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

	byDay, err := h.quizService.Month(r.Context(), userID, year, month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load results")
		return
	}

	writeJSON(w, http.StatusOK, byDay)
}
