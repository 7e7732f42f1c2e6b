package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/calmana/apiserver/internal/services"
	"github.com/calmana/apiserver/types"
)

// BreathingHandler provides HTTP handlers for breathing sessions.
type BreathingHandler struct {
	breathingService *services.BreathingService
}

func NewBreathingHandler(breathingService *services.BreathingService) *BreathingHandler {
	return &BreathingHandler{breathingService: breathingService}
}

// BreathingRouter registers breathing routes on the given router.
func BreathingRouter(r chi.Router, breathingService *services.BreathingService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewBreathingHandler(breathingService)

	r.Use(authMiddleware)
	r.Post("/save", handler.Save)
	r.Get("/today", handler.Today)
}

type BreathingSaveRequest struct {
	CyclesCompleted int `json:"cyclesCompleted"`
}

type BreathingSaveResponse struct {
	Success bool                   `json:"success"`
	Data    types.BreathingSession `json:"data"`
}

type BreathingTodayResponse struct {
	Success     bool `json:"success"`
	TotalCycles int  `json:"totalCycles"`
}

func (h *BreathingHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req BreathingSaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	session, err := h.breathingService.Save(r.Context(), userID, req.CyclesCompleted)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCycles) {
			writeError(w, http.StatusBadRequest, "cyclesCompleted must be at least 1")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to save session")
		return
	}

	writeJSON(w, http.StatusCreated, BreathingSaveResponse{Success: true, Data: session})
}

func (h *BreathingHandler) Today(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	total, err := h.breathingService.Today(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load sessions")
		return
	}

	writeJSON(w, http.StatusOK, BreathingTodayResponse{Success: true, TotalCycles: total})
}
