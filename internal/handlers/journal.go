package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/calmana/apiserver/internal/dates"
	"github.com/calmana/apiserver/internal/services"
	"github.com/calmana/apiserver/internal/store"
	"github.com/calmana/apiserver/types"
)

// JournalHandler provides HTTP handlers for encrypted journal entries.
type JournalHandler struct {
	journalService *services.JournalService
}

func NewJournalHandler(journalService *services.JournalService) *JournalHandler {
	return &JournalHandler{journalService: journalService}
}

// JournalRouter registers journal routes on the given router.
func JournalRouter(r chi.Router, journalService *services.JournalService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewJournalHandler(journalService)

	r.Use(authMiddleware)
	r.Post("/", handler.Create)
	r.Get("/", handler.List)
	r.Put("/", handler.Update)
	r.Delete("/", handler.Delete)
	r.Get("/day", handler.Day)
	r.Get("/{entryID}", handler.Get)
}

type JournalCreateRequest struct {
	Text  string   `json:"text"`
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

type JournalUpdateRequest struct {
	ID    int      `json:"id"`
	Text  *string  `json:"text"`
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

type JournalListResponse struct {
	Entries []types.JournalView `json:"entries"`
}

type JournalDayResponse struct {
	Entries []types.JournalView `json:"entries"`
	Count   int                 `json:"count"`
}

func (h *JournalHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req JournalCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	view, err := h.journalService.Create(r.Context(), userID, req.Text, req.Title, req.Tags)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save entry")
		return
	}

	writeJSON(w, http.StatusCreated, view)
}

func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	entries, err := h.journalService.List(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load entries")
		return
	}

	writeJSON(w, http.StatusOK, JournalListResponse{Entries: entries})
}

func (h *JournalHandler) Day(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		writeError(w, http.StatusBadRequest, "date required")
		return
	}

	entries, err := h.journalService.Day(r.Context(), userID, date)
	if err != nil {
		if errors.Is(err, dates.ErrInvalidKey) {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load entries")
		return
	}

	writeJSON(w, http.StatusOK, JournalDayResponse{Entries: entries, Count: len(entries)})
}

func (h *JournalHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "entryID"))
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "invalid entry id")
		return
	}

	view, err := h.journalService.Get(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load entry")
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *JournalHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req JournalUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.ID < 1 {
		writeError(w, http.StatusBadRequest, "id required")
		return
	}

	view, err := h.journalService.Update(r.Context(), userID, req.ID, req.Text, req.Title, req.Tags)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update entry")
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *JournalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("id")))
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "id required")
		return
	}

	if err := h.journalService.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete entry")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
