package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/calmana/apiserver/internal/services"
	"github.com/calmana/apiserver/internal/store"
	"github.com/calmana/apiserver/types"
)

// AffirmationHandler provides HTTP handlers for favorite affirmations.
type AffirmationHandler struct {
	affirmationService *services.AffirmationService
}

func NewAffirmationHandler(affirmationService *services.AffirmationService) *AffirmationHandler {
	return &AffirmationHandler{affirmationService: affirmationService}
}

// AffirmationRouter registers affirmation routes on the given router.
func AffirmationRouter(r chi.Router, affirmationService *services.AffirmationService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewAffirmationHandler(affirmationService)

	r.Use(authMiddleware)
	r.Post("/add", handler.Add)
	r.Get("/list", handler.List)
	r.Delete("/delete", handler.Delete)
}

type AffirmationRequest struct {
	Text string `json:"text"`
}

type AffirmationAddResponse struct {
	Success  bool              `json:"success"`
	Favorite types.Affirmation `json:"favorite"`
	Message  string            `json:"message,omitempty"`
}

type AffirmationListResponse struct {
	Favorites []types.Affirmation `json:"favorites"`
}

func (h *AffirmationHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req AffirmationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	favorite, created, err := h.affirmationService.Add(r.Context(), userID, text)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save favorite")
		return
	}

	if !created {
		writeJSON(w, http.StatusOK, AffirmationAddResponse{Success: true, Favorite: favorite, Message: "already saved"})
		return
	}
	writeJSON(w, http.StatusCreated, AffirmationAddResponse{Success: true, Favorite: favorite})
}

func (h *AffirmationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	favorites, err := h.affirmationService.List(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load favorites")
		return
	}

	writeJSON(w, http.StatusOK, AffirmationListResponse{Favorites: favorites})
}

func (h *AffirmationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req AffirmationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	if err := h.affirmationService.Delete(r.Context(), userID, text); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete favorite")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
