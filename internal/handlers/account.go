package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/calmana/apiserver/internal/services"
	"github.com/calmana/apiserver/internal/store"
)

// AccountHandler provides the self-service account deletion endpoint.
type AccountHandler struct {
	accountService *services.AccountService
}

func NewAccountHandler(accountService *services.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// AccountRouter registers account routes on the given router.
func AccountRouter(r chi.Router, accountService *services.AccountService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewAccountHandler(accountService)

	r.Use(authMiddleware)
	r.Delete("/delete", handler.Delete)
}

// Delete removes the caller's account together with every entity the
// account owns, in one transaction.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.accountService.DeleteOwn(r.Context(), userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "account not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete account")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
