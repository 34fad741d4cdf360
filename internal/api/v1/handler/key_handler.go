package handler

import (
	"net/http"

	"indexapi/internal/api/respond"
	"indexapi/internal/api/v1/dto"
	"indexapi/internal/middleware"

	"github.com/rs/zerolog"
)

// KeyHandler exposes key introspection.
type KeyHandler struct {
	logger zerolog.Logger
}

// NewKeyHandler creates a new KeyHandler.
func NewKeyHandler(logger zerolog.Logger) *KeyHandler {
	return &KeyHandler{logger: logger}
}

// RegisterRoutes registers the key endpoints.
func (h *KeyHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	mux.Handle("GET /key/verify", authMiddleware(http.HandlerFunc(h.Verify)))
}

func (h *KeyHandler) Verify(w http.ResponseWriter, r *http.Request) {
	rec, ok := middleware.KeyFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Missing bearer token")
		return
	}
	respond.JSON(w, http.StatusOK, dto.KeyVerifyResponse{
		Status: rec.Status,
		Plan:   rec.Plan,
		Email:  rec.Email,
	})
}
