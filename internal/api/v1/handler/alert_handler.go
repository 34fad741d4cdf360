package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"indexapi/internal/api/respond"
	"indexapi/internal/api/v1/dto"
	"indexapi/internal/middleware"
	"indexapi/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// AlertHandler handles alert subscription endpoints.
type AlertHandler struct {
	alertSvc *service.AlertService
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(alertSvc *service.AlertService, validate *validator.Validate, logger zerolog.Logger) *AlertHandler {
	return &AlertHandler{alertSvc: alertSvc, validate: validate, logger: logger}
}

// RegisterRoutes registers the alert endpoints.
func (h *AlertHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	mux.Handle("POST /alerts/subscribe", authMiddleware(http.HandlerFunc(h.Subscribe)))
}

func (h *AlertHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	rec, ok := middleware.KeyFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Missing bearer token")
		return
	}

	var req dto.AlertSubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	err := h.alertSvc.Subscribe(r.Context(), rec.TokenHash, req.Email, req.TelegramChatID)
	if errors.Is(err, service.ErrNoAlertTarget) {
		respond.Error(w, http.StatusBadRequest, "Provide email or telegramChatId")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to create alert subscription")
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}
