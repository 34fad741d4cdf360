package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"indexapi/internal/api/respond"
	"indexapi/internal/api/v1/dto"
	"indexapi/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// BillingHandler handles checkout creation and the Stripe webhook. Neither
// endpoint sits behind key auth: checkout is how keys are obtained and the
// webhook authenticates via its signature.
type BillingHandler struct {
	stripeSvc *service.StripeService
	validate  *validator.Validate
	logger    zerolog.Logger
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(stripeSvc *service.StripeService, validate *validator.Validate, logger zerolog.Logger) *BillingHandler {
	return &BillingHandler{stripeSvc: stripeSvc, validate: validate, logger: logger}
}

// RegisterRoutes registers the billing endpoints.
func (h *BillingHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /checkout", h.Checkout)
	mux.HandleFunc("POST /webhook", h.Webhook)
}

func (h *BillingHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Provide a valid email")
		return
	}

	url, err := h.stripeSvc.CreateCheckoutSession(r.Context(), req.Email)
	if errors.Is(err, service.ErrCheckoutNotConfigured) {
		h.logger.Error().Msg("Checkout requested but no Stripe price configured")
		respond.Error(w, http.StatusInternalServerError, "Checkout not configured")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to create checkout session")
		respond.Error(w, http.StatusInternalServerError, "Failed to create checkout session")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"url": url})
}

func (h *BillingHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	h.stripeSvc.HandleWebhook(w, r)
}
