package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/solarsync/internal/domain"
	"github.com/heartmarshall/solarsync/internal/service/payment"
)

type paymentService interface {
	RecordIntent(ctx context.Context, input payment.RecordIntentInput) (domain.Payment, error)
	UpdateProviderStatus(ctx context.Context, input payment.UpdateStatusInput) (domain.Payment, error)
}

// PaymentHandler records provider payment intents and their status changes.
// Routes are mounted behind middleware.AdminOnly.
type PaymentHandler struct {
	svc paymentService
	log *slog.Logger
}

// NewPaymentHandler creates a PaymentHandler.
func NewPaymentHandler(svc paymentService, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{svc: svc, log: logger.With("handler", "payment")}
}

type recordIntentRequest struct {
	MilestoneID      uuid.UUID       `json:"milestone_id"`
	ProviderIntentID string          `json:"provider_intent_id"`
	ProviderStatus   string          `json:"provider_status"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
}

type updateStatusRequest struct {
	ProviderStatus string `json:"provider_status"`
}

// RecordIntent handles POST /v1/payments.
func (h *PaymentHandler) RecordIntent(w http.ResponseWriter, r *http.Request) {
	var req recordIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.svc.RecordIntent(r.Context(), payment.RecordIntentInput{
		MilestoneID:      req.MilestoneID,
		ProviderIntentID: req.ProviderIntentID,
		ProviderStatus:   req.ProviderStatus,
		Amount:           req.Amount,
		Currency:         req.Currency,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// UpdateProviderStatus handles PATCH /v1/payments/{id}/provider-status.
func (h *PaymentHandler) UpdateProviderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid payment id")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.svc.UpdateProviderStatus(r.Context(), payment.UpdateStatusInput{
		PaymentID:      id,
		ProviderStatus: req.ProviderStatus,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
