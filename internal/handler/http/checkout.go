package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/middleware"
)

// CheckoutHandler drives the per-session checkout flow.
type CheckoutHandler struct {
	service *service.CheckoutService
	logger  *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(svc *service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{service: svc, logger: logger}
}

// FormatRequest carries raw card form input.
type FormatRequest struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"`
}

// TeardownResponse reports whether a checkout existed when it was discarded.
type TeardownResponse struct {
	TornDown bool `json:"torn_down"`
}

func (h *CheckoutHandler) respond(w http.ResponseWriter, r *http.Request, status int, session domain.CheckoutSession, err error) {
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, status, session)
}

// Open handles POST /api/v1/checkout
func (h *CheckoutHandler) Open(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Open(r.Context(), middleware.SessionIDFromContext(r.Context()))
	h.respond(w, r, http.StatusCreated, session, err)
}

// Get handles GET /api/v1/checkout
func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Get(r.Context(), middleware.SessionIDFromContext(r.Context()))
	h.respond(w, r, http.StatusOK, session, err)
}

// SubmitShipping handles POST /api/v1/checkout/shipping
func (h *CheckoutHandler) SubmitShipping(w http.ResponseWriter, r *http.Request) {
	var details domain.ShippingDetails
	if err := decodeBody(w, r, maxJSONBody, &details); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	session, err := h.service.SubmitShipping(r.Context(), middleware.SessionIDFromContext(r.Context()), details)
	h.respond(w, r, http.StatusOK, session, err)
}

// Back handles POST /api/v1/checkout/back
func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.BackToShipping(r.Context(), middleware.SessionIDFromContext(r.Context()))
	h.respond(w, r, http.StatusOK, session, err)
}

// SubmitPayment handles POST /api/v1/checkout/payment. The response shows
// the processing step; success follows once settlement completes.
func (h *CheckoutHandler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	var card domain.CardDetails
	if err := decodeBody(w, r, maxJSONBody, &card); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	session, err := h.service.SubmitPayment(r.Context(), middleware.SessionIDFromContext(r.Context()), card)
	h.respond(w, r, http.StatusAccepted, session, err)
}

// Cancel handles POST /api/v1/checkout/cancel
func (h *CheckoutHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Cancel(r.Context(), middleware.SessionIDFromContext(r.Context()))
	h.respond(w, r, http.StatusOK, session, err)
}

// Dismiss handles POST /api/v1/checkout/dismiss
func (h *CheckoutHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Dismiss(r.Context(), middleware.SessionIDFromContext(r.Context()))
	h.respond(w, r, http.StatusOK, session, err)
}

// Teardown handles DELETE /api/v1/checkout
func (h *CheckoutHandler) Teardown(w http.ResponseWriter, r *http.Request) {
	existed := h.service.Teardown(r.Context(), middleware.SessionIDFromContext(r.Context()))
	httputil.WriteData(w, http.StatusOK, TeardownResponse{TornDown: existed})
}

// Format handles POST /api/v1/checkout/format, applying the card form's
// input masks.
func (h *CheckoutHandler) Format(w http.ResponseWriter, r *http.Request) {
	var req FormatRequest
	if err := decodeBody(w, r, maxJSONBody, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, FormatRequest{
		Number: domain.FormatCardNumber(req.Number),
		Expiry: domain.FormatExpiry(req.Expiry),
	})
}
