package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/technewwings/payload-ecommerce-cod/domain"
	"github.com/technewwings/payload-ecommerce-cod/internal/service"
	"github.com/technewwings/payload-ecommerce-cod/internal/store"
)

type Handler struct {
	svc     *service.Service
	policy  service.Policy
	timeout time.Duration
}

func NewHandler(svc *service.Service, policy service.Policy, timeout time.Duration) *Handler {
	return &Handler{
		svc:     svc,
		policy:  policy,
		timeout: timeout,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Route("/payments/cod", func(r chi.Router) {
		r.Get("/config", h.GetConfig)
		r.Post("/initiate", h.InitiatePayment)
		r.Post("/confirm", h.ConfirmOrder)
		r.Get("/{orderID}", h.GetStatus)
		r.Post("/{orderID}/delivery-status", h.UpdateDeliveryStatus)
		r.Post("/{orderID}/collection", h.RecordCollection)
	})
}

type InitiateRequestDTO struct {
	CustomerID      string               `json:"customer_id,omitempty"`
	CustomerEmail   string               `json:"customer_email,omitempty"`
	Currency        string               `json:"currency"`
	Cart            *domain.CartSnapshot `json:"cart"`
	BillingAddress  map[string]any       `json:"billing_address,omitempty"`
	ShippingAddress map[string]any       `json:"shipping_address,omitempty"`
}

type ConfirmRequestDTO struct {
	OrderID       string `json:"order_id"`
	CustomerID    string `json:"customer_id,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
}

type DeliveryStatusDTO struct {
	Status string `json:"status"`
}

type CollectionDTO struct {
	CollectedAt *time.Time `json:"collected_at,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.svc.ClientConfig())
}

func (h *Handler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req InitiateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	result, err := h.svc.InitiatePayment(ctx, h.policy, &service.InitiateRequest{
		Cart:            req.Cart,
		Currency:        req.Currency,
		Owner:           ownerFrom(req.CustomerID, req.CustomerEmail),
		BillingAddress:  req.BillingAddress,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

func (h *Handler) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ConfirmRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	result, err := h.svc.ConfirmOrder(ctx, &service.ConfirmRequest{
		CODOrderID: req.OrderID,
		Owner:      ownerFrom(req.CustomerID, req.CustomerEmail),
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	status, err := h.svc.GetStatus(ctx, chi.URLParam(r, "orderID"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, status)
}

func (h *Handler) UpdateDeliveryStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req DeliveryStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	err := h.svc.UpdateDeliveryStatus(ctx, chi.URLParam(r, "orderID"), domain.DeliveryStatus(req.Status))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RecordCollection(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CollectionDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	collectedAt := time.Now()
	if req.CollectedAt != nil {
		collectedAt = *req.CollectedAt
	}

	err := h.svc.RecordCollection(ctx, chi.URLParam(r, "orderID"), collectedAt)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func ownerFrom(customerID, customerEmail string) domain.Owner {
	if customerID != "" {
		return domain.AuthenticatedOwner(customerID)
	}
	return domain.GuestOwner(customerEmail)
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrMissingCurrency),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInvalidCustomerEmail),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrMissingOrderID):
		respondError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, service.ErrUnsupportedCurrency),
		errors.Is(err, service.ErrOrderBelowMinimum),
		errors.Is(err, service.ErrOrderAboveMaximum),
		errors.Is(err, service.ErrRegionNotAllowed):
		respondError(w, http.StatusUnprocessableEntity, "not_eligible", err.Error())
	case errors.Is(err, store.ErrTransactionNotFound):
		respondError(w, http.StatusNotFound, "transaction_not_found", err.Error())
	case errors.Is(err, service.ErrAlreadyConfirmed),
		errors.Is(err, service.ErrConfirmationInProgress),
		errors.Is(err, service.ErrIllegalDeliveryTransition),
		errors.Is(err, service.ErrPaymentNotValidated):
		respondError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, service.ErrMissingCartReference),
		errors.Is(err, service.ErrInvalidItemSnapshot):
		respondError(w, http.StatusUnprocessableEntity, "corrupted_transaction", err.Error())
	default:
		respondError(w, http.StatusBadGateway, "store_failure", err.Error())
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func respondError(w http.ResponseWriter, status int, code, details string) {
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Code:    code,
		Details: details,
	})
}
