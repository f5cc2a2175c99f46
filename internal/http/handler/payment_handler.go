package handler

import (
	"net/http"

	"github.com/norvik-group/facility-api/internal/domain"
	"github.com/norvik-group/facility-api/internal/repository"
	"github.com/norvik-group/facility-api/internal/service"
	"go.uber.org/zap"
)

// PaymentHandler handles HTTP requests for payment and bill operations
type PaymentHandler struct {
	payments *service.PaymentService
	logger   *zap.Logger
}

// NewPaymentHandler creates a new payment handler instance
func NewPaymentHandler(payments *service.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, logger: logger}
}

// List godoc
// @Summary List payments
// @Description Get paginated list of payments with optional filters
// @Tags Payments
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param perPage query int false "Items per page (max 200)" default(20)
// @Param search query string false "Search by bill number or description"
// @Param status query string false "Filter by status" Enums(pending, paid, overdue, cancelled)
// @Param supplierId query int false "Filter by supplier"
// @Param clientId query int false "Filter by client"
// @Param category query string false "Filter by category"
// @Success 200 {object} domain.PageResponse{data=[]domain.Payment}
// @Failure 401 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /payments [get]
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage, sort := parseListQuery(r)
	q := r.URL.Query()

	filters := &repository.PaymentFilters{
		Search:     q.Get("search"),
		Category:   q.Get("category"),
		SupplierID: uintQuery(r, "supplierId"),
		ClientID:   uintQuery(r, "clientId"),
	}
	if s := q.Get("status"); s != "" {
		st := domain.PaymentStatus(s)
		filters.Status = &st
	}

	items, pg, err := h.payments.List(r.Context(), page, perPage, filters, sort)
	if err != nil {
		h.logger.Error("failed to list payments", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, pageResponse("Payments retrieved", items, pg))
}

// Get godoc
// @Summary Get payment by ID
// @Tags Payments
// @Produce json
// @Param id path int true "Payment ID"
// @Success 200 {object} domain.Response{data=domain.Payment}
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /payments/{id} [get]
func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payment ID")
		return
	}

	payment, err := h.payments.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Payment retrieved", payment))
}

// Create godoc
// @Summary Create payment
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body domain.CreatePaymentRequest true "Payment data"
// @Success 201 {object} domain.Response{data=domain.Payment}
// @Failure 400 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /payments [post]
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePaymentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	payment, err := h.payments.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create payment", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, okResponse("Payment created", payment))
}

// Update godoc
// @Summary Update payment
// @Description Update payment fields. Setting a paid date marks the payment as paid.
// @Tags Payments
// @Accept json
// @Produce json
// @Param id path int true "Payment ID"
// @Param request body domain.UpdatePaymentRequest true "Fields to update"
// @Success 200 {object} domain.Response{data=domain.Payment}
// @Failure 400 {object} domain.Response
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /payments/{id} [put]
func (h *PaymentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payment ID")
		return
	}

	var req domain.UpdatePaymentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	payment, err := h.payments.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Payment updated", payment))
}

// Delete godoc
// @Summary Delete payment
// @Tags Payments
// @Produce json
// @Param id path int true "Payment ID"
// @Success 200 {object} domain.Response
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /payments/{id} [delete]
func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payment ID")
		return
	}

	if err := h.payments.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Payment deleted", nil))
}
