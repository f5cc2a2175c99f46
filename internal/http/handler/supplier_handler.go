package handler

import (
	"net/http"

	"github.com/norvik-group/facility-api/internal/domain"
	"github.com/norvik-group/facility-api/internal/repository"
	"github.com/norvik-group/facility-api/internal/service"
	"go.uber.org/zap"
)

// SupplierHandler handles HTTP requests for supplier operations
type SupplierHandler struct {
	suppliers *service.SupplierService
	logger    *zap.Logger
}

// NewSupplierHandler creates a new supplier handler instance
func NewSupplierHandler(suppliers *service.SupplierService, logger *zap.Logger) *SupplierHandler {
	return &SupplierHandler{suppliers: suppliers, logger: logger}
}

// List godoc
// @Summary List suppliers
// @Description Get paginated list of suppliers with optional filters
// @Tags Suppliers
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param perPage query int false "Items per page (max 200)" default(20)
// @Param search query string false "Search by name, VAT number or contact"
// @Param city query string false "Filter by city"
// @Param status query string false "Filter by status" Enums(active, inactive, blacklisted)
// @Param typeId query int false "Filter by supplier type"
// @Success 200 {object} domain.PageResponse{data=[]domain.Supplier}
// @Failure 401 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /suppliers [get]
func (h *SupplierHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage, sort := parseListQuery(r)
	q := r.URL.Query()

	filters := &repository.SupplierFilters{
		Search: q.Get("search"),
		City:   q.Get("city"),
		TypeID: uintQuery(r, "typeId"),
	}
	if s := q.Get("status"); s != "" {
		st := domain.SupplierStatus(s)
		filters.Status = &st
	}

	items, pg, err := h.suppliers.List(r.Context(), page, perPage, filters, sort)
	if err != nil {
		h.logger.Error("failed to list suppliers", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, pageResponse("Suppliers retrieved", items, pg))
}

// Get godoc
// @Summary Get supplier by ID
// @Tags Suppliers
// @Produce json
// @Param id path int true "Supplier ID"
// @Success 200 {object} domain.Response{data=domain.Supplier}
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /suppliers/{id} [get]
func (h *SupplierHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid supplier ID")
		return
	}

	supplier, err := h.suppliers.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Supplier retrieved", supplier))
}

// Create godoc
// @Summary Create supplier
// @Tags Suppliers
// @Accept json
// @Produce json
// @Param request body domain.CreateSupplierRequest true "Supplier data"
// @Success 201 {object} domain.Response{data=domain.Supplier}
// @Failure 400 {object} domain.Response
// @Failure 409 {object} domain.Response "Duplicate VAT number"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /suppliers [post]
func (h *SupplierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateSupplierRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	supplier, err := h.suppliers.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create supplier", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, okResponse("Supplier created", supplier))
}

// Update godoc
// @Summary Update supplier
// @Tags Suppliers
// @Accept json
// @Produce json
// @Param id path int true "Supplier ID"
// @Param request body domain.UpdateSupplierRequest true "Fields to update"
// @Success 200 {object} domain.Response{data=domain.Supplier}
// @Failure 400 {object} domain.Response
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /suppliers/{id} [put]
func (h *SupplierHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid supplier ID")
		return
	}

	var req domain.UpdateSupplierRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	supplier, err := h.suppliers.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Supplier updated", supplier))
}

// Delete godoc
// @Summary Delete supplier
// @Tags Suppliers
// @Produce json
// @Param id path int true "Supplier ID"
// @Success 200 {object} domain.Response
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /suppliers/{id} [delete]
func (h *SupplierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid supplier ID")
		return
	}

	if err := h.suppliers.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Supplier deleted", nil))
}

// LedgerBalance godoc
// @Summary Get supplier open balance from the accounting ledger
// @Description Looks up the supplier's open items in the external accounting system by VAT number
// @Tags Suppliers
// @Produce json
// @Param id path int true "Supplier ID"
// @Success 200 {object} domain.Response{data=erp.VendorBalance}
// @Failure 404 {object} domain.Response
// @Failure 503 {object} domain.Response "Ledger not available"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /suppliers/{id}/ledger [get]
func (h *SupplierHandler) LedgerBalance(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid supplier ID")
		return
	}

	balance, err := h.suppliers.LedgerBalance(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if balance == nil {
		respondError(w, http.StatusNotFound, "No open items found for this supplier")
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Ledger balance retrieved", balance))
}

// ListTypes godoc
// @Summary List supplier types
// @Tags Suppliers
// @Produce json
// @Success 200 {object} domain.Response{data=[]domain.SupplierType}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /suppliers/types [get]
func (h *SupplierHandler) ListTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.suppliers.ListTypes(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Supplier types retrieved", types))
}

// CreateType godoc
// @Summary Create supplier type
// @Tags Suppliers
// @Accept json
// @Produce json
// @Param request body domain.CreateSupplierTypeRequest true "Supplier type data"
// @Success 201 {object} domain.Response{data=domain.SupplierType}
// @Failure 400 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /suppliers/types [post]
func (h *SupplierHandler) CreateType(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateSupplierTypeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	st, err := h.suppliers.CreateType(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, okResponse("Supplier type created", st))
}

// DeleteType godoc
// @Summary Delete supplier type
// @Tags Suppliers
// @Produce json
// @Param id path int true "Supplier type ID"
// @Success 200 {object} domain.Response
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /suppliers/types/{id} [delete]
func (h *SupplierHandler) DeleteType(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid supplier type ID")
		return
	}

	if err := h.suppliers.DeleteType(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Supplier type deleted", nil))
}
