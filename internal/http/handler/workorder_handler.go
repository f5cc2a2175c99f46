package handler

import (
	"net/http"

	"github.com/norvik-group/facility-api/internal/domain"
	"github.com/norvik-group/facility-api/internal/repository"
	"github.com/norvik-group/facility-api/internal/service"
	"go.uber.org/zap"
)

// WorkOrderHandler handles HTTP requests for the work order lifecycle,
// including service, part and addon line items and client approvals.
type WorkOrderHandler struct {
	workOrders *service.WorkOrderService
	logger     *zap.Logger
}

// NewWorkOrderHandler creates a new work order handler instance
func NewWorkOrderHandler(workOrders *service.WorkOrderService, logger *zap.Logger) *WorkOrderHandler {
	return &WorkOrderHandler{workOrders: workOrders, logger: logger}
}

// List godoc
// @Summary List work orders
// @Tags WorkOrders
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param perPage query int false "Items per page (max 200)" default(20)
// @Param search query string false "Search by title or description"
// @Param status query string false "Filter by status" Enums(requested, diagnosed, in-progress, completed, rejected, rework, warranty)
// @Param priority query int false "Filter by priority (1-5)"
// @Param clientId query int false "Filter by client"
// @Param accommodationId query int false "Filter by accommodation"
// @Param assignedTo query int false "Filter by assigned technician"
// @Param slaBreached query bool false "Filter by SLA breach flag"
// @Success 200 {object} domain.PageResponse{data=[]domain.WorkOrder}
// @Failure 401 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /work-orders [get]
func (h *WorkOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage, sort := parseListQuery(r)
	q := r.URL.Query()

	filters := &repository.WorkOrderFilters{
		Search:          q.Get("search"),
		ClientID:        uintQuery(r, "clientId"),
		AccommodationID: uintQuery(r, "accommodationId"),
		AssignedTo:      uintQuery(r, "assignedTo"),
		SLABreached:     boolQuery(r, "slaBreached"),
	}
	if s := q.Get("status"); s != "" {
		st := domain.WorkOrderStatus(s)
		filters.Status = &st
	}
	if p := uintQuery(r, "priority"); p != nil {
		pr := domain.WorkOrderPriority(*p)
		filters.Priority = &pr
	}

	items, pg, err := h.workOrders.List(r.Context(), page, perPage, filters, sort)
	if err != nil {
		h.logger.Error("failed to list work orders", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, pageResponse("Work orders retrieved", items, pg))
}

// Get godoc
// @Summary Get work order by ID
// @Description Returns the work order with its line items, client, accommodation and technician
// @Tags WorkOrders
// @Produce json
// @Param id path int true "Work order ID"
// @Success 200 {object} domain.Response{data=domain.WorkOrder}
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /work-orders/{id} [get]
func (h *WorkOrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid work order ID")
		return
	}

	workOrder, err := h.workOrders.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Work order retrieved", workOrder))
}

// Create godoc
// @Summary Create work order
// @Description Creates a work order. The SLA deadline is derived from the priority.
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param request body domain.CreateWorkOrderRequest true "Work order data"
// @Success 201 {object} domain.Response{data=domain.WorkOrder}
// @Failure 400 {object} domain.Response
// @Failure 404 {object} domain.Response "Client or accommodation not found"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /work-orders [post]
func (h *WorkOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateWorkOrderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	workOrder, err := h.workOrders.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create work order", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, okResponse("Work order created", workOrder))
}

// Update godoc
// @Summary Update work order
// @Description Updates work order fields. A priority change rebases the SLA deadline.
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param id path int true "Work order ID"
// @Param request body domain.UpdateWorkOrderRequest true "Fields to update"
// @Success 200 {object} domain.Response{data=domain.WorkOrder}
// @Failure 400 {object} domain.Response
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /work-orders/{id} [put]
func (h *WorkOrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid work order ID")
		return
	}

	var req domain.UpdateWorkOrderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	workOrder, err := h.workOrders.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Work order updated", workOrder))
}

// Delete godoc
// @Summary Delete work order
// @Tags WorkOrders
// @Produce json
// @Param id path int true "Work order ID"
// @Success 200 {object} domain.Response
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /work-orders/{id} [delete]
func (h *WorkOrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid work order ID")
		return
	}

	if err := h.workOrders.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Work order deleted", nil))
}

// ReopenAsWarranty godoc
// @Summary Reopen a completed work order under warranty
// @Description Moves a completed work order to warranty status with a fresh SLA window
// @Tags WorkOrders
// @Produce json
// @Param id path int true "Work order ID"
// @Success 200 {object} domain.Response{data=domain.WorkOrder}
// @Failure 400 {object} domain.Response "Work order is not completed"
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /work-orders/{id}/warranty [post]
func (h *WorkOrderHandler) ReopenAsWarranty(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid work order ID")
		return
	}

	workOrder, err := h.workOrders.ReopenAsWarranty(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Work order reopened under warranty", workOrder))
}

// AddService godoc
// @Summary Add service line to work order
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param id path int true "Work order ID"
// @Param request body domain.CreateWorkOrderServiceRequest true "Service line data"
// @Success 201 {object} domain.Response{data=domain.WorkOrderService}
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /work-orders/{id}/services [post]
func (h *WorkOrderHandler) AddService(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid work order ID")
		return
	}

	var req domain.CreateWorkOrderServiceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	line, err := h.workOrders.AddService(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, okResponse("Service line added", line))
}

// DeleteService godoc
// @Summary Remove service line from work order
// @Tags WorkOrders
// @Produce json
// @Param id path int true "Work order ID"
// @Param serviceId path int true "Service line ID"
// @Success 200 {object} domain.Response
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /work-orders/{id}/services/{serviceId} [delete]
func (h *WorkOrderHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid work order ID")
		return
	}
	serviceID, err := parseIDParam(r, "serviceId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid service line ID")
		return
	}

	if err := h.workOrders.DeleteService(r.Context(), id, serviceID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Service line removed", nil))
}

// ApproveService godoc
// @Summary Approve or revoke a service line on behalf of the client
// @Description Approval feeds the line into the work order value; revoking removes it
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param id path int true "Work order ID"
// @Param serviceId path int true "Service line ID"
// @Param request body domain.ApproveLineItemRequest true "Approval flag"
// @Success 200 {object} domain.Response{data=domain.WorkOrderService}
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /work-orders/{id}/services/{serviceId}/approve [post]
func (h *WorkOrderHandler) ApproveService(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid work order ID")
		return
	}
	serviceID, err := parseIDParam(r, "serviceId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid service line ID")
		return
	}

	var req domain.ApproveLineItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	line, err := h.workOrders.ApproveService(r.Context(), id, serviceID, req.Approved)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Service line approval updated", line))
}

// AddPart godoc
// @Summary Add part line to work order
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param id path int true "Work order ID"
// @Param request body domain.CreateWorkOrderPartRequest true "Part line data"
// @Success 201 {object} domain.Response{data=domain.WorkOrderPart}
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /work-orders/{id}/parts [post]
func (h *WorkOrderHandler) AddPart(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid work order ID")
		return
	}

	var req domain.CreateWorkOrderPartRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	line, err := h.workOrders.AddPart(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, okResponse("Part line added", line))
}

// DeletePart godoc
// @Summary Remove part line from work order
// @Tags WorkOrders
// @Produce json
// @Param id path int true "Work order ID"
// @Param partId path int true "Part line ID"
// @Success 200 {object} domain.Response
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /work-orders/{id}/parts/{partId} [delete]
func (h *WorkOrderHandler) DeletePart(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid work order ID")
		return
	}
	partID, err := parseIDParam(r, "partId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid part line ID")
		return
	}

	if err := h.workOrders.DeletePart(r.Context(), id, partID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Part line removed", nil))
}

// ApprovePart godoc
// @Summary Approve or revoke a part line on behalf of the client
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param id path int true "Work order ID"
// @Param partId path int true "Part line ID"
// @Param request body domain.ApproveLineItemRequest true "Approval flag"
// @Success 200 {object} domain.Response{data=domain.WorkOrderPart}
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /work-orders/{id}/parts/{partId}/approve [post]
func (h *WorkOrderHandler) ApprovePart(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid work order ID")
		return
	}
	partID, err := parseIDParam(r, "partId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid part line ID")
		return
	}

	var req domain.ApproveLineItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	line, err := h.workOrders.ApprovePart(r.Context(), id, partID, req.Approved)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Part line approval updated", line))
}

// AddAddon godoc
// @Summary Add addon line to work order
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param id path int true "Work order ID"
// @Param request body domain.CreateWorkOrderAddonRequest true "Addon line data"
// @Success 201 {object} domain.Response{data=domain.WorkOrderAddon}
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /work-orders/{id}/addons [post]
func (h *WorkOrderHandler) AddAddon(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid work order ID")
		return
	}

	var req domain.CreateWorkOrderAddonRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	line, err := h.workOrders.AddAddon(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, okResponse("Addon line added", line))
}

// DeleteAddon godoc
// @Summary Remove addon line from work order
// @Tags WorkOrders
// @Produce json
// @Param id path int true "Work order ID"
// @Param addonId path int true "Addon line ID"
// @Success 200 {object} domain.Response
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /work-orders/{id}/addons/{addonId} [delete]
func (h *WorkOrderHandler) DeleteAddon(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid work order ID")
		return
	}
	addonID, err := parseIDParam(r, "addonId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid addon line ID")
		return
	}

	if err := h.workOrders.DeleteAddon(r.Context(), id, addonID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Addon line removed", nil))
}

// ApproveAddon godoc
// @Summary Approve or revoke an addon line on behalf of the client
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param id path int true "Work order ID"
// @Param addonId path int true "Addon line ID"
// @Param request body domain.ApproveLineItemRequest true "Approval flag"
// @Success 200 {object} domain.Response{data=domain.WorkOrderAddon}
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /work-orders/{id}/addons/{addonId}/approve [post]
func (h *WorkOrderHandler) ApproveAddon(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid work order ID")
		return
	}
	addonID, err := parseIDParam(r, "addonId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid addon line ID")
		return
	}

	var req domain.ApproveLineItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	line, err := h.workOrders.ApproveAddon(r.Context(), id, addonID, req.Approved)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Addon line approval updated", line))
}
