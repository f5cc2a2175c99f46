package handler

import (
	"net/http"

	"github.com/norvik-group/facility-api/internal/service"
	"go.uber.org/zap"
)

// DashboardHandler handles HTTP requests for dashboard summaries
type DashboardHandler struct {
	dashboard *service.DashboardService
	logger    *zap.Logger
}

// NewDashboardHandler creates a new dashboard handler instance
func NewDashboardHandler(dashboard *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, logger: logger}
}

// Summary godoc
// @Summary Get dashboard summary
// @Description Aggregated counts and totals across work orders, payments, suppliers, clients and accommodations
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.Response{data=domain.DashboardSummary}
// @Failure 401 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /dashboard/summary [get]
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dashboard.Summary(r.Context())
	if err != nil {
		h.logger.Error("failed to build dashboard summary", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Dashboard summary", summary))
}

// WorkOrdersByStatus godoc
// @Summary Get work order counts grouped by status
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.Response{data=[]domain.WorkOrderStatusCount}
// @Failure 401 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /dashboard/work-orders-by-status [get]
func (h *DashboardHandler) WorkOrdersByStatus(w http.ResponseWriter, r *http.Request) {
	counts, err := h.dashboard.WorkOrdersByStatus(r.Context())
	if err != nil {
		h.logger.Error("failed to count work orders by status", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Work order status counts", counts))
}
