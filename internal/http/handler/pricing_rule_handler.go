package handler

import (
	"net/http"

	"github.com/norvik-group/facility-api/internal/domain"
	"github.com/norvik-group/facility-api/internal/repository"
	"github.com/norvik-group/facility-api/internal/service"
	"go.uber.org/zap"
)

// PricingRuleHandler handles HTTP requests for client pricing rules
type PricingRuleHandler struct {
	rules  *service.PricingRuleService
	logger *zap.Logger
}

// NewPricingRuleHandler creates a new pricing rule handler instance
func NewPricingRuleHandler(rules *service.PricingRuleService, logger *zap.Logger) *PricingRuleHandler {
	return &PricingRuleHandler{rules: rules, logger: logger}
}

// List godoc
// @Summary List pricing rules
// @Tags PricingRules
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param perPage query int false "Items per page (max 200)" default(20)
// @Param clientId query int false "Filter by client"
// @Param serviceCategory query string false "Filter by service category"
// @Param ruleType query string false "Filter by rule type" Enums(discount, markup)
// @Param isActive query bool false "Filter by active flag"
// @Success 200 {object} domain.PageResponse{data=[]domain.PricingRule}
// @Failure 401 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /pricing-rules [get]
func (h *PricingRuleHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage, sort := parseListQuery(r)
	q := r.URL.Query()

	filters := &repository.PricingRuleFilters{
		ClientID:        uintQuery(r, "clientId"),
		ServiceCategory: q.Get("serviceCategory"),
		IsActive:        boolQuery(r, "isActive"),
	}
	if rt := q.Get("ruleType"); rt != "" {
		t := domain.PricingRuleType(rt)
		filters.RuleType = &t
	}

	items, pg, err := h.rules.List(r.Context(), page, perPage, filters, sort)
	if err != nil {
		h.logger.Error("failed to list pricing rules", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, pageResponse("Pricing rules retrieved", items, pg))
}

// Get godoc
// @Summary Get pricing rule by ID
// @Tags PricingRules
// @Produce json
// @Param id path int true "Pricing rule ID"
// @Success 200 {object} domain.Response{data=domain.PricingRule}
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /pricing-rules/{id} [get]
func (h *PricingRuleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid pricing rule ID")
		return
	}

	rule, err := h.rules.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Pricing rule retrieved", rule))
}

// Create godoc
// @Summary Create pricing rule
// @Description Create a discount or markup rule for a client's service category
// @Tags PricingRules
// @Accept json
// @Produce json
// @Param request body domain.CreatePricingRuleRequest true "Pricing rule data"
// @Success 201 {object} domain.Response{data=domain.PricingRule}
// @Failure 400 {object} domain.Response
// @Failure 404 {object} domain.Response "Client not found"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /pricing-rules [post]
func (h *PricingRuleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePricingRuleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rule, err := h.rules.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create pricing rule", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, okResponse("Pricing rule created", rule))
}

// Update godoc
// @Summary Update pricing rule
// @Tags PricingRules
// @Accept json
// @Produce json
// @Param id path int true "Pricing rule ID"
// @Param request body domain.UpdatePricingRuleRequest true "Fields to update"
// @Success 200 {object} domain.Response{data=domain.PricingRule}
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /pricing-rules/{id} [put]
func (h *PricingRuleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid pricing rule ID")
		return
	}

	var req domain.UpdatePricingRuleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rule, err := h.rules.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Pricing rule updated", rule))
}

// Delete godoc
// @Summary Delete pricing rule
// @Tags PricingRules
// @Produce json
// @Param id path int true "Pricing rule ID"
// @Success 200 {object} domain.Response
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /pricing-rules/{id} [delete]
func (h *PricingRuleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid pricing rule ID")
		return
	}

	if err := h.rules.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Pricing rule deleted", nil))
}
