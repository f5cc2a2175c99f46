package handler

import (
	"net/http"

	"github.com/norvik-group/facility-api/internal/domain"
	"github.com/norvik-group/facility-api/internal/repository"
	"github.com/norvik-group/facility-api/internal/service"
	"go.uber.org/zap"
)

// AssetHandler handles HTTP requests for asset and equipment operations
type AssetHandler struct {
	assets *service.AssetService
	logger *zap.Logger
}

// NewAssetHandler creates a new asset handler instance
func NewAssetHandler(assets *service.AssetService, logger *zap.Logger) *AssetHandler {
	return &AssetHandler{assets: assets, logger: logger}
}

// List godoc
// @Summary List assets
// @Tags Assets
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param perPage query int false "Items per page (max 200)" default(20)
// @Param search query string false "Search by name or serial number"
// @Param category query string false "Filter by category"
// @Param status query string false "Filter by status" Enums(operational, maintenance, broken, retired)
// @Param accommodationId query int false "Filter by accommodation"
// @Success 200 {object} domain.PageResponse{data=[]domain.Asset}
// @Failure 401 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /assets [get]
func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage, sort := parseListQuery(r)
	q := r.URL.Query()

	filters := &repository.AssetFilters{
		Search:          q.Get("search"),
		Category:        q.Get("category"),
		AccommodationID: uintQuery(r, "accommodationId"),
	}
	if s := q.Get("status"); s != "" {
		st := domain.AssetStatus(s)
		filters.Status = &st
	}

	items, pg, err := h.assets.List(r.Context(), page, perPage, filters, sort)
	if err != nil {
		h.logger.Error("failed to list assets", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, pageResponse("Assets retrieved", items, pg))
}

// Get godoc
// @Summary Get asset by ID
// @Tags Assets
// @Produce json
// @Param id path int true "Asset ID"
// @Success 200 {object} domain.Response{data=domain.Asset}
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /assets/{id} [get]
func (h *AssetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid asset ID")
		return
	}

	asset, err := h.assets.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Asset retrieved", asset))
}

// Create godoc
// @Summary Create asset
// @Tags Assets
// @Accept json
// @Produce json
// @Param request body domain.CreateAssetRequest true "Asset data"
// @Success 201 {object} domain.Response{data=domain.Asset}
// @Failure 400 {object} domain.Response
// @Failure 409 {object} domain.Response "Duplicate serial number"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /assets [post]
func (h *AssetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateAssetRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	asset, err := h.assets.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create asset", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, okResponse("Asset created", asset))
}

// Update godoc
// @Summary Update asset
// @Tags Assets
// @Accept json
// @Produce json
// @Param id path int true "Asset ID"
// @Param request body domain.UpdateAssetRequest true "Fields to update"
// @Success 200 {object} domain.Response{data=domain.Asset}
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /assets/{id} [put]
func (h *AssetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid asset ID")
		return
	}

	var req domain.UpdateAssetRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	asset, err := h.assets.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Asset updated", asset))
}

// Delete godoc
// @Summary Delete asset
// @Tags Assets
// @Produce json
// @Param id path int true "Asset ID"
// @Success 200 {object} domain.Response
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /assets/{id} [delete]
func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid asset ID")
		return
	}

	if err := h.assets.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Asset deleted", nil))
}
