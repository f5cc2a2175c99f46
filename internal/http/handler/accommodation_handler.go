package handler

import (
	"net/http"

	"github.com/norvik-group/facility-api/internal/domain"
	"github.com/norvik-group/facility-api/internal/repository"
	"github.com/norvik-group/facility-api/internal/service"
	"go.uber.org/zap"
)

// AccommodationHandler handles HTTP requests for accommodation operations
type AccommodationHandler struct {
	accommodations *service.AccommodationService
	logger         *zap.Logger
}

// NewAccommodationHandler creates a new accommodation handler instance
func NewAccommodationHandler(accommodations *service.AccommodationService, logger *zap.Logger) *AccommodationHandler {
	return &AccommodationHandler{accommodations: accommodations, logger: logger}
}

// List godoc
// @Summary List accommodations
// @Description Get paginated list of accommodations with optional filters
// @Tags Accommodations
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param perPage query int false "Items per page (max 200)" default(20)
// @Param search query string false "Search by name or address"
// @Param city query string false "Filter by city"
// @Param type query string false "Filter by type" Enums(apartment, house, barrack, hotel)
// @Param status query string false "Filter by status" Enums(available, occupied, maintenance, retired)
// @Param clientId query int false "Filter by client"
// @Param sortBy query string false "Sort field"
// @Param sortOrder query string false "Sort order" Enums(asc, desc) default(desc)
// @Success 200 {object} domain.PageResponse{data=[]domain.Accommodation}
// @Failure 401 {object} domain.Response
// @Failure 403 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /accommodations [get]
func (h *AccommodationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage, sort := parseListQuery(r)
	q := r.URL.Query()

	filters := &repository.AccommodationFilters{
		Search:   q.Get("search"),
		City:     q.Get("city"),
		ClientID: uintQuery(r, "clientId"),
	}
	if t := q.Get("type"); t != "" {
		at := domain.AccommodationType(t)
		filters.Type = &at
	}
	if s := q.Get("status"); s != "" {
		st := domain.AccommodationStatus(s)
		filters.Status = &st
	}

	items, pg, err := h.accommodations.List(r.Context(), page, perPage, filters, sort)
	if err != nil {
		h.logger.Error("failed to list accommodations", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, pageResponse("Accommodations retrieved", items, pg))
}

// Get godoc
// @Summary Get accommodation by ID
// @Tags Accommodations
// @Produce json
// @Param id path int true "Accommodation ID"
// @Success 200 {object} domain.Response{data=domain.Accommodation}
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /accommodations/{id} [get]
func (h *AccommodationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid accommodation ID")
		return
	}

	accommodation, err := h.accommodations.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Accommodation retrieved", accommodation))
}

// Create godoc
// @Summary Create accommodation
// @Tags Accommodations
// @Accept json
// @Produce json
// @Param request body domain.CreateAccommodationRequest true "Accommodation data"
// @Success 201 {object} domain.Response{data=domain.Accommodation}
// @Failure 400 {object} domain.Response
// @Failure 403 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /accommodations [post]
func (h *AccommodationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateAccommodationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	accommodation, err := h.accommodations.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create accommodation", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, okResponse("Accommodation created", accommodation))
}

// Update godoc
// @Summary Update accommodation
// @Tags Accommodations
// @Accept json
// @Produce json
// @Param id path int true "Accommodation ID"
// @Param request body domain.UpdateAccommodationRequest true "Fields to update"
// @Success 200 {object} domain.Response{data=domain.Accommodation}
// @Failure 400 {object} domain.Response
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /accommodations/{id} [put]
func (h *AccommodationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid accommodation ID")
		return
	}

	var req domain.UpdateAccommodationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	accommodation, err := h.accommodations.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Accommodation updated", accommodation))
}

// Delete godoc
// @Summary Delete accommodation
// @Tags Accommodations
// @Produce json
// @Param id path int true "Accommodation ID"
// @Success 200 {object} domain.Response
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /accommodations/{id} [delete]
func (h *AccommodationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid accommodation ID")
		return
	}

	if err := h.accommodations.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Accommodation deleted", nil))
}
