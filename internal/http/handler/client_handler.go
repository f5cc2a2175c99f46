package handler

import (
	"net/http"

	"github.com/norvik-group/facility-api/internal/domain"
	"github.com/norvik-group/facility-api/internal/repository"
	"github.com/norvik-group/facility-api/internal/service"
	"go.uber.org/zap"
)

// ClientHandler handles HTTP requests for client operations
type ClientHandler struct {
	clients *service.ClientService
	logger  *zap.Logger
}

// NewClientHandler creates a new client handler instance
func NewClientHandler(clients *service.ClientService, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{clients: clients, logger: logger}
}

// List godoc
// @Summary List clients
// @Tags Clients
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param perPage query int false "Items per page (max 200)" default(20)
// @Param search query string false "Search by name or organization number"
// @Param city query string false "Filter by city"
// @Param isActive query bool false "Filter by active flag"
// @Success 200 {object} domain.PageResponse{data=[]domain.Client}
// @Failure 401 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /clients [get]
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage, sort := parseListQuery(r)
	q := r.URL.Query()

	filters := &repository.ClientFilters{
		Search:   q.Get("search"),
		City:     q.Get("city"),
		IsActive: boolQuery(r, "isActive"),
	}

	items, pg, err := h.clients.List(r.Context(), page, perPage, filters, sort)
	if err != nil {
		h.logger.Error("failed to list clients", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, pageResponse("Clients retrieved", items, pg))
}

// Get godoc
// @Summary Get client by ID
// @Description Returns the client including its pricing rules
// @Tags Clients
// @Produce json
// @Param id path int true "Client ID"
// @Success 200 {object} domain.Response{data=domain.Client}
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /clients/{id} [get]
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid client ID")
		return
	}

	client, err := h.clients.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Client retrieved", client))
}

// Create godoc
// @Summary Create client
// @Tags Clients
// @Accept json
// @Produce json
// @Param request body domain.CreateClientRequest true "Client data"
// @Success 201 {object} domain.Response{data=domain.Client}
// @Failure 400 {object} domain.Response
// @Failure 409 {object} domain.Response "Duplicate organization number"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /clients [post]
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateClientRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	client, err := h.clients.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create client", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, okResponse("Client created", client))
}

// Update godoc
// @Summary Update client
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path int true "Client ID"
// @Param request body domain.UpdateClientRequest true "Fields to update"
// @Success 200 {object} domain.Response{data=domain.Client}
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /clients/{id} [put]
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid client ID")
		return
	}

	var req domain.UpdateClientRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	client, err := h.clients.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Client updated", client))
}

// Delete godoc
// @Summary Delete client
// @Description Deletes the client and its pricing rules
// @Tags Clients
// @Produce json
// @Param id path int true "Client ID"
// @Success 200 {object} domain.Response
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /clients/{id} [delete]
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid client ID")
		return
	}

	if err := h.clients.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Client deleted", nil))
}
