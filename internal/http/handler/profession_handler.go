package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/norvik-group/facility-api/internal/domain"
	"github.com/norvik-group/facility-api/internal/service"
	"go.uber.org/zap"
)

// ProfessionHandler handles HTTP requests for the profession rate registry
type ProfessionHandler struct {
	professions *service.ProfessionService
	logger      *zap.Logger
}

// NewProfessionHandler creates a new profession handler instance
func NewProfessionHandler(professions *service.ProfessionService, logger *zap.Logger) *ProfessionHandler {
	return &ProfessionHandler{professions: professions, logger: logger}
}

// List godoc
// @Summary List professions
// @Tags Professions
// @Produce json
// @Success 200 {object} domain.Response{data=[]domain.Profession}
// @Failure 401 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /professions [get]
func (h *ProfessionHandler) List(w http.ResponseWriter, r *http.Request) {
	professions, err := h.professions.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Professions retrieved", professions))
}

// Get godoc
// @Summary Get profession by name
// @Tags Professions
// @Produce json
// @Param name path string true "Profession name"
// @Success 200 {object} domain.Response{data=domain.Profession}
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /professions/{name} [get]
func (h *ProfessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		respondError(w, http.StatusBadRequest, "Profession name is required")
		return
	}

	profession, err := h.professions.Get(r.Context(), name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Profession retrieved", profession))
}

// Upsert godoc
// @Summary Create or update a profession
// @Description Registers a profession with its hourly rate; existing names are updated in place
// @Tags Professions
// @Accept json
// @Produce json
// @Param request body domain.UpsertProfessionRequest true "Profession data"
// @Success 200 {object} domain.Response{data=domain.Profession}
// @Failure 400 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /professions [put]
func (h *ProfessionHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req domain.UpsertProfessionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	profession, err := h.professions.Upsert(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to upsert profession", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Profession saved", profession))
}

// Delete godoc
// @Summary Delete profession
// @Tags Professions
// @Produce json
// @Param name path string true "Profession name"
// @Success 200 {object} domain.Response
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /professions/{name} [delete]
func (h *ProfessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		respondError(w, http.StatusBadRequest, "Profession name is required")
		return
	}

	if err := h.professions.Delete(r.Context(), name); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Profession deleted", nil))
}
