package handler

import (
	"net/http"

	"github.com/norvik-group/facility-api/internal/domain"
	"github.com/norvik-group/facility-api/internal/repository"
	"github.com/norvik-group/facility-api/internal/service"
	"go.uber.org/zap"
)

// UserHandler handles HTTP requests for user and role administration
type UserHandler struct {
	users  *service.UserService
	logger *zap.Logger
}

// NewUserHandler creates a new user handler instance
func NewUserHandler(users *service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// List godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param perPage query int false "Items per page (max 200)" default(20)
// @Param search query string false "Search by name or email"
// @Param roleId query int false "Filter by role"
// @Param isActive query bool false "Filter by active flag"
// @Success 200 {object} domain.PageResponse{data=[]domain.User}
// @Failure 401 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /users [get]
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage, sort := parseListQuery(r)
	q := r.URL.Query()

	filters := &repository.UserFilters{
		Search:   q.Get("search"),
		RoleID:   uintQuery(r, "roleId"),
		IsActive: boolQuery(r, "isActive"),
	}

	items, pg, err := h.users.ListUsers(r.Context(), page, perPage, filters, sort)
	if err != nil {
		h.logger.Error("failed to list users", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, pageResponse("Users retrieved", items, pg))
}

// Get godoc
// @Summary Get user by ID
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} domain.Response{data=domain.User}
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /users/{id} [get]
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	user, err := h.users.GetUser(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("User retrieved", user))
}

// Create godoc
// @Summary Create user
// @Tags Users
// @Accept json
// @Produce json
// @Param request body domain.CreateUserRequest true "User data"
// @Success 201 {object} domain.Response{data=domain.User}
// @Failure 400 {object} domain.Response
// @Failure 409 {object} domain.Response "Duplicate email"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /users [post]
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.CreateUser(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create user", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, okResponse("User created", user))
}

// Update godoc
// @Summary Update user
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body domain.UpdateUserRequest true "Fields to update"
// @Success 200 {object} domain.Response{data=domain.User}
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /users/{id} [put]
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req domain.UpdateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.UpdateUser(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("User updated", user))
}

// Delete godoc
// @Summary Delete user
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} domain.Response
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := h.users.DeleteUser(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("User deleted", nil))
}

// ListRoles godoc
// @Summary List roles with their module permissions
// @Tags Roles
// @Produce json
// @Success 200 {object} domain.Response{data=[]domain.Role}
// @Failure 401 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /roles [get]
func (h *UserHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.users.ListRoles(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Roles retrieved", roles))
}

// GetRole godoc
// @Summary Get role by ID
// @Tags Roles
// @Produce json
// @Param id path int true "Role ID"
// @Success 200 {object} domain.Response{data=domain.Role}
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /roles/{id} [get]
func (h *UserHandler) GetRole(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid role ID")
		return
	}

	role, err := h.users.GetRole(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Role retrieved", role))
}

// CreateRole godoc
// @Summary Create role
// @Description Creates a role with per-module capability grants
// @Tags Roles
// @Accept json
// @Produce json
// @Param request body domain.CreateRoleRequest true "Role data"
// @Success 201 {object} domain.Response{data=domain.Role}
// @Failure 400 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /roles [post]
func (h *UserHandler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateRoleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	role, err := h.users.CreateRole(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create role", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, okResponse("Role created", role))
}

// UpdateRole godoc
// @Summary Update role
// @Description Updates role fields; supplied permissions replace the existing grant set
// @Tags Roles
// @Accept json
// @Produce json
// @Param id path int true "Role ID"
// @Param request body domain.UpdateRoleRequest true "Fields to update"
// @Success 200 {object} domain.Response{data=domain.Role}
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /roles/{id} [put]
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid role ID")
		return
	}

	var req domain.UpdateRoleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	role, err := h.users.UpdateRole(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Role updated", role))
}

// DeleteRole godoc
// @Summary Delete role
// @Tags Roles
// @Produce json
// @Param id path int true "Role ID"
// @Success 200 {object} domain.Response
// @Failure 404 {object} domain.Response
// @Failure 409 {object} domain.Response "Role still assigned to users"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /roles/{id} [delete]
func (h *UserHandler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid role ID")
		return
	}

	if err := h.users.DeleteRole(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Role deleted", nil))
}
