package handler

import (
	"net/http"

	"github.com/norvik-group/facility-api/internal/auth"
	"github.com/norvik-group/facility-api/internal/domain"
	"github.com/norvik-group/facility-api/internal/repository"
	"go.uber.org/zap"
)

// AuthHandler exposes the caller's identity and mints session tokens.
// Token minting is reserved for API-key callers; user identity is
// established upstream.
type AuthHandler struct {
	users     *repository.UserRepository
	validator *auth.JWTValidator
	logger    *zap.Logger
}

// NewAuthHandler creates a new auth handler instance
func NewAuthHandler(users *repository.UserRepository, validator *auth.JWTValidator, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, validator: validator, logger: logger}
}

// Me godoc
// @Summary Get the authenticated caller
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.Response{data=domain.User}
// @Failure 401 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	uc := auth.GetUserContext(r.Context())
	if uc == nil {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if uc.IsService {
		respondJSON(w, http.StatusOK, okResponse("Service caller", map[string]interface{}{
			"displayName": uc.DisplayName,
			"email":       uc.Email,
			"service":     true,
		}))
		return
	}

	user, err := h.users.GetByID(r.Context(), uc.UserID)
	if err != nil {
		h.logger.Error("failed to load authenticated user",
			zap.Uint("userId", uc.UserID),
			zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to load user")
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Authenticated user", user))
}

// IssueToken godoc
// @Summary Mint a session token for a user
// @Description Service endpoint: exchanges a verified user email for a signed bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.IssueTokenRequest true "User email"
// @Success 200 {object} domain.Response
// @Failure 403 {object} domain.Response "Only API-key callers may mint tokens"
// @Failure 404 {object} domain.Response
// @Security ApiKeyAuth
// @Router /auth/token [post]
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	uc := auth.GetUserContext(r.Context())
	if uc == nil || !uc.IsService {
		respondError(w, http.StatusForbidden, "Only API-key callers may mint tokens")
		return
	}

	var req domain.IssueTokenRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		h.logger.Error("failed to look up user for token", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to look up user")
		return
	}
	if user == nil || !user.IsActive {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	token, err := h.validator.IssueToken(&auth.UserContext{
		UserID:      user.ID,
		RoleID:      user.RoleID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	})
	if err != nil {
		h.logger.Error("failed to issue token", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	if err := h.users.TouchLastLogin(r.Context(), user.ID); err != nil {
		h.logger.Warn("failed to update last login", zap.Uint("userId", user.ID), zap.Error(err))
	}

	respondJSON(w, http.StatusOK, okResponse("Token issued", map[string]string{"token": token}))
}
