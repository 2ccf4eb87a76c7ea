package handlers

import (
	"errors"
	"net/http"

	"salon_crm_backend/internal/metrics"
	"salon_crm_backend/internal/middleware"
	"salon_crm_backend/internal/services"
	"salon_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service.
type AuthHandler struct {
	authService services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as services.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

// Login accepts form fields username/password or a JSON body {email, password}.
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			metrics.RecordLogin("invalid")
			c.Header("WWW-Authenticate", "Bearer")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Incorrect email or password", ""))
		case errors.Is(err, services.ErrUserInactive):
			metrics.RecordLogin("inactive")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "User account is inactive", ""))
		default:
			utils.LogError(err, "Login: Error from authService.Login")
			utils.RespondInternalError(c, "Login failed.")
		}
		return
	}

	metrics.RecordLogin("success")
	c.JSON(http.StatusOK, token)
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Not authenticated", ""))
		return
	}

	user, err := h.authService.GetCurrentUser(c.Request.Context(), principal.UserID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User no longer exists", ""))
			return
		}
		respondServiceError(c, err, "Failed to load current user.")
		return
	}
	c.JSON(http.StatusOK, user)
}
