package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"salon_crm_backend/internal/models"
	"salon_crm_backend/internal/services"
	"salon_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID    = "userID"
	ContextUserEmail = "userEmail"
	ContextUserRole  = "userRole"
)

// Principal is the authenticated caller.
type Principal struct {
	UserID int64
	Email  string
	Role   string
}

// UserLookup loads the account a token was issued to.
type UserLookup interface {
	GetCurrentUser(ctx context.Context, userID int64) (*models.User, error)
}

// AuthMiddleware creates a Gin middleware for JWT bearer authentication.
// The token only identifies the user; role and status come from the stored account.
func AuthMiddleware(tokens *utils.TokenManager, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Header("WWW-Authenticate", "Bearer")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authorization header required", ""))
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.Header("WWW-Authenticate", "Bearer")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid authorization header format. Use Bearer <token>", ""))
			return
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			utils.LogDebug("Rejected bearer token", map[string]interface{}{"reason": err.Error()})
			c.Header("WWW-Authenticate", "Bearer")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Could not validate credentials", "Invalid or expired token"))
			return
		}

		user, err := users.GetCurrentUser(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				c.Header("WWW-Authenticate", "Bearer")
				utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Could not validate credentials", "User no longer exists"))
				return
			}
			utils.LogError(err, "AuthMiddleware: failed to load user")
			utils.RespondInternalError(c, "Failed to authenticate request.")
			return
		}
		if !user.IsActive() {
			c.Header("WWW-Authenticate", "Bearer")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User account is inactive", ""))
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUserEmail, user.Email)
		c.Set(ContextUserRole, user.Role)

		c.Next()
	}
}

// GetPrincipal returns the caller stored by AuthMiddleware.
func GetPrincipal(c *gin.Context) (Principal, bool) {
	id, ok := c.Get(ContextUserID)
	if !ok {
		return Principal{}, false
	}
	userID, ok := id.(int64)
	if !ok {
		return Principal{}, false
	}
	return Principal{
		UserID: userID,
		Email:  c.GetString(ContextUserEmail),
		Role:   c.GetString(ContextUserRole),
	}, true
}
