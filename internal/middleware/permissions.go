package middleware

import (
	"net/http"

	"salon_crm_backend/internal/models"
	"salon_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Capability names a guarded group of operations.
type Capability string

const (
	CapManageCustomers    Capability = "customers:manage"
	CapManageCatalog      Capability = "catalog:manage"
	CapManageUsers        Capability = "users:manage"
	CapManageAppointments Capability = "appointments:manage"
	CapViewReports        Capability = "reports:view"
)

var rolePermissions = map[string]map[Capability]bool{
	models.RoleAdmin: {
		CapManageCustomers:    true,
		CapManageCatalog:      true,
		CapManageUsers:        true,
		CapManageAppointments: true,
		CapViewReports:        true,
	},
	models.RoleStaff: {},
}

// HasCapability reports whether role grants capability.
func HasCapability(role string, capability Capability) bool {
	return rolePermissions[role][capability]
}

// RequireCapability rejects callers whose role lacks capability. It must run after AuthMiddleware.
func RequireCapability(capability Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Not authenticated", ""))
			return
		}
		if !HasCapability(principal.Role, capability) {
			utils.LogWarn("Permission denied", map[string]interface{}{
				"user_id":    principal.UserID,
				"role":       principal.Role,
				"capability": string(capability),
				"path":       c.FullPath(),
			})
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden,
				"You do not have permission to access this resource", "Requires "+string(capability)))
			return
		}
		c.Next()
	}
}
