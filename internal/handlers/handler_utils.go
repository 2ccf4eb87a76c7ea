package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"salon_crm_backend/internal/services"
	"salon_crm_backend/internal/validation"
	"salon_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// parseIDParam reads a positive integer path parameter, responding 400 when it is malformed.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := utils.ParsePositiveID(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid "+name+" parameter", err.Error()))
		return 0, false
	}
	return id, true
}

// parsePage reads skip/limit query parameters with defaults 0 and 100.
func parsePage(c *gin.Context) (int, int, bool) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		utils.RespondValidationFailed(c, "skip must be a non-negative integer")
		return 0, 0, false
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit < 1 || limit > 500 {
		utils.RespondValidationFailed(c, "limit must be between 1 and 500")
		return 0, 0, false
	}
	return skip, limit, true
}

// respondBindError reports a request body or query that failed to bind.
func respondBindError(c *gin.Context, err error) {
	utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload", validation.Describe(err)))
}

// respondServiceError maps service sentinels onto the API error envelope.
// Anything unrecognised is logged and reported as 500 with message.
func respondServiceError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, services.ErrCustomerNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Customer not found", err.Error()))
	case errors.Is(err, services.ErrServiceNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Service not found", err.Error()))
	case errors.Is(err, services.ErrUserNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "User not found", err.Error()))
	case errors.Is(err, services.ErrStaffNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Staff member not found", err.Error()))
	case errors.Is(err, services.ErrAppointmentNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Appointment not found", err.Error()))
	case errors.Is(err, services.ErrInvalidServiceReference):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeInvalidReference, "One or more services were not found", err.Error()))
	case errors.Is(err, services.ErrEmailExists), errors.Is(err, services.ErrCustomerEmailExists):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Email already registered", err.Error()))
	case errors.Is(err, services.ErrServiceInUse):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Service is still in use", err.Error()))
	case errors.Is(err, services.ErrCannotDeleteSelf):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Cannot delete your own account", err.Error()))
	case errors.Is(err, services.ErrValidation):
		utils.RespondValidationFailed(c, err.Error())
	default:
		utils.LogError(err, message)
		utils.RespondInternalError(c, message)
	}
}
