package handlers

import (
	"net/http"

	"salon_crm_backend/internal/models"
	"salon_crm_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// AppointmentHandler holds the appointment service.
type AppointmentHandler struct {
	appointmentService services.AppointmentService
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(as services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: as}
}

func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req services.AppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	appointment, err := h.appointmentService.CreateAppointment(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Failed to create appointment.")
		return
	}
	c.JSON(http.StatusCreated, appointment)
}

// GetAppointments lists appointments; supports customer_id, staff_id, status,
// date_from, date_to, skip and limit query parameters.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	filters := models.AppointmentFilters{Limit: 100}
	if err := c.ShouldBindQuery(&filters); err != nil {
		respondBindError(c, err)
		return
	}

	appointments, err := h.appointmentService.GetAppointments(c.Request.Context(), filters)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch appointments.")
		return
	}
	c.JSON(http.StatusOK, appointments)
}

func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	appointment, err := h.appointmentService.GetAppointmentByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch appointment.")
		return
	}
	c.JSON(http.StatusOK, appointment)
}

func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.AppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	appointment, err := h.appointmentService.UpdateAppointment(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err, "Failed to update appointment.")
		return
	}
	c.JSON(http.StatusOK, appointment)
}

// UpdateAppointmentStatus reads status, payment_status and date from a JSON
// body when one is sent, otherwise from the query string.
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.StatusUpdateRequest
	var err error
	if c.ContentType() == binding.MIMEJSON && c.Request.ContentLength != 0 {
		err = c.ShouldBindJSON(&req)
	} else {
		err = c.ShouldBindQuery(&req)
	}
	if err != nil {
		respondBindError(c, err)
		return
	}

	appointment, err := h.appointmentService.UpdateAppointmentStatus(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err, "Failed to update appointment status.")
		return
	}
	c.JSON(http.StatusOK, appointment)
}

func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.appointmentService.DeleteAppointment(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Failed to delete appointment.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment deleted successfully"})
}
