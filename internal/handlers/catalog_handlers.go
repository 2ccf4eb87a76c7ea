package handlers

import (
	"net/http"

	"salon_crm_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the salon service catalogue.
type CatalogHandler struct {
	catalogService services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(cs services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: cs}
}

func (h *CatalogHandler) CreateService(c *gin.Context) {
	var req services.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	service, err := h.catalogService.CreateService(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Failed to create service.")
		return
	}
	c.JSON(http.StatusCreated, service)
}

func (h *CatalogHandler) GetServices(c *gin.Context) {
	list, err := h.catalogService.GetServices(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to fetch services.")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *CatalogHandler) GetServiceByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	service, err := h.catalogService.GetServiceByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch service.")
		return
	}
	c.JSON(http.StatusOK, service)
}

func (h *CatalogHandler) UpdateService(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	service, err := h.catalogService.UpdateService(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err, "Failed to update service.")
		return
	}
	c.JSON(http.StatusOK, service)
}

func (h *CatalogHandler) DeleteService(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteService(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Failed to delete service.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}
