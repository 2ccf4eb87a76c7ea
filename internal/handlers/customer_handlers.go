package handlers

import (
	"net/http"

	"salon_crm_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// CustomerHandler holds the customer service.
type CustomerHandler struct {
	customerService services.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(cs services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: cs}
}

// CreateCustomer handles the creation of a new customer.
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req services.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Failed to create customer.")
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// GetCustomers lists customers with skip/limit pagination.
func (h *CustomerHandler) GetCustomers(c *gin.Context) {
	skip, limit, ok := parsePage(c)
	if !ok {
		return
	}

	customers, err := h.customerService.GetCustomers(c.Request.Context(), skip, limit)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch customers.")
		return
	}
	c.JSON(http.StatusOK, customers)
}

// GetCustomerByID handles fetching a single customer.
func (h *CustomerHandler) GetCustomerByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.GetCustomerByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch customer.")
		return
	}
	c.JSON(http.StatusOK, customer)
}

// GetCustomerProfile returns the customer with visit statistics and history.
func (h *CustomerHandler) GetCustomerProfile(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	profile, err := h.customerService.GetCustomerProfile(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch customer profile.")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateCustomer handles updating an existing customer.
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err, "Failed to update customer.")
		return
	}
	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer handles deleting a customer and, by cascade, their appointments.
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.customerService.DeleteCustomer(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Failed to delete customer.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}
