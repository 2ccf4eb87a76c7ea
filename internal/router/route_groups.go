package router

import (
	"salon_crm_backend/internal/handlers"
	"salon_crm_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupCustomerRoutes sets up the customer routes. Any signed-in user may
// create and read customers; changes and removal need customers:manage.
func SetupCustomerRoutes(authenticatedGroup *gin.RouterGroup, customerHandler *handlers.CustomerHandler) {
	customerRoutes := authenticatedGroup.Group("/customers")
	{
		customerRoutes.POST("", customerHandler.CreateCustomer)
		customerRoutes.GET("", customerHandler.GetCustomers)
		customerRoutes.GET("/:id", customerHandler.GetCustomerByID)
		customerRoutes.GET("/:id/profile", customerHandler.GetCustomerProfile)

		manage := customerRoutes.Group("")
		manage.Use(middleware.RequireCapability(middleware.CapManageCustomers))
		manage.PUT("/:id", customerHandler.UpdateCustomer)
		manage.DELETE("/:id", customerHandler.DeleteCustomer)
	}
}

// SetupServiceRoutes sets up the service catalogue routes.
func SetupServiceRoutes(authenticatedGroup *gin.RouterGroup, catalogHandler *handlers.CatalogHandler) {
	serviceRoutes := authenticatedGroup.Group("/services")
	{
		serviceRoutes.GET("", catalogHandler.GetServices)
		serviceRoutes.GET("/:id", catalogHandler.GetServiceByID)

		manage := serviceRoutes.Group("")
		manage.Use(middleware.RequireCapability(middleware.CapManageCatalog))
		manage.POST("", catalogHandler.CreateService)
		manage.PUT("/:id", catalogHandler.UpdateService)
		manage.DELETE("/:id", catalogHandler.DeleteService)
	}
}

// SetupUserRoutes sets up the staff account routes.
func SetupUserRoutes(authenticatedGroup *gin.RouterGroup, userHandler *handlers.UserHandler) {
	userRoutes := authenticatedGroup.Group("/users")
	userRoutes.Use(middleware.RequireCapability(middleware.CapManageUsers))
	{
		userRoutes.POST("", userHandler.CreateUser)
		userRoutes.GET("", userHandler.GetUsers)
		userRoutes.GET("/:id", userHandler.GetUserByID)
		userRoutes.PUT("/:id", userHandler.UpdateUser)
		userRoutes.DELETE("/:id", userHandler.DeleteUser)
	}
}

// SetupAppointmentRoutes sets up the appointment routes.
func SetupAppointmentRoutes(authenticatedGroup *gin.RouterGroup, appointmentHandler *handlers.AppointmentHandler) {
	appointmentRoutes := authenticatedGroup.Group("/appointments")
	{
		appointmentRoutes.POST("", appointmentHandler.CreateAppointment)
		appointmentRoutes.GET("", appointmentHandler.GetAppointments)
		appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)

		manage := appointmentRoutes.Group("")
		manage.Use(middleware.RequireCapability(middleware.CapManageAppointments))
		manage.PUT("/:id", appointmentHandler.UpdateAppointment)
		manage.PUT("/:id/status", appointmentHandler.UpdateAppointmentStatus)
		manage.DELETE("/:id", appointmentHandler.DeleteAppointment)
	}
}

// SetupDashboardRoutes sets up the reporting routes.
func SetupDashboardRoutes(authenticatedGroup *gin.RouterGroup, dashboardHandler *handlers.DashboardHandler) {
	dashboardRoutes := authenticatedGroup.Group("/dashboard")
	dashboardRoutes.Use(middleware.RequireCapability(middleware.CapViewReports))
	{
		dashboardRoutes.GET("/summary", dashboardHandler.GetSummary)
		dashboardRoutes.GET("/revenue", dashboardHandler.GetRevenue)
		dashboardRoutes.GET("/revenue/monthly", dashboardHandler.GetMonthlyRevenue)
		dashboardRoutes.GET("/reports", dashboardHandler.GetReports)
	}
}
