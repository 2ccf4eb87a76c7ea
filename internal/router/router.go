package router

import (
	"net/http"
	"time"

	"salon_crm_backend/internal/config"
	"salon_crm_backend/internal/database"
	"salon_crm_backend/internal/handlers"
	"salon_crm_backend/internal/metrics"
	"salon_crm_backend/internal/middleware"
	"salon_crm_backend/internal/repositories"
	"salon_crm_backend/internal/services"
	"salon_crm_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewEngine builds the gin engine with the global middleware chain.
func NewEngine(cfg *config.Config) *gin.Engine {
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(utils.GinLogger())
	engine.Use(metrics.GinMiddleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour
	engine.Use(cors.New(corsConfig))

	return engine
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, store *database.Store, tokens *utils.TokenManager, cfg *config.Config) {
	// Initialize Repositories
	customerRepo := repositories.NewCustomerRepository()
	serviceRepo := repositories.NewServiceRepository()
	userRepo := repositories.NewUserRepository()
	appointmentRepo := repositories.NewAppointmentRepository()
	reportRepo := repositories.NewReportRepository()

	// Initialize Services
	authService := services.NewAuthService(store, userRepo, tokens)
	customerService := services.NewCustomerService(store, customerRepo)
	catalogService := services.NewCatalogService(store, serviceRepo)
	userService := services.NewUserService(store, userRepo, serviceRepo, cfg.Security.BcryptCost)
	appointmentService := services.NewAppointmentService(store, appointmentRepo, customerRepo, userRepo, serviceRepo)
	reportService := services.NewReportService(store, reportRepo)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	userHandler := handlers.NewUserHandler(userService)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService)
	dashboardHandler := handlers.NewDashboardHandler(reportService)

	SetupPublicRoutes(engine, store)

	loginLimiter := middleware.NewRateLimiter(cfg.RateLimit.LoginPerMinute, cfg.RateLimit.LoginBurst)
	authRoutes := engine.Group("/auth")
	authRoutes.POST("/login", loginLimiter.Handler(), authHandler.Login)

	authenticated := engine.Group("")
	authenticated.Use(middleware.AuthMiddleware(tokens, authService))
	{
		authenticated.GET("/auth/me", authHandler.Me)

		SetupCustomerRoutes(authenticated, customerHandler)
		SetupServiceRoutes(authenticated, catalogHandler)
		SetupUserRoutes(authenticated, userHandler)
		SetupAppointmentRoutes(authenticated, appointmentHandler)
		SetupDashboardRoutes(authenticated, dashboardHandler)
	}
}

// SetupPublicRoutes registers the unauthenticated health and metrics endpoints.
func SetupPublicRoutes(engine *gin.Engine, store *database.Store) {
	engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Salon CRM API"})
	})
	engine.GET("/ping", func(c *gin.Context) {
		if err := store.Ping(c.Request.Context()); err != nil {
			utils.LogError(err, "Health check: database unreachable")
			c.JSON(http.StatusServiceUnavailable, gin.H{"message": "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))
}
