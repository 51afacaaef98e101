package routes

import (
	"ClinicCore/cache"
	"ClinicCore/config"
	"ClinicCore/controllers"
	"ClinicCore/handlers"
	"ClinicCore/middlewares"
	"ClinicCore/repositories"
	"ClinicCore/services"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(cache *cache.Cache, config *config.AppConfig, db *gorm.DB) http.Handler {
	// Set Gin to release mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.Default()

	// Apply Bearer token validation to all routes
	router.Use(middlewares.ValidateBearerToken(config.GetBearerToken()))

	corsConfig := &middlewares.CorsConfig{
		AllowedOrigins:   []string{"http://localhost:3000", "https://www.cliniccore.io", "https://staging.cliniccore.io"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}
	router.Use(middlewares.CorsMiddleware(corsConfig))

	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: 15,
		Burst:             30,
	}))

	router.Use(middlewares.LoggingMiddleware())
	router.Use(middlewares.MetricsMiddleware())

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db, cache)
	tenantRepo := repositories.NewTenantRepository(db)
	membershipRepo := repositories.NewMembershipRepository(db, cache)
	patientRepo := repositories.NewPatientRepository(db, cache)
	doctorRepo := repositories.NewDoctorRepository(db, cache)
	staffRepo := repositories.NewStaffRepository(db, cache)
	visitRepo := repositories.NewVisitRepository(db, cache)
	operationRepo := repositories.NewOperationRepository(db, cache)
	prescriptionRepo := repositories.NewPrescriptionRepository(db)
	billingRepo := repositories.NewBillingRepository(db)

	// Initialize services
	membershipService := services.NewMembershipService(membershipRepo)
	authService := services.NewAuthService(userRepo, tenantRepo, membershipRepo)
	patientService := services.NewPatientService(patientRepo, doctorRepo, tenantRepo, membershipService)
	doctorService := services.NewDoctorService(doctorRepo, userRepo, membershipService)
	staffService := services.NewStaffService(staffRepo, userRepo, membershipService)
	visitService := services.NewVisitService(visitRepo, patientRepo, doctorRepo, membershipService)
	operationService := services.NewOperationService(operationRepo, patientRepo, doctorRepo, membershipService)
	prescriptionService := services.NewPrescriptionService(prescriptionRepo, visitRepo, membershipService)
	billingService := services.NewBillingService(billingRepo, patientRepo, membershipService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	patientHandler := handlers.NewPatientHandler(patientService)
	doctorHandler := handlers.NewDoctorHandler(doctorService)
	staffHandler := handlers.NewStaffHandler(staffService)
	visitHandler := handlers.NewVisitHandler(visitService)
	operationHandler := handlers.NewOperationHandler(operationService)
	prescriptionHandler := handlers.NewPrescriptionHandler(prescriptionService)
	billingHandler := handlers.NewBillingHandler(billingService)

	// Register routes
	authController := controllers.NewAuthController(authHandler)
	authController.RegisterRoutes(router)

	controllers.SetupClinicRoutes(
		router,
		patientHandler,
		doctorHandler,
		staffHandler,
		visitHandler,
		operationHandler,
		prescriptionHandler,
		billingHandler,
	)

	controllers.SetupRootRoute(router)

	router.GET("/metrics", middlewares.MetricsHandler())

	return router
}
