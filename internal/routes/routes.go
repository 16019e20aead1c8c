package routes

import (
	"github.com/gin-gonic/gin"

	"healify-server/internal/config"
	"healify-server/internal/handlers"
	"healify-server/internal/middleware"
	"healify-server/internal/services"
	"healify-server/internal/store"
	"healify-server/internal/token"
)

// SetupRoutes wires services, middleware and handlers onto the router.
// Stores and the token service are injected so tests can run against the
// in-memory implementations.
func SetupRoutes(router *gin.Engine, users store.UserStore, appointments store.AppointmentStore, tokens *token.Service, cfg *config.Config) {
	authService := services.NewAuthService(users, tokens)
	appointmentService := services.NewAppointmentService(users, appointments)

	authHandler := handlers.NewAuthHandler(authService)
	doctorHandler := handlers.NewDoctorHandler(users)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService)

	// Best-effort identity attachment on every request; public routes are
	// exempt and nothing is rejected here. Handlers that need an identity
	// enforce its presence themselves.
	router.Use(middleware.Authenticate(tokens, users))

	limiter := middleware.NewRateLimiter(cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst)
	auth := router.Group("/auth")
	auth.Use(limiter.Middleware())
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	api := router.Group("/api")
	{
		patient := api.Group("/patient")
		{
			patient.GET("/doctors", doctorHandler.GetDoctors)
			patient.POST("/appointments", appointmentHandler.Book)
		}

		doctor := api.Group("/doctor")
		{
			doctor.GET("/appointments", appointmentHandler.ListForDoctor)
			doctor.PATCH("/appointments/:id/respond", appointmentHandler.Respond)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
