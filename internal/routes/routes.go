package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinical-scribe-server/internal/config"
	"clinical-scribe-server/internal/directory"
	"clinical-scribe-server/internal/handlers"
	"clinical-scribe-server/internal/llm"
	"clinical-scribe-server/internal/middleware"
	"clinical-scribe-server/internal/models"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, generator llm.Generator) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	patientHandler := handlers.NewPatientHandler(directory.NewService(db))
	noteHandler := handlers.NewNoteHandler(db, cfg, generator)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg)) // Apply JWT authentication middleware
	{
		// Auth related (profile, logout)
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", authHandler.UpdateProfile)
		}

		// User management routes (admin-only)
		userRoutes := private.Group("/users")
		userRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			userRoutes.POST("", userHandler.CreateUser)
			userRoutes.GET("", userHandler.GetUsers)
			userRoutes.GET("/:id", userHandler.GetUserByID)
			userRoutes.PUT("/:id", userHandler.UpdateUser)
		}

		// Patient directory routes - every operation is scoped to the
		// authenticated user inside the handlers.
		patientRoutes := private.Group("/patients")
		{
			patientRoutes.POST("", patientHandler.CreatePatient)
			patientRoutes.GET("", patientHandler.GetPatients)
			patientRoutes.GET("/search", patientHandler.SearchPatients)
			patientRoutes.GET("/:id", patientHandler.GetPatient)
			patientRoutes.PUT("/:id", patientHandler.UpdatePatient)
			patientRoutes.PATCH("/:id/deactivate", patientHandler.DeactivatePatient)
			patientRoutes.PATCH("/:id/reactivate", patientHandler.ReactivatePatient)
		}

		// Note generation and saved drafts
		noteRoutes := private.Group("/notes")
		{
			noteRoutes.POST("/generate", noteHandler.GenerateNote)
			noteRoutes.GET("/contexts", noteHandler.GetContexts)
			noteRoutes.POST("", noteHandler.SaveNote)
			noteRoutes.GET("", noteHandler.GetNotes)
			noteRoutes.GET("/:id", noteHandler.GetNote)
			noteRoutes.DELETE("/:id", noteHandler.DeleteNote)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
