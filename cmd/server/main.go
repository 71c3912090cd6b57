package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/task-manager-api/internal/config"
	"github.com/taskhive/task-manager-api/internal/database"
	"github.com/taskhive/task-manager-api/internal/handlers"
	"github.com/taskhive/task-manager-api/internal/mailer"
	"github.com/taskhive/task-manager-api/internal/media"
	"github.com/taskhive/task-manager-api/internal/middleware"
	"github.com/taskhive/task-manager-api/internal/repository"
	"github.com/taskhive/task-manager-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Ensure the default admin exists. Failure is logged, not fatal.
	if err := database.EnsureDefaultAdmin(database.GetDB(), cfg); err != nil {
		log.Printf("Failed to create default admin: %v", err)
	}

	// Initialize repositories and services
	userRepo := repository.NewUserRepository(database.GetDB())
	taskRepo := repository.NewTaskRepository(database.GetDB())

	smtpMailer := mailer.NewSMTPMailer(cfg)
	authService := services.NewAuthService(userRepo, smtpMailer, cfg.JWTSecret, cfg.ResetURLBase)
	taskService := services.NewTaskService(taskRepo)
	userService := services.NewUserService(userRepo)

	var uploader media.Uploader
	if cfg.CloudinaryURL != "" {
		cld, err := media.NewCloudinaryUploader(cfg.CloudinaryURL)
		if err != nil {
			log.Fatalf("Failed to init cloudinary: %v", err)
		}
		uploader = cld
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	userHandler := handlers.NewUserHandler(userService)
	uploadHandler := handlers.NewUploadHandler(uploader)

	// Initialize Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Task Manager API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/verify-otp", authHandler.VerifyOtp)
			auth.POST("/resend-otp", authHandler.ResendOtp)
			auth.POST("/login", authHandler.Login)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/reset-password", authHandler.ResetPassword)
		}

		// Image upload (public)
		api.POST("/upload-image", uploadHandler.UploadImage)

		// Task routes (protected)
		tasks := api.Group("")
		tasks.Use(middleware.RequireAuth(cfg.JWTSecret))
		{
			tasks.POST("/create-task", taskHandler.CreateTask)
			tasks.GET("/my-tasks", taskHandler.ListMyTasks)
			tasks.GET("/get-task/:id", taskHandler.GetTask)
			tasks.PUT("/update-task/:id", taskHandler.UpdateTask)
			tasks.DELETE("/delete-task/:id", taskHandler.DeleteTask)
		}

		// User administration (protected, admin only)
		admin := api.Group("")
		admin.Use(middleware.RequireAuth(cfg.JWTSecret), middleware.RequireAdmin())
		{
			admin.POST("/create-user", userHandler.CreateUser)
			admin.GET("/get-all-users", userHandler.ListUsers)
			admin.PUT("/update-user/:id", userHandler.UpdateUser)
			admin.DELETE("/delete-user/:id", userHandler.DeleteUser)
		}
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
