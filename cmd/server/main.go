package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitagent/coaching-app/internal/ai"
	"fitagent/coaching-app/internal/api"
	"fitagent/coaching-app/internal/config"
	"fitagent/coaching-app/internal/repository/mongo"
	"fitagent/coaching-app/internal/service"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// @title Coaching Plan API
// @version 1.0
// @description API for AI-drafted workout and nutrition plans with professional review, versioning and notifications.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "coaching-app",
	})
	logger.Info("starting server")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Fatal("could not load config", "err", err)
	}
	logger.Info("configuration loaded")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		logger.Fatal("could not connect to MongoDB", "err", err)
	}
	defer func() {
		logger.Info("disconnecting MongoDB")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			logger.Error("failed to disconnect MongoDB", "err", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	logger.Info("database connection established")

	// --- Ensure Indexes ---
	go func() { // Run index creation in the background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsurePlanIndexes(ctx, appDB.Collection("workout_plans"))
		mongo.EnsurePlanIndexes(ctx, appDB.Collection("nutrition_plans"))
		mongo.EnsureVersionIndexes(ctx, appDB.Collection("plan_versions"))
		mongo.EnsureCommentIndexes(ctx, appDB.Collection("plan_comments"))
		mongo.EnsureNotificationIndexes(ctx, appDB.Collection("notifications"))
		logger.Info("index creation process completed")
	}()

	// --- Initialize AI Collaborator ---
	generator, err := ai.NewGenerator(context.Background(), cfg.AI)
	if err != nil {
		logger.Fatal("failed to initialize AI generator", "err", err, "provider", cfg.AI.Provider)
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	workoutPlanRepo := mongo.NewMongoWorkoutPlanRepository(appDB)
	nutritionPlanRepo := mongo.NewMongoNutritionPlanRepository(appDB)
	versionRepo := mongo.NewMongoVersionRepository(appDB)
	commentRepo := mongo.NewMongoCommentRepository(appDB)
	notificationRepo := mongo.NewMongoNotificationRepository(appDB)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	userService := service.NewUserService(userRepo)
	versionService := service.NewVersionService(versionRepo)
	notificationService := service.NewNotificationService(notificationRepo)
	commentService := service.NewCommentService(commentRepo)
	roleService := service.NewRoleService(userRepo)
	planningService := service.NewPlanningService(workoutPlanRepo, nutritionPlanRepo, userRepo, generator, versionService, notificationService)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.New()
	router.Use(gin.Recovery())

	// --- Setup Routes ---
	api.SetupRoutes(router, cfg.JWT.Secret, logger,
		authService, userService, planningService, versionService,
		commentService, notificationService, roleService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second, // AI generation calls can be slow
		IdleTimeout:  120 * time.Second,
	}

	logger.Info("server listening", "addr", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen and serve error", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Fatal("server forced to shutdown", "err", err)
	}

	logger.Info("server exiting")
}
