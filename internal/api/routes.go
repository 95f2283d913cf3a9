package api

import (
	"net/http"

	"fitagent/coaching-app/internal/domain"
	"fitagent/coaching-app/internal/service"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	logger *log.Logger,
	authService service.AuthService,
	userService service.UserService,
	planningService service.PlanningService,
	versionService service.VersionService,
	commentService service.CommentService,
	notificationService service.NotificationService,
	roleService service.RoleService,
) {
	authHandler := NewAuthHandler(authService)
	userHandler := NewUserHandler(userService)
	planHandler := NewPlanHandler(planningService, versionService, commentService, notificationService, userService)
	trainerHandler := NewTrainerHandler(roleService, planningService, notificationService)
	adminHandler := NewAdminHandler(roleService)
	notificationHandler := NewNotificationHandler(notificationService)

	authMiddleware := AuthMiddleware(jwtSecret)
	professionalOnly := RoleMiddleware(domain.RoleTrainer, domain.RoleNutritionist, domain.RoleAdmin)
	adminOnly := RoleMiddleware(domain.RoleAdmin)

	// Specialty gates: trainers manage workout plans, nutritionists nutrition
	// plans. Admins hold both permissions.
	workoutPlans := PermissionMiddleware(domain.PermCreateWorkoutPlans)
	nutritionPlans := PermissionMiddleware(domain.PermCreateNutritionPlans)

	router.Use(RequestLogger(logger))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		// --- Account ---
		protected.GET("/me", userHandler.GetMe)
		protected.GET("/profile", userHandler.GetProfile)
		protected.PUT("/profile", userHandler.UpdateProfile)

		// --- Plan lifecycle (owner-facing) ---
		planGroup := protected.Group("/plans")
		{
			planGroup.POST("/workout/generate", planHandler.GenerateWorkoutPlan)
			planGroup.POST("/nutrition/generate", planHandler.GenerateNutritionPlan)
			planGroup.GET("/workout/current", planHandler.GetCurrentWorkoutPlan)
			planGroup.GET("/nutrition/current", planHandler.GetCurrentNutritionPlan)
			planGroup.POST("/workout/:id/activate", planHandler.ActivateWorkoutPlan)
			planGroup.POST("/nutrition/:id/activate", planHandler.ActivateNutritionPlan)

			// History and discussion; handler checks owner/professional/admin access.
			planGroup.GET("/:id/versions", planHandler.GetPlanVersions)
			planGroup.POST("/:id/comments", planHandler.AddComment)
			planGroup.GET("/:id/comments", planHandler.GetComments)
		}
		protected.DELETE("/comments/:id", planHandler.DeleteComment)

		// --- Notifications ---
		notificationGroup := protected.Group("/notifications")
		{
			notificationGroup.GET("", notificationHandler.GetNotifications)
			notificationGroup.POST("/:id/read", notificationHandler.MarkAsRead)
			notificationGroup.POST("/read-all", notificationHandler.MarkAllRead)
		}

		// --- Professional routes (trainers and nutritionists) ---
		professionalGroup := protected.Group("")
		professionalGroup.Use(professionalOnly)
		{
			professionalGroup.GET("/clients", trainerHandler.GetMyClients)
			professionalGroup.POST("/clients/:id/assign", trainerHandler.AssignClient)
			professionalGroup.POST("/clients/:id/workout-plan", workoutPlans, trainerHandler.CreateWorkoutPlanForClient)
			professionalGroup.POST("/clients/:id/nutrition-plan", nutritionPlans, trainerHandler.CreateNutritionPlanForClient)
			professionalGroup.GET("/workout-plans/:id", workoutPlans, trainerHandler.GetWorkoutPlan)
			professionalGroup.PUT("/workout-plans/:id", workoutPlans, trainerHandler.UpdateWorkoutPlan)
			professionalGroup.GET("/nutrition-plans/:id", nutritionPlans, trainerHandler.GetNutritionPlan)
			professionalGroup.PUT("/nutrition-plans/:id", nutritionPlans, trainerHandler.UpdateNutritionPlan)
		}

		// --- Admin routes ---
		adminGroup := protected.Group("/admin")
		adminGroup.Use(adminOnly)
		{
			adminGroup.GET("/users", PermissionMiddleware(domain.PermViewAllUsers), adminHandler.ListUsers)
			adminGroup.POST("/users/:id/roles", PermissionMiddleware(domain.PermAssignRoles), adminHandler.AssignRole)
			adminGroup.DELETE("/users/:id/roles/:role", PermissionMiddleware(domain.PermRemoveRoles), adminHandler.RemoveRole)
		}
	}
}
