package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"fitagent/coaching-app/internal/domain"
	"fitagent/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainerHandler serves the professional-facing routes shared by trainers
// and nutritionists: client rosters, assignment, and plan review/editing.
type TrainerHandler struct {
	roleService         service.RoleService
	planningService     service.PlanningService
	notificationService service.NotificationService
}

func NewTrainerHandler(
	roleService service.RoleService,
	planningService service.PlanningService,
	notificationService service.NotificationService,
) *TrainerHandler {
	return &TrainerHandler{
		roleService:         roleService,
		planningService:     planningService,
		notificationService: notificationService,
	}
}

// --- DTOs ---

type UpdateWorkoutPlanRequest struct {
	StartDate time.Time               `json:"startDate" binding:"required"`
	EndDate   time.Time               `json:"endDate" binding:"required"`
	Sessions  []domain.WorkoutSession `json:"sessions" binding:"required"`
}

type UpdateNutritionPlanRequest struct {
	StartDate  time.Time              `json:"startDate" binding:"required"`
	EndDate    time.Time              `json:"endDate" binding:"required"`
	DailyPlans []domain.DailyMealPlan `json:"dailyPlans" binding:"required"`
}

// --- Client roster ---

// GetMyClients godoc
// @Summary Get the professional's assigned clients
// @Description Union of clients assigned to the caller as trainer and as nutritionist.
// @Tags Professional
// @Produce json
// @Security BearerAuth
// @Success 200 {array} UserResponse
// @Router /clients [get]
func (h *TrainerHandler) GetMyClients(c *gin.Context) {
	professionalID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	clients, err := h.roleService.GetMyClients(c.Request.Context(), professionalID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve clients.")
		return
	}

	c.JSON(http.StatusOK, MapUsersToResponse(clients))
}

// AssignClient godoc
// @Summary Assign the authenticated professional to a client
// @Description Trainers become the client's trainer, nutritionists the client's nutritionist. Professionals holding both roles pick the capacity with ?role=. The client is notified.
// @Tags Professional
// @Produce json
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Param role query string false "Capacity to assign in: trainer or nutritionist"
// @Success 200 {object} UserResponse "Updated client"
// @Failure 403 {object} gin.H "Caller lacks the professional role"
// @Failure 404 {object} gin.H "Client not found"
// @Router /clients/{id}/assign [post]
func (h *TrainerHandler) AssignClient(c *gin.Context) {
	clientID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format.")
		return
	}
	professionalID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	roles, _ := getUserRolesFromContext(c)

	// The capacity defaults to the caller's single professional role; a
	// dual-role professional chooses with ?role=. The role service still
	// verifies the caller actually holds the chosen role.
	capacity := domain.Role(c.Query("role"))
	if capacity == "" {
		if hasRole(roles, domain.RoleTrainer) {
			capacity = domain.RoleTrainer
		} else {
			capacity = domain.RoleNutritionist
		}
	}

	var (
		client *domain.User
		nType  domain.NotificationType
		title  string
	)
	switch capacity {
	case domain.RoleTrainer:
		client, err = h.roleService.AssignTrainer(c.Request.Context(), clientID, professionalID)
		nType, title = domain.NotificationTrainerAssigned, "Trainer Assigned"
	case domain.RoleNutritionist:
		client, err = h.roleService.AssignNutritionist(c.Request.Context(), clientID, professionalID)
		nType, title = domain.NotificationNutritionistAssigned, "Nutritionist Assigned"
	default:
		abortWithError(c, http.StatusBadRequest, "Role must be trainer or nutritionist.")
		return
	}
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNotATrainer), errors.Is(err, service.ErrNotANutritionist):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to assign client.")
		}
		return
	}

	_, _ = h.notificationService.CreateNotification(c.Request.Context(), clientID, nType,
		title, "A professional has been assigned to guide your plans.", "user", professionalID.Hex())

	c.JSON(http.StatusOK, MapUserToResponse(client))
}

// --- Plan creation for clients ---

// CreateWorkoutPlanForClient godoc
// @Summary Generate a draft workout plan for an assigned client
// @Description The plan's creator remains the client; the client is notified.
// @Tags Professional
// @Produce json
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Success 201 {object} domain.WorkoutPlan
// @Failure 400 {object} gin.H "Client profile incomplete"
// @Failure 403 {object} gin.H "Client is not assigned to you"
// @Failure 502 {object} gin.H "Generation failed"
// @Router /clients/{id}/workout-plan [post]
func (h *TrainerHandler) CreateWorkoutPlanForClient(c *gin.Context) {
	clientID, ok := h.requireMyClient(c)
	if !ok {
		return
	}

	plan, err := h.planningService.GenerateWorkoutPlan(c.Request.Context(), clientID)
	if err != nil {
		respondPlanError(c, err)
		return
	}

	h.notifyPlanCreated(c, clientID, "Workout Plan Created",
		"Your trainer has created a new workout plan draft for you.", "workout_plan", plan.ID.Hex())
	c.JSON(http.StatusCreated, plan)
}

// CreateNutritionPlanForClient godoc
// @Summary Generate a draft nutrition plan for an assigned client
// @Tags Professional
// @Produce json
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Success 201 {object} domain.NutritionPlan
// @Failure 400 {object} gin.H "Client profile incomplete"
// @Failure 403 {object} gin.H "Client is not assigned to you"
// @Failure 502 {object} gin.H "Generation failed"
// @Router /clients/{id}/nutrition-plan [post]
func (h *TrainerHandler) CreateNutritionPlanForClient(c *gin.Context) {
	clientID, ok := h.requireMyClient(c)
	if !ok {
		return
	}

	plan, err := h.planningService.GenerateNutritionPlan(c.Request.Context(), clientID)
	if err != nil {
		respondPlanError(c, err)
		return
	}

	h.notifyPlanCreated(c, clientID, "Nutrition Plan Created",
		"Your nutritionist has created a new nutrition plan draft for you.", "nutrition_plan", plan.ID.Hex())
	c.JSON(http.StatusCreated, plan)
}

// --- Plan review and editing ---

// GetWorkoutPlan godoc
// @Summary Get a workout plan for review
// @Tags Professional
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Success 200 {object} domain.WorkoutPlan
// @Failure 403 {object} gin.H "Plan owner is not assigned to you"
// @Failure 404 {object} gin.H "Plan not found"
// @Router /workout-plans/{id} [get]
func (h *TrainerHandler) GetWorkoutPlan(c *gin.Context) {
	planID, ok := planIDFromPath(c)
	if !ok {
		return
	}

	plan, err := h.planningService.GetWorkoutPlan(c.Request.Context(), planID)
	if err != nil {
		respondPlanError(c, err)
		return
	}
	if !h.authorizeForOwner(c, plan.UserID) {
		return
	}
	c.JSON(http.StatusOK, plan)
}

// UpdateWorkoutPlan godoc
// @Summary Edit a workout plan
// @Description Snapshots the pre-edit state into the version history, marks the plan approved, and notifies the owner.
// @Tags Professional
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Param plan body UpdateWorkoutPlanRequest true "Replacement dates and sessions"
// @Success 200 {object} domain.WorkoutPlan
// @Failure 403 {object} gin.H "Plan owner is not assigned to you"
// @Failure 404 {object} gin.H "Plan not found"
// @Failure 409 {object} gin.H "Concurrent edit detected"
// @Router /workout-plans/{id} [put]
func (h *TrainerHandler) UpdateWorkoutPlan(c *gin.Context) {
	planID, ok := planIDFromPath(c)
	if !ok {
		return
	}
	var req UpdateWorkoutPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plan, err := h.planningService.GetWorkoutPlan(c.Request.Context(), planID)
	if err != nil {
		respondPlanError(c, err)
		return
	}
	if !h.authorizeForOwner(c, plan.UserID) {
		return
	}
	modifierID, _ := getUserIDFromContext(c)

	updated, err := h.planningService.UpdateWorkoutPlan(c.Request.Context(), planID,
		req.StartDate, req.EndDate, req.Sessions, modifierID)
	if err != nil {
		respondPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// GetNutritionPlan godoc
// @Summary Get a nutrition plan for review
// @Tags Professional
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Success 200 {object} domain.NutritionPlan
// @Failure 403 {object} gin.H "Plan owner is not assigned to you"
// @Failure 404 {object} gin.H "Plan not found"
// @Router /nutrition-plans/{id} [get]
func (h *TrainerHandler) GetNutritionPlan(c *gin.Context) {
	planID, ok := planIDFromPath(c)
	if !ok {
		return
	}

	plan, err := h.planningService.GetNutritionPlan(c.Request.Context(), planID)
	if err != nil {
		respondPlanError(c, err)
		return
	}
	if !h.authorizeForOwner(c, plan.UserID) {
		return
	}
	c.JSON(http.StatusOK, plan)
}

// UpdateNutritionPlan godoc
// @Summary Edit a nutrition plan
// @Description Snapshots the pre-edit state into the version history, marks the plan approved, and notifies the owner.
// @Tags Professional
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Param plan body UpdateNutritionPlanRequest true "Replacement dates and daily plans"
// @Success 200 {object} domain.NutritionPlan
// @Failure 403 {object} gin.H "Plan owner is not assigned to you"
// @Failure 404 {object} gin.H "Plan not found"
// @Failure 409 {object} gin.H "Concurrent edit detected"
// @Router /nutrition-plans/{id} [put]
func (h *TrainerHandler) UpdateNutritionPlan(c *gin.Context) {
	planID, ok := planIDFromPath(c)
	if !ok {
		return
	}
	var req UpdateNutritionPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plan, err := h.planningService.GetNutritionPlan(c.Request.Context(), planID)
	if err != nil {
		respondPlanError(c, err)
		return
	}
	if !h.authorizeForOwner(c, plan.UserID) {
		return
	}
	modifierID, _ := getUserIDFromContext(c)

	updated, err := h.planningService.UpdateNutritionPlan(c.Request.Context(), planID,
		req.StartDate, req.EndDate, req.DailyPlans, modifierID)
	if err != nil {
		respondPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// --- Helpers ---

// requireMyClient parses the client ID from the path and checks the client
// is assigned to the caller. Admins bypass the assignment check.
func (h *TrainerHandler) requireMyClient(c *gin.Context) (primitive.ObjectID, bool) {
	clientID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format.")
		return primitive.NilObjectID, false
	}
	if !h.authorizeForOwner(c, clientID) {
		return primitive.NilObjectID, false
	}
	return clientID, true
}

// authorizeForOwner checks that the given user is one of the caller's
// assigned clients, or that the caller is an admin.
func (h *TrainerHandler) authorizeForOwner(c *gin.Context, ownerID primitive.ObjectID) bool {
	professionalID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return false
	}
	roles, _ := getUserRolesFromContext(c)
	if hasRole(roles, domain.RoleAdmin) {
		return true
	}

	clients, err := h.roleService.GetMyClients(c.Request.Context(), professionalID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to verify client assignment.")
		return false
	}
	for i := range clients {
		if clients[i].ID == ownerID {
			return true
		}
	}
	abortWithError(c, http.StatusForbidden, "This client is not assigned to you.")
	return false
}

func (h *TrainerHandler) notifyPlanCreated(c *gin.Context, clientID primitive.ObjectID, title, message, entityType, entityID string) {
	_, _ = h.notificationService.CreateNotification(c.Request.Context(), clientID,
		domain.NotificationPlanCreated, title, message, entityType, entityID)
}
