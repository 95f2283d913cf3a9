package api

import (
	"errors"
	"fmt"
	"net/http"

	"fitagent/coaching-app/internal/ai"
	"fitagent/coaching-app/internal/domain"
	"fitagent/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanHandler serves the client-facing plan lifecycle: generation, current
// plan lookup, activation, version history and comments.
type PlanHandler struct {
	planningService     service.PlanningService
	versionService      service.VersionService
	commentService      service.CommentService
	notificationService service.NotificationService
	userService         service.UserService
}

func NewPlanHandler(
	planningService service.PlanningService,
	versionService service.VersionService,
	commentService service.CommentService,
	notificationService service.NotificationService,
	userService service.UserService,
) *PlanHandler {
	return &PlanHandler{
		planningService:     planningService,
		versionService:      versionService,
		commentService:      commentService,
		notificationService: notificationService,
		userService:         userService,
	}
}

// --- DTOs ---

type AddCommentRequest struct {
	Content    string `json:"content" binding:"required"`
	IsInternal bool   `json:"isInternal"`
}

// --- Shared error mapping ---

// respondPlanError maps planning/version service errors to HTTP statuses.
func respondPlanError(c *gin.Context, err error) {
	var stateErr *service.InvalidStateError
	switch {
	case errors.Is(err, service.ErrPlanNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPlanAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrProfileIncomplete):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &stateErr):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ai.ErrGenerationFailed):
		abortWithError(c, http.StatusBadGateway, err.Error())
	case errors.Is(err, service.ErrVersionConflict):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}

func planIDFromPath(c *gin.Context) (primitive.ObjectID, bool) {
	planID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return primitive.NilObjectID, false
	}
	return planID, true
}

// planTypeFromQuery parses the ?type= query parameter, defaulting to workout.
func planTypeFromQuery(c *gin.Context) (domain.PlanType, bool) {
	switch c.DefaultQuery("type", string(domain.PlanTypeWorkout)) {
	case string(domain.PlanTypeWorkout):
		return domain.PlanTypeWorkout, true
	case string(domain.PlanTypeNutrition):
		return domain.PlanTypeNutrition, true
	default:
		abortWithError(c, http.StatusBadRequest, "Query parameter 'type' must be 'workout' or 'nutrition'.")
		return "", false
	}
}

// findPlan loads a plan of the given type as the common plan interface.
func (h *PlanHandler) findPlan(c *gin.Context, planID primitive.ObjectID, planType domain.PlanType) (domain.Plan, error) {
	if planType == domain.PlanTypeNutrition {
		return h.planningService.GetNutritionPlan(c.Request.Context(), planID)
	}
	return h.planningService.GetWorkoutPlan(c.Request.Context(), planID)
}

// findPlanAnyType tries both plan collections; version and comment routes
// carry no type in the path.
func (h *PlanHandler) findPlanAnyType(c *gin.Context, planID primitive.ObjectID) (domain.Plan, error) {
	plan, err := h.planningService.GetWorkoutPlan(c.Request.Context(), planID)
	if err == nil {
		return plan, nil
	}
	if !errors.Is(err, service.ErrPlanNotFound) {
		return nil, err
	}
	return h.planningService.GetNutritionPlan(c.Request.Context(), planID)
}

// --- Generation ---

// GenerateWorkoutPlan godoc
// @Summary Generate a draft workout plan for the authenticated user
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Success 201 {object} domain.WorkoutPlan
// @Failure 400 {object} gin.H "Profile incomplete"
// @Failure 502 {object} gin.H "Generation failed"
// @Router /plans/workout/generate [post]
func (h *PlanHandler) GenerateWorkoutPlan(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	plan, err := h.planningService.GenerateWorkoutPlan(c.Request.Context(), userID)
	if err != nil {
		respondPlanError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// GenerateNutritionPlan godoc
// @Summary Generate a draft nutrition plan for the authenticated user
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Success 201 {object} domain.NutritionPlan
// @Failure 400 {object} gin.H "Profile incomplete"
// @Failure 502 {object} gin.H "Generation failed"
// @Router /plans/nutrition/generate [post]
func (h *PlanHandler) GenerateNutritionPlan(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	plan, err := h.planningService.GenerateNutritionPlan(c.Request.Context(), userID)
	if err != nil {
		respondPlanError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// --- Current plan lookup ---

// GetCurrentWorkoutPlan godoc
// @Summary Get the authenticated user's most recent workout plan
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.WorkoutPlan
// @Failure 404 {object} gin.H "No plan exists"
// @Router /plans/workout/current [get]
func (h *PlanHandler) GetCurrentWorkoutPlan(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	plan, err := h.planningService.GetCurrentWorkoutPlan(c.Request.Context(), userID)
	if err != nil {
		respondPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// GetCurrentNutritionPlan godoc
// @Summary Get the authenticated user's most recent nutrition plan
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.NutritionPlan
// @Failure 404 {object} gin.H "No plan exists"
// @Router /plans/nutrition/current [get]
func (h *PlanHandler) GetCurrentNutritionPlan(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	plan, err := h.planningService.GetCurrentNutritionPlan(c.Request.Context(), userID)
	if err != nil {
		respondPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// --- Activation ---

// ActivateWorkoutPlan godoc
// @Summary Activate an approved workout plan
// @Description Only the plan owner may activate, and only from the approved state. Any previously active workout plan is archived.
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Success 200 {object} domain.WorkoutPlan
// @Failure 400 {object} gin.H "Plan not in approved state"
// @Failure 403 {object} gin.H "Plan belongs to another user"
// @Failure 404 {object} gin.H "Plan not found"
// @Router /plans/workout/{id}/activate [post]
func (h *PlanHandler) ActivateWorkoutPlan(c *gin.Context) {
	planID, ok := planIDFromPath(c)
	if !ok {
		return
	}
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	plan, err := h.planningService.ActivateWorkoutPlan(c.Request.Context(), planID, userID)
	if err != nil {
		respondPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// ActivateNutritionPlan godoc
// @Summary Activate an approved nutrition plan
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Success 200 {object} domain.NutritionPlan
// @Failure 400 {object} gin.H "Plan not in approved state"
// @Failure 403 {object} gin.H "Plan belongs to another user"
// @Failure 404 {object} gin.H "Plan not found"
// @Router /plans/nutrition/{id}/activate [post]
func (h *PlanHandler) ActivateNutritionPlan(c *gin.Context) {
	planID, ok := planIDFromPath(c)
	if !ok {
		return
	}
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	plan, err := h.planningService.ActivateNutritionPlan(c.Request.Context(), planID, userID)
	if err != nil {
		respondPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// --- Version history ---

// GetPlanVersions godoc
// @Summary Get the version history of a plan, newest first
// @Description Accessible to the plan owner, the owner's assigned professional for the plan type, and admins.
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Success 200 {array} domain.PlanVersion
// @Failure 403 {object} gin.H "Not allowed to view this plan's history"
// @Failure 404 {object} gin.H "Plan not found"
// @Router /plans/{id}/versions [get]
func (h *PlanHandler) GetPlanVersions(c *gin.Context) {
	planID, ok := planIDFromPath(c)
	if !ok {
		return
	}
	requesterID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	roles, _ := getUserRolesFromContext(c)

	plan, err := h.findPlanAnyType(c, planID)
	if err != nil {
		respondPlanError(c, err)
		return
	}

	if !h.canViewPlan(c, plan, requesterID, roles) {
		abortWithError(c, http.StatusForbidden, "You are not allowed to view this plan's history.")
		return
	}

	versions, err := h.versionService.GetHistory(c.Request.Context(), planID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load version history.")
		return
	}
	if versions == nil {
		versions = []domain.PlanVersion{}
	}
	c.JSON(http.StatusOK, versions)
}

// canViewPlan checks owner, assigned professional of the matching type, or admin.
func (h *PlanHandler) canViewPlan(c *gin.Context, plan domain.Plan, requesterID primitive.ObjectID, roles []domain.Role) bool {
	if plan.OwnerID() == requesterID || hasRole(roles, domain.RoleAdmin) {
		return true
	}

	owner, err := h.userService.GetUser(c.Request.Context(), plan.OwnerID())
	if err != nil {
		return false
	}
	if plan.Type() == domain.PlanTypeWorkout {
		return owner.TrainerID != nil && *owner.TrainerID == requesterID
	}
	return owner.NutritionistID != nil && *owner.NutritionistID == requesterID
}

// --- Comments ---

// AddComment godoc
// @Summary Add a comment to a plan
// @Description Clients cannot post internal comments. The plan owner or the relevant professional is notified.
// @Tags Comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Param type query string false "Plan type (workout or nutrition)" default(workout)
// @Param comment body AddCommentRequest true "Comment"
// @Success 201 {object} domain.PlanComment
// @Failure 403 {object} gin.H "Not allowed to comment on this plan"
// @Failure 404 {object} gin.H "Plan not found"
// @Router /plans/{id}/comments [post]
func (h *PlanHandler) AddComment(c *gin.Context) {
	planID, ok := planIDFromPath(c)
	if !ok {
		return
	}
	planType, ok := planTypeFromQuery(c)
	if !ok {
		return
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	authorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	roles, _ := getUserRolesFromContext(c)
	authorRole := displayRole(roles)

	plan, err := h.findPlan(c, planID, planType)
	if err != nil {
		respondPlanError(c, err)
		return
	}
	if !h.canViewPlan(c, plan, authorID, roles) {
		abortWithError(c, http.StatusForbidden, "You are not allowed to comment on this plan.")
		return
	}

	// Internal notes are a professional-only channel.
	isInternal := req.IsInternal && authorRole != domain.RoleClient

	comment, err := h.commentService.AddComment(c.Request.Context(), planID, planType, authorID, authorRole, req.Content, isInternal)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to add comment.")
		return
	}

	h.notifyCommentAdded(c, plan, authorID, isInternal)
	c.JSON(http.StatusCreated, comment)
}

// GetComments godoc
// @Summary Get a plan's comments, oldest first
// @Description Internal notes are omitted for client viewers.
// @Tags Comments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Param type query string false "Plan type (workout or nutrition)" default(workout)
// @Success 200 {array} domain.PlanComment
// @Failure 403 {object} gin.H "Not allowed to view this plan"
// @Failure 404 {object} gin.H "Plan not found"
// @Router /plans/{id}/comments [get]
func (h *PlanHandler) GetComments(c *gin.Context) {
	planID, ok := planIDFromPath(c)
	if !ok {
		return
	}
	planType, ok := planTypeFromQuery(c)
	if !ok {
		return
	}

	requesterID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	roles, _ := getUserRolesFromContext(c)

	plan, err := h.findPlan(c, planID, planType)
	if err != nil {
		respondPlanError(c, err)
		return
	}
	if !h.canViewPlan(c, plan, requesterID, roles) {
		abortWithError(c, http.StatusForbidden, "You are not allowed to view this plan.")
		return
	}

	comments, err := h.commentService.GetPlanComments(c.Request.Context(), planID, displayRole(roles))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load comments.")
		return
	}
	if comments == nil {
		comments = []domain.PlanComment{}
	}
	c.JSON(http.StatusOK, comments)
}

// DeleteComment godoc
// @Summary Delete one of your own comments
// @Tags Comments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Comment ID"
// @Success 204 "Deleted"
// @Failure 403 {object} gin.H "Comment belongs to another user"
// @Failure 404 {object} gin.H "Comment not found"
// @Router /comments/{id} [delete]
func (h *PlanHandler) DeleteComment(c *gin.Context) {
	commentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid comment ID format.")
		return
	}
	requesterID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	deleted, err := h.commentService.DeleteComment(c.Request.Context(), commentID, requesterID)
	if err != nil {
		if errors.Is(err, service.ErrCommentAccessDenied) {
			abortWithError(c, http.StatusForbidden, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete comment.")
		}
		return
	}
	if !deleted {
		abortWithError(c, http.StatusNotFound, "Comment not found.")
		return
	}
	c.Status(http.StatusNoContent)
}

// displayRole picks the label recorded on comments: the author's professional
// role when they hold one, otherwise client.
func displayRole(roles []domain.Role) domain.Role {
	for _, r := range []domain.Role{domain.RoleTrainer, domain.RoleNutritionist, domain.RoleAdmin} {
		if hasRole(roles, r) {
			return r
		}
	}
	return domain.RoleClient
}

// notifyCommentAdded informs the other party: the owner when a professional
// comments, or the assigned professional when the owner comments. Internal
// notes never notify the client. Failures are swallowed.
func (h *PlanHandler) notifyCommentAdded(c *gin.Context, plan domain.Plan, authorID primitive.ObjectID, isInternal bool) {
	entityType := "workout_plan"
	if plan.Type() == domain.PlanTypeNutrition {
		entityType = "nutrition_plan"
	}

	if authorID != plan.OwnerID() {
		if isInternal {
			return
		}
		_, _ = h.notificationService.CreateNotification(c.Request.Context(), plan.OwnerID(),
			domain.NotificationCommentAdded, "New Comment",
			"A new comment was added to your plan.", entityType, plan.PlanID().Hex())
		return
	}

	owner, err := h.userService.GetUser(c.Request.Context(), plan.OwnerID())
	if err != nil {
		return
	}
	recipient := owner.TrainerID
	if plan.Type() == domain.PlanTypeNutrition {
		recipient = owner.NutritionistID
	}
	if recipient == nil {
		return
	}
	_, _ = h.notificationService.CreateNotification(c.Request.Context(), *recipient,
		domain.NotificationCommentAdded, "New Comment",
		fmt.Sprintf("%s commented on their plan.", owner.Username), entityType, plan.PlanID().Hex())
}
