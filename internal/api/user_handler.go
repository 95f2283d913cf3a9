package api

import (
	"errors"
	"fmt"
	"net/http"

	"fitagent/coaching-app/internal/domain"
	"fitagent/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler serves the authenticated user's own account and profile.
type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ProfileRequest carries the full profile; updates replace it wholesale.
type ProfileRequest struct {
	Age                 int                  `json:"age" binding:"required,gt=0"`
	Weight              float64              `json:"weight" binding:"required,gt=0"`
	Height              float64              `json:"height" binding:"required,gt=0"`
	Gender              string               `json:"gender" binding:"required"`
	Goal                domain.Goal          `json:"goal" binding:"required"`
	ActivityLevel       domain.ActivityLevel `json:"activityLevel" binding:"required"`
	DietaryRestrictions []string             `json:"dietaryRestrictions"`
	Injuries            []string             `json:"injuries"`
}

// GetMe godoc
// @Summary Get the authenticated user
// @Tags User
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "User not found"
// @Router /me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to load user.")
		}
		return
	}

	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// GetProfile godoc
// @Summary Get the authenticated user's profile
// @Tags User
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.UserProfile
// @Failure 404 {object} gin.H "Profile not set"
// @Router /profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to load user.")
		}
		return
	}
	if user.Profile == nil {
		abortWithError(c, http.StatusNotFound, "Profile has not been set up yet.")
		return
	}

	c.JSON(http.StatusOK, user.Profile)
}

// UpdateProfile godoc
// @Summary Create or replace the authenticated user's profile
// @Tags User
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body ProfileRequest true "Full profile"
// @Success 200 {object} UserResponse
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 404 {object} gin.H "User not found"
// @Router /profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	profile := &domain.UserProfile{
		Age:                 req.Age,
		Weight:              req.Weight,
		Height:              req.Height,
		Gender:              req.Gender,
		Goal:                req.Goal,
		ActivityLevel:       req.ActivityLevel,
		DietaryRestrictions: req.DietaryRestrictions,
		Injuries:            req.Injuries,
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, profile)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update profile.")
		}
		return
	}

	c.JSON(http.StatusOK, MapUserToResponse(user))
}
