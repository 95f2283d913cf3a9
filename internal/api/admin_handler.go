package api

import (
	"errors"
	"fmt"
	"net/http"

	"fitagent/coaching-app/internal/domain"
	"fitagent/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminHandler serves user administration: listing users and managing roles.
type AdminHandler struct {
	roleService service.RoleService
}

func NewAdminHandler(roleService service.RoleService) *AdminHandler {
	return &AdminHandler{roleService: roleService}
}

type AssignRoleRequest struct {
	Role domain.Role `json:"role" binding:"required"`
}

// ListUsers godoc
// @Summary List users, optionally filtered by role
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param role query string false "Role filter (client, trainer, nutritionist, admin)"
// @Success 200 {array} UserResponse
// @Failure 403 {object} gin.H "Caller is not an admin"
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	adminID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	var users []domain.User
	if roleFilter := c.Query("role"); roleFilter != "" {
		users, err = h.roleService.GetUsersByRole(c.Request.Context(), adminID, domain.Role(roleFilter))
	} else {
		users, err = h.roleService.GetAllUsers(c.Request.Context(), adminID)
	}
	if err != nil {
		h.respondRoleError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapUsersToResponse(users))
}

// AssignRole godoc
// @Summary Grant a role to a user
// @Description Idempotent; granting a role the user already holds changes nothing.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param role body AssignRoleRequest true "Role to grant"
// @Success 200 {object} UserResponse "Updated user"
// @Failure 400 {object} gin.H "Unknown role"
// @Failure 403 {object} gin.H "Caller is not an admin"
// @Failure 404 {object} gin.H "User not found"
// @Router /admin/users/{id}/roles [post]
func (h *AdminHandler) AssignRole(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format.")
		return
	}
	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	adminID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	user, err := h.roleService.AssignRole(c.Request.Context(), adminID, userID, req.Role)
	if err != nil {
		h.respondRoleError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// RemoveRole godoc
// @Summary Revoke a role from a user
// @Description A user's last role can never be removed.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param role path string true "Role to revoke"
// @Success 200 {object} UserResponse "Updated user"
// @Failure 400 {object} gin.H "Unknown role, or removing the user's last role"
// @Failure 403 {object} gin.H "Caller is not an admin"
// @Failure 404 {object} gin.H "User not found"
// @Router /admin/users/{id}/roles/{role} [delete]
func (h *AdminHandler) RemoveRole(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format.")
		return
	}
	adminID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	user, err := h.roleService.RemoveRole(c.Request.Context(), adminID, userID, domain.Role(c.Param("role")))
	if err != nil {
		h.respondRoleError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

func (h *AdminHandler) respondRoleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAdminOnly):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidRole), errors.Is(err, service.ErrLastRole):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}
