package api

import (
	"net/http"

	"fitagent/coaching-app/internal/domain"
	"fitagent/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationHandler serves the authenticated user's notification inbox.
type NotificationHandler struct {
	notificationService service.NotificationService
}

func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// GetNotifications godoc
// @Summary Get the authenticated user's notifications, newest first
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param unread query boolean false "Only unread notifications"
// @Success 200 {array} domain.Notification
// @Router /notifications [get]
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	unreadOnly := c.Query("unread") == "true"

	notifications, err := h.notificationService.GetUserNotifications(c.Request.Context(), userID, unreadOnly)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load notifications.")
		return
	}
	if notifications == nil {
		notifications = []domain.Notification{}
	}
	c.JSON(http.StatusOK, notifications)
}

// MarkAsRead godoc
// @Summary Mark one of your notifications as read
// @Description Marking an unknown notification, or someone else's, is a silent no-op.
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 204 "Marked"
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	notificationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid notification ID format.")
		return
	}
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	if err := h.notificationService.MarkAsRead(c.Request.Context(), notificationID, userID); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to mark notification as read.")
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllRead godoc
// @Summary Mark all of your notifications as read
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 204 "Marked"
// @Router /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	if err := h.notificationService.MarkAllRead(c.Request.Context(), userID); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to mark notifications as read.")
		return
	}
	c.Status(http.StatusNoContent)
}
