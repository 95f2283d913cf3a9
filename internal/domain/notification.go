package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType classifies what event produced a notification.
type NotificationType string

const (
	NotificationPlanCreated          NotificationType = "plan_created"
	NotificationPlanUpdated          NotificationType = "plan_updated"
	NotificationPlanApproved         NotificationType = "plan_approved"
	NotificationPlanActivated        NotificationType = "plan_activated"
	NotificationPlanCompleted        NotificationType = "plan_completed"
	NotificationCommentAdded         NotificationType = "comment_added"
	NotificationTrainerAssigned      NotificationType = "trainer_assigned"
	NotificationNutritionistAssigned NotificationType = "nutritionist_assigned"
)

// Notification is a per-user message produced as a side effect of plan
// lifecycle, comment, and assignment events. Only IsRead/ReadAt ever change
// after creation.
type Notification struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID            primitive.ObjectID `bson:"userId" json:"userId"` // recipient
	Type              NotificationType   `bson:"type" json:"type"`
	Title             string             `bson:"title" json:"title"`
	Message           string             `bson:"message" json:"message"`
	RelatedEntityType string             `bson:"relatedEntityType,omitempty" json:"relatedEntityType,omitempty"`
	RelatedEntityID   string             `bson:"relatedEntityId,omitempty" json:"relatedEntityId,omitempty"`
	IsRead            bool               `bson:"isRead" json:"isRead"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	ReadAt            *time.Time         `bson:"readAt,omitempty" json:"readAt,omitempty"`
}
