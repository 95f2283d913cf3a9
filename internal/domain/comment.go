package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanComment is a remark attached to a plan by its owner or a professional.
// Internal comments are professional-to-professional notes hidden from clients.
type PlanComment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlanID     primitive.ObjectID `bson:"planId" json:"planId"`
	PlanType   PlanType           `bson:"planType" json:"planType"`
	AuthorID   primitive.ObjectID `bson:"authorId" json:"authorId"`
	AuthorRole Role               `bson:"authorRole" json:"authorRole"` // denormalized display label
	Content    string             `bson:"content" json:"content"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	EditedAt   *time.Time         `bson:"editedAt,omitempty" json:"editedAt,omitempty"`
	IsInternal bool               `bson:"isInternal" json:"isInternal"`
}
