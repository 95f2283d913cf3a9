package repository

import (
	"context"

	"fitagent/coaching-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrConflict     = RepositoryError("conflict")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
	GetAll(ctx context.Context) ([]domain.User, error)
	GetClientsByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error)
	GetClientsByNutritionist(ctx context.Context, nutritionistID primitive.ObjectID) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// PlanRepository defines CRUD plus the "current plan" query for one plan kind.
// It is parameterized over the concrete plan pointer type (*domain.WorkoutPlan
// or *domain.NutritionPlan) so both kinds share one contract without a shared
// base struct.
type PlanRepository[P domain.Plan] interface {
	Create(ctx context.Context, plan P) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (P, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]P, error)
	// GetCurrentPlan returns the most recently created plan for the user,
	// regardless of state.
	GetCurrentPlan(ctx context.Context, userID primitive.ObjectID) (P, error)
	Update(ctx context.Context, plan P) error
}

// VersionRepository defines the append-only plan version history store.
// Versions are immutable; there is intentionally no update or delete.
type VersionRepository interface {
	// Create inserts a new version. A duplicate (planId, versionNumber) pair
	// surfaces as ErrConflict so concurrent snapshots cannot silently reuse
	// a version number.
	Create(ctx context.Context, version *domain.PlanVersion) error
	GetByID(ctx context.Context, id string) (*domain.PlanVersion, error)
	// GetByPlanID returns all versions for a plan, newest first.
	GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.PlanVersion, error)
}

// CommentRepository defines the interface for interacting with plan comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.PlanComment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PlanComment, error)
	GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.PlanComment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// NotificationRepository defines the interface for per-user notifications.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Notification, error)
	// GetByUserID returns the user's notifications, newest first,
	// optionally restricted to unread ones.
	GetByUserID(ctx context.Context, userID primitive.ObjectID, unreadOnly bool) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, id primitive.ObjectID) error
	MarkAllRead(ctx context.Context, userID primitive.ObjectID) error
}
