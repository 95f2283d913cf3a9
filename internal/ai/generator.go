package ai

import (
	"context"
	"errors"

	"fitagent/coaching-app/internal/domain"
)

// ErrGenerationFailed indicates the AI provider could not produce parseable
// plan content. Callers decide whether to retry; this package never does.
var ErrGenerationFailed = errors.New("plan generation failed")

// Generator produces draft plan content from a user profile. Output is already
// mapped into domain content with per-field defaults applied, so callers never
// see the provider's raw document.
type Generator interface {
	GenerateWorkout(ctx context.Context, profile *domain.UserProfile) ([]domain.WorkoutSession, error)
	GenerateNutrition(ctx context.Context, profile *domain.UserProfile) ([]domain.DailyMealPlan, error)
}
