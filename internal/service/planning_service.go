package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitagent/coaching-app/internal/ai"
	"fitagent/coaching-app/internal/domain"
	"fitagent/coaching-app/internal/repository"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrPlanNotFound      = errors.New("plan not found")
	ErrPlanAccessDenied  = errors.New("plan does not belong to this user")
	ErrProfileIncomplete = errors.New("user profile incomplete or not found")
)

// InvalidStateError reports an operation attempted against a plan whose
// lifecycle state does not allow it.
type InvalidStateError struct {
	Op    string
	State domain.PlanState
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s plan in %q state", e.Op, e.State)
}

// Fixed snapshot summaries recorded with each professional edit.
const (
	workoutEditSummary   = "Professional update: modified sessions and schedule"
	nutritionEditSummary = "Professional update: modified daily meal plans and schedule"
)

// Generated drafts cover one week from the moment of generation.
const draftPlanDuration = 7 * 24 * time.Hour

// --- Service Interface ---
type PlanningService interface {
	// Generation (AI collaborator). Drafts get no version entry and no
	// notification; history starts with the first professional edit.
	GenerateWorkoutPlan(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutPlan, error)
	GenerateNutritionPlan(ctx context.Context, userID primitive.ObjectID) (*domain.NutritionPlan, error)

	// Reads
	GetWorkoutPlan(ctx context.Context, planID primitive.ObjectID) (*domain.WorkoutPlan, error)
	GetNutritionPlan(ctx context.Context, planID primitive.ObjectID) (*domain.NutritionPlan, error)
	GetCurrentWorkoutPlan(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutPlan, error)
	GetCurrentNutritionPlan(ctx context.Context, userID primitive.ObjectID) (*domain.NutritionPlan, error)

	// Professional edits. The caller is responsible for checking that
	// modifiedBy is an authorized professional for the plan's owner; the
	// service snapshots, persists, and notifies.
	UpdateWorkoutPlan(ctx context.Context, planID primitive.ObjectID, startDate, endDate time.Time, sessions []domain.WorkoutSession, modifiedBy primitive.ObjectID) (*domain.WorkoutPlan, error)
	UpdateNutritionPlan(ctx context.Context, planID primitive.ObjectID, startDate, endDate time.Time, dailyPlans []domain.DailyMealPlan, modifiedBy primitive.ObjectID) (*domain.NutritionPlan, error)

	// Activation. Only the owning client may activate, only from approved;
	// the previously active plan of the same type is archived.
	ActivateWorkoutPlan(ctx context.Context, planID, userID primitive.ObjectID) (*domain.WorkoutPlan, error)
	ActivateNutritionPlan(ctx context.Context, planID, userID primitive.ObjectID) (*domain.NutritionPlan, error)
}

// --- Service Implementation ---

type planningService struct {
	workoutRepo   repository.PlanRepository[*domain.WorkoutPlan]
	nutritionRepo repository.PlanRepository[*domain.NutritionPlan]
	userRepo      repository.UserRepository
	generator     ai.Generator
	versions      VersionService
	notifications NotificationService
	logger        *log.Logger
}

// NewPlanningService creates a new instance of planningService.
func NewPlanningService(
	workoutRepo repository.PlanRepository[*domain.WorkoutPlan],
	nutritionRepo repository.PlanRepository[*domain.NutritionPlan],
	userRepo repository.UserRepository,
	generator ai.Generator,
	versions VersionService,
	notifications NotificationService,
) PlanningService {
	return &planningService{
		workoutRepo:   workoutRepo,
		nutritionRepo: nutritionRepo,
		userRepo:      userRepo,
		generator:     generator,
		versions:      versions,
		notifications: notifications,
		logger:        log.Default().With("component", "planning"),
	}
}

// === Generation ===

// GenerateWorkoutPlan drafts a workout plan from the user's profile.
func (s *planningService) GenerateWorkoutPlan(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	user, err := s.requireProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	sessions, err := s.generator.GenerateWorkout(ctx, user.Profile)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	plan := &domain.WorkoutPlan{
		UserID:    userID,
		StartDate: now,
		EndDate:   now.Add(draftPlanDuration),
		Sessions:  sessions,
		CreatedAt: now,
		CreatedBy: userID,
		PlanState: domain.PlanStateDraft,
	}

	id, err := s.workoutRepo.Create(ctx, plan)
	if err != nil {
		return nil, err
	}
	plan.ID = id
	return plan, nil
}

// GenerateNutritionPlan drafts a nutrition plan from the user's profile.
func (s *planningService) GenerateNutritionPlan(ctx context.Context, userID primitive.ObjectID) (*domain.NutritionPlan, error) {
	user, err := s.requireProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	dailyPlans, err := s.generator.GenerateNutrition(ctx, user.Profile)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	plan := &domain.NutritionPlan{
		UserID:     userID,
		StartDate:  now,
		EndDate:    now.Add(draftPlanDuration),
		DailyPlans: dailyPlans,
		CreatedAt:  now,
		CreatedBy:  userID,
		PlanState:  domain.PlanStateDraft,
	}

	id, err := s.nutritionRepo.Create(ctx, plan)
	if err != nil {
		return nil, err
	}
	plan.ID = id
	return plan, nil
}

func (s *planningService) requireProfile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileIncomplete
		}
		return nil, err
	}
	if !user.HasCompleteProfile() {
		return nil, ErrProfileIncomplete
	}
	return user, nil
}

// === Reads ===

func (s *planningService) GetWorkoutPlan(ctx context.Context, planID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	return getPlan(ctx, s.workoutRepo, planID)
}

func (s *planningService) GetNutritionPlan(ctx context.Context, planID primitive.ObjectID) (*domain.NutritionPlan, error) {
	return getPlan(ctx, s.nutritionRepo, planID)
}

func (s *planningService) GetCurrentWorkoutPlan(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	return getCurrentPlan(ctx, s.workoutRepo, userID)
}

func (s *planningService) GetCurrentNutritionPlan(ctx context.Context, userID primitive.ObjectID) (*domain.NutritionPlan, error) {
	return getCurrentPlan(ctx, s.nutritionRepo, userID)
}

// === Professional Edits ===

// UpdateWorkoutPlan applies a professional edit. The pre-edit state is
// snapshotted first; if the snapshot cannot be recorded the edit is not
// applied. A successful edit marks the plan approved and notifies the owner.
func (s *planningService) UpdateWorkoutPlan(ctx context.Context, planID primitive.ObjectID, startDate, endDate time.Time, sessions []domain.WorkoutSession, modifiedBy primitive.ObjectID) (*domain.WorkoutPlan, error) {
	plan, err := getPlan(ctx, s.workoutRepo, planID)
	if err != nil {
		return nil, err
	}

	if _, err := s.versions.CreateVersion(ctx, plan, modifiedBy, workoutEditSummary); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	plan.StartDate = startDate
	plan.EndDate = endDate
	plan.Sessions = sessions
	plan.ModifiedAt = &now
	plan.ModifiedBy = &modifiedBy
	plan.PlanState = domain.PlanStateApproved

	if err := s.workoutRepo.Update(ctx, plan); err != nil {
		return nil, err
	}

	s.notifyPlanUpdated(ctx, plan, "Workout Plan Updated", "Your trainer has updated your workout plan.")
	return plan, nil
}

// UpdateNutritionPlan applies a professional edit; see UpdateWorkoutPlan.
func (s *planningService) UpdateNutritionPlan(ctx context.Context, planID primitive.ObjectID, startDate, endDate time.Time, dailyPlans []domain.DailyMealPlan, modifiedBy primitive.ObjectID) (*domain.NutritionPlan, error) {
	plan, err := getPlan(ctx, s.nutritionRepo, planID)
	if err != nil {
		return nil, err
	}

	if _, err := s.versions.CreateVersion(ctx, plan, modifiedBy, nutritionEditSummary); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	plan.StartDate = startDate
	plan.EndDate = endDate
	plan.DailyPlans = dailyPlans
	plan.ModifiedAt = &now
	plan.ModifiedBy = &modifiedBy
	plan.PlanState = domain.PlanStateApproved

	if err := s.nutritionRepo.Update(ctx, plan); err != nil {
		return nil, err
	}

	s.notifyPlanUpdated(ctx, plan, "Nutrition Plan Updated", "Your nutritionist has updated your nutrition plan.")
	return plan, nil
}

// === Activation ===

// ActivateWorkoutPlan activates an approved workout plan for its owner.
func (s *planningService) ActivateWorkoutPlan(ctx context.Context, planID, userID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	plan, err := activatePlan(ctx, s.workoutRepo, planID, userID)
	if err != nil {
		return nil, err
	}
	s.notifyPlanActivated(ctx, plan)
	return plan, nil
}

// ActivateNutritionPlan activates an approved nutrition plan for its owner.
func (s *planningService) ActivateNutritionPlan(ctx context.Context, planID, userID primitive.ObjectID) (*domain.NutritionPlan, error) {
	plan, err := activatePlan(ctx, s.nutritionRepo, planID, userID)
	if err != nil {
		return nil, err
	}
	s.notifyPlanActivated(ctx, plan)
	return plan, nil
}

// === Generic helpers over both plan kinds ===

func getPlan[P domain.Plan](ctx context.Context, repo repository.PlanRepository[P], planID primitive.ObjectID) (P, error) {
	var zero P
	plan, err := repo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return zero, ErrPlanNotFound
		}
		return zero, err
	}
	return plan, nil
}

func getCurrentPlan[P domain.Plan](ctx context.Context, repo repository.PlanRepository[P], userID primitive.ObjectID) (P, error) {
	var zero P
	plan, err := repo.GetCurrentPlan(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return zero, ErrPlanNotFound
		}
		return zero, err
	}
	return plan, nil
}

// activatePlan drives the approved -> active transition. At most one plan of
// a type is ever active per user, so any other active plan gets archived
// first; the two writes run in archive-then-activate order so a failure can
// never leave two active plans.
func activatePlan[P domain.Plan](ctx context.Context, repo repository.PlanRepository[P], planID, userID primitive.ObjectID) (P, error) {
	var zero P

	plan, err := getPlan(ctx, repo, planID)
	if err != nil {
		return zero, err
	}
	if plan.OwnerID() != userID {
		return zero, ErrPlanAccessDenied
	}
	if plan.State() != domain.PlanStateApproved {
		return zero, &InvalidStateError{Op: "activate", State: plan.State()}
	}

	existing, err := repo.GetByUserID(ctx, userID)
	if err != nil {
		return zero, err
	}
	for _, other := range existing {
		if other.PlanID() != plan.PlanID() && other.State() == domain.PlanStateActive {
			other.SetState(domain.PlanStateArchived)
			if err := repo.Update(ctx, other); err != nil {
				return zero, err
			}
		}
	}

	plan.SetState(domain.PlanStateActive)
	if err := repo.Update(ctx, plan); err != nil {
		return zero, err
	}
	return plan, nil
}

// === Notification side effects (best-effort; never fail the operation) ===

func relatedEntityType(t domain.PlanType) string {
	if t == domain.PlanTypeNutrition {
		return "nutrition_plan"
	}
	return "workout_plan"
}

func (s *planningService) notifyPlanUpdated(ctx context.Context, plan domain.Plan, title, message string) {
	_, err := s.notifications.CreateNotification(ctx, plan.OwnerID(), domain.NotificationPlanUpdated,
		title, message, relatedEntityType(plan.Type()), plan.PlanID().Hex())
	if err != nil {
		s.logger.Warn("failed to notify plan owner about update", "plan", plan.PlanID().Hex(), "err", err)
	}
}

// notifyPlanActivated informs the owner's assigned professional of the
// matching plan type, when one is assigned.
func (s *planningService) notifyPlanActivated(ctx context.Context, plan domain.Plan) {
	owner, err := s.userRepo.GetByID(ctx, plan.OwnerID())
	if err != nil {
		s.logger.Warn("failed to load plan owner for activation notice", "plan", plan.PlanID().Hex(), "err", err)
		return
	}

	var recipient *primitive.ObjectID
	if plan.Type() == domain.PlanTypeWorkout {
		recipient = owner.TrainerID
	} else {
		recipient = owner.NutritionistID
	}
	if recipient == nil {
		return
	}

	_, err = s.notifications.CreateNotification(ctx, *recipient, domain.NotificationPlanActivated,
		"Plan Activated",
		fmt.Sprintf("%s started following their %s plan.", owner.Username, plan.Type()),
		relatedEntityType(plan.Type()), plan.PlanID().Hex())
	if err != nil {
		s.logger.Warn("failed to notify professional about activation", "plan", plan.PlanID().Hex(), "err", err)
	}
}
