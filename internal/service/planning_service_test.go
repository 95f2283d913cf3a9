package service_test

import (
	"context"
	"testing"
	"time"

	"fitagent/coaching-app/internal/domain"
	"fitagent/coaching-app/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type planningFixture struct {
	userRepo         *fakeUserRepo
	workoutRepo      *fakePlanRepo[*domain.WorkoutPlan]
	nutritionRepo    *fakePlanRepo[*domain.NutritionPlan]
	versionRepo      *fakeVersionRepo
	notificationRepo *fakeNotificationRepo
	generator        *fakeGenerator
	svc              service.PlanningService
}

func newPlanningFixture() *planningFixture {
	f := &planningFixture{
		userRepo:         newFakeUserRepo(),
		workoutRepo:      &fakePlanRepo[*domain.WorkoutPlan]{},
		nutritionRepo:    &fakePlanRepo[*domain.NutritionPlan]{},
		versionRepo:      &fakeVersionRepo{},
		notificationRepo: &fakeNotificationRepo{},
		generator: &fakeGenerator{
			sessions: []domain.WorkoutSession{{
				Day:   "Monday",
				Focus: "Upper Body",
				Exercises: []domain.Exercise{
					{Name: "Bench Press", Sets: 3, Reps: "8-10"},
				},
			}},
			dailyPlans: []domain.DailyMealPlan{{
				Day: "Monday",
				Meals: []domain.Meal{
					{Name: "Oatmeal", Calories: 350},
				},
			}},
		},
	}
	f.svc = service.NewPlanningService(
		f.workoutRepo,
		f.nutritionRepo,
		f.userRepo,
		f.generator,
		service.NewVersionService(f.versionRepo),
		service.NewNotificationService(f.notificationRepo),
	)
	return f
}

func (f *planningFixture) addClient() *domain.User {
	return f.userRepo.add(&domain.User{
		Username: "client",
		Roles:    []domain.Role{domain.RoleClient},
		Profile: &domain.UserProfile{
			Age:           30,
			Weight:        80,
			Height:        180,
			Gender:        "male",
			Goal:          domain.GoalMuscleGain,
			ActivityLevel: domain.ActivityModeratelyActive,
		},
	})
}

func TestPlanningService_GenerateWorkoutPlan(t *testing.T) {
	ctx := context.Background()

	t.Run("Should create a draft owned and created by the user", func(t *testing.T) {
		f := newPlanningFixture()
		client := f.addClient()

		plan, err := f.svc.GenerateWorkoutPlan(ctx, client.ID)
		require.NoError(t, err)

		assert.Equal(t, domain.PlanStateDraft, plan.PlanState)
		assert.Equal(t, client.ID, plan.UserID)
		assert.Equal(t, client.ID, plan.CreatedBy)
		assert.False(t, plan.ID.IsZero())
		assert.Len(t, plan.Sessions, 1)
		assert.WithinDuration(t, plan.StartDate.Add(7*24*time.Hour), plan.EndDate, time.Second)
	})

	t.Run("Should not record a version or notification for a fresh draft", func(t *testing.T) {
		f := newPlanningFixture()
		client := f.addClient()

		_, err := f.svc.GenerateWorkoutPlan(ctx, client.ID)
		require.NoError(t, err)

		assert.Empty(t, f.versionRepo.versions)
		assert.Empty(t, f.notificationRepo.notifications)
	})

	t.Run("Should reject a user without a profile", func(t *testing.T) {
		f := newPlanningFixture()
		bare := f.userRepo.add(&domain.User{Username: "bare", Roles: []domain.Role{domain.RoleClient}})

		_, err := f.svc.GenerateWorkoutPlan(ctx, bare.ID)
		assert.ErrorIs(t, err, service.ErrProfileIncomplete)
	})

	t.Run("Should reject an unknown user", func(t *testing.T) {
		f := newPlanningFixture()
		_, err := f.svc.GenerateWorkoutPlan(ctx, primitive.NewObjectID())
		assert.ErrorIs(t, err, service.ErrProfileIncomplete)
	})

	t.Run("Should propagate generation failures without persisting", func(t *testing.T) {
		f := newPlanningFixture()
		client := f.addClient()
		f.generator.err = errRepoDown

		_, err := f.svc.GenerateWorkoutPlan(ctx, client.ID)
		assert.Error(t, err)
		assert.Empty(t, f.workoutRepo.plans)
	})
}

func TestPlanningService_GenerateNutritionPlan(t *testing.T) {
	ctx := context.Background()

	t.Run("Should create a draft nutrition plan", func(t *testing.T) {
		f := newPlanningFixture()
		client := f.addClient()

		plan, err := f.svc.GenerateNutritionPlan(ctx, client.ID)
		require.NoError(t, err)

		assert.Equal(t, domain.PlanStateDraft, plan.PlanState)
		assert.Equal(t, client.ID, plan.CreatedBy)
		assert.Len(t, plan.DailyPlans, 1)
	})
}

func TestPlanningService_UpdateWorkoutPlan(t *testing.T) {
	ctx := context.Background()

	setup := func(f *planningFixture) (*domain.User, *domain.WorkoutPlan) {
		client := f.addClient()
		plan, err := f.svc.GenerateWorkoutPlan(ctx, client.ID)
		require.NoError(t, err)
		return client, plan
	}

	t.Run("Should snapshot the pre-edit state before applying the edit", func(t *testing.T) {
		f := newPlanningFixture()
		client, plan := setup(f)
		trainer := f.userRepo.add(&domain.User{Username: "trainer", Roles: []domain.Role{domain.RoleTrainer}})

		newSessions := []domain.WorkoutSession{{Day: "Tuesday", Focus: "Legs"}}
		updated, err := f.svc.UpdateWorkoutPlan(ctx, plan.ID, plan.StartDate, plan.EndDate, newSessions, trainer.ID)
		require.NoError(t, err)

		require.Len(t, f.versionRepo.versions, 1)
		version := f.versionRepo.versions[0]
		assert.Equal(t, 1, version.VersionNumber)
		assert.Equal(t, trainer.ID, version.CreatedBy)
		assert.Equal(t, domain.PlanStateDraft, version.StateAtVersion)
		// The snapshot captures the state before the edit.
		assert.Contains(t, version.DataSnapshot, "Upper Body")
		assert.NotContains(t, version.DataSnapshot, "Legs")

		assert.Equal(t, domain.PlanStateApproved, updated.PlanState)
		require.NotNil(t, updated.ModifiedBy)
		assert.Equal(t, trainer.ID, *updated.ModifiedBy)
		assert.NotNil(t, updated.ModifiedAt)
		assert.Equal(t, client.ID, updated.UserID)
	})

	t.Run("Should notify the plan owner after a successful edit", func(t *testing.T) {
		f := newPlanningFixture()
		client, plan := setup(f)
		trainer := f.userRepo.add(&domain.User{Username: "trainer", Roles: []domain.Role{domain.RoleTrainer}})

		_, err := f.svc.UpdateWorkoutPlan(ctx, plan.ID, plan.StartDate, plan.EndDate, nil, trainer.ID)
		require.NoError(t, err)

		updates := f.notificationRepo.ofType(domain.NotificationPlanUpdated)
		require.Len(t, updates, 1)
		assert.Equal(t, client.ID, updates[0].UserID)
	})

	t.Run("Should not apply the edit when the snapshot fails", func(t *testing.T) {
		f := newPlanningFixture()
		_, plan := setup(f)
		trainer := f.userRepo.add(&domain.User{Username: "trainer", Roles: []domain.Role{domain.RoleTrainer}})
		f.versionRepo.createErr = errRepoDown

		_, err := f.svc.UpdateWorkoutPlan(ctx, plan.ID, plan.StartDate, plan.EndDate,
			[]domain.WorkoutSession{{Day: "Friday"}}, trainer.ID)
		require.Error(t, err)

		stored, getErr := f.workoutRepo.GetByID(ctx, plan.ID)
		require.NoError(t, getErr)
		assert.Equal(t, domain.PlanStateDraft, stored.PlanState)
		assert.Equal(t, "Monday", stored.Sessions[0].Day)
		assert.Empty(t, f.notificationRepo.notifications)
	})

	t.Run("Should number successive edits sequentially", func(t *testing.T) {
		f := newPlanningFixture()
		_, plan := setup(f)
		trainer := f.userRepo.add(&domain.User{Username: "trainer", Roles: []domain.Role{domain.RoleTrainer}})

		for i := 0; i < 3; i++ {
			_, err := f.svc.UpdateWorkoutPlan(ctx, plan.ID, plan.StartDate, plan.EndDate, nil, trainer.ID)
			require.NoError(t, err)
		}

		require.Len(t, f.versionRepo.versions, 3)
		for i, v := range f.versionRepo.versions {
			assert.Equal(t, i+1, v.VersionNumber)
		}
	})

	t.Run("Should report a missing plan", func(t *testing.T) {
		f := newPlanningFixture()
		_, err := f.svc.UpdateWorkoutPlan(ctx, primitive.NewObjectID(), time.Now(), time.Now(), nil, primitive.NewObjectID())
		assert.ErrorIs(t, err, service.ErrPlanNotFound)
	})
}

func TestPlanningService_ActivateWorkoutPlan(t *testing.T) {
	ctx := context.Background()

	approve := func(t *testing.T, f *planningFixture, clientID primitive.ObjectID) *domain.WorkoutPlan {
		t.Helper()
		plan, err := f.svc.GenerateWorkoutPlan(ctx, clientID)
		require.NoError(t, err)
		trainer := f.userRepo.add(&domain.User{Username: "t-" + plan.ID.Hex(), Roles: []domain.Role{domain.RoleTrainer}})
		approved, err := f.svc.UpdateWorkoutPlan(ctx, plan.ID, plan.StartDate, plan.EndDate, plan.Sessions, trainer.ID)
		require.NoError(t, err)
		return approved
	}

	t.Run("Should activate an approved plan for its owner", func(t *testing.T) {
		f := newPlanningFixture()
		client := f.addClient()
		plan := approve(t, f, client.ID)

		activated, err := f.svc.ActivateWorkoutPlan(ctx, plan.ID, client.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.PlanStateActive, activated.PlanState)
	})

	t.Run("Should refuse activation of a draft", func(t *testing.T) {
		f := newPlanningFixture()
		client := f.addClient()
		draft, err := f.svc.GenerateWorkoutPlan(ctx, client.ID)
		require.NoError(t, err)

		_, err = f.svc.ActivateWorkoutPlan(ctx, draft.ID, client.ID)
		var stateErr *service.InvalidStateError
		require.ErrorAs(t, err, &stateErr)
		assert.Equal(t, domain.PlanStateDraft, stateErr.State)
	})

	t.Run("Should refuse activation by a non-owner", func(t *testing.T) {
		f := newPlanningFixture()
		client := f.addClient()
		plan := approve(t, f, client.ID)

		_, err := f.svc.ActivateWorkoutPlan(ctx, plan.ID, primitive.NewObjectID())
		assert.ErrorIs(t, err, service.ErrPlanAccessDenied)
	})

	t.Run("Should archive the previously active plan", func(t *testing.T) {
		f := newPlanningFixture()
		client := f.addClient()

		first := approve(t, f, client.ID)
		_, err := f.svc.ActivateWorkoutPlan(ctx, first.ID, client.ID)
		require.NoError(t, err)

		second := approve(t, f, client.ID)
		_, err = f.svc.ActivateWorkoutPlan(ctx, second.ID, client.ID)
		require.NoError(t, err)

		// Activating the newer plan again still succeeds; it is already the
		// current one, so nothing else changes.
		stored, err := f.workoutRepo.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.PlanStateArchived, stored.PlanState)
	})

	t.Run("Should notify the assigned trainer on activation", func(t *testing.T) {
		f := newPlanningFixture()
		client := f.addClient()
		trainer := f.userRepo.add(&domain.User{Username: "assigned", Roles: []domain.Role{domain.RoleTrainer}})
		client.TrainerID = &trainer.ID
		require.NoError(t, f.userRepo.Update(ctx, client))

		plan := approve(t, f, client.ID)
		_, err := f.svc.ActivateWorkoutPlan(ctx, plan.ID, client.ID)
		require.NoError(t, err)

		activations := f.notificationRepo.ofType(domain.NotificationPlanActivated)
		require.Len(t, activations, 1)
		assert.Equal(t, trainer.ID, activations[0].UserID)
	})

	t.Run("Should succeed even when the notification store is down", func(t *testing.T) {
		f := newPlanningFixture()
		client := f.addClient()
		trainer := f.userRepo.add(&domain.User{Username: "assigned", Roles: []domain.Role{domain.RoleTrainer}})
		client.TrainerID = &trainer.ID
		require.NoError(t, f.userRepo.Update(ctx, client))

		plan := approve(t, f, client.ID)
		f.notificationRepo.createErr = errRepoDown

		activated, err := f.svc.ActivateWorkoutPlan(ctx, plan.ID, client.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.PlanStateActive, activated.PlanState)
	})
}

func TestPlanningService_GetCurrentPlan(t *testing.T) {
	ctx := context.Background()

	t.Run("Should return the most recently created plan", func(t *testing.T) {
		f := newPlanningFixture()
		client := f.addClient()

		_, err := f.svc.GenerateWorkoutPlan(ctx, client.ID)
		require.NoError(t, err)
		second, err := f.svc.GenerateWorkoutPlan(ctx, client.ID)
		require.NoError(t, err)

		current, err := f.svc.GetCurrentWorkoutPlan(ctx, client.ID)
		require.NoError(t, err)
		assert.Equal(t, second.ID, current.ID)
	})

	t.Run("Should report not found when the user has no plans", func(t *testing.T) {
		f := newPlanningFixture()
		_, err := f.svc.GetCurrentWorkoutPlan(ctx, primitive.NewObjectID())
		assert.ErrorIs(t, err, service.ErrPlanNotFound)
	})
}
