package service_test

import (
	"context"
	"fmt"
	"testing"

	"fitagent/coaching-app/internal/domain"
	"fitagent/coaching-app/internal/repository"
	"fitagent/coaching-app/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newWorkoutPlan(owner primitive.ObjectID) *domain.WorkoutPlan {
	return &domain.WorkoutPlan{
		ID:     primitive.NewObjectID(),
		UserID: owner,
		Sessions: []domain.WorkoutSession{
			{Day: "Monday", Focus: "Push", Exercises: []domain.Exercise{{Name: "Press", Sets: 3}}},
		},
		PlanState: domain.PlanStateDraft,
	}
}

func TestVersionService_CreateVersion(t *testing.T) {
	ctx := context.Background()

	t.Run("Should start numbering at one", func(t *testing.T) {
		repo := &fakeVersionRepo{}
		svc := service.NewVersionService(repo)
		plan := newWorkoutPlan(primitive.NewObjectID())

		version, err := svc.CreateVersion(ctx, plan, primitive.NewObjectID(), "initial review")
		require.NoError(t, err)

		assert.Equal(t, 1, version.VersionNumber)
		assert.Equal(t, fmt.Sprintf("%s_v1", plan.ID.Hex()), version.ID)
		assert.Equal(t, plan.ID, version.PlanID)
		assert.Equal(t, domain.PlanTypeWorkout, version.PlanType)
		assert.Equal(t, domain.PlanStateDraft, version.StateAtVersion)
	})

	t.Run("Should continue numbering from the latest version", func(t *testing.T) {
		repo := &fakeVersionRepo{}
		svc := service.NewVersionService(repo)
		plan := newWorkoutPlan(primitive.NewObjectID())
		editor := primitive.NewObjectID()

		for want := 1; want <= 4; want++ {
			version, err := svc.CreateVersion(ctx, plan, editor, "edit")
			require.NoError(t, err)
			assert.Equal(t, want, version.VersionNumber)
		}
	})

	t.Run("Should keep numbering independent per plan", func(t *testing.T) {
		repo := &fakeVersionRepo{}
		svc := service.NewVersionService(repo)
		planA := newWorkoutPlan(primitive.NewObjectID())
		planB := newWorkoutPlan(primitive.NewObjectID())
		editor := primitive.NewObjectID()

		_, err := svc.CreateVersion(ctx, planA, editor, "a1")
		require.NoError(t, err)
		vb, err := svc.CreateVersion(ctx, planB, editor, "b1")
		require.NoError(t, err)

		assert.Equal(t, 1, vb.VersionNumber)
	})

	t.Run("Should serialize the full plan into the snapshot", func(t *testing.T) {
		repo := &fakeVersionRepo{}
		svc := service.NewVersionService(repo)
		plan := newWorkoutPlan(primitive.NewObjectID())

		version, err := svc.CreateVersion(ctx, plan, primitive.NewObjectID(), "snap")
		require.NoError(t, err)

		assert.Contains(t, version.DataSnapshot, "Push")
		assert.Contains(t, version.DataSnapshot, "Press")
		assert.Contains(t, version.DataSnapshot, plan.ID.Hex())
	})

}

func TestVersionService_GetHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("Should return versions newest first", func(t *testing.T) {
		repo := &fakeVersionRepo{}
		svc := service.NewVersionService(repo)
		plan := newWorkoutPlan(primitive.NewObjectID())
		editor := primitive.NewObjectID()

		for i := 0; i < 3; i++ {
			_, err := svc.CreateVersion(ctx, plan, editor, "edit")
			require.NoError(t, err)
		}

		history, err := svc.GetHistory(ctx, plan.ID)
		require.NoError(t, err)
		require.Len(t, history, 3)
		assert.Equal(t, 3, history[0].VersionNumber)
		assert.Equal(t, 1, history[2].VersionNumber)
	})

	t.Run("Should return an empty history for an unknown plan", func(t *testing.T) {
		repo := &fakeVersionRepo{}
		svc := service.NewVersionService(repo)

		history, err := svc.GetHistory(ctx, primitive.NewObjectID())
		require.NoError(t, err)
		assert.Empty(t, history)
	})
}

func TestVersionIDFormat(t *testing.T) {
	planID := primitive.NewObjectID()
	assert.Equal(t, planID.Hex()+"_v7", domain.VersionID(planID, 7))
}

// Guard against the repository sentinel leaking through the service boundary.
func TestVersionService_CreateVersion_RepoConflictMapping(t *testing.T) {
	repo := &fakeVersionRepo{createErr: repository.ErrConflict}
	svc := service.NewVersionService(repo)
	plan := newWorkoutPlan(primitive.NewObjectID())

	_, err := svc.CreateVersion(context.Background(), plan, primitive.NewObjectID(), "edit")
	assert.ErrorIs(t, err, service.ErrVersionConflict)
}
