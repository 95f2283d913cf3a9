package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"fitagent/coaching-app/internal/domain"
	"fitagent/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrVersionConflict = errors.New("a version with this number already exists for the plan")
	ErrSnapshotFailed  = errors.New("failed to serialize plan snapshot")
)

// --- Service Interface ---
type VersionService interface {
	// CreateVersion snapshots the plan as it currently is. Call it BEFORE
	// persisting an edit so the history always holds the pre-edit state.
	CreateVersion(ctx context.Context, plan domain.Plan, changedBy primitive.ObjectID, summary string) (*domain.PlanVersion, error)
	// GetHistory returns all versions for a plan, newest first.
	GetHistory(ctx context.Context, planID primitive.ObjectID) ([]domain.PlanVersion, error)
}

// --- Service Implementation ---

type versionService struct {
	versionRepo repository.VersionRepository
}

// NewVersionService creates a new instance of versionService.
func NewVersionService(versionRepo repository.VersionRepository) VersionService {
	return &versionService{versionRepo: versionRepo}
}

// CreateVersion computes the next version number for the plan, serializes the
// plan's full current state, and appends an immutable snapshot. Version
// numbers per plan are a strictly increasing sequence starting at 1; the
// repository's uniqueness guarantee turns a concurrent race into
// ErrVersionConflict rather than a duplicate number.
func (s *versionService) CreateVersion(ctx context.Context, plan domain.Plan, changedBy primitive.ObjectID, summary string) (*domain.PlanVersion, error) {
	existing, err := s.versionRepo.GetByPlanID(ctx, plan.PlanID())
	if err != nil {
		return nil, err
	}

	nextNumber := 1
	for _, v := range existing {
		if v.VersionNumber >= nextNumber {
			nextNumber = v.VersionNumber + 1
		}
	}

	// Dates serialize as RFC 3339 through the plan's json tags.
	snapshot, err := json.Marshal(plan)
	if err != nil {
		return nil, ErrSnapshotFailed
	}

	version := &domain.PlanVersion{
		ID:             domain.VersionID(plan.PlanID(), nextNumber),
		PlanID:         plan.PlanID(),
		PlanType:       plan.Type(),
		VersionNumber:  nextNumber,
		CreatedBy:      changedBy,
		CreatedAt:      time.Now().UTC(),
		ChangesSummary: summary,
		DataSnapshot:   string(snapshot),
		StateAtVersion: plan.State(),
	}

	if err := s.versionRepo.Create(ctx, version); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrVersionConflict
		}
		return nil, err
	}
	return version, nil
}

// GetHistory returns the full version history of a plan, newest first.
func (s *versionService) GetHistory(ctx context.Context, planID primitive.ObjectID) ([]domain.PlanVersion, error) {
	return s.versionRepo.GetByPlanID(ctx, planID)
}
