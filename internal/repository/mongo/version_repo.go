package mongo

import (
	"context"
	"errors"

	"fitagent/coaching-app/internal/domain"
	"fitagent/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const versionCollectionName = "plan_versions"

// mongoVersionRepository implements repository.VersionRepository.
// The collection is append-only; documents are never updated or deleted.
type mongoVersionRepository struct {
	collection *mongo.Collection
}

// NewMongoVersionRepository creates the plan version repository.
func NewMongoVersionRepository(db *mongo.Database) repository.VersionRepository {
	return &mongoVersionRepository{
		collection: db.Collection(versionCollectionName),
	}
}

// Create inserts an immutable version snapshot. The unique index on
// (planId, versionNumber) turns a concurrent snapshot race into ErrConflict
// instead of letting two snapshots share a version number.
func (r *mongoVersionRepository) Create(ctx context.Context, version *domain.PlanVersion) error {
	if version.ID == "" || version.PlanID == primitive.NilObjectID || version.VersionNumber < 1 {
		return errors.New("version requires id, planId, and a version number >= 1")
	}

	_, err := r.collection.InsertOne(ctx, version)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return err
	}
	return nil
}

// GetByID retrieves a single version by its derived string ID.
func (r *mongoVersionRepository) GetByID(ctx context.Context, id string) (*domain.PlanVersion, error) {
	var version domain.PlanVersion
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&version)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &version, nil
}

// GetByPlanID retrieves all versions for a plan, newest first.
func (r *mongoVersionRepository) GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.PlanVersion, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "versionNumber", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"planId": planID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	versions := []domain.PlanVersion{}
	if err = cursor.All(ctx, &versions); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return versions, nil
}

// EnsureVersionIndexes creates necessary indexes for the versions collection.
// The unique compound index is load-bearing: it is what surfaces concurrent
// version-number races as conflicts.
func EnsureVersionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "planId", Value: 1}, {Key: "versionNumber", Value: -1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
