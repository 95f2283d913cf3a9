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

const (
	workoutPlanCollectionName   = "workout_plans"
	nutritionPlanCollectionName = "nutrition_plans"
)

// planDocument ties a concrete plan struct T to its pointer type, which is
// what carries the domain.Plan methods. This lets one repository implementation
// decode documents for both plan kinds.
type planDocument[T any] interface {
	*T
	domain.Plan
}

// mongoPlanRepository implements repository.PlanRepository for one plan kind.
type mongoPlanRepository[T any, P planDocument[T]] struct {
	collection *mongo.Collection
}

// NewMongoWorkoutPlanRepository creates the workout plan repository.
func NewMongoWorkoutPlanRepository(db *mongo.Database) repository.PlanRepository[*domain.WorkoutPlan] {
	return &mongoPlanRepository[domain.WorkoutPlan, *domain.WorkoutPlan]{
		collection: db.Collection(workoutPlanCollectionName),
	}
}

// NewMongoNutritionPlanRepository creates the nutrition plan repository.
func NewMongoNutritionPlanRepository(db *mongo.Database) repository.PlanRepository[*domain.NutritionPlan] {
	return &mongoPlanRepository[domain.NutritionPlan, *domain.NutritionPlan]{
		collection: db.Collection(nutritionPlanCollectionName),
	}
}

// Create inserts a new plan. The service layer is responsible for content and
// timestamps; the repository only assigns the document ID.
func (r *mongoPlanRepository[T, P]) Create(ctx context.Context, plan P) (primitive.ObjectID, error) {
	if plan.OwnerID() == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("plan requires an owning user ID")
	}
	if plan.PlanID() == primitive.NilObjectID {
		plan.SetPlanID(primitive.NewObjectID())
	}

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted plan ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single plan by its ID.
func (r *mongoPlanRepository[T, P]) GetByID(ctx context.Context, id primitive.ObjectID) (P, error) {
	var doc T
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return P(&doc), nil
}

// GetByUserID retrieves all plans owned by a user, newest first.
func (r *mongoPlanRepository[T, P]) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]P, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []T
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	plans := make([]P, len(docs))
	for i := range docs {
		plans[i] = P(&docs[i])
	}
	return plans, nil
}

// GetCurrentPlan returns the most recently created plan for the user.
// Note this is creation order, not activation state.
func (r *mongoPlanRepository[T, P]) GetCurrentPlan(ctx context.Context, userID primitive.ObjectID) (P, error) {
	findOptions := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var doc T
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}, findOptions).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return P(&doc), nil
}

// Update replaces the stored plan document. Owner and creation metadata are
// carried on the struct, so a full replace keeps them intact.
func (r *mongoPlanRepository[T, P]) Update(ctx context.Context, plan P) error {
	if plan.PlanID() == primitive.NilObjectID {
		return errors.New("plan ID is required for update")
	}

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": plan.PlanID()}, plan)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePlanIndexes creates necessary indexes for a plan collection.
// Call once per plan collection during application startup.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Main query pattern: a user's plans ordered by creation time
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "state", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
