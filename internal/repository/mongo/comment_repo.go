package mongo

import (
	"context"
	"errors"
	"time"

	"fitagent/coaching-app/internal/domain"
	"fitagent/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const commentCollectionName = "plan_comments"

// mongoCommentRepository implements repository.CommentRepository.
type mongoCommentRepository struct {
	collection *mongo.Collection
}

// NewMongoCommentRepository creates the plan comment repository.
func NewMongoCommentRepository(db *mongo.Database) repository.CommentRepository {
	return &mongoCommentRepository{
		collection: db.Collection(commentCollectionName),
	}
}

// Create inserts a new comment.
func (r *mongoCommentRepository) Create(ctx context.Context, comment *domain.PlanComment) (primitive.ObjectID, error) {
	if comment.PlanID == primitive.NilObjectID || comment.AuthorID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("comment requires planId and authorId")
	}

	comment.ID = primitive.NewObjectID()
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, comment)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted comment ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single comment.
func (r *mongoCommentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PlanComment, error) {
	var comment domain.PlanComment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&comment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// GetByPlanID retrieves all comments for a plan in creation order.
func (r *mongoCommentRepository) GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.PlanComment, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"planId": planID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	comments := []domain.PlanComment{}
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return comments, nil
}

// Delete removes a comment. Authorization belongs to the service layer.
func (r *mongoCommentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureCommentIndexes creates necessary indexes for the comments collection.
func EnsureCommentIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "planId", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "authorId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
