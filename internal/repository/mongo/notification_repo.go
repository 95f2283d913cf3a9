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

const notificationCollectionName = "notifications"

// mongoNotificationRepository implements repository.NotificationRepository.
type mongoNotificationRepository struct {
	collection *mongo.Collection
}

// NewMongoNotificationRepository creates the notification repository.
func NewMongoNotificationRepository(db *mongo.Database) repository.NotificationRepository {
	return &mongoNotificationRepository{
		collection: db.Collection(notificationCollectionName),
	}
}

// Create inserts a new notification.
func (r *mongoNotificationRepository) Create(ctx context.Context, notification *domain.Notification) (primitive.ObjectID, error) {
	if notification.UserID == primitive.NilObjectID || notification.Type == "" {
		return primitive.NilObjectID, errors.New("notification requires userId and type")
	}

	notification.ID = primitive.NewObjectID()
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, notification)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted notification ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single notification.
func (r *mongoNotificationRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Notification, error) {
	var notification domain.Notification
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&notification)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &notification, nil
}

// GetByUserID retrieves a user's notifications, newest first.
func (r *mongoNotificationRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID, unreadOnly bool) ([]domain.Notification, error) {
	filter := bson.M{"userId": userID}
	if unreadOnly {
		filter["isRead"] = false
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	notifications := []domain.Notification{}
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkAsRead flips a single notification to read.
func (r *mongoNotificationRepository) MarkAsRead(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{"isRead": true, "readAt": now}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// MarkAllRead flips every unread notification for the user.
func (r *mongoNotificationRepository) MarkAllRead(ctx context.Context, userID primitive.ObjectID) error {
	now := time.Now().UTC()
	filter := bson.M{"userId": userID, "isRead": false}
	update := bson.M{"$set": bson.M{"isRead": true, "readAt": now}}

	_, err := r.collection.UpdateMany(ctx, filter, update)
	return err
}

// EnsureNotificationIndexes creates necessary indexes for the notifications collection.
func EnsureNotificationIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "isRead", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
