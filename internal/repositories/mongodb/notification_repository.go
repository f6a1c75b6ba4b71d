package mongodb

import (
	"context"
	"fmt"
	"time"

	"easyride/internal/models"
	"easyride/internal/repositories/interfaces"
	"easyride/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type notificationRepository struct {
	collection *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) interfaces.NotificationRepository {
	return &notificationRepository{
		collection: db.Collection(database.NotificationsCollection),
	}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	prepareNotification(notification)

	if _, err := r.collection.InsertOne(ctx, notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) CreateMany(ctx context.Context, notifications []*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(notifications))
	for _, n := range notifications {
		prepareNotification(n)
		docs = append(docs, n)
	}

	// Unordered so one bad document does not stop the rest of the fan-out.
	_, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil {
		return fmt.Errorf("failed to create notifications: %w", err)
	}
	return nil
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipient string) ([]*models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"recipient": recipient}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return decodeAll[models.Notification](ctx, cursor)
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipient string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"recipient": recipient,
		"status":    models.NotificationStatusUnread,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id primitive.ObjectID, recipient string) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "recipient": recipient},
		bson.M{"$set": bson.M{"status": models.NotificationStatusRead, "read_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	if res.MatchedCount == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipient string) (int64, error) {
	res, err := r.collection.UpdateMany(ctx,
		bson.M{"recipient": recipient, "status": models.NotificationStatusUnread},
		bson.M{"$set": bson.M{"status": models.NotificationStatusRead, "read_at": time.Now().UTC()}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications as read: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *notificationRepository) DeleteByRecipient(ctx context.Context, recipient string) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"recipient": recipient}); err != nil {
		return fmt.Errorf("failed to delete notifications: %w", err)
	}
	return nil
}

func prepareNotification(n *models.Notification) {
	n.ID = primitive.NewObjectID()
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now().UTC()
	}
	if n.Status == "" {
		n.Status = models.NotificationStatusUnread
	}
}
