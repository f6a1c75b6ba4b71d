package interfaces

import (
	"context"

	"easyride/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	CreateMany(ctx context.Context, notifications []*models.Notification) error
	ListByRecipient(ctx context.Context, recipient string) ([]*models.Notification, error)
	CountUnread(ctx context.Context, recipient string) (int64, error)
	MarkRead(ctx context.Context, id primitive.ObjectID, recipient string) error
	MarkAllRead(ctx context.Context, recipient string) (int64, error)
	DeleteByRecipient(ctx context.Context, recipient string) error
}
