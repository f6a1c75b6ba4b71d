package interfaces

import (
	"context"

	"easyride/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChatRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Chat, error)
	FindByRideAndParticipant(ctx context.Context, rideID primitive.ObjectID, userID string) ([]*models.Chat, error)

	// CreateIfAbsent inserts the chat unless one already exists for the same
	// ride and participant pair. The boolean reports whether this call
	// created it.
	CreateIfAbsent(ctx context.Context, chat *models.Chat) (*models.Chat, bool, error)

	ListByParticipant(ctx context.Context, userID string) ([]*models.Chat, error)
	ListAll(ctx context.Context) ([]*models.Chat, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	CreateMessage(ctx context.Context, message *models.Message) error
	ListMessages(ctx context.Context, chatID primitive.ObjectID) ([]*models.Message, error)
	MarkMessageRead(ctx context.Context, messageID primitive.ObjectID) error
	MoveMessages(ctx context.Context, fromChatID, toChatID primitive.ObjectID) (int64, error)
}
