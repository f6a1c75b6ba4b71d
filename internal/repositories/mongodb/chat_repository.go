package mongodb

import (
	"context"
	"fmt"

	"easyride/internal/models"
	"easyride/internal/repositories/interfaces"
	"easyride/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type chatRepository struct {
	chatsCollection    *mongo.Collection
	messagesCollection *mongo.Collection
}

func NewChatRepository(db *mongo.Database) interfaces.ChatRepository {
	return &chatRepository{
		chatsCollection:    db.Collection(database.ChatsCollection),
		messagesCollection: db.Collection(database.MessagesCollection),
	}
}

func (r *chatRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Chat, error) {
	var chat models.Chat
	err := r.chatsCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&chat)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}
	return &chat, nil
}

func (r *chatRepository) FindByRideAndParticipant(ctx context.Context, rideID primitive.ObjectID, userID string) ([]*models.Chat, error) {
	filter := bson.M{
		"ride_id":      rideID,
		"participants": userID,
	}

	cursor, err := r.chatsCollection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find chats: %w", err)
	}
	return decodeAll[models.Chat](ctx, cursor)
}

// CreateIfAbsent relies on the unique (ride_id, participant_key) index.
// Two concurrent callers either both hit the upsert path, where the
// server picks one inserter, or one of them gets a duplicate key error
// and falls back to reading the winner's document.
func (r *chatRepository) CreateIfAbsent(ctx context.Context, chat *models.Chat) (*models.Chat, bool, error) {
	if chat.ParticipantKey == "" && len(chat.Participants) == 2 {
		chat.ParticipantKey = models.ParticipantKey(chat.Participants[0], chat.Participants[1])
	}

	filter := bson.M{"ride_id": chat.RideID, "participant_key": chat.ParticipantKey}
	update := bson.M{"$setOnInsert": bson.M{
		"participants":           chat.Participants,
		"ride_details":           chat.RideDetails,
		"last_message":           chat.LastMessage,
		"last_message_at":        chat.LastMessageAt,
		"last_message_sender_id": chat.LastMessageSenderID,
		"messages_read":          chat.MessagesRead,
		"created_at":             chat.CreatedAt,
	}}

	res, err := r.chatsCollection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return nil, false, fmt.Errorf("failed to create chat: %w", err)
	}

	created := err == nil && res.UpsertedID != nil

	var stored models.Chat
	if err := r.chatsCollection.FindOne(ctx, filter).Decode(&stored); err != nil {
		return nil, false, fmt.Errorf("failed to load chat: %w", err)
	}
	return &stored, created, nil
}

func (r *chatRepository) ListByParticipant(ctx context.Context, userID string) ([]*models.Chat, error) {
	cursor, err := r.chatsCollection.Find(ctx, bson.M{"participants": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	return decodeAll[models.Chat](ctx, cursor)
}

func (r *chatRepository) ListAll(ctx context.Context) ([]*models.Chat, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.chatsCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	return decodeAll[models.Chat](ctx, cursor)
}

func (r *chatRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	res, err := r.chatsCollection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update chat: %w", err)
	}
	if res.MatchedCount == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

func (r *chatRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := r.chatsCollection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}

	if _, err := r.messagesCollection.DeleteMany(ctx, bson.M{"chat_id": id}); err != nil {
		return fmt.Errorf("failed to delete chat messages: %w", err)
	}
	return nil
}

func (r *chatRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	message.ID = primitive.NewObjectID()

	if _, err := r.messagesCollection.InsertOne(ctx, message); err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (r *chatRepository) ListMessages(ctx context.Context, chatID primitive.ObjectID) ([]*models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.messagesCollection.Find(ctx, bson.M{"chat_id": chatID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return decodeAll[models.Message](ctx, cursor)
}

func (r *chatRepository) MarkMessageRead(ctx context.Context, messageID primitive.ObjectID) error {
	_, err := r.messagesCollection.UpdateOne(ctx,
		bson.M{"_id": messageID},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark message as read: %w", err)
	}
	return nil
}

func (r *chatRepository) MoveMessages(ctx context.Context, fromChatID, toChatID primitive.ObjectID) (int64, error) {
	res, err := r.messagesCollection.UpdateMany(ctx,
		bson.M{"chat_id": fromChatID},
		bson.M{"$set": bson.M{"chat_id": toChatID}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to move messages: %w", err)
	}
	return res.ModifiedCount, nil
}
