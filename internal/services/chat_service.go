package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"easyride/internal/config"
	"easyride/internal/models"
	"easyride/internal/repositories/interfaces"
	"easyride/internal/utils"
	"easyride/pkg/logger"
	"easyride/pkg/websocket"
)

const WelcomeMessage = "Chat started! You can now exchange messages about this ride."

// ChatSnapshot is what a participant sees when a chat is opened.
type ChatSnapshot struct {
	Chat     *models.Chat      `json:"chat"`
	Messages []*models.Message `json:"messages"`
}

type ChatService interface {
	// StartChat returns the chat between the two users for the ride,
	// creating it when none exists.
	StartChat(ctx context.Context, currentUserID, rideID, otherUserID string) (string, error)
	SendMessage(ctx context.Context, chatID, senderID, content string) (*models.Message, error)
	// OpenChat loads the messages and marks those from the other
	// participant as read.
	OpenChat(ctx context.Context, readerID, chatID string) (*ChatSnapshot, error)
	MarkRead(ctx context.Context, readerID, chatID string) (int, error)
	ListChats(ctx context.Context, userID string) ([]*models.ChatSummary, error)
	RefreshSnapshot(ctx context.Context, userID, chatID string) (*models.Chat, error)
	// DeduplicateChats merges chats that share a ride and participant pair
	// and returns how many duplicates were removed.
	DeduplicateChats(ctx context.Context) (int, error)
}

type chatService struct {
	chatRepo interfaces.ChatRepository
	rideRepo interfaces.RideRepository
	userRepo interfaces.UserRepository
	events   EventService
	config   *config.ChatConfig
	logger   *logger.Logger
}

func NewChatService(
	chatRepo interfaces.ChatRepository,
	rideRepo interfaces.RideRepository,
	userRepo interfaces.UserRepository,
	events EventService,
	cfg *config.ChatConfig,
	log *logger.Logger,
) ChatService {
	return &chatService{
		chatRepo: chatRepo,
		rideRepo: rideRepo,
		userRepo: userRepo,
		events:   events,
		config:   cfg,
		logger:   log,
	}
}

func (s *chatService) StartChat(ctx context.Context, currentUserID, rideID, otherUserID string) (string, error) {
	if currentUserID == "" || otherUserID == "" {
		return "", ErrMissingData
	}
	if currentUserID == otherUserID {
		return "", ErrSelfChat
	}

	rideOID, err := parseObjectID(rideID)
	if err != nil {
		return "", err
	}

	existing, err := s.chatRepo.FindByRideAndParticipant(ctx, rideOID, currentUserID)
	if err != nil {
		return "", fmt.Errorf("failed to look up chats: %w", err)
	}
	for _, chat := range existing {
		if chat.HasParticipant(otherUserID) {
			return chat.ID.Hex(), nil
		}
	}

	ride, err := s.rideRepo.GetByID(ctx, rideOID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return "", ErrRideNotFound
		}
		return "", fmt.Errorf("failed to get ride: %w", err)
	}

	now := time.Now().UTC()
	chat := &models.Chat{
		RideID:         ride.ID,
		Participants:   []string{currentUserID, otherUserID},
		ParticipantKey: models.ParticipantKey(currentUserID, otherUserID),
		RideDetails: models.RideDetails{
			Origin:      ride.Origin,
			Destination: ride.Destination,
			Date:        ride.Date,
		},
		LastMessageAt: &now,
		CreatedAt:     now,
	}

	stored, created, err := s.chatRepo.CreateIfAbsent(ctx, chat)
	if err != nil {
		return "", fmt.Errorf("failed to create chat: %w", err)
	}

	if created {
		welcome := &models.Message{
			ChatID:    stored.ID,
			SenderID:  s.systemSender(),
			Content:   WelcomeMessage,
			Timestamp: now,
		}
		if err := s.chatRepo.CreateMessage(ctx, welcome); err != nil {
			s.logger.WithChatID(stored.ID.Hex()).WithError(err).Warn("Failed to add welcome message")
		}
		s.logger.LogChatEvent(stored.ID.Hex(), "created", map[string]interface{}{
			"ride_id":      rideID,
			"participants": stored.Participants,
		})
	}

	return stored.ID.Hex(), nil
}

func (s *chatService) SendMessage(ctx context.Context, chatID, senderID, content string) (*models.Message, error) {
	if utils.IsBlank(content) {
		return nil, ErrEmptyMessage
	}

	chat, err := s.participantChat(ctx, senderID, chatID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	message := &models.Message{
		ChatID:    chat.ID,
		SenderID:  senderID,
		Content:   content,
		Timestamp: now,
	}

	if err := s.chatRepo.CreateMessage(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	err = s.chatRepo.Update(ctx, chat.ID, map[string]interface{}{
		"last_message":           utils.TruncatePreview(content, s.previewLength()),
		"last_message_at":        now,
		"last_message_sender_id": senderID,
		"messages_read":          false,
	})
	if err != nil {
		s.logger.WithChatID(chatID).WithError(err).Warn("Failed to update chat preview")
	}

	s.events.Publish(ctx, utils.ChatRoom(chatID), utils.EventChatMessage, senderID, message)
	if other := chat.OtherParticipant(senderID); other != "" {
		s.events.Publish(ctx, utils.UserRoom(other), utils.EventChatUpdated, senderID, map[string]interface{}{
			"chat_id":      chatID,
			"last_message": utils.TruncatePreview(content, s.previewLength()),
			"sender_id":    senderID,
		})
	}

	return message, nil
}

func (s *chatService) OpenChat(ctx context.Context, readerID, chatID string) (*ChatSnapshot, error) {
	chat, err := s.participantChat(ctx, readerID, chatID)
	if err != nil {
		return nil, err
	}

	messages, err := s.chatRepo.ListMessages(ctx, chat.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	s.markRead(ctx, chat, readerID, messages)

	return &ChatSnapshot{Chat: chat, Messages: messages}, nil
}

func (s *chatService) MarkRead(ctx context.Context, readerID, chatID string) (int, error) {
	chat, err := s.participantChat(ctx, readerID, chatID)
	if err != nil {
		return 0, err
	}

	messages, err := s.chatRepo.ListMessages(ctx, chat.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to load messages: %w", err)
	}

	return s.markRead(ctx, chat, readerID, messages), nil
}

// markRead flags every unread message not written by the reader. Each
// message is updated on its own and a failure only skips that message.
func (s *chatService) markRead(ctx context.Context, chat *models.Chat, readerID string, messages []*models.Message) int {
	log := s.logger.WithChatID(chat.ID.Hex())

	marked := 0
	for _, message := range messages {
		if message.Read || message.SenderID == readerID {
			continue
		}
		if err := s.chatRepo.MarkMessageRead(ctx, message.ID); err != nil {
			log.WithError(err).WithField("message_id", message.ID.Hex()).Warn("Failed to mark message read")
			continue
		}
		message.Read = true
		marked++
	}

	if marked == 0 {
		return 0
	}

	if chat.LastMessageSenderID != "" && chat.LastMessageSenderID != readerID {
		now := time.Now().UTC()
		err := s.chatRepo.Update(ctx, chat.ID, map[string]interface{}{
			"messages_read": true,
			"last_read_at":  now,
		})
		if err != nil {
			log.WithError(err).Warn("Failed to update chat read state")
		} else {
			chat.MessagesRead = true
			chat.LastReadAt = &now
		}
	}

	s.events.Publish(ctx, utils.ChatRoom(chat.ID.Hex()), utils.EventChatRead, readerID, map[string]interface{}{
		"chat_id": chat.ID.Hex(),
		"reader":  readerID,
		"marked":  marked,
	})

	return marked
}

func (s *chatService) ListChats(ctx context.Context, userID string) ([]*models.ChatSummary, error) {
	chats, err := s.chatRepo.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}

	sort.SliceStable(chats, func(i, j int) bool {
		return chats[i].ActivityAt().After(chats[j].ActivityAt())
	})

	ids := make([]string, 0, len(chats)+1)
	seen := make(map[string]bool)
	for _, chat := range chats {
		for _, participant := range chat.Participants {
			if !seen[participant] {
				seen[participant] = true
				ids = append(ids, participant)
			}
		}
	}

	profiles, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.WithUserID(userID).WithError(err).Warn("Failed to load chat participant profiles")
		profiles = nil
	}

	summaries := make([]*models.ChatSummary, 0, len(chats))
	for _, chat := range chats {
		summary := &models.ChatSummary{
			Chat:     *chat,
			Unread:   chat.LastMessageSenderID != userID,
			Profiles: make(map[string]models.PublicProfile, len(chat.Participants)),
		}
		for _, participant := range chat.Participants {
			if user, ok := profiles[participant]; ok {
				summary.Profiles[participant] = user.Public()
			}
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

func (s *chatService) RefreshSnapshot(ctx context.Context, userID, chatID string) (*models.Chat, error) {
	chat, err := s.participantChat(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	ride, err := s.rideRepo.GetByID(ctx, chat.RideID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrRideNotFound
		}
		return nil, fmt.Errorf("failed to get ride: %w", err)
	}

	details := models.RideDetails{Origin: ride.Origin, Destination: ride.Destination, Date: ride.Date}
	if err := s.chatRepo.Update(ctx, chat.ID, map[string]interface{}{"ride_details": details}); err != nil {
		return nil, fmt.Errorf("failed to refresh chat: %w", err)
	}

	chat.RideDetails = details
	return chat, nil
}

func (s *chatService) DeduplicateChats(ctx context.Context) (int, error) {
	chats, err := s.chatRepo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list chats: %w", err)
	}

	groups := make(map[string][]*models.Chat)
	var order []string
	for _, chat := range chats {
		if len(chat.Participants) != 2 {
			continue
		}
		key := chat.RideID.Hex() + "/" + models.ParticipantKey(chat.Participants[0], chat.Participants[1])
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], chat)
	}

	removed := 0
	for _, key := range order {
		n, err := s.mergeGroup(ctx, groups[key])
		removed += n
		if err != nil {
			return removed, err
		}
	}

	if removed > 0 {
		s.logger.WithField("removed", removed).Info("Merged duplicate chats")
	}
	return removed, nil
}

// mergeGroup keeps the oldest chat of the group, moves every message into
// it and carries over the most recent preview.
func (s *chatService) mergeGroup(ctx context.Context, group []*models.Chat) (int, error) {
	sort.SliceStable(group, func(i, j int) bool {
		if group[i].CreatedAt.Equal(group[j].CreatedAt) {
			return group[i].ID.Hex() < group[j].ID.Hex()
		}
		return group[i].CreatedAt.Before(group[j].CreatedAt)
	})

	keeper := group[0]
	latest := keeper
	removed := 0

	for _, duplicate := range group[1:] {
		if _, err := s.chatRepo.MoveMessages(ctx, duplicate.ID, keeper.ID); err != nil {
			return removed, fmt.Errorf("failed to merge chat %s: %w", duplicate.ID.Hex(), err)
		}
		if err := s.chatRepo.Delete(ctx, duplicate.ID); err != nil && !errors.Is(err, interfaces.ErrNotFound) {
			return removed, fmt.Errorf("failed to delete chat %s: %w", duplicate.ID.Hex(), err)
		}
		if duplicate.ActivityAt().After(latest.ActivityAt()) {
			latest = duplicate
		}
		removed++
	}

	updates := map[string]interface{}{}
	if keeper.ParticipantKey == "" {
		updates["participant_key"] = models.ParticipantKey(keeper.Participants[0], keeper.Participants[1])
	}
	if latest != keeper {
		updates["last_message"] = latest.LastMessage
		updates["last_message_at"] = latest.ActivityAt()
		updates["last_message_sender_id"] = latest.LastMessageSenderID
		updates["messages_read"] = latest.MessagesRead
	}

	if len(updates) > 0 {
		if err := s.chatRepo.Update(ctx, keeper.ID, updates); err != nil {
			return removed, fmt.Errorf("failed to update chat %s: %w", keeper.ID.Hex(), err)
		}
	}
	return removed, nil
}

func (s *chatService) participantChat(ctx context.Context, userID, chatID string) (*models.Chat, error) {
	id, err := parseObjectID(chatID)
	if err != nil {
		return nil, err
	}

	chat, err := s.chatRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}

	if !chat.HasParticipant(userID) {
		return nil, ErrNotParticipant
	}
	return chat, nil
}

func (s *chatService) systemSender() string {
	if sender := strings.TrimSpace(s.config.SystemSenderID); sender != "" {
		return sender
	}
	return models.SystemSenderID
}

func (s *chatService) previewLength() int {
	if s.config.PreviewLength > 0 {
		return s.config.PreviewLength
	}
	return utils.ChatPreviewLength
}

// chatSessionHandler connects websocket chat subscriptions to the chat
// service.
type chatSessionHandler struct {
	chats  ChatService
	logger *logger.Logger
}

func NewChatSessionHandler(chats ChatService, log *logger.Logger) websocket.SessionHandler {
	return &chatSessionHandler{chats: chats, logger: log}
}

func (h *chatSessionHandler) OpenChat(ctx context.Context, userID, chatID string) (interface{}, error) {
	return h.chats.OpenChat(ctx, userID, chatID)
}

func (h *chatSessionHandler) MessageDelivered(ctx context.Context, userID, chatID string) {
	if _, err := h.chats.MarkRead(ctx, userID, chatID); err != nil {
		h.logger.WithUserID(userID).WithChatID(chatID).WithError(err).Warn("Failed to mark delivered messages read")
	}
}
