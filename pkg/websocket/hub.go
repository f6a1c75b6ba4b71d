package websocket

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"easyride/pkg/logger"
)

const (
	TypeWelcome      = "welcome"
	TypeError        = "error"
	TypePong         = "pong"
	TypeChatMessage  = "chat_message"
	TypeChatSnapshot = "chat_snapshot"
	TypeChatClosed   = "chat_closed"
	TypeSessionEnded = "session_ended"

	chatRoomPrefix = "chat_"
	userRoomPrefix = "user_"
)

// SessionHandler is called by the hub for chat subscriptions. OpenChat
// authorizes the subscription and returns the snapshot sent to the client.
// MessageDelivered runs after a chat message reached a client that has
// that chat open and did not send it.
type SessionHandler interface {
	OpenChat(ctx context.Context, userID, chatID string) (interface{}, error)
	MessageDelivered(ctx context.Context, userID, chatID string)
}

type Hub struct {
	clients  map[*Client]bool
	rooms    map[string]map[*Client]bool
	stopped  bool
	mutex    sync.RWMutex
	sessions SessionHandler
	logger   *logger.Logger
}

type Message struct {
	Type      string      `json:"type"`
	RoomID    string      `json:"room_id,omitempty"`
	SenderID  string      `json:"sender_id,omitempty"`
	Timestamp int64       `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

type inboundMessage struct {
	Type string `json:"type"`
	Data struct {
		ChatID string `json:"chat_id"`
	} `json:"data"`
}

func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.NewNop()
	}
	return &Hub{
		clients: make(map[*Client]bool),
		rooms:   make(map[string]map[*Client]bool),
		logger:  log.WithField("component", "websocket_hub"),
	}
}

// SetSessionHandler wires the chat subscription callbacks. It must be
// called before Run.
func (h *Hub) SetSessionHandler(handler SessionHandler) {
	h.sessions = handler
}

// Run blocks until ctx is done, then closes every connection. Clients
// registering after that are refused.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()

	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.stopped = true
	for client := range h.clients {
		h.removeClient(client)
	}
}

// Register adds the client before its pumps start, so the first inbound
// message always finds it registered. It returns false once the hub has
// stopped.
func (h *Hub) Register(client *Client) bool {
	h.mutex.Lock()
	if h.stopped {
		h.mutex.Unlock()
		return false
	}
	h.clients[client] = true
	h.joinRoom(client, userRoomPrefix+client.UserID)
	h.mutex.Unlock()

	h.logger.WithUserID(client.UserID).Debug("Client registered")

	h.sendToClient(client, Message{
		Type:      TypeWelcome,
		Timestamp: getCurrentTimestamp(),
		Data:      map[string]interface{}{"message": "Connected successfully"},
	})
	return true
}

// Unregister is safe to call more than once and after the hub stopped.
func (h *Hub) Unregister(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.removeClient(client)
	h.logger.WithUserID(client.UserID).Debug("Client unregistered")
}

// removeClient must be called with the mutex held.
func (h *Hub) removeClient(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}

	delete(h.clients, client)
	close(client.send)

	for roomID := range client.rooms {
		h.leaveRoom(client, roomID)
	}
	client.activeChat = ""
}

// Publish delivers an event to every client in the room.
func (h *Hub) Publish(roomID string, message Message) {
	if message.Timestamp == 0 {
		message.Timestamp = getCurrentTimestamp()
	}
	message.RoomID = roomID

	data, err := json.Marshal(message)
	if err != nil {
		h.logger.WithError(err).Error("Failed to encode websocket message")
		return
	}

	chatID := chatIDFromRoom(roomID)

	var readers []*Client
	h.mutex.Lock()
	for client := range h.rooms[roomID] {
		if !h.enqueue(client, data) {
			continue
		}
		if message.Type == TypeChatMessage && chatID != "" && client.activeChat == chatID && client.UserID != message.SenderID {
			readers = append(readers, client)
		}
	}
	h.mutex.Unlock()

	if h.sessions == nil {
		return
	}
	for _, client := range readers {
		go h.sessions.MessageDelivered(context.Background(), client.UserID, chatID)
	}
}

// SendToUser delivers an event to every connection of a user.
func (h *Hub) SendToUser(userID string, message Message) {
	h.Publish(userRoomPrefix+userID, message)
}

// DisconnectUser tells every connection of the user that the session is
// over and closes them.
func (h *Hub) DisconnectUser(userID string) {
	h.SendToUser(userID, Message{Type: TypeSessionEnded})

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.rooms[userRoomPrefix+userID] {
		h.removeClient(client)
	}
}

// OpenChat makes chatID the client's single active chat subscription.
func (h *Hub) OpenChat(ctx context.Context, client *Client, chatID string) {
	if h.sessions == nil || chatID == "" {
		h.sendError(client, "chat subscriptions are unavailable")
		return
	}

	snapshot, err := h.sessions.OpenChat(ctx, client.UserID, chatID)
	if err != nil {
		h.logger.WithUserID(client.UserID).WithChatID(chatID).WithError(err).Warn("Chat subscription refused")
		h.sendError(client, "Unable to open chat")
		return
	}

	h.mutex.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mutex.Unlock()
		return
	}
	if client.activeChat != "" && client.activeChat != chatID {
		h.leaveRoom(client, chatRoomPrefix+client.activeChat)
	}
	client.activeChat = chatID
	h.joinRoom(client, chatRoomPrefix+chatID)
	h.mutex.Unlock()

	h.sendToClient(client, Message{
		Type:      TypeChatSnapshot,
		RoomID:    chatRoomPrefix + chatID,
		Timestamp: getCurrentTimestamp(),
		Data:      snapshot,
	})
}

// CloseChat ends the client's active chat subscription, if any.
func (h *Hub) CloseChat(client *Client) {
	h.mutex.Lock()
	chatID := client.activeChat
	if chatID != "" {
		h.leaveRoom(client, chatRoomPrefix+chatID)
		client.activeChat = ""
	}
	h.mutex.Unlock()

	if chatID != "" {
		h.sendToClient(client, Message{Type: TypeChatClosed, RoomID: chatRoomPrefix + chatID, Timestamp: getCurrentTimestamp()})
	}
}

// RoomSize reports how many clients are subscribed to a room.
func (h *Hub) RoomSize(roomID string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.rooms[roomID])
}

func (h *Hub) sendError(client *Client, text string) {
	h.sendToClient(client, Message{
		Type:      TypeError,
		Timestamp: getCurrentTimestamp(),
		Data:      map[string]interface{}{"message": text},
	})
}

func (h *Hub) sendToClient(client *Client, message Message) {
	data, err := json.Marshal(message)
	if err != nil {
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.clients[client]; ok {
		h.enqueue(client, data)
	}
}

// enqueue must be called with the mutex held. A client whose buffer is
// full is dropped.
func (h *Hub) enqueue(client *Client, data []byte) bool {
	select {
	case client.send <- data:
		return true
	default:
		h.logger.WithUserID(client.UserID).Warn("Dropping slow websocket client")
		h.removeClient(client)
		return false
	}
}

// joinRoom and leaveRoom must be called with the mutex held.
func (h *Hub) joinRoom(client *Client, roomID string) {
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]bool)
	}
	h.rooms[roomID][client] = true
	client.rooms[roomID] = true
}

func (h *Hub) leaveRoom(client *Client, roomID string) {
	if room, exists := h.rooms[roomID]; exists {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, roomID)
		}
	}
	delete(client.rooms, roomID)
}

func chatIDFromRoom(roomID string) string {
	if strings.HasPrefix(roomID, chatRoomPrefix) {
		return strings.TrimPrefix(roomID, chatRoomPrefix)
	}
	return ""
}

func getCurrentTimestamp() int64 {
	return time.Now().Unix()
}
