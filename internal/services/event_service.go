package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"easyride/internal/utils"
	"easyride/pkg/cache"
	"easyride/pkg/logger"
	"easyride/pkg/websocket"

	"github.com/google/uuid"
)

// RealtimeHub is the part of the websocket hub the event service drives.
type RealtimeHub interface {
	Publish(roomID string, message websocket.Message)
	DisconnectUser(userID string)
}

// Event is delivered to every websocket client subscribed to Room.
type Event struct {
	Room     string          `json:"room"`
	Type     string          `json:"type"`
	SenderID string          `json:"sender_id,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
	Origin   string          `json:"origin"`
}

type EventService interface {
	Publish(ctx context.Context, room, eventType, senderID string, data interface{})
	// EndSession closes every connection of the user on all instances.
	EndSession(ctx context.Context, userID string)
	// Run relays events published by any instance to the local hub until
	// ctx is done. It returns immediately when redis is not configured.
	Run(ctx context.Context) error
}

type eventService struct {
	hub        RealtimeHub
	redis      *cache.RedisCache
	channel    string
	instanceID string
	logger     *logger.Logger
}

// NewEventService delivers through redis pub/sub when redisCache is set
// and straight to the local hub otherwise.
func NewEventService(hub RealtimeHub, redisCache *cache.RedisCache, channel string, log *logger.Logger) EventService {
	return &eventService{
		hub:        hub,
		redis:      redisCache,
		channel:    channel,
		instanceID: uuid.NewString(),
		logger:     log.WithField("component", "events"),
	}
}

func (s *eventService) Publish(ctx context.Context, room, eventType, senderID string, data interface{}) {
	event := Event{Room: room, Type: eventType, SenderID: senderID, Origin: s.instanceID}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			s.logger.WithError(err).WithField("type", eventType).Error("Failed to encode event")
			return
		}
		event.Data = raw
	}

	if s.redis == nil {
		s.deliver(event)
		return
	}

	if err := s.redis.Publish(ctx, s.channel, event); err != nil {
		s.logger.WithError(err).WithField("room", room).Warn("Failed to publish event, delivering locally")
		s.deliver(event)
	}
}

func (s *eventService) EndSession(ctx context.Context, userID string) {
	s.Publish(ctx, utils.UserRoom(userID), utils.EventSessionEnded, "", nil)
}

func (s *eventService) Run(ctx context.Context) error {
	if s.redis == nil {
		return nil
	}

	pubsub := s.redis.Subscribe(ctx, s.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", s.channel, err)
	}

	s.logger.WithField("channel", s.channel).Info("Event relay subscribed")

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				s.logger.WithError(err).Warn("Dropping malformed event")
				continue
			}
			s.deliver(event)
		}
	}
}

func (s *eventService) deliver(event Event) {
	if event.Type == utils.EventSessionEnded {
		s.hub.DisconnectUser(userIDFromRoom(event.Room))
		return
	}

	message := websocket.Message{
		Type:     event.Type,
		SenderID: event.SenderID,
	}
	if len(event.Data) > 0 {
		message.Data = event.Data
	}
	s.hub.Publish(event.Room, message)
}

func userIDFromRoom(room string) string {
	return strings.TrimPrefix(room, utils.UserRoom(""))
}
