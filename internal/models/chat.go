package models

import (
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SystemSenderID marks messages generated by the server.
const SystemSenderID = "system"

type RideDetails struct {
	Origin      string    `json:"origin" bson:"origin"`
	Destination string    `json:"destination" bson:"destination"`
	Date        time.Time `json:"date" bson:"date"`
}

// Chat is a two-participant conversation scoped to a ride. ride_id plus
// participant_key identify it uniquely.
type Chat struct {
	ID                  primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RideID              primitive.ObjectID `json:"ride_id" bson:"ride_id"`
	Participants        []string           `json:"participants" bson:"participants"`
	ParticipantKey      string             `json:"-" bson:"participant_key,omitempty"`
	RideDetails         RideDetails        `json:"ride_details" bson:"ride_details"`
	LastMessage         string             `json:"last_message" bson:"last_message"`
	LastMessageAt       *time.Time         `json:"last_message_at,omitempty" bson:"last_message_at,omitempty"`
	LastMessageSenderID string             `json:"last_message_sender_id" bson:"last_message_sender_id"`
	MessagesRead        bool               `json:"messages_read" bson:"messages_read"`
	LastReadAt          *time.Time         `json:"last_read_at,omitempty" bson:"last_read_at,omitempty"`
	CreatedAt           time.Time          `json:"created_at" bson:"created_at"`
}

// ParticipantKey returns the order-independent key for a pair of users.
func ParticipantKey(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return strings.Join(pair, "|")
}

func (c *Chat) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// OtherParticipant returns the participant that is not userID, or "" when
// userID is not part of the chat.
func (c *Chat) OtherParticipant(userID string) string {
	if !c.HasParticipant(userID) {
		return ""
	}
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

// ActivityAt is the time used to order chat lists.
func (c *Chat) ActivityAt() time.Time {
	if c.LastMessageAt != nil && !c.LastMessageAt.IsZero() {
		return *c.LastMessageAt
	}
	return c.CreatedAt
}

// ChatSummary is a chat as shown in a user's chat list.
type ChatSummary struct {
	Chat
	Unread       bool                     `json:"unread"`
	Profiles     map[string]PublicProfile `json:"participant_profiles"`
}
