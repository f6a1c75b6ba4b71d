package utils

import "time"

const (
	AppName = "EasyRide"

	DateLayout = "2006-01-02"

	PasswordMinLength = 6
	PasswordMaxLength = 128

	MaxMessageLength   = 2000
	ChatPreviewLength  = 50
	ActiveUserWindow   = 30 * 24 * time.Hour
	SideEffectTimeout  = 30 * time.Second
	DefaultHTTPTimeout = 30 * time.Second
)

// HTTP Status Messages
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error Messages
const (
	ErrInternalServer   = "internal server error"
	ErrUnauthorized     = "unauthorized"
	ErrForbidden        = "forbidden"
	ErrValidationFailed = "validation failed"
)

// Gin context keys set by the auth middleware.
const (
	ContextKeyUserID        = "user_id"
	ContextKeyEmail         = "email"
	ContextKeyEmailVerified = "email_verified"
	ContextKeySession       = "session"
	ContextKeyRequestID     = "request_id"
)

// Realtime event types.
const (
	EventNotification  = "notification"
	EventChatMessage   = "chat_message"
	EventChatSnapshot  = "chat_snapshot"
	EventChatRead      = "chat_read"
	EventChatUpdated   = "chat_updated"
	EventBookingUpdate = "booking_update"
	EventSessionEnded  = "session_ended"
)

// Cache key prefixes.
const (
	CacheCitiesAddedKey   = "cities:added"
	CacheCitiesRemovedKey = "cities:removed"
)

// UserRoom and ChatRoom name the websocket rooms events are delivered to.
func UserRoom(userID string) string {
	return "user_" + userID
}

func ChatRoom(chatID string) string {
	return "chat_" + chatID
}
