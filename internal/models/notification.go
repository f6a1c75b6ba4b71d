package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string
type NotificationStatus string

const (
	NotificationTypeAdmin           NotificationType = "admin_notification"
	NotificationTypeRidePosted      NotificationType = "ride_posted"
	NotificationTypeBookingAccepted NotificationType = "booking_accepted"

	NotificationStatusUnread NotificationStatus = "unread"
	NotificationStatusRead   NotificationStatus = "read"
)

type Notification struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Recipient string             `json:"recipient" bson:"recipient"`
	Title     string             `json:"title" bson:"title"`
	Text      string             `json:"text" bson:"text"`
	Link      string             `json:"link" bson:"link"`
	Type      NotificationType   `json:"type" bson:"type"`
	Status    NotificationStatus `json:"status" bson:"status"`
	Timestamp time.Time          `json:"timestamp" bson:"timestamp"`
	ReadAt    *time.Time         `json:"read_at,omitempty" bson:"read_at,omitempty"`
}
