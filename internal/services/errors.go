package services

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInvalidID   = errors.New("invalid id")
	ErrMissingData = errors.New("required fields are missing")

	ErrUserNotFound  = errors.New("user not found")
	ErrInvalidRole   = errors.New("invalid role")
	ErrEmailMismatch = errors.New("email does not match the signed-in account")

	ErrRideNotFound = errors.New("ride not found")
	ErrNotDriver    = errors.New("only drivers can post rides")

	ErrBookingNotFound       = errors.New("booking not found")
	ErrSelfBooking           = errors.New("cannot book own ride")
	ErrBookingNotPending     = errors.New("booking is no longer pending")
	ErrNotBookingDriver      = errors.New("caller is not the booking's driver")
	ErrNotBookingPassenger   = errors.New("caller is not the booking's passenger")
	ErrMissingRecipientEmail = errors.New("booking has no passenger email")

	ErrChatNotFound   = errors.New("chat not found")
	ErrEmptyMessage   = errors.New("message content is empty")
	ErrNotParticipant = errors.New("caller is not a chat participant")
	ErrSelfChat       = errors.New("cannot start a chat with yourself")

	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidAudience      = errors.New("invalid audience")

	ErrInvalidCity = errors.New("invalid city name")
	ErrCityInUse   = errors.New("city is used by existing rides")
)

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return oid, nil
}
