package handlers

import (
	"errors"
	"net/http"

	"easyride/internal/services"
	"easyride/internal/utils"
	"easyride/pkg/identity"
	"easyride/pkg/logger"

	"github.com/gin-gonic/gin"
)

type errorMapping struct {
	err     error
	status  int
	code    string
	message string
}

var errorMappings = []errorMapping{
	{services.ErrInvalidID, http.StatusBadRequest, "INVALID_ID", "Invalid ID format"},
	{services.ErrMissingData, http.StatusBadRequest, "MISSING_DATA", "Required fields are missing"},
	{services.ErrEmptyMessage, http.StatusBadRequest, "EMPTY_MESSAGE", "Message cannot be empty"},
	{services.ErrSelfBooking, http.StatusBadRequest, "SELF_BOOKING", "You cannot book your own ride"},
	{services.ErrSelfChat, http.StatusBadRequest, "SELF_CHAT", "You cannot start a chat with yourself"},
	{services.ErrInvalidRole, http.StatusBadRequest, "INVALID_ROLE", "Invalid role"},
	{services.ErrInvalidAudience, http.StatusBadRequest, "INVALID_AUDIENCE", "Invalid audience"},
	{services.ErrInvalidCity, http.StatusBadRequest, "INVALID_CITY", "Invalid city name"},
	{services.ErrEmailMismatch, http.StatusBadRequest, "EMAIL_MISMATCH", "Email does not match your account"},
	{identity.ErrWeakPassword, http.StatusBadRequest, "WEAK_PASSWORD", "Password is too weak"},

	{identity.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password"},
	{identity.ErrInvalidToken, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token"},

	{services.ErrNotDriver, http.StatusForbidden, "NOT_DRIVER", "Only drivers can post rides"},
	{services.ErrNotBookingDriver, http.StatusForbidden, "NOT_BOOKING_DRIVER", "Only the ride's driver can do this"},
	{services.ErrNotBookingPassenger, http.StatusForbidden, "NOT_BOOKING_PASSENGER", "Only the booking's passenger can do this"},
	{services.ErrNotParticipant, http.StatusForbidden, "NOT_PARTICIPANT", "You are not part of this chat"},

	{services.ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND", "User not found"},
	{services.ErrRideNotFound, http.StatusNotFound, "RIDE_NOT_FOUND", "Ride not found"},
	{services.ErrBookingNotFound, http.StatusNotFound, "BOOKING_NOT_FOUND", "Booking not found"},
	{services.ErrChatNotFound, http.StatusNotFound, "CHAT_NOT_FOUND", "Chat not found"},
	{services.ErrNotificationNotFound, http.StatusNotFound, "NOTIFICATION_NOT_FOUND", "Notification not found"},
	{identity.ErrAccountNotFound, http.StatusNotFound, "ACCOUNT_NOT_FOUND", "Account not found"},

	{services.ErrBookingNotPending, http.StatusConflict, "BOOKING_NOT_PENDING", "This booking is no longer pending"},
	{services.ErrCityInUse, http.StatusConflict, "CITY_IN_USE", "The city is used by existing rides"},
	{identity.ErrEmailInUse, http.StatusConflict, "EMAIL_IN_USE", "Email is already registered"},
}

// StatusForError maps a domain error to the HTTP status, code and message
// shown to the client. Unknown errors become a generic 500, and so does
// services.ErrMissingRecipientEmail: the aborted accept is only logged.
func StatusForError(err error) (int, string, string) {
	for _, mapping := range errorMappings {
		if errors.Is(err, mapping.err) {
			return mapping.status, mapping.code, mapping.message
		}
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR", utils.ErrInternalServer
}

func respondError(c *gin.Context, log *logger.Logger, err error) {
	status, code, message := StatusForError(err)
	if status >= http.StatusInternalServerError {
		log.WithContext(c.Request.Context()).WithError(err).
			WithField("path", c.FullPath()).Error("Request failed")
	}
	utils.ErrorResponse(c, status, code, message)
}
