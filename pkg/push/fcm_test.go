package push

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMulticastCarriesLink(t *testing.T) {
	msg := buildMulticast([]string{"t1", "t2"}, &NotificationRequest{
		Title: "Booking accepted",
		Body:  "Your booking was accepted",
		Link:  "/passenger-bookings",
		Data:  map[string]string{"type": "booking_accepted"},
	})

	assert.Equal(t, []string{"t1", "t2"}, msg.Tokens)
	assert.Equal(t, "Booking accepted", msg.Notification.Title)
	assert.Equal(t, "/passenger-bookings", msg.Data["link"])
	assert.Equal(t, "booking_accepted", msg.Data["type"])
	assert.Equal(t, "/passenger-bookings", msg.Webpush.FCMOptions.Link)
}

func TestNoopProvider(t *testing.T) {
	resp, err := NoopProvider{}.SendToTokens(context.Background(), []string{"t"}, &NotificationRequest{})
	require.NoError(t, err)
	assert.Zero(t, resp.SuccessCount)
}
