package services

import (
	"context"
	"testing"
	"time"

	"easyride/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRideFixture() (*rideService, *fakeNotificationRepo) {
	users := newFakeUserRepo(
		completeUser("driver-1", models.RoleDriver),
		completeUser("passenger-1", models.RolePassenger),
		completeUser("passenger-2", models.RolePassenger),
	)
	notifications := &fakeNotificationRepo{}
	notifier := NewNotificationService(notifications, users, &fakeEvents{}, nil, time.Second, testLogger())

	svc := NewRideService(newFakeRideRepo(), users, notifier, testLogger()).(*rideService)
	svc.async = syncRunner
	return svc, notifications
}

func validRide() *PostRideRequest {
	return &PostRideRequest{
		Origin:      " Toronto ",
		Destination: "Ottawa",
		Date:        time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC),
		Seats:       3,
		Price:       45,
	}
}

func TestRide_PostNotifiesEveryPassenger(t *testing.T) {
	svc, notifications := newRideFixture()

	ride, err := svc.PostRide(context.Background(), "driver-1", validRide())
	require.NoError(t, err)

	assert.Equal(t, "Toronto", ride.Origin)
	assert.Equal(t, day("2024-06-01"), ride.Date)
	assert.Equal(t, "driver-1@example.com", ride.DriverEmail)
	assert.Equal(t, models.RideStatusAvailable, ride.Status)

	sent := notifications.all()
	require.Len(t, sent, 2)
	assert.Equal(t, "Notification #1", sent[0].Title)
	assert.Equal(t, "Notification #2", sent[1].Title)
	for _, notification := range sent {
		assert.Equal(t, "New ride from Toronto to Ottawa has been posted!", notification.Text)
		assert.Equal(t, "/search-results", notification.Link)
		assert.Equal(t, models.NotificationTypeRidePosted, notification.Type)
	}
}

func TestRide_PostRequiresDriver(t *testing.T) {
	svc, notifications := newRideFixture()

	_, err := svc.PostRide(context.Background(), "passenger-1", validRide())
	assert.ErrorIs(t, err, ErrNotDriver)

	_, err = svc.PostRide(context.Background(), "ghost", validRide())
	assert.ErrorIs(t, err, ErrUserNotFound)

	assert.Empty(t, notifications.all())
}

func TestRide_PostValidatesFields(t *testing.T) {
	svc, _ := newRideFixture()

	for name, mutate := range map[string]func(*PostRideRequest){
		"no origin":      func(r *PostRideRequest) { r.Origin = "  " },
		"no destination": func(r *PostRideRequest) { r.Destination = "" },
		"no date":        func(r *PostRideRequest) { r.Date = time.Time{} },
		"no seats":       func(r *PostRideRequest) { r.Seats = 0 },
		"free ride":      func(r *PostRideRequest) { r.Price = 0 },
	} {
		t.Run(name, func(t *testing.T) {
			request := validRide()
			mutate(request)
			_, err := svc.PostRide(context.Background(), "driver-1", request)
			assert.ErrorIs(t, err, ErrMissingData)
		})
	}
}

func TestRide_SearchMatchesDay(t *testing.T) {
	svc, _ := newRideFixture()
	ctx := context.Background()

	_, err := svc.PostRide(ctx, "driver-1", validRide())
	require.NoError(t, err)

	found, err := svc.Search(ctx, "Toronto", "Ottawa", day("2024-06-01"))
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found, err = svc.Search(ctx, "Toronto", "Ottawa", day("2024-06-02"))
	require.NoError(t, err)
	assert.Empty(t, found)

	_, err = svc.Search(ctx, "", "Ottawa", day("2024-06-01"))
	assert.ErrorIs(t, err, ErrMissingData)
}

func TestRide_Get(t *testing.T) {
	svc, _ := newRideFixture()

	_, err := svc.Get(context.Background(), "bogus")
	assert.ErrorIs(t, err, ErrInvalidID)

	ride, err := svc.PostRide(context.Background(), "driver-1", validRide())
	require.NoError(t, err)
	got, err := svc.Get(context.Background(), ride.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, ride.ID, got.ID)
}
