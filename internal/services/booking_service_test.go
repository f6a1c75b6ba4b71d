package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"easyride/internal/config"
	"easyride/internal/models"
	"easyride/pkg/mailer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type bookingFixture struct {
	svc           *bookingService
	bookings      *fakeBookingRepo
	rides         *fakeRideRepo
	notifications *fakeNotificationRepo
	events        *fakeEvents
	mail          *mailer.MemoryMailer
	cfg           *config.BookingConfig
	ride          *models.Ride
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	f := &bookingFixture{
		bookings:      newFakeBookingRepo(),
		notifications: &fakeNotificationRepo{},
		events:        &fakeEvents{},
		mail:          mailer.NewMemoryMailer(),
		cfg:           &config.BookingConfig{EmailRetries: 3, SideEffectTimeout: time.Second},
		ride:          sampleRide("driver-1"),
	}
	f.rides = newFakeRideRepo(f.ride)

	users := newFakeUserRepo(completeUser("passenger-1", models.RolePassenger))
	notifications := NewNotificationService(f.notifications, users, f.events, nil, time.Second, testLogger())

	svc := NewBookingService(f.bookings, f.rides, notifications, f.events, f.mail, f.cfg, testLogger()).(*bookingService)
	svc.async = syncRunner
	f.svc = svc
	return f
}

func (f *bookingFixture) create(t *testing.T, email string) *models.Booking {
	t.Helper()
	booking, err := f.svc.Create(context.Background(), "passenger-1", email, f.ride.ID.Hex())
	require.NoError(t, err)
	return booking
}

func TestBooking_CreateDenormalizesRide(t *testing.T) {
	f := newBookingFixture(t)

	booking := f.create(t, "Passenger@Example.com")

	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.Equal(t, f.ride.ID, booking.RideID)
	assert.Equal(t, "passenger-1", booking.PassengerID)
	assert.Equal(t, "driver-1", booking.DriverID)
	assert.Equal(t, "passenger@example.com", booking.PassengerEmail)
	assert.Equal(t, "Toronto", booking.Origin)
	assert.Equal(t, "Ottawa", booking.Destination)
	assert.Equal(t, 45.0, booking.Price)
	assert.False(t, booking.CreatedAt.IsZero())
	assert.Empty(t, f.mail.Sent())
}

func TestBooking_CreateRejectsOwnRide(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.svc.Create(context.Background(), "driver-1", "d@example.com", f.ride.ID.Hex())

	assert.ErrorIs(t, err, ErrSelfBooking)
}

func TestBooking_CreateUnknownRide(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.svc.Create(context.Background(), "passenger-1", "p@example.com", primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrRideNotFound)

	_, err = f.svc.Create(context.Background(), "passenger-1", "p@example.com", "not-an-id")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestBooking_AcceptNotifiesAndEmails(t *testing.T) {
	f := newBookingFixture(t)
	booking := f.create(t, "p@example.com")

	accepted, err := f.svc.Accept(context.Background(), "driver-1", booking.ID.Hex())
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusAccepted, accepted.Status)
	assert.NotNil(t, accepted.AcceptedAt)

	sent := f.mail.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "p@example.com", sent[0].To)
	assert.Contains(t, sent[0].Body, f.ride.ID.Hex())

	notifications := f.notifications.all()
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationTypeBookingAccepted, notifications[0].Type)
	assert.Equal(t, "passenger-1", notifications[0].Recipient)
}

func TestBooking_AcceptWithoutEmailStillCommits(t *testing.T) {
	f := newBookingFixture(t)
	booking := f.create(t, "")

	_, err := f.svc.Accept(context.Background(), "driver-1", booking.ID.Hex())
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusAccepted, f.bookings.get(booking.ID).Status)
	assert.Empty(t, f.mail.Sent())
}

func TestBooking_AcceptWithoutEmailAbortsInStrictMode(t *testing.T) {
	f := newBookingFixture(t)
	f.cfg.RequirePassengerEmail = true
	booking := f.create(t, "")

	_, err := f.svc.Accept(context.Background(), "driver-1", booking.ID.Hex())

	assert.ErrorIs(t, err, ErrMissingRecipientEmail)
	assert.Equal(t, models.BookingStatusPending, f.bookings.get(booking.ID).Status)
	assert.Empty(t, f.mail.Sent())
	assert.Empty(t, f.notifications.all())
}

func TestBooking_EmailFailureDoesNotUndoAccept(t *testing.T) {
	f := newBookingFixture(t)
	f.mail.FailWith(errors.New("smtp down"))
	booking := f.create(t, "p@example.com")

	_, err := f.svc.Accept(context.Background(), "driver-1", booking.ID.Hex())

	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusAccepted, f.bookings.get(booking.ID).Status)
}

func TestBooking_OnlyDriverCanAccept(t *testing.T) {
	f := newBookingFixture(t)
	booking := f.create(t, "p@example.com")

	_, err := f.svc.Accept(context.Background(), "passenger-1", booking.ID.Hex())

	assert.ErrorIs(t, err, ErrNotBookingDriver)
}

func TestBooking_ConcurrentAcceptHasOneWinner(t *testing.T) {
	f := newBookingFixture(t)
	booking := f.create(t, "p@example.com")

	var wg sync.WaitGroup
	results := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Accept(context.Background(), "driver-1", booking.ID.Hex())
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	winners := 0
	for err := range results {
		if err == nil {
			winners++
			continue
		}
		assert.ErrorIs(t, err, ErrBookingNotPending)
	}
	assert.Equal(t, 1, winners)
}

func TestBooking_RejectAndCancelOnlyWhilePending(t *testing.T) {
	f := newBookingFixture(t)

	rejected := f.create(t, "p@example.com")
	require.NoError(t, f.svc.Reject(context.Background(), "driver-1", rejected.ID.Hex()))
	assert.Nil(t, f.bookings.get(rejected.ID))

	cancelled := f.create(t, "p@example.com")
	assert.ErrorIs(t, f.svc.Cancel(context.Background(), "someone-else", cancelled.ID.Hex()), ErrNotBookingPassenger)
	require.NoError(t, f.svc.Cancel(context.Background(), "passenger-1", cancelled.ID.Hex()))
	assert.Nil(t, f.bookings.get(cancelled.ID))

	accepted := f.create(t, "p@example.com")
	_, err := f.svc.Accept(context.Background(), "driver-1", accepted.ID.Hex())
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Reject(context.Background(), "driver-1", accepted.ID.Hex()), ErrBookingNotPending)
	assert.ErrorIs(t, f.svc.Cancel(context.Background(), "passenger-1", accepted.ID.Hex()), ErrBookingNotPending)
	_, err = f.svc.Accept(context.Background(), "driver-1", accepted.ID.Hex())
	assert.ErrorIs(t, err, ErrBookingNotPending)
}

func TestBooking_ListForPassengerBackfillsAndFiltersByDay(t *testing.T) {
	f := newBookingFixture(t)
	legacy := &models.Booking{
		ID:          primitive.NewObjectID(),
		RideID:      f.ride.ID,
		DriverID:    "driver-1",
		PassengerID: "passenger-1",
		Status:      models.BookingStatusPending,
	}
	f.bookings.bookings[legacy.ID] = legacy
	f.create(t, "p@example.com")

	all, err := f.svc.ListForPassenger(context.Background(), "passenger-1", nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, booking := range all {
		assert.Equal(t, "Toronto", booking.Origin)
		assert.False(t, booking.Date.IsZero())
	}

	match := day("2024-06-01")
	filtered, err := f.svc.ListForPassenger(context.Background(), "passenger-1", &match)
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	other := day("2024-06-02")
	filtered, err = f.svc.ListForPassenger(context.Background(), "passenger-1", &other)
	require.NoError(t, err)
	assert.Empty(t, filtered)
}

func TestBooking_RefreshSnapshot(t *testing.T) {
	f := newBookingFixture(t)
	booking := f.create(t, "p@example.com")

	f.rides.rides[f.ride.ID].Price = 60

	refreshed, err := f.svc.RefreshSnapshot(context.Background(), "passenger-1", booking.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 60.0, refreshed.Price)
	assert.Equal(t, 60.0, f.bookings.get(booking.ID).Price)

	_, err = f.svc.RefreshSnapshot(context.Background(), "stranger", booking.ID.Hex())
	assert.Error(t, err)
}

func TestBooking_SendWithRetry(t *testing.T) {
	f := newBookingFixture(t)
	f.cfg.EmailRetries = 2
	f.mail.FailWith(errors.New("temporary"))

	err := f.svc.sendWithRetry(context.Background(), mailer.RideAcceptedEmail("p@example.com", "r1", "A", "B", "2024-06-01"))

	assert.ErrorContains(t, err, "after 2 attempts")
}
