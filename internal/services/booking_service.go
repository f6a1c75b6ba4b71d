package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"easyride/internal/config"
	"easyride/internal/models"
	"easyride/internal/repositories/interfaces"
	"easyride/internal/utils"
	"easyride/pkg/logger"
	"easyride/pkg/mailer"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingService interface {
	Create(ctx context.Context, passengerID, passengerEmail, rideID string) (*models.Booking, error)
	// Accept moves a pending booking to Accepted. Only one of several
	// concurrent accepts succeeds; the others get ErrBookingNotPending.
	Accept(ctx context.Context, driverID, bookingID string) (*models.Booking, error)
	Reject(ctx context.Context, driverID, bookingID string) error
	Cancel(ctx context.Context, passengerID, bookingID string) error
	ListForDriver(ctx context.Context, driverID string, day *time.Time) ([]*models.Booking, error)
	ListForPassenger(ctx context.Context, passengerID string, day *time.Time) ([]*models.Booking, error)
	List(ctx context.Context, filter models.BookingFilter) ([]*models.Booking, error)
	// RefreshSnapshot re-copies the ride fields into the booking.
	RefreshSnapshot(ctx context.Context, userID, bookingID string) (*models.Booking, error)
}

type bookingService struct {
	bookingRepo   interfaces.BookingRepository
	rideRepo      interfaces.RideRepository
	notifications NotificationService
	events        EventService
	mailer        mailer.Mailer
	config        *config.BookingConfig
	logger        *logger.Logger
	async         func(func())
}

func NewBookingService(
	bookingRepo interfaces.BookingRepository,
	rideRepo interfaces.RideRepository,
	notifications NotificationService,
	events EventService,
	mail mailer.Mailer,
	cfg *config.BookingConfig,
	log *logger.Logger,
) BookingService {
	return &bookingService{
		bookingRepo:   bookingRepo,
		rideRepo:      rideRepo,
		notifications: notifications,
		events:        events,
		mailer:        mail,
		config:        cfg,
		logger:        log,
		async:         func(f func()) { go f() },
	}
}

func (s *bookingService) Create(ctx context.Context, passengerID, passengerEmail, rideID string) (*models.Booking, error) {
	ride, err := s.getRide(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if ride.DriverID == passengerID {
		return nil, ErrSelfBooking
	}

	booking := &models.Booking{
		RideID:         ride.ID,
		DriverID:       ride.DriverID,
		DriverEmail:    ride.DriverEmail,
		PassengerID:    passengerID,
		PassengerEmail: utils.NormalizeEmail(passengerEmail),
		Status:         models.BookingStatusPending,
		CreatedAt:      time.Now().UTC(),
	}
	booking.ApplyRide(ride)

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.logger.LogBookingEvent(booking.ID.Hex(), "created", map[string]interface{}{
		"ride_id":      ride.ID.Hex(),
		"passenger_id": passengerID,
	})
	s.publishUpdate(ctx, booking, "created")

	return booking, nil
}

func (s *bookingService) Accept(ctx context.Context, driverID, bookingID string) (*models.Booking, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.DriverID != driverID {
		return nil, ErrNotBookingDriver
	}
	if !booking.IsPending() {
		return nil, ErrBookingNotPending
	}

	if s.config.RequirePassengerEmail && utils.IsBlank(booking.PassengerEmail) {
		s.logger.WithBookingID(bookingID).Warn("Accept aborted, booking has no passenger email")
		return nil, ErrMissingRecipientEmail
	}

	acceptedAt := time.Now().UTC()
	updated, err := s.bookingRepo.TransitionStatus(ctx, booking.ID, models.BookingStatusPending, models.BookingStatusAccepted,
		map[string]interface{}{"accepted_at": acceptedAt})
	if err != nil {
		return nil, s.mapBookingWriteError(err)
	}

	s.logger.LogBookingEvent(bookingID, "accepted", map[string]interface{}{"driver_id": driverID})
	s.publishUpdate(ctx, updated, "accepted")

	s.async(func() { s.runAcceptSideEffects(updated) })

	return updated, nil
}

func (s *bookingService) Reject(ctx context.Context, driverID, bookingID string) error {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.DriverID != driverID {
		return ErrNotBookingDriver
	}
	return s.deletePending(ctx, booking, "rejected")
}

func (s *bookingService) Cancel(ctx context.Context, passengerID, bookingID string) error {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.PassengerID != passengerID {
		return ErrNotBookingPassenger
	}
	return s.deletePending(ctx, booking, "cancelled")
}

func (s *bookingService) deletePending(ctx context.Context, booking *models.Booking, event string) error {
	if !booking.IsPending() {
		return ErrBookingNotPending
	}

	if err := s.bookingRepo.DeleteIfStatus(ctx, booking.ID, models.BookingStatusPending); err != nil {
		return s.mapBookingWriteError(err)
	}

	s.logger.LogBookingEvent(booking.ID.Hex(), event, nil)
	s.publishUpdate(ctx, booking, event)
	return nil
}

func (s *bookingService) ListForDriver(ctx context.Context, driverID string, day *time.Time) ([]*models.Booking, error) {
	bookings, err := s.bookingRepo.List(ctx, models.BookingFilter{DriverID: driverID, Date: day})
	if err != nil {
		return nil, fmt.Errorf("failed to list driver bookings: %w", err)
	}
	return bookings, nil
}

// ListForPassenger fills in ride fields for bookings stored without a
// date before applying the day filter.
func (s *bookingService) ListForPassenger(ctx context.Context, passengerID string, day *time.Time) ([]*models.Booking, error) {
	bookings, err := s.bookingRepo.List(ctx, models.BookingFilter{PassengerID: passengerID})
	if err != nil {
		return nil, fmt.Errorf("failed to list passenger bookings: %w", err)
	}

	s.backfillFromRides(ctx, bookings)

	if day == nil {
		return bookings, nil
	}

	filtered := make([]*models.Booking, 0, len(bookings))
	for _, booking := range bookings {
		if !booking.Date.IsZero() && utils.SameDay(booking.Date, *day) {
			filtered = append(filtered, booking)
		}
	}
	return filtered, nil
}

func (s *bookingService) List(ctx context.Context, filter models.BookingFilter) ([]*models.Booking, error) {
	return s.bookingRepo.List(ctx, filter)
}

func (s *bookingService) RefreshSnapshot(ctx context.Context, userID, bookingID string) (*models.Booking, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.DriverID != userID && booking.PassengerID != userID {
		return nil, ErrNotBookingPassenger
	}

	ride, err := s.rideRepo.GetByID(ctx, booking.RideID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrRideNotFound
		}
		return nil, fmt.Errorf("failed to load ride: %w", err)
	}

	if err := s.bookingRepo.UpdateSnapshot(ctx, booking.ID, ride); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to refresh booking: %w", err)
	}

	now := time.Now().UTC()
	booking.ApplyRide(ride)
	booking.SnapshotRefreshedAt = &now
	return booking, nil
}

func (s *bookingService) backfillFromRides(ctx context.Context, bookings []*models.Booking) {
	var missing []*models.Booking
	for _, booking := range bookings {
		if booking.Date.IsZero() {
			missing = append(missing, booking)
		}
	}
	if len(missing) == 0 {
		return
	}

	ids := make([]primitive.ObjectID, 0, len(missing))
	for _, booking := range missing {
		ids = append(ids, booking.RideID)
	}

	rides, err := s.rideRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to load rides for booking details")
		return
	}

	for _, booking := range missing {
		if ride, ok := rides[booking.RideID]; ok {
			booking.ApplyRide(ride)
		}
	}
}

// runAcceptSideEffects runs after the accept is committed. Failures are
// logged and never undo the transition.
func (s *bookingService) runAcceptSideEffects(booking *models.Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.SideEffectTimeout)
	defer cancel()

	log := s.logger.WithBookingID(booking.ID.Hex())

	day := utils.FormatDay(booking.Date)
	_, err := s.notifications.Notify(ctx, booking.PassengerID, models.NotificationTypeBookingAccepted,
		"Booking accepted",
		fmt.Sprintf("Your ride from %s to %s on %s has been accepted.", booking.Origin, booking.Destination, day),
		"/passenger-bookings")
	if err != nil {
		log.WithError(err).Warn("Failed to notify passenger of accepted booking")
	}

	if utils.IsBlank(booking.PassengerEmail) {
		log.Warn("Skipping acceptance email, booking has no passenger email")
		return
	}

	msg := mailer.RideAcceptedEmail(booking.PassengerEmail, booking.RideID.Hex(), booking.Origin, booking.Destination, day)
	if err := s.sendWithRetry(ctx, msg); err != nil {
		log.WithError(err).Error("Failed to send acceptance email")
	}
}

func (s *bookingService) sendWithRetry(ctx context.Context, msg *mailer.Message) error {
	attempts := s.config.EmailRetries
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = s.mailer.Send(ctx, msg); err == nil {
			return nil
		}
		if errors.Is(err, mailer.ErrNoRecipient) || attempt == attempts {
			break
		}

		s.logger.WithError(err).WithField("attempt", attempt).Warn("Email send failed, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.config.EmailRetryDelay):
		}
	}
	return fmt.Errorf("email not sent after %d attempts: %w", attempts, err)
}

func (s *bookingService) publishUpdate(ctx context.Context, booking *models.Booking, action string) {
	payload := map[string]interface{}{
		"action":  action,
		"booking": booking,
	}
	s.events.Publish(ctx, utils.UserRoom(booking.DriverID), utils.EventBookingUpdate, "", payload)
	s.events.Publish(ctx, utils.UserRoom(booking.PassengerID), utils.EventBookingUpdate, "", payload)
}

func (s *bookingService) getBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	id, err := parseObjectID(bookingID)
	if err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

func (s *bookingService) getRide(ctx context.Context, rideID string) (*models.Ride, error) {
	id, err := parseObjectID(rideID)
	if err != nil {
		return nil, err
	}

	ride, err := s.rideRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrRideNotFound
		}
		return nil, fmt.Errorf("failed to get ride: %w", err)
	}
	return ride, nil
}

func (s *bookingService) mapBookingWriteError(err error) error {
	switch {
	case errors.Is(err, interfaces.ErrConflict):
		return ErrBookingNotPending
	case errors.Is(err, interfaces.ErrNotFound):
		return ErrBookingNotFound
	default:
		return fmt.Errorf("failed to update booking: %w", err)
	}
}
