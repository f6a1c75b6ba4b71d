package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"easyride/internal/models"
	"easyride/internal/repositories/interfaces"
	"easyride/internal/utils"
	"easyride/pkg/logger"
)

type PostRideRequest struct {
	Origin      string
	Destination string
	Date        time.Time
	Seats       int
	Price       float64
}

type RideService interface {
	// PostRide stores the ride and tells every passenger about it.
	PostRide(ctx context.Context, driverID string, request *PostRideRequest) (*models.Ride, error)
	Search(ctx context.Context, origin, destination string, day time.Time) ([]*models.Ride, error)
	Get(ctx context.Context, rideID string) (*models.Ride, error)
	ListForDriver(ctx context.Context, driverID string) ([]*models.Ride, error)
	List(ctx context.Context) ([]*models.Ride, error)
}

type rideService struct {
	rideRepo      interfaces.RideRepository
	userRepo      interfaces.UserRepository
	notifications NotificationService
	logger        *logger.Logger
	async         func(func())
	fanoutTimeout time.Duration
}

func NewRideService(
	rideRepo interfaces.RideRepository,
	userRepo interfaces.UserRepository,
	notifications NotificationService,
	log *logger.Logger,
) RideService {
	return &rideService{
		rideRepo:      rideRepo,
		userRepo:      userRepo,
		notifications: notifications,
		logger:        log,
		async:         func(f func()) { go f() },
		fanoutTimeout: utils.SideEffectTimeout,
	}
}

func (s *rideService) PostRide(ctx context.Context, driverID string, request *PostRideRequest) (*models.Ride, error) {
	if utils.IsBlank(request.Origin) || utils.IsBlank(request.Destination) || request.Date.IsZero() ||
		request.Seats <= 0 || request.Price <= 0 {
		return nil, ErrMissingData
	}

	driver, err := s.userRepo.GetByID(ctx, driverID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load driver: %w", err)
	}
	if driver.Role != models.RoleDriver {
		return nil, ErrNotDriver
	}

	ride := &models.Ride{
		DriverID:    driver.ID,
		DriverEmail: driver.Email,
		Origin:      strings.TrimSpace(request.Origin),
		Destination: strings.TrimSpace(request.Destination),
		Date:        utils.StartOfDay(request.Date.UTC()),
		Seats:       request.Seats,
		Price:       request.Price,
		Status:      models.RideStatusAvailable,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, fmt.Errorf("failed to post ride: %w", err)
	}

	s.logger.LogUserAction(driverID, "ride_posted", map[string]interface{}{
		"ride_id":     ride.ID.Hex(),
		"origin":      ride.Origin,
		"destination": ride.Destination,
	})

	s.async(func() { s.notifyPassengers(ride) })

	return ride, nil
}

// notifyPassengers numbers the notifications by passenger, starting at 1.
// Failures are logged only.
func (s *rideService) notifyPassengers(ride *models.Ride) {
	ctx, cancel := context.WithTimeout(context.Background(), s.fanoutTimeout)
	defer cancel()

	log := s.logger.WithRideID(ride.ID.Hex())

	passengers, err := s.userRepo.ListIDsByRole(ctx, models.RolePassenger)
	if err != nil {
		log.WithError(err).Warn("Failed to load passengers for ride notification")
		return
	}

	text := fmt.Sprintf("New ride from %s to %s has been posted!", ride.Origin, ride.Destination)
	notifications := make([]*models.Notification, 0, len(passengers))
	for i, passenger := range passengers {
		notifications = append(notifications, &models.Notification{
			Recipient: passenger,
			Title:     fmt.Sprintf("Notification #%d", i+1),
			Text:      text,
			Link:      "/search-results",
			Type:      models.NotificationTypeRidePosted,
		})
	}

	if err := s.notifications.NotifyMany(ctx, notifications); err != nil {
		log.WithError(err).Warn("Failed to notify passengers of new ride")
		return
	}

	log.WithField("recipients", len(notifications)).Debug("Passengers notified of new ride")
}

func (s *rideService) Search(ctx context.Context, origin, destination string, day time.Time) ([]*models.Ride, error) {
	if utils.IsBlank(origin) || utils.IsBlank(destination) || day.IsZero() {
		return nil, ErrMissingData
	}

	rides, err := s.rideRepo.Search(ctx, models.RideSearch{
		Origin:      strings.TrimSpace(origin),
		Destination: strings.TrimSpace(destination),
		Date:        &day,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search rides: %w", err)
	}
	return rides, nil
}

func (s *rideService) Get(ctx context.Context, rideID string) (*models.Ride, error) {
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

func (s *rideService) ListForDriver(ctx context.Context, driverID string) ([]*models.Ride, error) {
	return s.rideRepo.ListByDriver(ctx, driverID)
}

func (s *rideService) List(ctx context.Context) ([]*models.Ride, error) {
	return s.rideRepo.List(ctx)
}
