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
	"easyride/pkg/identity"
	"easyride/pkg/logger"
)

type AdminService interface {
	ListUsers(ctx context.Context, filter models.UserFilter) ([]*models.User, error)
	ListRides(ctx context.Context) ([]*models.Ride, error)
	ListBookings(ctx context.Context, status models.BookingStatus) ([]*models.Booking, error)

	VerifyUser(ctx context.Context, adminID, userID string) error
	BlockUser(ctx context.Context, adminID, userID string) error
	UnblockUser(ctx context.Context, adminID, userID string) error
	// DeleteUser removes the profile document and the identity account.
	DeleteUser(ctx context.Context, adminID, userID string) error

	Statistics(ctx context.Context) (*models.PlatformStatistics, error)
	Broadcast(ctx context.Context, adminID, title, message, audience string) (int, error)

	AddCity(ctx context.Context, adminID, name string) error
	RemoveCity(ctx context.Context, adminID, name string) error
}

type adminService struct {
	userRepo      interfaces.UserRepository
	rideRepo      interfaces.RideRepository
	bookingRepo   interfaces.BookingRepository
	identity      identity.Provider
	notifications NotificationService
	cities        CityService
	events        EventService
	config        *config.PlatformConfig
	audit         *logger.AuditLogger
	logger        *logger.Logger
}

func NewAdminService(
	userRepo interfaces.UserRepository,
	rideRepo interfaces.RideRepository,
	bookingRepo interfaces.BookingRepository,
	provider identity.Provider,
	notifications NotificationService,
	cityService CityService,
	events EventService,
	cfg *config.PlatformConfig,
	log *logger.Logger,
) AdminService {
	return &adminService{
		userRepo:      userRepo,
		rideRepo:      rideRepo,
		bookingRepo:   bookingRepo,
		identity:      provider,
		notifications: notifications,
		cities:        cityService,
		events:        events,
		config:        cfg,
		audit:         logger.NewAuditLogger(log),
		logger:        log,
	}
}

func (s *adminService) ListUsers(ctx context.Context, filter models.UserFilter) ([]*models.User, error) {
	if filter.Role != "" && !filter.Role.IsValid() {
		return nil, ErrInvalidRole
	}
	return s.userRepo.List(ctx, filter)
}

func (s *adminService) ListRides(ctx context.Context) ([]*models.Ride, error) {
	return s.rideRepo.List(ctx)
}

func (s *adminService) ListBookings(ctx context.Context, status models.BookingStatus) ([]*models.Booking, error) {
	return s.bookingRepo.List(ctx, models.BookingFilter{Status: status})
}

func (s *adminService) VerifyUser(ctx context.Context, adminID, userID string) error {
	return s.setUserFlag(ctx, adminID, userID, "verified", true, "verify_user")
}

func (s *adminService) BlockUser(ctx context.Context, adminID, userID string) error {
	return s.setUserFlag(ctx, adminID, userID, "blocked", true, "block_user")
}

func (s *adminService) UnblockUser(ctx context.Context, adminID, userID string) error {
	return s.setUserFlag(ctx, adminID, userID, "blocked", false, "unblock_user")
}

func (s *adminService) setUserFlag(ctx context.Context, adminID, userID, field string, value bool, action string) error {
	err := s.userRepo.Update(ctx, userID, map[string]interface{}{
		field:        value,
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	s.audit.LogAction(action, "user", adminID, map[string]interface{}{"target_user_id": userID})
	return nil
}

func (s *adminService) DeleteUser(ctx context.Context, adminID, userID string) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if err := s.identity.DeleteAccount(ctx, userID); err != nil && !errors.Is(err, identity.ErrAccountNotFound) {
		s.logger.WithUserID(userID).WithError(err).Error("Profile deleted but identity account removal failed")
	}

	s.events.EndSession(ctx, userID)
	s.audit.LogAction("delete_user", "user", adminID, map[string]interface{}{"target_user_id": userID})
	return nil
}

func (s *adminService) Statistics(ctx context.Context) (*models.PlatformStatistics, error) {
	stats := &models.PlatformStatistics{}
	var err error

	if stats.TotalUsers, err = s.userRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.ActiveUsers, err = s.userRepo.CountActiveSince(ctx, time.Now().UTC().Add(-utils.ActiveUserWindow)); err != nil {
		return nil, err
	}
	if stats.TotalRides, err = s.rideRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalBookings, err = s.bookingRepo.Count(ctx, ""); err != nil {
		return nil, err
	}
	if stats.PendingBookings, err = s.bookingRepo.Count(ctx, models.BookingStatusPending); err != nil {
		return nil, err
	}

	accepted, err := s.bookingRepo.List(ctx, models.BookingFilter{Status: models.BookingStatusAccepted})
	if err != nil {
		return nil, err
	}
	stats.Revenue = Revenue(accepted, s.config.CommissionRate)

	return stats, nil
}

// Revenue is the platform's commission on accepted bookings. rate is a
// percentage.
func Revenue(accepted []*models.Booking, rate float64) float64 {
	total := 0.0
	for _, booking := range accepted {
		total += booking.Price
	}
	return total * rate / 100
}

func (s *adminService) Broadcast(ctx context.Context, adminID, title, message, audience string) (int, error) {
	sent, err := s.notifications.Broadcast(ctx, title, message, audience)
	if err != nil {
		return 0, err
	}

	s.audit.LogAction("broadcast_notification", "notification", adminID, map[string]interface{}{
		"audience":   audience,
		"recipients": sent,
	})
	return sent, nil
}

func (s *adminService) AddCity(ctx context.Context, adminID, name string) error {
	if err := s.cities.Add(ctx, name); err != nil {
		return err
	}
	s.audit.LogAction("add_city", "city", adminID, map[string]interface{}{"city": name})
	return nil
}

func (s *adminService) RemoveCity(ctx context.Context, adminID, name string) error {
	if err := s.cities.Remove(ctx, name); err != nil {
		return err
	}
	s.audit.LogAction("remove_city", "city", adminID, map[string]interface{}{"city": name})
	return nil
}
