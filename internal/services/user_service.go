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
	"easyride/pkg/identity"
	"easyride/pkg/logger"
)

type ProfileUpdate struct {
	FullName string
	Phone    string
	Address  string
}

type UserService interface {
	// Register creates the identity account and the profile document.
	// Only the passenger and driver roles can be chosen.
	Register(ctx context.Context, email, password string, role models.UserRole) (*models.User, error)
	SignIn(ctx context.Context, email, password string) (*identity.Token, error)
	SignOut(ctx context.Context, uid string) error
	ResendVerification(ctx context.Context, uid string) error
	ConfirmEmail(ctx context.Context, code string) error
	ReloadSession(ctx context.Context, uid string) (*identity.Session, error)

	GetProfile(ctx context.Context, uid string) (*models.User, error)
	UpdateProfile(ctx context.Context, uid string, update *ProfileUpdate) (*models.User, error)
	// DeleteAccount requires the account email and password again.
	DeleteAccount(ctx context.Context, session *identity.Session, email, password string) error
	RegisterDeviceToken(ctx context.Context, uid, token string) error
}

type userService struct {
	userRepo         interfaces.UserRepository
	notificationRepo interfaces.NotificationRepository
	identity         identity.Provider
	events           EventService
	logger           *logger.Logger
}

func NewUserService(
	userRepo interfaces.UserRepository,
	notificationRepo interfaces.NotificationRepository,
	provider identity.Provider,
	events EventService,
	log *logger.Logger,
) UserService {
	return &userService{
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		identity:         provider,
		events:           events,
		logger:           log,
	}
}

func (s *userService) Register(ctx context.Context, email, password string, role models.UserRole) (*models.User, error) {
	if role != models.RolePassenger && role != models.RoleDriver {
		return nil, ErrInvalidRole
	}

	email = utils.NormalizeEmail(email)
	account, err := s.identity.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if err := s.identity.SendVerificationEmail(ctx, account.UID); err != nil {
		s.logger.WithUserID(account.UID).WithError(err).Warn("Failed to send verification email")
	}

	user := &models.User{
		ID:    account.UID,
		Email: account.Email,
		Role:  role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if delErr := s.identity.DeleteAccount(ctx, account.UID); delErr != nil {
			s.logger.WithUserID(account.UID).WithError(delErr).Error("Failed to roll back identity account")
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	s.logger.LogUserAction(user.ID, "registered", map[string]interface{}{
		"role":  role,
		"email": utils.MaskEmail(user.Email),
	})
	return user, nil
}

func (s *userService) SignIn(ctx context.Context, email, password string) (*identity.Token, error) {
	token, err := s.identity.SignIn(ctx, utils.NormalizeEmail(email), password)
	if err != nil {
		return nil, err
	}

	s.touch(ctx, token.UID)
	return token, nil
}

func (s *userService) SignOut(ctx context.Context, uid string) error {
	if err := s.identity.SignOut(ctx, uid); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}

	s.events.EndSession(ctx, uid)
	s.logger.LogUserAction(uid, "signed_out", nil)
	return nil
}

func (s *userService) ResendVerification(ctx context.Context, uid string) error {
	return s.identity.SendVerificationEmail(ctx, uid)
}

func (s *userService) ConfirmEmail(ctx context.Context, code string) error {
	return s.identity.ConfirmEmail(ctx, code)
}

func (s *userService) ReloadSession(ctx context.Context, uid string) (*identity.Session, error) {
	session, err := s.identity.Reload(ctx, uid)
	if err != nil {
		return nil, err
	}

	s.touch(ctx, uid)
	return session, nil
}

func (s *userService) GetProfile(ctx context.Context, uid string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, uid string, update *ProfileUpdate) (*models.User, error) {
	err := s.userRepo.Update(ctx, uid, map[string]interface{}{
		"full_name":  strings.TrimSpace(update.FullName),
		"phone":      strings.TrimSpace(update.Phone),
		"address":    strings.TrimSpace(update.Address),
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.LogUserAction(uid, "profile_updated", nil)
	return s.GetProfile(ctx, uid)
}

func (s *userService) DeleteAccount(ctx context.Context, session *identity.Session, email, password string) error {
	if !utils.EmailsMatch(email, session.Email) {
		return ErrEmailMismatch
	}

	uid, err := s.identity.Reauthenticate(ctx, utils.NormalizeEmail(email), password)
	if err != nil {
		return err
	}
	if uid != session.UID {
		return ErrEmailMismatch
	}

	if err := s.userRepo.Delete(ctx, uid); err != nil && !errors.Is(err, interfaces.ErrNotFound) {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	if err := s.notificationRepo.DeleteByRecipient(ctx, uid); err != nil {
		s.logger.WithUserID(uid).WithError(err).Warn("Failed to delete notifications of removed account")
	}

	if err := s.identity.DeleteAccount(ctx, uid); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	s.events.EndSession(ctx, uid)
	s.logger.LogUserAction(uid, "account_deleted", nil)
	return nil
}

func (s *userService) RegisterDeviceToken(ctx context.Context, uid, token string) error {
	if utils.IsBlank(token) {
		return ErrMissingData
	}
	if err := s.userRepo.AddFCMToken(ctx, uid, strings.TrimSpace(token)); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to register device: %w", err)
	}
	return nil
}

func (s *userService) touch(ctx context.Context, uid string) {
	if err := s.userRepo.TouchLastActive(ctx, uid, time.Now().UTC()); err != nil && !errors.Is(err, interfaces.ErrNotFound) {
		s.logger.WithUserID(uid).WithError(err).Debug("Failed to record activity")
	}
}
