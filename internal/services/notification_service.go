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
	"easyride/pkg/push"
)

const AudienceAll = "all"

type NotificationService interface {
	Notify(ctx context.Context, recipient string, kind models.NotificationType, title, text, link string) (*models.Notification, error)
	// NotifyMany stores all notifications in one write and then delivers
	// each of them.
	NotifyMany(ctx context.Context, notifications []*models.Notification) error
	List(ctx context.Context, recipient string) ([]*models.Notification, error)
	UnreadCount(ctx context.Context, recipient string) (int64, error)
	MarkRead(ctx context.Context, recipient, notificationID string) error
	MarkAllRead(ctx context.Context, recipient string) (int64, error)
	// Broadcast sends an admin notification to every user of the audience
	// and returns how many were sent.
	Broadcast(ctx context.Context, title, message, audience string) (int, error)
}

type notificationService struct {
	notificationRepo interfaces.NotificationRepository
	userRepo         interfaces.UserRepository
	events           EventService
	pushProvider     push.PushProvider
	pushTimeout      time.Duration
	logger           *logger.Logger
}

// NewNotificationService delivers push messages only when pushProvider is
// not nil.
func NewNotificationService(
	notificationRepo interfaces.NotificationRepository,
	userRepo interfaces.UserRepository,
	events EventService,
	pushProvider push.PushProvider,
	pushTimeout time.Duration,
	log *logger.Logger,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		events:           events,
		pushProvider:     pushProvider,
		pushTimeout:      pushTimeout,
		logger:           log,
	}
}

func (s *notificationService) Notify(ctx context.Context, recipient string, kind models.NotificationType, title, text, link string) (*models.Notification, error) {
	if recipient == "" || utils.IsBlank(title) || utils.IsBlank(text) {
		return nil, ErrMissingData
	}

	notification := &models.Notification{
		Recipient: recipient,
		Title:     strings.TrimSpace(title),
		Text:      strings.TrimSpace(text),
		Link:      link,
		Type:      kind,
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	s.deliver(ctx, notification)
	return notification, nil
}

func (s *notificationService) NotifyMany(ctx context.Context, notifications []*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	if err := s.notificationRepo.CreateMany(ctx, notifications); err != nil {
		return fmt.Errorf("failed to create notifications: %w", err)
	}

	for _, notification := range notifications {
		s.deliver(ctx, notification)
	}
	return nil
}

func (s *notificationService) List(ctx context.Context, recipient string) ([]*models.Notification, error) {
	notifications, err := s.notificationRepo.ListByRecipient(ctx, recipient)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, recipient string) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, recipient)
}

func (s *notificationService) MarkRead(ctx context.Context, recipient, notificationID string) error {
	id, err := parseObjectID(notificationID)
	if err != nil {
		return err
	}

	if err := s.notificationRepo.MarkRead(ctx, id, recipient); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, recipient string) (int64, error) {
	count, err := s.notificationRepo.MarkAllRead(ctx, recipient)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return count, nil
}

func (s *notificationService) Broadcast(ctx context.Context, title, message, audience string) (int, error) {
	if utils.IsBlank(title) || utils.IsBlank(message) {
		return 0, ErrMissingData
	}

	recipients, err := s.audienceIDs(ctx, audience)
	if err != nil {
		return 0, err
	}

	notifications := make([]*models.Notification, 0, len(recipients))
	for _, recipient := range recipients {
		notifications = append(notifications, &models.Notification{
			Recipient: recipient,
			Title:     strings.TrimSpace(title),
			Text:      strings.TrimSpace(message),
			Link:      PathDashboard,
			Type:      models.NotificationTypeAdmin,
		})
	}

	if err := s.NotifyMany(ctx, notifications); err != nil {
		return 0, err
	}

	s.logger.WithFields(map[string]interface{}{
		"audience":   audience,
		"recipients": len(notifications),
	}).Info("Broadcast notification sent")

	return len(notifications), nil
}

func (s *notificationService) audienceIDs(ctx context.Context, audience string) ([]string, error) {
	if audience == "" || audience == AudienceAll {
		users, err := s.userRepo.List(ctx, models.UserFilter{})
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		ids := make([]string, 0, len(users))
		for _, user := range users {
			ids = append(ids, user.ID)
		}
		return ids, nil
	}

	role := models.UserRole(audience)
	if !role.IsValid() {
		return nil, ErrInvalidAudience
	}

	ids, err := s.userRepo.ListIDsByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s users: %w", role, err)
	}
	return ids, nil
}

func (s *notificationService) deliver(ctx context.Context, notification *models.Notification) {
	s.events.Publish(ctx, utils.UserRoom(notification.Recipient), utils.EventNotification, "", notification)

	if s.pushProvider != nil {
		go s.push(notification)
	}
}

func (s *notificationService) push(notification *models.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), s.pushTimeout)
	defer cancel()

	log := s.logger.WithUserID(notification.Recipient)

	user, err := s.userRepo.GetByID(ctx, notification.Recipient)
	if err != nil {
		log.WithError(err).Warn("Skipping push, recipient profile unavailable")
		return
	}
	if len(user.FCMTokens) == 0 {
		return
	}

	response, err := s.pushProvider.SendToTokens(ctx, user.FCMTokens, &push.NotificationRequest{
		Title: notification.Title,
		Body:  notification.Text,
		Link:  notification.Link,
		Data: map[string]string{
			"notification_id": notification.ID.Hex(),
			"type":            string(notification.Type),
		},
	})
	if err != nil {
		log.WithError(err).Warn("Push delivery failed")
		return
	}

	if len(response.InvalidTokens) > 0 {
		if err := s.userRepo.RemoveFCMTokens(ctx, user.ID, response.InvalidTokens); err != nil {
			log.WithError(err).Warn("Failed to prune invalid device tokens")
		}
	}
}
