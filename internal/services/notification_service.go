package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/aibek-k/erp-admin/internal/models"
	"github.com/aibek-k/erp-admin/internal/repository"
)

// NotificationService owns the read/write contract over the
// notification store: per-user feeds, unread counts, read-state
// transitions, and personal or system-wide sends.
type NotificationService struct {
	repo     *repository.NotificationRepository
	userRepo *repository.UserRepository
}

// NewNotificationService creates a new instance of NotificationService.
func NewNotificationService(repo *repository.NotificationRepository, userRepo *repository.UserRepository) *NotificationService {
	return &NotificationService{
		repo:     repo,
		userRepo: userRepo,
	}
}

// GetByUser returns the user's notifications (personal plus fanned-out
// system rows), newest first. A limit of zero means no cap.
func (s *NotificationService) GetByUser(ctx context.Context, userID int64, limit int) ([]models.Notification, error) {
	return s.repo.GetByUser(ctx, userID, limit)
}

// GetUnreadCountByUser returns the user's UNREAD count. It is computed
// over the same rows GetByUser serves, so the two always agree.
func (s *NotificationService) GetUnreadCountByUser(ctx context.Context, userID int64) (int, error) {
	return s.repo.CountUnreadByUser(ctx, userID)
}

// MarkAsRead transitions one notification to READ. Already-read
// notifications are a no-op; missing ones return repository.ErrNotFound.
func (s *NotificationService) MarkAsRead(ctx context.Context, notifID int64) error {
	return s.repo.MarkAsRead(ctx, notifID)
}

// MarkAllAsRead transitions every UNREAD notification of the user to READ.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// DeleteNotification permanently removes a notification.
func (s *NotificationService) DeleteNotification(ctx context.Context, notifID int64) error {
	return s.repo.DeleteNotification(ctx, notifID)
}

// SendNotification creates one personal UNREAD notification.
func (s *NotificationService) SendNotification(ctx context.Context, userID int64, title, message, notifType string) (*models.Notification, error) {
	if err := validateNotification(title, message, notifType); err != nil {
		return nil, err
	}

	notif := &models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    notifType,
		Status:  models.StatusUnread,
	}
	if err := s.repo.CreateNotification(ctx, notif); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"userID":  userID,
		"notifID": notif.ID,
		"type":    notifType,
	}).Info("Notification sent")
	return notif, nil
}

// SendSystemNotification fans a system-wide notification out to every
// currently active user, one UNREAD row each, in a single transaction.
// Users activated later do not see it retroactively.
func (s *NotificationService) SendSystemNotification(ctx context.Context, title, message, notifType string) (int, error) {
	if err := validateNotification(title, message, notifType); err != nil {
		return 0, err
	}

	users, err := s.userRepo.GetActiveUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve recipients: %v", err)
	}
	if len(users) == 0 {
		return 0, nil
	}

	notifs := make([]*models.Notification, 0, len(users))
	for _, u := range users {
		notifs = append(notifs, &models.Notification{
			UserID:  u.ID,
			Title:   title,
			Message: message,
			Type:    notifType,
			Status:  models.StatusUnread,
			System:  true,
		})
	}

	if err := s.repo.CreateNotifications(ctx, notifs); err != nil {
		return 0, err
	}

	logrus.WithFields(logrus.Fields{
		"recipients": len(notifs),
		"type":       notifType,
	}).Info("System notification sent")
	return len(notifs), nil
}

// GetLatestByUserAndTitle returns the user's most recent notification
// with the given title. The scan jobs use it to avoid repeat reminders.
func (s *NotificationService) GetLatestByUserAndTitle(ctx context.Context, userID int64, title string) (*models.Notification, error) {
	return s.repo.GetLatestByUserAndTitle(ctx, userID, title)
}

// validateNotification rejects malformed sends before they reach the store.
func validateNotification(title, message, notifType string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("notification title is required")
	}
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("notification message is required")
	}
	if !models.ValidNotificationType(notifType) {
		return fmt.Errorf("unknown notification type %q", notifType)
	}
	return nil
}
