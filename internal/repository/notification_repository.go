package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/aibek-k/erp-admin/internal/models"
)

// NotificationRepository handles database operations for notification rows.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository creates a new instance of NotificationRepository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// CreateNotification inserts a new notification and assigns its ID.
func (r *NotificationRepository) CreateNotification(ctx context.Context, notif *models.Notification) error {
	if notif.CreatedAt.IsZero() {
		notif.CreatedAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (user_id, title, message, type, status, system, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		notif.UserID, notif.Title, notif.Message, notif.Type, notif.Status,
		notif.System, notif.CreatedAt,
	)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert notification")
		return fmt.Errorf("failed to create notification: %v", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted notification id: %v", err)
	}
	notif.ID = id
	return nil
}

// CreateNotifications inserts a batch of notifications in a single
// transaction. Used for system-wide fan-out, where a partial insert
// must not be left behind.
func (r *NotificationRepository) CreateNotifications(ctx context.Context, notifs []*models.Notification) error {
	if len(notifs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO notifications (user_id, title, message, type, status, system, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare notification insert: %v", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, n := range notifs {
		if n.CreatedAt.IsZero() {
			n.CreatedAt = now
		}
		res, err := stmt.ExecContext(ctx,
			n.UserID, n.Title, n.Message, n.Type, n.Status, n.System, n.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert notification for user %d: %v", n.UserID, err)
		}
		if id, err := res.LastInsertId(); err == nil {
			n.ID = id
		}
	}

	return tx.Commit()
}

// GetByUser returns the user's notifications, newest first. A limit of
// zero or less means no cap.
func (r *NotificationRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]models.Notification, error) {
	query := "SELECT * FROM notifications WHERE user_id = ? ORDER BY created_at DESC, id DESC"
	args := []interface{}{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var notifications []models.Notification
	if err := r.db.SelectContext(ctx, &notifications, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %v", err)
	}
	return notifications, nil
}

// GetByID retrieves a single notification.
func (r *NotificationRepository) GetByID(ctx context.Context, id int64) (*models.Notification, error) {
	var notif models.Notification
	err := r.db.GetContext(ctx, &notif, "SELECT * FROM notifications WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch notification: %v", err)
	}
	return &notif, nil
}

// CountUnreadByUser returns how many UNREAD notifications the user has.
func (r *NotificationRepository) CountUnreadByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM notifications WHERE user_id = ? AND status = ?",
		userID, models.StatusUnread,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %v", err)
	}
	return count, nil
}

// MarkAsRead transitions a notification to READ. Marking an already
// read notification is a no-op; a missing one returns ErrNotFound.
func (r *NotificationRepository) MarkAsRead(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE notifications SET status = ? WHERE id = ? AND status = ?",
		models.StatusRead, id, models.StatusUnread,
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %v", err)
	}

	n, _ := res.RowsAffected()
	if n > 0 {
		return nil
	}

	// Nothing changed: either already READ (no-op) or gone (not found).
	var exists int
	if err := r.db.GetContext(ctx, &exists,
		"SELECT COUNT(*) FROM notifications WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to check notification existence: %v", err)
	}
	if exists == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllAsRead transitions every UNREAD notification of the user to
// READ in a single statement, so the change is all-or-nothing.
func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE notifications SET status = ? WHERE user_id = ? AND status = ?",
		models.StatusRead, userID, models.StatusUnread,
	)
	if err != nil {
		return fmt.Errorf("failed to mark all notifications as read: %v", err)
	}
	return nil
}

// DeleteNotification permanently removes a notification.
func (r *NotificationRepository) DeleteNotification(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM notifications WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %v", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetLatestByUserAndTitle returns the user's most recent notification
// with the given title, or ErrNotFound. The scan jobs use it to avoid
// re-sending the same reminder.
func (r *NotificationRepository) GetLatestByUserAndTitle(ctx context.Context, userID int64, title string) (*models.Notification, error) {
	var notif models.Notification
	err := r.db.GetContext(ctx, &notif, `
		SELECT * FROM notifications
		WHERE user_id = ? AND title = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1`,
		userID, title,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch latest notification: %v", err)
	}
	return &notif, nil
}
