package models

import "time"

// Notification types shown in the notification center.
const (
	NotificationInfo    = "INFO"
	NotificationSuccess = "SUCCESS"
	NotificationWarning = "WARNING"
	NotificationError   = "ERROR"
	NotificationMessage = "MESSAGE"
)

// Notification read states. Transitions are one-directional: a
// notification only ever moves from UNREAD to READ.
const (
	StatusUnread = "UNREAD"
	StatusRead   = "READ"
)

// Notification is a single entry in a user's notification feed.
// System-wide sends are fanned out to one row per active user, so
// every row always belongs to exactly one user.
type Notification struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Title     string    `db:"title" json:"title"`
	Message   string    `db:"message" json:"message"`
	Type      string    `db:"type" json:"type"`
	Status    string    `db:"status" json:"status"`
	System    bool      `db:"system" json:"system"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ValidNotificationType reports whether t is a known notification type.
func ValidNotificationType(t string) bool {
	switch t {
	case NotificationInfo, NotificationSuccess, NotificationWarning,
		NotificationError, NotificationMessage:
		return true
	}
	return false
}
