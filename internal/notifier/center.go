// Package notifier bridges the notification service and the
// presentation layer. A Center owns the client-visible state for one
// user's notification feed and keeps it fresh with a fixed-interval
// background refresh.
package notifier

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aibek-k/erp-admin/internal/models"
	"github.com/aibek-k/erp-admin/internal/repository"
	"github.com/aibek-k/erp-admin/internal/services"
)

const (
	defaultInterval     = 30 * time.Second
	defaultLimit        = 50
	defaultFetchTimeout = 10 * time.Second
)

// State is the snapshot handed to the presentation layer.
type State struct {
	Notifications []models.Notification
	UnreadCount   int
	IsLoading     bool
	Err           error
}

// Center orchestrates one user's notification feed: initial fetch,
// periodic refresh, and optimistic local updates after confirmed
// mutations. Mutations and refreshes are serialized per center, so an
// overlapping poll tick can never overwrite newer state with a stale
// response.
type Center struct {
	service *services.NotificationService
	userID  int64

	interval     time.Duration
	limit        int
	fetchTimeout time.Duration

	// opMu serializes refreshes and mutations; mu guards the snapshot
	// state so reads never wait on a slow store call.
	opMu sync.Mutex
	mu   sync.Mutex

	notifications []models.Notification
	unreadCount   int
	loading       bool
	err           error

	stopCh   chan struct{}
	stopOnce sync.Once
	started  bool
}

// Option configures a Center.
type Option func(*Center)

// WithInterval overrides the refresh cadence.
func WithInterval(d time.Duration) Option {
	return func(c *Center) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithLimit bounds how many notifications the center keeps.
func WithLimit(n int) Option {
	return func(c *Center) {
		if n > 0 {
			c.limit = n
		}
	}
}

// NewCenter creates a Center for the given user. Call Start to begin
// polling and Stop when the owning view is torn down.
func NewCenter(service *services.NotificationService, userID int64, opts ...Option) *Center {
	c := &Center{
		service:      service,
		userID:       userID,
		interval:     defaultInterval,
		limit:        defaultLimit,
		fetchTimeout: defaultFetchTimeout,
		stopCh:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start performs the initial fetch and launches the refresh loop.
// Calling Start twice is a no-op.
func (c *Center) Start() {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	go c.run()
}

// Stop cancels the refresh loop. Safe to call more than once; the
// ticker is released exactly once.
func (c *Center) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
}

func (c *Center) run() {
	c.refresh()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.refresh()
		}
	}
}

// Snapshot returns a copy of the current client-visible state.
func (c *Center) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	notifs := make([]models.Notification, len(c.notifications))
	copy(notifs, c.notifications)

	return State{
		Notifications: notifs,
		UnreadCount:   c.unreadCount,
		IsLoading:     c.loading,
		Err:           c.err,
	}
}

// Refetch forces an immediate refresh, queued behind any in-flight
// operation for this user.
func (c *Center) Refetch() {
	c.refresh()
}

// refresh fetches the list and unread count and replaces the local
// state. A fetch failure keeps the previous (stale) list and surfaces
// a single error; the next successful refresh clears it.
func (c *Center) refresh() {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.setLoading(true)
	defer c.setLoading(false)

	ctx, cancel := context.WithTimeout(context.Background(), c.fetchTimeout)
	defer cancel()

	notifs, err := c.service.GetByUser(ctx, c.userID, c.limit)
	if err != nil {
		logrus.WithError(err).WithField("userID", c.userID).Warn("Notification refresh failed")
		c.setError(err)
		return
	}

	count, err := c.service.GetUnreadCountByUser(ctx, c.userID)
	if err != nil {
		logrus.WithError(err).WithField("userID", c.userID).Warn("Unread count refresh failed")
		c.setError(err)
		return
	}

	c.mu.Lock()
	c.notifications = notifs
	c.unreadCount = count
	c.err = nil
	c.mu.Unlock()
}

// MarkAsRead marks one notification read and applies the confirmed
// result locally instead of refetching. A notification that no longer
// exists is treated as gone: it is pruned from the local list and the
// call is not an error to the caller's view.
func (c *Center) MarkAsRead(ctx context.Context, notifID int64) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	err := c.service.MarkAsRead(ctx, notifID)
	if errors.Is(err, repository.ErrNotFound) {
		c.removeLocal(notifID)
		return nil
	}
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.notifications {
		if c.notifications[i].ID == notifID && c.notifications[i].Status == models.StatusUnread {
			c.notifications[i].Status = models.StatusRead
			c.unreadCount--
		}
	}
	if c.unreadCount < 0 {
		c.unreadCount = 0
	}
	return nil
}

// MarkAllAsRead marks every notification of the user read.
func (c *Center) MarkAllAsRead(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if err := c.service.MarkAllAsRead(ctx, c.userID); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.notifications {
		c.notifications[i].Status = models.StatusRead
	}
	c.unreadCount = 0
	return nil
}

// DeleteNotification removes a notification permanently. Deleting an
// already-gone notification only prunes local state.
func (c *Center) DeleteNotification(ctx context.Context, notifID int64) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	err := c.service.DeleteNotification(ctx, notifID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	c.removeLocal(notifID)
	return nil
}

// Send creates a personal notification for the center's user and
// prepends the confirmed record locally.
func (c *Center) Send(ctx context.Context, title, message, notifType string) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	notif, err := c.service.SendNotification(ctx, c.userID, title, message, notifType)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifications = append([]models.Notification{*notif}, c.notifications...)
	if c.limit > 0 && len(c.notifications) > c.limit {
		c.notifications = c.notifications[:c.limit]
	}
	c.unreadCount++
	return nil
}

// SendSystem fans a notification out to all active users, then
// refreshes the local feed since the center's user receives one too.
func (c *Center) SendSystem(ctx context.Context, title, message, notifType string) error {
	c.opMu.Lock()
	if _, err := c.service.SendSystemNotification(ctx, title, message, notifType); err != nil {
		c.opMu.Unlock()
		return err
	}
	c.opMu.Unlock()

	c.refresh()
	return nil
}

// removeLocal drops a notification from the local list, adjusting the
// unread count if it was unread. Callers hold opMu.
func (c *Center) removeLocal(notifID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.notifications {
		if c.notifications[i].ID != notifID {
			continue
		}
		if c.notifications[i].Status == models.StatusUnread {
			c.unreadCount--
		}
		c.notifications = append(c.notifications[:i], c.notifications[i+1:]...)
		break
	}
	if c.unreadCount < 0 {
		c.unreadCount = 0
	}
}

func (c *Center) setLoading(v bool) {
	c.mu.Lock()
	c.loading = v
	c.mu.Unlock()
}

func (c *Center) setError(err error) {
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
}
