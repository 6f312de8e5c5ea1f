package notifier

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibek-k/erp-admin/internal/models"
	"github.com/aibek-k/erp-admin/internal/repository"
	"github.com/aibek-k/erp-admin/internal/services"
	"github.com/aibek-k/erp-admin/internal/testutil"
)

func newTestCenter(t *testing.T, opts ...Option) (*Center, *services.NotificationService, int64, *sqlx.DB) {
	t.Helper()

	db := testutil.NewTestDB(t)
	userRepo := repository.NewUserRepository(db)
	svc := services.NewNotificationService(repository.NewNotificationRepository(db), userRepo)

	user, err := userRepo.CreateUser(context.Background(), &models.User{
		Username:       "alice",
		Email:          "alice@example.com",
		HashedPassword: "not-a-real-hash",
		Role:           models.RoleBasic,
		Active:         true,
	})
	require.NoError(t, err)

	return NewCenter(svc, user.ID, opts...), svc, user.ID, db
}

func seedNotifications(t *testing.T, svc *services.NotificationService, userID int64, n int) []int64 {
	t.Helper()

	ids := make([]int64, 0, n)
	for i := 1; i <= n; i++ {
		notif, err := svc.SendNotification(context.Background(), userID,
			fmt.Sprintf("Notification %d", i), "body", models.NotificationInfo)
		require.NoError(t, err)
		ids = append(ids, notif.ID)
	}
	return ids
}

func TestCenter_RefetchPopulatesState(t *testing.T) {
	c, svc, userID, _ := newTestCenter(t)
	seedNotifications(t, svc, userID, 3)

	c.Refetch()

	snap := c.Snapshot()
	require.NoError(t, snap.Err)
	assert.False(t, snap.IsLoading)
	assert.Len(t, snap.Notifications, 3)
	assert.Equal(t, 3, snap.UnreadCount)
	assert.Equal(t, "Notification 3", snap.Notifications[0].Title, "newest first")
}

func TestCenter_MarkAsReadUpdatesLocally(t *testing.T) {
	c, svc, userID, _ := newTestCenter(t)
	ids := seedNotifications(t, svc, userID, 2)
	c.Refetch()

	require.NoError(t, c.MarkAsRead(context.Background(), ids[0]))

	// The confirmed result is applied locally without a refetch.
	snap := c.Snapshot()
	assert.Equal(t, 1, snap.UnreadCount)
	for _, n := range snap.Notifications {
		if n.ID == ids[0] {
			assert.Equal(t, models.StatusRead, n.Status)
		}
	}

	// Marking again is a no-op; the count must not go down twice.
	require.NoError(t, c.MarkAsRead(context.Background(), ids[0]))
	assert.Equal(t, 1, c.Snapshot().UnreadCount)
}

func TestCenter_MarkAsReadGoneNotificationPrunes(t *testing.T) {
	c, svc, userID, _ := newTestCenter(t)
	ids := seedNotifications(t, svc, userID, 2)
	c.Refetch()

	// Deleted out from under the center, e.g. by another session.
	require.NoError(t, svc.DeleteNotification(context.Background(), ids[1]))

	require.NoError(t, c.MarkAsRead(context.Background(), ids[1]),
		"a gone notification is pruned, not an error")

	snap := c.Snapshot()
	assert.Len(t, snap.Notifications, 1)
	assert.Equal(t, 1, snap.UnreadCount)
}

func TestCenter_MarkAllAsRead(t *testing.T) {
	c, svc, userID, _ := newTestCenter(t)
	seedNotifications(t, svc, userID, 3)
	c.Refetch()

	require.NoError(t, c.MarkAllAsRead(context.Background()))

	snap := c.Snapshot()
	assert.Equal(t, 0, snap.UnreadCount)
	for _, n := range snap.Notifications {
		assert.Equal(t, models.StatusRead, n.Status)
	}

	// Server agrees after the next refresh.
	c.Refetch()
	assert.Equal(t, 0, c.Snapshot().UnreadCount)
}

func TestCenter_DeleteNotification(t *testing.T) {
	c, svc, userID, _ := newTestCenter(t)
	ids := seedNotifications(t, svc, userID, 2)
	c.Refetch()

	require.NoError(t, c.DeleteNotification(context.Background(), ids[0]))

	snap := c.Snapshot()
	assert.Len(t, snap.Notifications, 1)
	assert.Equal(t, 1, snap.UnreadCount)

	require.NoError(t, c.DeleteNotification(context.Background(), ids[0]),
		"deleting an already-gone notification is not an error")
}

func TestCenter_SendPrependsAndTrims(t *testing.T) {
	c, svc, userID, _ := newTestCenter(t, WithLimit(2))
	seedNotifications(t, svc, userID, 2)
	c.Refetch()

	require.NoError(t, c.Send(context.Background(), "Fresh", "body", models.NotificationSuccess))

	snap := c.Snapshot()
	require.Len(t, snap.Notifications, 2, "list is trimmed to the limit")
	assert.Equal(t, "Fresh", snap.Notifications[0].Title)
	assert.Equal(t, 3, snap.UnreadCount, "unread count tracks all unread, not just the visible window")
}

func TestCenter_SendSystemRefreshesOwnFeed(t *testing.T) {
	c, _, _, _ := newTestCenter(t)
	c.Refetch()

	require.NoError(t, c.SendSystem(context.Background(), "Maintenance", "body", models.NotificationWarning))

	snap := c.Snapshot()
	require.Len(t, snap.Notifications, 1, "the sender is an active user and receives the fan-out too")
	assert.True(t, snap.Notifications[0].System)
	assert.Equal(t, 1, snap.UnreadCount)
}

func TestCenter_RefreshFailureKeepsStaleState(t *testing.T) {
	c, svc, userID, db := newTestCenter(t)
	seedNotifications(t, svc, userID, 1)
	c.Refetch()
	require.NoError(t, c.Snapshot().Err)

	_, err := db.Exec("ALTER TABLE notifications RENAME TO notifications_hidden")
	require.NoError(t, err)

	c.Refetch()
	snap := c.Snapshot()
	assert.Error(t, snap.Err)
	assert.Len(t, snap.Notifications, 1, "a failed refresh keeps the previous list")
	assert.False(t, snap.IsLoading)

	_, err = db.Exec("ALTER TABLE notifications_hidden RENAME TO notifications")
	require.NoError(t, err)

	c.Refetch()
	snap = c.Snapshot()
	assert.NoError(t, snap.Err, "the next successful refresh clears the error")
	assert.Len(t, snap.Notifications, 1)
}

func TestCenter_StartPollsAndStopIsIdempotent(t *testing.T) {
	c, svc, userID, _ := newTestCenter(t, WithInterval(20*time.Millisecond))

	c.Start()
	c.Start() // second call is a no-op

	require.Eventually(t, func() bool {
		snap := c.Snapshot()
		return snap.Err == nil && !snap.IsLoading
	}, time.Second, 10*time.Millisecond, "initial fetch completes")

	// A notification created behind the center's back shows up on the
	// next poll tick without an explicit refetch.
	seedNotifications(t, svc, userID, 1)
	require.Eventually(t, func() bool {
		return len(c.Snapshot().Notifications) == 1
	}, time.Second, 10*time.Millisecond)

	c.Stop()
	c.Stop() // safe to call twice
}
