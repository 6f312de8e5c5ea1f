package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibek-k/erp-admin/internal/models"
	"github.com/aibek-k/erp-admin/internal/repository"
	"github.com/aibek-k/erp-admin/internal/testutil"
)

func newNotificationService(t *testing.T) (*NotificationService, *sqlx.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	return NewNotificationService(
		repository.NewNotificationRepository(db),
		repository.NewUserRepository(db),
	), db
}

func TestSendNotification(t *testing.T) {
	svc, db := newNotificationService(t)
	ctx := context.Background()
	user := createTestUser(t, db, "alice@example.com", models.RoleBasic, true)

	notif, err := svc.SendNotification(ctx, user.ID, "Welcome", "Your account is ready.", models.NotificationInfo)
	require.NoError(t, err)
	require.NotNil(t, notif)

	assert.NotZero(t, notif.ID)
	assert.Equal(t, models.StatusUnread, notif.Status)
	assert.False(t, notif.System)
	assert.False(t, notif.CreatedAt.IsZero())
}

func TestSendNotification_RejectsInvalidInput(t *testing.T) {
	svc, db := newNotificationService(t)
	ctx := context.Background()
	user := createTestUser(t, db, "alice@example.com", models.RoleBasic, true)

	_, err := svc.SendNotification(ctx, user.ID, "  ", "body", models.NotificationInfo)
	assert.Error(t, err, "blank title should be rejected")

	_, err = svc.SendNotification(ctx, user.ID, "title", "", models.NotificationInfo)
	assert.Error(t, err, "empty message should be rejected")

	_, err = svc.SendNotification(ctx, user.ID, "title", "body", "SHOUT")
	assert.Error(t, err, "unknown type should be rejected")
}

func TestGetByUser_NewestFirstWithLimit(t *testing.T) {
	svc, db := newNotificationService(t)
	ctx := context.Background()
	user := createTestUser(t, db, "alice@example.com", models.RoleBasic, true)

	for i := 1; i <= 4; i++ {
		_, err := svc.SendNotification(ctx, user.ID, fmt.Sprintf("Notification %d", i), "body", models.NotificationInfo)
		require.NoError(t, err)
	}

	notifs, err := svc.GetByUser(ctx, user.ID, 3)
	require.NoError(t, err)
	require.Len(t, notifs, 3)
	assert.Equal(t, "Notification 4", notifs[0].Title)
	assert.Equal(t, "Notification 3", notifs[1].Title)
	assert.Equal(t, "Notification 2", notifs[2].Title)

	all, err := svc.GetByUser(ctx, user.ID, 0)
	require.NoError(t, err)
	assert.Len(t, all, 4, "zero limit means no cap")
}

func TestUnreadCountMatchesList(t *testing.T) {
	svc, db := newNotificationService(t)
	ctx := context.Background()
	user := createTestUser(t, db, "alice@example.com", models.RoleBasic, true)

	ids := make([]int64, 0, 5)
	for i := 0; i < 5; i++ {
		notif, err := svc.SendNotification(ctx, user.ID, fmt.Sprintf("N%d", i), "body", models.NotificationInfo)
		require.NoError(t, err)
		ids = append(ids, notif.ID)
	}

	require.NoError(t, svc.MarkAsRead(ctx, ids[0]))
	require.NoError(t, svc.MarkAsRead(ctx, ids[1]))

	count, err := svc.GetUnreadCountByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	notifs, err := svc.GetByUser(ctx, user.ID, 0)
	require.NoError(t, err)

	unreadInList := 0
	for _, n := range notifs {
		if n.Status == models.StatusUnread {
			unreadInList++
		}
	}
	assert.Equal(t, count, unreadInList, "count must agree with the list it is served alongside")
}

func TestMarkAsRead_Idempotent(t *testing.T) {
	svc, db := newNotificationService(t)
	ctx := context.Background()
	user := createTestUser(t, db, "alice@example.com", models.RoleBasic, true)

	notif, err := svc.SendNotification(ctx, user.ID, "Once", "body", models.NotificationInfo)
	require.NoError(t, err)

	require.NoError(t, svc.MarkAsRead(ctx, notif.ID))
	require.NoError(t, svc.MarkAsRead(ctx, notif.ID), "marking an already-read notification is a no-op")

	count, err := svc.GetUnreadCountByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	notifs, err := svc.GetByUser(ctx, user.ID, 0)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, models.StatusRead, notifs[0].Status, "READ never reverts to UNREAD")
}

func TestMarkAsRead_MissingNotification(t *testing.T) {
	svc, _ := newNotificationService(t)

	err := svc.MarkAsRead(context.Background(), 9999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMarkAllAsRead(t *testing.T) {
	svc, db := newNotificationService(t)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice@example.com", models.RoleBasic, true)
	bob := createTestUser(t, db, "bob@example.com", models.RoleBasic, true)

	for i := 0; i < 3; i++ {
		_, err := svc.SendNotification(ctx, alice.ID, fmt.Sprintf("A%d", i), "body", models.NotificationInfo)
		require.NoError(t, err)
	}
	_, err := svc.SendNotification(ctx, bob.ID, "B", "body", models.NotificationInfo)
	require.NoError(t, err)

	require.NoError(t, svc.MarkAllAsRead(ctx, alice.ID))

	count, err := svc.GetUnreadCountByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	notifs, err := svc.GetByUser(ctx, alice.ID, 0)
	require.NoError(t, err)
	for _, n := range notifs {
		assert.Equal(t, models.StatusRead, n.Status)
	}

	bobCount, err := svc.GetUnreadCountByUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, bobCount, "other users' unread state is untouched")
}

func TestDeleteNotification(t *testing.T) {
	svc, db := newNotificationService(t)
	ctx := context.Background()
	user := createTestUser(t, db, "alice@example.com", models.RoleBasic, true)

	notif, err := svc.SendNotification(ctx, user.ID, "Gone soon", "body", models.NotificationInfo)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteNotification(ctx, notif.ID))

	assert.ErrorIs(t, svc.MarkAsRead(ctx, notif.ID), repository.ErrNotFound,
		"operations on a deleted notification report not found")
	assert.ErrorIs(t, svc.DeleteNotification(ctx, notif.ID), repository.ErrNotFound)

	count, err := svc.GetUnreadCountByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestSendSystemNotification_FansOutToActiveUsers(t *testing.T) {
	svc, db := newNotificationService(t)
	ctx := context.Background()
	admin := createTestUser(t, db, "admin@example.com", models.RoleAdmin, true)
	basic := createTestUser(t, db, "basic@example.com", models.RoleBasic, true)
	inactive := createTestUser(t, db, "gone@example.com", models.RoleBasic, false)

	sent, err := svc.SendSystemNotification(ctx, "Maintenance", "Scheduled downtime tonight.", models.NotificationWarning)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	for _, u := range []*models.User{admin, basic} {
		notifs, err := svc.GetByUser(ctx, u.ID, 0)
		require.NoError(t, err)
		require.Len(t, notifs, 1)
		assert.Equal(t, "Maintenance", notifs[0].Title)
		assert.Equal(t, models.StatusUnread, notifs[0].Status)
		assert.True(t, notifs[0].System)
	}

	notifs, err := svc.GetByUser(ctx, inactive.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, notifs, "inactive users are excluded from fan-out")

	// Fan-out is resolved at send time: a user created afterwards does
	// not see the notification retroactively.
	late := createTestUser(t, db, "late@example.com", models.RoleBasic, true)
	notifs, err = svc.GetByUser(ctx, late.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, notifs)
}

func TestSendSystemNotification_ReadStateIsPerRecipient(t *testing.T) {
	svc, db := newNotificationService(t)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice@example.com", models.RoleBasic, true)
	bob := createTestUser(t, db, "bob@example.com", models.RoleBasic, true)

	_, err := svc.SendSystemNotification(ctx, "Announcement", "body", models.NotificationInfo)
	require.NoError(t, err)

	aliceNotifs, err := svc.GetByUser(ctx, alice.ID, 0)
	require.NoError(t, err)
	require.Len(t, aliceNotifs, 1)
	require.NoError(t, svc.MarkAsRead(ctx, aliceNotifs[0].ID))

	bobCount, err := svc.GetUnreadCountByUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, bobCount, "one recipient reading must not affect another")
}
