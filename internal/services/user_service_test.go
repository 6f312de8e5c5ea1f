package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibek-k/erp-admin/internal/models"
	"github.com/aibek-k/erp-admin/internal/repository"
	"github.com/aibek-k/erp-admin/internal/testutil"
)

func newUserService(t *testing.T) (*UserService, *repository.PermissionRepository) {
	t.Helper()
	db := testutil.NewTestDB(t)
	permRepo := repository.NewPermissionRepository(db)
	return NewUserService(repository.NewUserRepository(db), permRepo, nil), permRepo
}

func TestRegisterUser_SeedsBasicDefaults(t *testing.T) {
	svc, permRepo := newUserService(t)
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, &models.User{
		Username: "alice",
		Email:    "alice@example.com",
	}, "s3cret-pass")
	require.NoError(t, err)

	assert.Equal(t, models.RoleBasic, user.Role, "role defaults to BASIC")
	assert.True(t, user.Active)
	assert.NotEqual(t, "s3cret-pass", user.HashedPassword, "password is stored hashed")

	stored, err := permRepo.GetByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, stored, len(models.AllModules))

	byModule := make(map[string]bool, len(stored))
	for _, p := range stored {
		byModule[p.Module] = p.CanView
	}
	assert.True(t, byModule[models.ModuleInventory])
	assert.False(t, byModule[models.ModuleUserManagement])
}

func TestRegisterUser_AdminHasNoStoredRows(t *testing.T) {
	svc, permRepo := newUserService(t)
	ctx := context.Background()

	admin, err := svc.RegisterUser(ctx, &models.User{
		Username: "boss",
		Email:    "boss@example.com",
		Role:     models.RoleAdmin,
	}, "s3cret-pass")
	require.NoError(t, err)

	stored, err := permRepo.GetByUser(ctx, admin.ID)
	require.NoError(t, err)
	assert.Empty(t, stored, "full-access roles are never materialized as rows")
}

func TestRegisterUser_Rejections(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.RegisterUser(ctx, &models.User{Username: "alice", Email: "not-an-email"}, "pass")
	assert.Error(t, err, "malformed email")

	_, err = svc.RegisterUser(ctx, &models.User{Username: "alice", Email: "alice@example.com"}, "")
	assert.Error(t, err, "empty password")

	_, err = svc.RegisterUser(ctx, &models.User{
		Username: "alice",
		Email:    "alice@example.com",
		Role:     "SUPERUSER",
	}, "pass")
	assert.Error(t, err, "unknown role")

	_, err = svc.RegisterUser(ctx, &models.User{Username: "alice", Email: "alice@example.com"}, "pass")
	require.NoError(t, err)
	_, err = svc.RegisterUser(ctx, &models.User{Username: "alice2", Email: "alice@example.com"}, "pass")
	assert.Error(t, err, "duplicate email")
}

func TestAuthenticateUser(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, &models.User{
		Username: "alice",
		Email:    "alice@example.com",
	}, "s3cret-pass")
	require.NoError(t, err)

	got, err := svc.AuthenticateUser(ctx, "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.AuthenticateUser(ctx, "alice@example.com", "wrong")
	assert.Error(t, err)

	_, err = svc.AuthenticateUser(ctx, "nobody@example.com", "s3cret-pass")
	assert.Error(t, err)
}

func TestAuthenticateUser_DeactivatedAccount(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, &models.User{
		Username: "alice",
		Email:    "alice@example.com",
	}, "s3cret-pass")
	require.NoError(t, err)

	require.NoError(t, svc.SetUserActive(ctx, user.ID, false))

	_, err = svc.AuthenticateUser(ctx, "alice@example.com", "s3cret-pass")
	assert.Error(t, err, "deactivated accounts cannot log in")
}

func TestUpdateUser_StripsProtectedFields(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, &models.User{
		Username: "alice",
		Email:    "alice@example.com",
	}, "s3cret-pass")
	require.NoError(t, err)

	updated, err := svc.UpdateUser(ctx, user.ID, map[string]interface{}{
		"username":        "alice-renamed",
		"hashed_password": "injected",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice-renamed", updated.Username)
	assert.Equal(t, user.HashedPassword, updated.HashedPassword, "password changes go through ChangePassword")
}

func TestUpdateUser_RejectsUnknownFields(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, &models.User{
		Username: "alice",
		Email:    "alice@example.com",
	}, "alice-pass")
	require.NoError(t, err)
	_, err = svc.RegisterUser(ctx, &models.User{
		Username: "bob",
		Email:    "bob@example.com",
	}, "bob-pass")
	require.NoError(t, err)

	// Field names are column names; a crafted key must never reach the
	// query builder.
	_, err = svc.UpdateUser(ctx, user.ID, map[string]interface{}{
		"role = 'ADMIN', username": "hacked",
	})
	require.Error(t, err)

	got, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleBasic, got.Role, "role must be unchanged")
	assert.Equal(t, "alice", got.Username)

	_, err = svc.UpdateUser(ctx, user.ID, map[string]interface{}{
		"hashed_password = 'owned' WHERE 1=1 --": "x",
	})
	require.Error(t, err)

	// Neither account's credentials were touched.
	_, err = svc.AuthenticateUser(ctx, "alice@example.com", "alice-pass")
	require.NoError(t, err)
	_, err = svc.AuthenticateUser(ctx, "bob@example.com", "bob-pass")
	require.NoError(t, err)
}

func TestUpdateUser_RejectsNonStringRole(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, &models.User{
		Username: "alice",
		Email:    "alice@example.com",
	}, "alice-pass")
	require.NoError(t, err)

	// JSON numbers decode as float64; a non-string role is invalid.
	_, err = svc.UpdateUser(ctx, user.ID, map[string]interface{}{
		"role": float64(2),
	})
	require.Error(t, err)

	got, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleBasic, got.Role)
}

func TestPasswordResetFlow(t *testing.T) {
	db := testutil.NewTestDB(t)
	userRepo := repository.NewUserRepository(db)
	svc := NewUserService(userRepo, repository.NewPermissionRepository(db), nil)
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, &models.User{
		Username: "alice",
		Email:    "alice@example.com",
	}, "old-pass")
	require.NoError(t, err)

	assert.Error(t, svc.RequestPasswordReset(ctx, "nobody@example.com"))

	require.NoError(t, svc.RequestPasswordReset(ctx, "alice@example.com"))

	stored, err := userRepo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, stored.ResetToken.Valid)
	token := stored.ResetToken.String

	assert.Error(t, svc.ResetPassword(ctx, "bogus-token", "new-pass"))

	require.NoError(t, svc.ResetPassword(ctx, token, "new-pass"))

	_, err = svc.AuthenticateUser(ctx, "alice@example.com", "new-pass")
	require.NoError(t, err)

	assert.Error(t, svc.ResetPassword(ctx, token, "again"), "a used token cannot be replayed")
}

func TestResetPassword_ExpiredToken(t *testing.T) {
	db := testutil.NewTestDB(t)
	userRepo := repository.NewUserRepository(db)
	svc := NewUserService(userRepo, repository.NewPermissionRepository(db), nil)
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, &models.User{
		Username: "alice",
		Email:    "alice@example.com",
	}, "old-pass")
	require.NoError(t, err)
	require.NoError(t, svc.RequestPasswordReset(ctx, "alice@example.com"))

	stored, err := userRepo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)

	_, err = db.Exec("UPDATE users SET reset_token_exp = ? WHERE id = ?",
		time.Now().UTC().Add(-time.Minute), user.ID)
	require.NoError(t, err)

	assert.Error(t, svc.ResetPassword(ctx, stored.ResetToken.String, "new-pass"))
}

func TestChangePassword(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, &models.User{
		Username: "alice",
		Email:    "alice@example.com",
	}, "old-pass")
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "new-pass"))

	_, err = svc.AuthenticateUser(ctx, "alice@example.com", "old-pass")
	assert.Error(t, err)

	_, err = svc.AuthenticateUser(ctx, "alice@example.com", "new-pass")
	assert.NoError(t, err)
}
