package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibek-k/erp-admin/internal/models"
	"github.com/aibek-k/erp-admin/internal/repository"
	"github.com/aibek-k/erp-admin/internal/testutil"
)

func canView(set *models.PermissionSet, module string) bool {
	for _, p := range set.Permissions {
		if p.Module == module {
			return p.CanView
		}
	}
	return false
}

func TestDefaultPermissions(t *testing.T) {
	perms := DefaultPermissions(models.RoleBasic)
	require.Len(t, perms, len(models.AllModules))

	byModule := make(map[string]bool, len(perms))
	for _, p := range perms {
		byModule[p.Module] = p.CanView
	}
	assert.True(t, byModule[models.ModuleInventory])
	assert.True(t, byModule[models.ModuleWorkOrders])
	assert.False(t, byModule[models.ModulePurchase])
	assert.False(t, byModule[models.ModuleSales])
	assert.False(t, byModule[models.ModuleUserManagement])
	assert.False(t, byModule[models.ModuleReports])

	assert.Nil(t, DefaultPermissions(models.RoleAdmin), "full-access roles have no stored defaults")
	assert.Nil(t, DefaultPermissions(models.RoleManager))
}

func TestGetEffectivePermissions_FullAccessRoles(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewPermissionService(repository.NewPermissionRepository(db))
	ctx := context.Background()
	admin := createTestUser(t, db, "admin@example.com", models.RoleAdmin, true)
	manager := createTestUser(t, db, "manager@example.com", models.RoleManager, true)

	for _, u := range []*models.User{admin, manager} {
		set, err := svc.GetEffectivePermissions(ctx, u.ID, u.Role)
		require.NoError(t, err)
		assert.True(t, set.FullAccess)
		assert.Empty(t, set.Permissions, "full access is a sentinel, not enumerated rows")
	}
}

func TestGetEffectivePermissions_DefaultsWithoutStoredRows(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewPermissionService(repository.NewPermissionRepository(db))
	ctx := context.Background()
	user := createTestUser(t, db, "basic@example.com", models.RoleBasic, true)

	set, err := svc.GetEffectivePermissions(ctx, user.ID, user.Role)
	require.NoError(t, err)
	assert.False(t, set.FullAccess)
	require.Len(t, set.Permissions, len(models.AllModules))

	assert.True(t, canView(set, models.ModuleInventory))
	assert.True(t, canView(set, models.ModuleWorkOrders))
	assert.False(t, canView(set, models.ModulePurchase))
}

func TestGetEffectivePermissions_StoredRowsWinOverDefaults(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewPermissionRepository(db)
	svc := NewPermissionService(repo)
	ctx := context.Background()
	user := createTestUser(t, db, "basic@example.com", models.RoleBasic, true)

	require.NoError(t, repo.ReplaceForUser(ctx, user.ID, []models.ModulePermission{
		{Module: models.ModuleInventory, CanView: false},
		{Module: models.ModulePurchase, CanView: true},
	}))

	set, err := svc.GetEffectivePermissions(ctx, user.ID, user.Role)
	require.NoError(t, err)
	require.Len(t, set.Permissions, len(models.AllModules), "missing modules fall back to role defaults")

	assert.False(t, canView(set, models.ModuleInventory), "stored deny overrides default grant")
	assert.True(t, canView(set, models.ModulePurchase), "stored grant overrides default deny")
	assert.True(t, canView(set, models.ModuleWorkOrders), "unstored module keeps its default")
}

func TestGetEffectivePermissions_UserManagementNeverGranted(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewPermissionRepository(db)
	svc := NewPermissionService(repo)
	ctx := context.Background()
	user := createTestUser(t, db, "basic@example.com", models.RoleBasic, true)

	// Even a stored grant, however it got there, must not surface.
	require.NoError(t, repo.ReplaceForUser(ctx, user.ID, []models.ModulePermission{
		{Module: models.ModuleUserManagement, CanView: true},
	}))

	set, err := svc.GetEffectivePermissions(ctx, user.ID, user.Role)
	require.NoError(t, err)
	assert.False(t, canView(set, models.ModuleUserManagement))
}

func TestSavePermissions_ReplacesStoredSet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewPermissionRepository(db)
	svc := NewPermissionService(repo)
	ctx := context.Background()
	user := createTestUser(t, db, "basic@example.com", models.RoleBasic, true)

	require.NoError(t, svc.SavePermissions(ctx, user.ID, models.RoleBasic, []models.ModulePermission{
		{Module: models.ModuleInventory, CanView: true},
		{Module: models.ModuleSales, CanView: true},
	}))

	require.NoError(t, svc.SavePermissions(ctx, user.ID, models.RoleBasic, []models.ModulePermission{
		{Module: models.ModuleReports, CanView: true},
	}))

	stored, err := repo.GetByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1, "saving replaces the stored set, not merges into it")
	assert.Equal(t, models.ModuleReports, stored[0].Module)
	assert.True(t, stored[0].CanView)
}

func TestSavePermissions_ForcesUserManagementOff(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewPermissionRepository(db)
	svc := NewPermissionService(repo)
	ctx := context.Background()
	user := createTestUser(t, db, "basic@example.com", models.RoleBasic, true)

	require.NoError(t, svc.SavePermissions(ctx, user.ID, models.RoleBasic, []models.ModulePermission{
		{Module: models.ModuleUserManagement, CanView: true},
	}))

	stored, err := repo.GetByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.False(t, stored[0].CanView)
}

func TestSavePermissions_Rejections(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewPermissionService(repository.NewPermissionRepository(db))
	ctx := context.Background()
	admin := createTestUser(t, db, "admin@example.com", models.RoleAdmin, true)
	basic := createTestUser(t, db, "basic@example.com", models.RoleBasic, true)

	err := svc.SavePermissions(ctx, admin.ID, admin.Role, []models.ModulePermission{
		{Module: models.ModuleInventory, CanView: true},
	})
	assert.Error(t, err, "only BASIC users have editable permissions")

	err = svc.SavePermissions(ctx, basic.ID, basic.Role, []models.ModulePermission{
		{Module: "PAYROLL", CanView: true},
	})
	assert.Error(t, err, "unknown modules are rejected")
}

func TestCanView(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewPermissionService(repository.NewPermissionRepository(db))
	ctx := context.Background()
	admin := createTestUser(t, db, "admin@example.com", models.RoleAdmin, true)
	basic := createTestUser(t, db, "basic@example.com", models.RoleBasic, true)

	ok, err := svc.CanView(ctx, admin.ID, admin.Role, models.ModuleUserManagement)
	require.NoError(t, err)
	assert.True(t, ok, "ADMIN sees every module")

	ok, err = svc.CanView(ctx, basic.ID, basic.Role, models.ModuleInventory)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CanView(ctx, basic.ID, basic.Role, models.ModuleUserManagement)
	require.NoError(t, err)
	assert.False(t, ok)
}
