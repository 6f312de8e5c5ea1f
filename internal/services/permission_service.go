package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/aibek-k/erp-admin/internal/models"
	"github.com/aibek-k/erp-admin/internal/repository"
)

// PermissionService resolves effective module access for users.
// ADMIN and MANAGER get a full-access sentinel and never have stored
// rows; BASIC users get stored grants merged over role defaults.
type PermissionService struct {
	repo *repository.PermissionRepository
}

// NewPermissionService creates a new instance of PermissionService.
func NewPermissionService(repo *repository.PermissionRepository) *PermissionService {
	return &PermissionService{repo: repo}
}

// basicDefaults is the canonical starting grant set for a BASIC user.
var basicDefaults = map[string]bool{
	models.ModuleInventory:      true,
	models.ModuleWorkOrders:     true,
	models.ModulePurchase:       false,
	models.ModuleSales:          false,
	models.ModuleUserManagement: false,
	models.ModuleReports:        false,
}

// DefaultPermissions maps a role to its canonical starting grants.
// Pure function: used at provisioning time and as the merge fallback.
func DefaultPermissions(role string) []models.ModulePermission {
	if role != models.RoleBasic {
		return nil
	}

	perms := make([]models.ModulePermission, 0, len(models.AllModules))
	for _, module := range models.AllModules {
		perms = append(perms, models.ModulePermission{
			Module:     module,
			ModuleName: models.ModuleNames[module],
			CanView:    basicDefaults[module],
		})
	}
	return perms
}

// GetEffectivePermissions resolves the modules a user may view.
func (s *PermissionService) GetEffectivePermissions(ctx context.Context, userID int64, role string) (*models.PermissionSet, error) {
	if role == models.RoleAdmin || role == models.RoleManager {
		return &models.PermissionSet{FullAccess: true}, nil
	}

	stored, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	byModule := make(map[string]models.ModulePermission, len(stored))
	for _, p := range stored {
		byModule[p.Module] = p
	}

	// Stored rows win; role defaults fill the gaps. USER_MANAGEMENT is
	// never grantable to BASIC regardless of what is stored.
	perms := make([]models.ModulePermission, 0, len(models.AllModules))
	for _, module := range models.AllModules {
		perm := models.ModulePermission{
			UserID:     userID,
			Module:     module,
			ModuleName: models.ModuleNames[module],
			CanView:    basicDefaults[module],
		}
		if p, ok := byModule[module]; ok {
			perm.ID = p.ID
			perm.CanView = p.CanView
		}
		if module == models.ModuleUserManagement {
			perm.CanView = false
		}
		perms = append(perms, perm)
	}

	return &models.PermissionSet{Permissions: perms}, nil
}

// CanView reports whether the user may view one module.
func (s *PermissionService) CanView(ctx context.Context, userID int64, role, module string) (bool, error) {
	set, err := s.GetEffectivePermissions(ctx, userID, role)
	if err != nil {
		return false, err
	}
	if set.FullAccess {
		return true, nil
	}
	for _, p := range set.Permissions {
		if p.Module == module {
			return p.CanView, nil
		}
	}
	return false, nil
}

// SavePermissions overwrites a BASIC user's stored grants with the
// given working set. ADMIN/MANAGER grants are implicit and not editable.
func (s *PermissionService) SavePermissions(ctx context.Context, userID int64, role string, perms []models.ModulePermission) error {
	if role != models.RoleBasic {
		return fmt.Errorf("permissions are only editable for BASIC users")
	}

	for i := range perms {
		if !models.ValidModule(perms[i].Module) {
			return fmt.Errorf("unknown module %q", perms[i].Module)
		}
		if perms[i].Module == models.ModuleUserManagement {
			perms[i].CanView = false
		}
	}

	if err := s.repo.ReplaceForUser(ctx, userID, perms); err != nil {
		logrus.WithError(err).WithField("userID", userID).Error("Failed to save permissions")
		return err
	}
	return nil
}

// ProvisionDefaults stores the role-default grant set for a freshly
// created BASIC user. Non-BASIC roles store nothing.
func (s *PermissionService) ProvisionDefaults(ctx context.Context, userID int64, role string) error {
	defaults := DefaultPermissions(role)
	if defaults == nil {
		return nil
	}
	return s.repo.ReplaceForUser(ctx, userID, defaults)
}
