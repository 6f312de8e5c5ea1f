package models

// Operational modules a BASIC user can be granted view access to.
const (
	ModuleInventory      = "INVENTORY"
	ModuleWorkOrders     = "WORK_ORDERS"
	ModulePurchase       = "PURCHASE"
	ModuleSales          = "SALES"
	ModuleUserManagement = "USER_MANAGEMENT"
	ModuleReports        = "REPORTS"
)

// AllModules lists every known module in display order.
var AllModules = []string{
	ModuleInventory,
	ModuleWorkOrders,
	ModulePurchase,
	ModuleSales,
	ModuleUserManagement,
	ModuleReports,
}

// ModuleNames maps module identifiers to their display names.
var ModuleNames = map[string]string{
	ModuleInventory:      "Inventory",
	ModuleWorkOrders:     "Work Orders",
	ModulePurchase:       "Purchasing",
	ModuleSales:          "Sales",
	ModuleUserManagement: "User Management",
	ModuleReports:        "Reports",
}

// ModulePermission is one stored per-module grant for a BASIC user.
// ADMIN and MANAGER users are never represented as permission rows.
type ModulePermission struct {
	ID         int64  `db:"id" json:"id"`
	UserID     int64  `db:"user_id" json:"user_id"`
	Module     string `db:"module" json:"module"`
	ModuleName string `db:"-" json:"module_name"`
	CanView    bool   `db:"can_view" json:"can_view"`
}

// PermissionSet is the effective view-access resolution for a user.
// FullAccess is the sentinel for ADMIN/MANAGER; Permissions is only
// populated for BASIC users.
type PermissionSet struct {
	FullAccess  bool               `json:"full_access"`
	Permissions []ModulePermission `json:"permissions,omitempty"`
}

// ValidModule reports whether module is a known module identifier.
func ValidModule(module string) bool {
	_, ok := ModuleNames[module]
	return ok
}
