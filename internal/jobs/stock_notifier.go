package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aibek-k/erp-admin/internal/models"
	"github.com/aibek-k/erp-admin/internal/services"
)

// reminderCooldown is how long to wait before repeating the same reminder.
const reminderCooldown = 24 * time.Hour

// StockNotifier runs the periodic scans that turn inventory and
// purchasing state into notifications.
type StockNotifier struct {
	Inventory     *services.InventoryService
	Purchases     *services.PurchaseService
	Users         *services.UserService
	Notifications *services.NotificationService
}

// NewStockNotifier creates a new instance of StockNotifier.
func NewStockNotifier(inventory *services.InventoryService, purchases *services.PurchaseService, users *services.UserService, notifications *services.NotificationService) *StockNotifier {
	return &StockNotifier{
		Inventory:     inventory,
		Purchases:     purchases,
		Users:         users,
		Notifications: notifications,
	}
}

// RunLowStockScan warns managers and admins about items that fell
// below their minimum quantity.
func (n *StockNotifier) RunLowStockScan(ctx context.Context) error {
	items, err := n.Inventory.GetLowStockItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch low stock items: %v", err)
	}
	if len(items) == 0 {
		return nil
	}

	recipients, err := n.Users.GetActiveUsersByRoles(ctx, models.RoleAdmin, models.RoleManager)
	if err != nil {
		return fmt.Errorf("failed to fetch recipients: %v", err)
	}

	now := time.Now()
	for _, item := range items {
		title := fmt.Sprintf("Low stock: %s", item.SKU)
		message := fmt.Sprintf("Item %q is down to %d %s (minimum %d).",
			item.Name, item.Quantity, item.Unit, item.MinQuantity)

		for _, user := range recipients {
			// Skip if this reminder went out recently.
			existing, err := n.Notifications.GetLatestByUserAndTitle(ctx, user.ID, title)
			if err == nil && existing != nil && now.Sub(existing.CreatedAt) < reminderCooldown {
				continue
			}

			if _, err := n.Notifications.SendNotification(ctx, user.ID, title, message, models.NotificationWarning); err != nil {
				logrus.WithError(err).Warnf("Failed to send low stock notification to user %d", user.ID)
			}
		}
	}

	logrus.Infof("Low stock scan completed: %d items below minimum", len(items))
	return nil
}

// RunStalePurchaseScan reminds requesters about orders sitting in
// SUBMITTED for more than two days.
func (n *StockNotifier) RunStalePurchaseScan(ctx context.Context) error {
	orders, err := n.Purchases.GetOrdersByStatus(ctx, models.OrderSubmitted)
	if err != nil {
		return fmt.Errorf("failed to fetch submitted orders: %v", err)
	}

	now := time.Now()
	for _, order := range orders {
		if now.Sub(order.UpdatedAt) < 48*time.Hour {
			continue
		}

		title := fmt.Sprintf("Order %s awaiting approval", order.OrderNumber)
		existing, err := n.Notifications.GetLatestByUserAndTitle(ctx, order.RequestedBy, title)
		if err == nil && existing != nil && now.Sub(existing.CreatedAt) < reminderCooldown {
			continue
		}

		message := fmt.Sprintf("Purchase order %s (supplier %s) has been waiting for approval since %s.",
			order.OrderNumber, order.Supplier, order.UpdatedAt.Format("Jan 2"))
		if _, err := n.Notifications.SendNotification(ctx, order.RequestedBy, title, message, models.NotificationInfo); err != nil {
			logrus.WithError(err).Warnf("Failed to send stale order notification for order %d", order.ID)
		}
	}

	return nil
}
