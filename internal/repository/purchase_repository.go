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

// PurchaseRepository handles database operations for purchase orders.
type PurchaseRepository struct {
	db *sqlx.DB
}

// NewPurchaseRepository creates a new instance of PurchaseRepository.
func NewPurchaseRepository(db *sqlx.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

// CreateOrder inserts a new purchase order and assigns its ID.
func (r *PurchaseRepository) CreateOrder(ctx context.Context, order *models.PurchaseOrder) error {
	order.CreatedAt = time.Now().UTC()
	order.UpdatedAt = order.CreatedAt

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO purchase_orders (order_number, supplier, item_id, quantity, unit_cost, status, requested_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.OrderNumber, order.Supplier, order.ItemID, order.Quantity,
		order.UnitCost, order.Status, order.RequestedBy, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert purchase order")
		return fmt.Errorf("failed to create purchase order: %v", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted order id: %v", err)
	}
	order.ID = id
	return nil
}

// GetOrderByID retrieves one purchase order.
func (r *PurchaseRepository) GetOrderByID(ctx context.Context, id int64) (*models.PurchaseOrder, error) {
	var order models.PurchaseOrder
	err := r.db.GetContext(ctx, &order, "SELECT * FROM purchase_orders WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch purchase order: %v", err)
	}
	return &order, nil
}

// GetAllOrders returns all purchase orders, newest first.
func (r *PurchaseRepository) GetAllOrders(ctx context.Context) ([]models.PurchaseOrder, error) {
	var orders []models.PurchaseOrder
	err := r.db.SelectContext(ctx, &orders,
		"SELECT * FROM purchase_orders ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch purchase orders: %v", err)
	}
	return orders, nil
}

// GetOrdersByStatus returns orders in the given status, oldest first.
func (r *PurchaseRepository) GetOrdersByStatus(ctx context.Context, status string) ([]models.PurchaseOrder, error) {
	var orders []models.PurchaseOrder
	err := r.db.SelectContext(ctx, &orders,
		"SELECT * FROM purchase_orders WHERE status = ? ORDER BY created_at, id", status)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch purchase orders by status: %v", err)
	}
	return orders, nil
}

// UpdateStatus moves an order to a new status.
func (r *PurchaseRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE purchase_orders SET status = ?, updated_at = ? WHERE id = ?",
		status, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update order status: %v", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteOrder permanently removes a purchase order.
func (r *PurchaseRepository) DeleteOrder(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM purchase_orders WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete purchase order: %v", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
