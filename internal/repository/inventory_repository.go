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

// InventoryRepository handles database operations for inventory items.
type InventoryRepository struct {
	db *sqlx.DB
}

// NewInventoryRepository creates a new instance of InventoryRepository.
func NewInventoryRepository(db *sqlx.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// CreateItem inserts a new inventory item and assigns its ID.
func (r *InventoryRepository) CreateItem(ctx context.Context, item *models.InventoryItem) error {
	item.CreatedAt = time.Now().UTC()
	item.UpdatedAt = item.CreatedAt

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO inventory_items (sku, name, category, quantity, unit, min_quantity, unit_price, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.SKU, item.Name, item.Category, item.Quantity, item.Unit,
		item.MinQuantity, item.UnitPrice, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert inventory item")
		return fmt.Errorf("failed to create inventory item: %v", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted item id: %v", err)
	}
	item.ID = id
	return nil
}

// GetItemByID retrieves one inventory item.
func (r *InventoryRepository) GetItemByID(ctx context.Context, id int64) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.db.GetContext(ctx, &item, "SELECT * FROM inventory_items WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch inventory item: %v", err)
	}
	return &item, nil
}

// GetAllItems returns every inventory item ordered by name.
func (r *InventoryRepository) GetAllItems(ctx context.Context) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := r.db.SelectContext(ctx, &items, "SELECT * FROM inventory_items ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch inventory items: %v", err)
	}
	return items, nil
}

// GetLowStockItems returns items whose quantity fell below their minimum.
func (r *InventoryRepository) GetLowStockItems(ctx context.Context) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := r.db.SelectContext(ctx, &items,
		"SELECT * FROM inventory_items WHERE quantity < min_quantity ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch low stock items: %v", err)
	}
	return items, nil
}

// itemUpdatableColumns are the columns UpdateItem may set. Field names
// arrive from client JSON, so anything outside this set is rejected
// before the query is built.
var itemUpdatableColumns = map[string]bool{
	"sku":          true,
	"name":         true,
	"category":     true,
	"quantity":     true,
	"unit":         true,
	"min_quantity": true,
	"unit_price":   true,
}

// UpdateItem applies a partial update to an item. Unknown field names
// are a validation error.
func (r *InventoryRepository) UpdateItem(ctx context.Context, id int64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	for col := range fields {
		if !itemUpdatableColumns[col] {
			return fmt.Errorf("unknown item field %q", col)
		}
	}
	fields["updated_at"] = time.Now().UTC()

	query := "UPDATE inventory_items SET "
	args := make([]interface{}, 0, len(fields)+1)
	first := true
	for col, val := range fields {
		if !first {
			query += ", "
		}
		query += col + " = ?"
		args = append(args, val)
		first = false
	}
	query += " WHERE id = ?"
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update inventory item: %v", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// AdjustQuantity changes an item's quantity by delta, flooring at zero.
func (r *InventoryRepository) AdjustQuantity(ctx context.Context, id int64, delta int64) (*models.InventoryItem, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE inventory_items
		SET quantity = MAX(0, quantity + ?), updated_at = ?
		WHERE id = ?`,
		delta, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to adjust quantity: %v", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return r.GetItemByID(ctx, id)
}

// DeleteItem permanently removes an inventory item.
func (r *InventoryRepository) DeleteItem(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM inventory_items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete inventory item: %v", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
