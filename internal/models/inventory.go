package models

import "time"

// InventoryItem is a stocked item tracked by the inventory module.
type InventoryItem struct {
	ID          int64     `db:"id" json:"id"`
	SKU         string    `db:"sku" json:"sku"`
	Name        string    `db:"name" json:"name"`
	Category    string    `db:"category" json:"category"`
	Quantity    int64     `db:"quantity" json:"quantity"`
	Unit        string    `db:"unit" json:"unit"`
	MinQuantity int64     `db:"min_quantity" json:"min_quantity"`
	UnitPrice   float64   `db:"unit_price" json:"unit_price"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// LowStock reports whether the item has fallen below its minimum.
func (i *InventoryItem) LowStock() bool {
	return i.Quantity < i.MinQuantity
}
