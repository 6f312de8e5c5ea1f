package models

import (
	"database/sql"
	"time"
)

// Purchase order statuses. Orders move DRAFT -> SUBMITTED -> APPROVED
// -> RECEIVED; CANCELLED is reachable from any non-terminal state.
const (
	OrderDraft     = "DRAFT"
	OrderSubmitted = "SUBMITTED"
	OrderApproved  = "APPROVED"
	OrderReceived  = "RECEIVED"
	OrderCancelled = "CANCELLED"
)

// PurchaseOrder is a request to buy stock from a supplier.
type PurchaseOrder struct {
	ID          int64         `db:"id" json:"id"`
	OrderNumber string        `db:"order_number" json:"order_number"`
	Supplier    string        `db:"supplier" json:"supplier"`
	ItemID      sql.NullInt64 `db:"item_id" json:"item_id,omitempty"`
	Quantity    int64         `db:"quantity" json:"quantity"`
	UnitCost    float64       `db:"unit_cost" json:"unit_cost"`
	Status      string        `db:"status" json:"status"`
	RequestedBy int64         `db:"requested_by" json:"requested_by"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

// orderTransitions holds the allowed status moves.
var orderTransitions = map[string][]string{
	OrderDraft:     {OrderSubmitted, OrderCancelled},
	OrderSubmitted: {OrderApproved, OrderCancelled},
	OrderApproved:  {OrderReceived, OrderCancelled},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
