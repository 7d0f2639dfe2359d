package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Inventory (count sheet) statuses. The state machine is forward-only:
// draft -> in_progress -> completed, no skips, no reverse transitions.
const (
	InventoryStatusDraft      = "draft"
	InventoryStatusInProgress = "in_progress"
	InventoryStatusCompleted  = "completed"
)

// Item status labels used on reports.
const (
	ItemStatusUncounted = "Nie policzono"
	ItemStatusOK        = "OK"
	ItemStatusSurplus   = "Nadwyżka"
	ItemStatusShortage  = "Niedobór"
)

// Inventory is a stock-count sheet over a selected set of products.
type Inventory struct {
	ID          string
	Name        string
	Status      string
	CreatedAt   time.Time
	CompletedAt *time.Time
	Items       []InventoryItem
}

// InventoryItem holds one product's expected vs counted quantity.
// Counted is nil until the item has been counted; a counted zero is a real
// count, distinct from "never counted".
type InventoryItem struct {
	ID          string
	InventoryID string
	ProductID   string
	ProductName string // joined from products for display/reporting
	Unit        string
	Expected    decimal.Decimal  // snapshot of current_stock at creation time
	Counted     *decimal.Decimal // nil while uncounted
}

// Difference returns counted − expected, or nil while the item is uncounted.
func (it InventoryItem) Difference() *decimal.Decimal {
	if it.Counted == nil {
		return nil
	}
	d := it.Counted.Sub(it.Expected)
	return &d
}

// StatusLabel classifies the item for reports.
func (it InventoryItem) StatusLabel() string {
	diff := it.Difference()
	switch {
	case diff == nil:
		return ItemStatusUncounted
	case diff.IsZero():
		return ItemStatusOK
	case diff.IsPositive():
		return ItemStatusSurplus
	default:
		return ItemStatusShortage
	}
}

// CanTransition reports whether moving from the current status to next is a
// legal forward step.
func (inv *Inventory) CanTransition(next string) bool {
	switch inv.Status {
	case InventoryStatusDraft:
		return next == InventoryStatusInProgress
	case InventoryStatusInProgress:
		return next == InventoryStatusCompleted
	}
	return false
}
