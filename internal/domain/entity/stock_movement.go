package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Movement types. Quantity sign conventions:
// purchase is positive (stock in), sale is stored negative (the single sign
// inversion happens at ledger-write time), inventory corrections carry the
// signed count difference, adjustment is free-form manual sign.
const (
	MovementTypePurchase   = "purchase"
	MovementTypeSale       = "sale"
	MovementTypeAdjustment = "adjustment"
	MovementTypeInventory  = "inventory"
)

// Reference types linking a movement back to its originating row.
const (
	ReferenceTypeInvoiceItem = "invoice_item"
	ReferenceTypeSaleItem    = "sale_item"
	ReferenceTypeInventory   = "inventory"
)

// StockMovement is one entry in the append-style stock ledger, the sole
// source of truth for stock levels. Entries are immutable in normal
// operation; updates and deletes exist for manual corrections and cascades,
// and must symmetrically adjust the product aggregate.
type StockMovement struct {
	ID            string
	ProductID     string
	Type          string
	Quantity      decimal.Decimal // signed: positive = stock in, negative = stock out
	ReferenceID   string
	ReferenceType string
	Notes         string
	CreatedAt     time.Time
}

// ValidMovementType reports whether t is one of the known movement types.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypePurchase, MovementTypeSale, MovementTypeAdjustment, MovementTypeInventory:
		return true
	}
	return false
}
