package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Units accepted on invoice line items.
const (
	UnitPiece = "szt"
	UnitKilo  = "kg"
	UnitMeter = "m"
	UnitLiter = "l"
	UnitHour  = "godz"
)

// AllowedUnits in the order the line-item parser matches them.
var AllowedUnits = []string{UnitPiece, UnitKilo, UnitMeter, UnitLiter, UnitHour}

// Product is a stock-keeping item. Products are created implicitly the first
// time an invoice line item with an unseen name is confirmed; Name is the
// unique lookup key (exact, case-sensitive).
//
// CurrentStock is a materialized aggregate: it always equals the signed sum
// of all stock movement quantities for the product. It is mutated only by the
// ledger, never directly.
type Product struct {
	ID                string
	Name              string
	Unit              string
	CurrentStock      decimal.Decimal
	MinStockLevel     decimal.Decimal
	LastPurchasePrice decimal.Decimal // net price of the most recent purchase, last-write-wins
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// BelowMinStock reports whether the product fell under its minimum level.
func (p *Product) BelowMinStock() bool {
	return p.MinStockLevel.IsPositive() && p.CurrentStock.LessThan(p.MinStockLevel)
}
