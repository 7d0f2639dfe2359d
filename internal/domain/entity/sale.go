package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is an outgoing transaction. Creating a sale atomically inserts the
// sale, its items, and one negative-quantity sale movement per item.
type Sale struct {
	ID          string
	SaleNumber  string // unique
	Date        time.Time
	Customer    string
	TotalAmount decimal.Decimal
	CreatedAt   time.Time
	Items       []SaleItem
}

// SaleItem is one sold position. TotalPrice = Quantity × UnitPrice.
type SaleItem struct {
	ID         string
	SaleID     string
	ProductID  string
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
}

// SumTotal returns the exact sum of item totals.
func (s *Sale) SumTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.Items {
		total = total.Add(it.TotalPrice)
	}
	return total
}
