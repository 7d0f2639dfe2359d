package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a confirmed vendor invoice together with its ordered line items.
// Totals must equal the sum of the item totals (2-decimal rounding applies
// only at the presentation boundary).
type Invoice struct {
	ID            string
	Filename      string
	InvoiceNumber string // unique
	Date          time.Time
	Vendor        string
	TotalNet      decimal.Decimal
	TotalGross    decimal.Decimal
	ProcessedAt   time.Time
	Items         []InvoiceItem
}

// InvoiceItem is one line of a vendor invoice.
// TotalNet = Quantity × NetPrice, TotalGross = Quantity × GrossPrice.
type InvoiceItem struct {
	ID         string
	InvoiceID  string
	Name       string
	Quantity   decimal.Decimal
	Unit       string
	Percentage int // VAT rate, integer percent
	NetPrice   decimal.Decimal
	GrossPrice decimal.Decimal
	TotalNet   decimal.Decimal
	TotalGross decimal.Decimal
}

// SumTotals returns the exact sums over the current item set.
func (inv *Invoice) SumTotals() (net, gross decimal.Decimal) {
	net, gross = decimal.Zero, decimal.Zero
	for _, it := range inv.Items {
		net = net.Add(it.TotalNet)
		gross = gross.Add(it.TotalGross)
	}
	return net, gross
}
