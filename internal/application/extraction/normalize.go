package extraction

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/magazynpro/magazyn-api/internal/application/dto"
	"github.com/magazynpro/magazyn-api/internal/domain/entity"
)

// Normalization & totals engine. Guarantees internal consistency of parsed
// data before persistence: item totals are always recomputed from quantity
// and prices (cached totals are never trusted after an edit), invoice totals
// are the exact sum over the current item set. Recomputation is idempotent.

// RecomputeItem refreshes the derived totals of one item.
func RecomputeItem(it *dto.ParsedInvoiceItem) {
	it.TotalNet = it.Quantity.Mul(it.NetPrice)
	it.TotalGross = it.Quantity.Mul(it.GrossPrice)
}

// RecomputeTotals refreshes every item's totals and re-sums the invoice.
func RecomputeTotals(data *dto.ParsedInvoiceData) {
	net, gross := decimal.Zero, decimal.Zero
	for i := range data.Items {
		RecomputeItem(&data.Items[i])
		net = net.Add(data.Items[i].TotalNet)
		gross = gross.Add(data.Items[i].TotalGross)
	}
	data.TotalNet = net
	data.TotalGross = gross
}

// SanitizeItem repairs missing or out-of-range item fields: quantity
// defaults to 1, VAT to 23%, unit to szt, and a missing gross price is
// derived from the net price and the VAT rate.
func SanitizeItem(it *dto.ParsedInvoiceItem) {
	it.Name = strings.TrimSpace(it.Name)
	if it.Name == "" {
		it.Name = "Unnamed item"
	}
	if !it.Quantity.IsPositive() {
		it.Quantity = decimal.NewFromInt(1)
	}
	if it.Percentage < 0 || it.Percentage > 100 {
		it.Percentage = DefaultVATPercent
	}
	if !validUnit(it.Unit) {
		it.Unit = entity.UnitPiece
	}
	if it.NetPrice.IsNegative() {
		it.NetPrice = decimal.Zero
	}
	if it.GrossPrice.IsZero() && it.NetPrice.IsPositive() {
		it.GrossPrice = grossFromNet(it.NetPrice, it.Percentage)
	}
	if it.GrossPrice.IsNegative() {
		it.GrossPrice = decimal.Zero
	}
	RecomputeItem(it)
}

// Sanitize coerces a whole parsed payload into the canonical shape: field
// defaults, date normalization, per-item repair, recomputed totals, and the
// never-empty item guarantee.
func Sanitize(data *dto.ParsedInvoiceData) {
	if strings.TrimSpace(data.InvoiceNumber) == "" {
		data.InvoiceNumber = UnknownInvoiceNumber
	}
	if strings.TrimSpace(data.Vendor) == "" {
		data.Vendor = UnknownVendor
	}
	data.Date = NormalizeDate(data.Date)
	for i := range data.Items {
		SanitizeItem(&data.Items[i])
	}
	if len(data.Items) == 0 {
		data.Items = append(data.Items, placeholderItem())
	}
	RecomputeTotals(data)
}

// NewBlankItem returns the defaults used when the user adds an empty row:
// quantity 1, unit szt, 23% VAT, zero prices.
func NewBlankItem() dto.ParsedInvoiceItem {
	it := dto.ParsedInvoiceItem{
		Quantity:   decimal.NewFromInt(1),
		Unit:       entity.UnitPiece,
		Percentage: DefaultVATPercent,
		NetPrice:   decimal.Zero,
		GrossPrice: decimal.Zero,
	}
	RecomputeItem(&it)
	return it
}

func validUnit(u string) bool {
	for _, allowed := range entity.AllowedUnits {
		if u == allowed {
			return true
		}
	}
	return false
}
