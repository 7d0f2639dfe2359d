package extraction

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magazynpro/magazyn-api/internal/application/dto"
	"github.com/magazynpro/magazyn-api/internal/domain/entity"
)

func TestRecomputeTotalsSumsItems(t *testing.T) {
	data := &dto.ParsedInvoiceData{
		Items: []dto.ParsedInvoiceItem{
			{Quantity: decimal.NewFromInt(3), NetPrice: decimal.NewFromInt(10), GrossPrice: decimal.RequireFromString("12.3")},
			{Quantity: decimal.NewFromInt(2), NetPrice: decimal.RequireFromString("45.5"), GrossPrice: decimal.RequireFromString("55.965")},
		},
		// Stale cached totals must be overwritten.
		TotalNet:   decimal.NewFromInt(999),
		TotalGross: decimal.NewFromInt(999),
	}
	RecomputeTotals(data)

	assert.True(t, data.Items[0].TotalNet.Equal(decimal.NewFromInt(30)))
	assert.True(t, data.TotalNet.Equal(decimal.NewFromInt(121)))
	assert.True(t, data.TotalGross.Equal(decimal.RequireFromString("148.83")))
}

func TestRecomputeTotalsIdempotent(t *testing.T) {
	data := &dto.ParsedInvoiceData{
		Items: []dto.ParsedInvoiceItem{
			{Quantity: decimal.RequireFromString("2.5"), NetPrice: decimal.RequireFromString("19.99"), GrossPrice: decimal.RequireFromString("24.59")},
		},
	}
	RecomputeTotals(data)
	net, gross := data.TotalNet, data.TotalGross
	RecomputeTotals(data)
	assert.True(t, data.TotalNet.Equal(net))
	assert.True(t, data.TotalGross.Equal(gross))
}

func TestSanitizeItemRepairsFields(t *testing.T) {
	it := dto.ParsedInvoiceItem{
		Name:       "  Deska  ",
		Quantity:   decimal.NewFromInt(-2),
		Unit:       "paleta",
		Percentage: 120,
		NetPrice:   decimal.NewFromInt(100),
	}
	SanitizeItem(&it)

	assert.Equal(t, "Deska", it.Name)
	assert.True(t, it.Quantity.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, entity.UnitPiece, it.Unit)
	assert.Equal(t, DefaultVATPercent, it.Percentage)
	// Missing gross is derived from net and the repaired rate.
	assert.True(t, it.GrossPrice.Equal(decimal.NewFromInt(123)))
	assert.True(t, it.TotalNet.Equal(decimal.NewFromInt(100)))
}

func TestSanitizeWholePayload(t *testing.T) {
	stubNow(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	data := dto.ParsedInvoiceData{
		InvoiceNumber: "  ",
		Vendor:        "",
		Date:          "15.01.2024",
	}
	Sanitize(&data)

	assert.Equal(t, UnknownInvoiceNumber, data.InvoiceNumber)
	assert.Equal(t, UnknownVendor, data.Vendor)
	assert.Equal(t, "2024-01-15", data.Date)
	require.Len(t, data.Items, 1)
	assert.Equal(t, "Extracted item from PDF", data.Items[0].Name)
	assert.True(t, data.TotalGross.Equal(decimal.NewFromInt(123)))
}

func TestNewBlankItem(t *testing.T) {
	it := NewBlankItem()
	assert.True(t, it.Quantity.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, entity.UnitPiece, it.Unit)
	assert.Equal(t, DefaultVATPercent, it.Percentage)
	assert.True(t, it.NetPrice.IsZero())
	assert.True(t, it.TotalGross.IsZero())
}
