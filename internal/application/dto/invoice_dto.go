package dto

import (
	"github.com/shopspring/decimal"

	"github.com/magazynpro/magazyn-api/internal/domain/entity"
)

// ConfirmInvoiceRequest persists a parsed invoice after user confirmation.
// The embedded parsed data may have been edited by the user; totals are
// recomputed server-side before anything is written.
type ConfirmInvoiceRequest struct {
	Filename string            `json:"filename"`
	Data     ParsedInvoiceData `json:"data"`
}

// InvoiceDTO is the read model for a confirmed invoice. Monetary totals are
// rounded to 2 decimals here, at the presentation boundary only.
type InvoiceDTO struct {
	ID            string           `json:"id"`
	Filename      string           `json:"filename"`
	InvoiceNumber string           `json:"invoiceNumber"`
	Date          string           `json:"date"`
	Vendor        string           `json:"vendor"`
	TotalNet      decimal.Decimal  `json:"totalNet"`
	TotalGross    decimal.Decimal  `json:"totalGross"`
	ProcessedAt   string           `json:"processedAt"`
	Items         []InvoiceItemDTO `json:"items,omitempty"`
}

// InvoiceItemDTO is the read model for one invoice line.
type InvoiceItemDTO struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Quantity   decimal.Decimal `json:"quantity"`
	Unit       string          `json:"unit"`
	Percentage int             `json:"percentage"`
	NetPrice   decimal.Decimal `json:"netPrice"`
	GrossPrice decimal.Decimal `json:"grossPrice"`
	TotalNet   decimal.Decimal `json:"totalNet"`
	TotalGross decimal.Decimal `json:"totalGross"`
}

// InvoiceFromEntity maps the aggregate to its read model.
func InvoiceFromEntity(inv *entity.Invoice) InvoiceDTO {
	out := InvoiceDTO{
		ID:            inv.ID,
		Filename:      inv.Filename,
		InvoiceNumber: inv.InvoiceNumber,
		Date:          inv.Date.Format("2006-01-02"),
		Vendor:        inv.Vendor,
		TotalNet:      inv.TotalNet.Round(2),
		TotalGross:    inv.TotalGross.Round(2),
		ProcessedAt:   inv.ProcessedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	for _, it := range inv.Items {
		out.Items = append(out.Items, InvoiceItemDTO{
			ID:         it.ID,
			Name:       it.Name,
			Quantity:   it.Quantity,
			Unit:       it.Unit,
			Percentage: it.Percentage,
			NetPrice:   it.NetPrice.Round(2),
			GrossPrice: it.GrossPrice.Round(2),
			TotalNet:   it.TotalNet.Round(2),
			TotalGross: it.TotalGross.Round(2),
		})
	}
	return out
}
