package dto

import "github.com/shopspring/decimal"

// ParsedInvoiceData is the canonical output of invoice parsing, shared by the
// AI-assisted and the heuristic extractor. The JSON field names are the wire
// schema the completion service is asked to produce.
type ParsedInvoiceData struct {
	InvoiceNumber string              `json:"invoiceNumber"`
	Date          string              `json:"date"` // ISO YYYY-MM-DD
	Vendor        string              `json:"vendor"`
	Items         []ParsedInvoiceItem `json:"items"`
	TotalNet      decimal.Decimal     `json:"totalNet"`
	TotalGross    decimal.Decimal     `json:"totalGross"`
}

// ParsedInvoiceItem is one extracted line item.
type ParsedInvoiceItem struct {
	Name       string          `json:"name"`
	Quantity   decimal.Decimal `json:"quantity"`
	Unit       string          `json:"unit"`
	Percentage int             `json:"percentage"` // VAT rate, integer percent
	NetPrice   decimal.Decimal `json:"netPrice"`
	GrossPrice decimal.Decimal `json:"grossPrice"`
	TotalNet   decimal.Decimal `json:"totalNet"`
	TotalGross decimal.Decimal `json:"totalGross"`
}
