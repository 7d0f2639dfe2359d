package dto

import (
	"github.com/shopspring/decimal"

	"github.com/magazynpro/magazyn-api/internal/domain/entity"
)

// CreateSaleRequest records a sale. Quantities are the user-facing positive
// amounts; the ledger stores them negated.
type CreateSaleRequest struct {
	SaleNumber string           `json:"saleNumber"`
	Date       string           `json:"date"` // ISO YYYY-MM-DD, empty = today
	Customer   string           `json:"customer"`
	Items      []CreateSaleItem `json:"items"`
}

// CreateSaleItem is one sold position in the request.
type CreateSaleItem struct {
	ProductID string          `json:"productId"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// SaleDTO is the read model for a sale.
type SaleDTO struct {
	ID          string          `json:"id"`
	SaleNumber  string          `json:"saleNumber"`
	Date        string          `json:"date"`
	Customer    string          `json:"customer"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Items       []SaleItemDTO   `json:"items,omitempty"`
}

// SaleItemDTO is the read model for one sold position.
type SaleItemDTO struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"productId"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// SaleFromEntity maps a sale to its read model.
func SaleFromEntity(s *entity.Sale) SaleDTO {
	out := SaleDTO{
		ID:          s.ID,
		SaleNumber:  s.SaleNumber,
		Date:        s.Date.Format("2006-01-02"),
		Customer:    s.Customer,
		TotalAmount: s.TotalAmount.Round(2),
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, SaleItemDTO{
			ID:         it.ID,
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice.Round(2),
			TotalPrice: it.TotalPrice.Round(2),
		})
	}
	return out
}
