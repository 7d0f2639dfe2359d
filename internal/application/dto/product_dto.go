package dto

import (
	"github.com/shopspring/decimal"

	"github.com/magazynpro/magazyn-api/internal/domain/entity"
)

// ProductDTO is the read model for a product. CurrentStock and
// LastPurchasePrice are ledger-derived and therefore read-only.
type ProductDTO struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Unit              string          `json:"unit"`
	CurrentStock      decimal.Decimal `json:"currentStock"`
	MinStockLevel     decimal.Decimal `json:"minStockLevel"`
	LastPurchasePrice decimal.Decimal `json:"lastPurchasePrice"`
	BelowMinStock     bool            `json:"belowMinStock"`
}

// UpdateProductRequest edits the user-editable product fields. Stock and the
// last purchase price are excluded on purpose.
type UpdateProductRequest struct {
	Name          string          `json:"name"`
	Unit          string          `json:"unit"`
	MinStockLevel decimal.Decimal `json:"minStockLevel"`
}

// ProductFromEntity maps a product to its read model.
func ProductFromEntity(p *entity.Product) ProductDTO {
	return ProductDTO{
		ID:                p.ID,
		Name:              p.Name,
		Unit:              p.Unit,
		CurrentStock:      p.CurrentStock,
		MinStockLevel:     p.MinStockLevel,
		LastPurchasePrice: p.LastPurchasePrice.Round(2),
		BelowMinStock:     p.BelowMinStock(),
	}
}
