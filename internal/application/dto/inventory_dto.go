package dto

import (
	"github.com/shopspring/decimal"

	"github.com/magazynpro/magazyn-api/internal/domain/entity"
)

// ── Stock movements ───────────────────────────────────────────────────────────

// MovementDTO is the read model for one ledger entry.
type MovementDTO struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"productId"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	ReferenceID   string          `json:"referenceId,omitempty"`
	ReferenceType string          `json:"referenceType,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     string          `json:"createdAt"`
}

// AdjustmentRequest records a manual stock adjustment (free-form sign).
type AdjustmentRequest struct {
	ProductID string          `json:"productId"`
	Quantity  decimal.Decimal `json:"quantity"`
	Notes     string          `json:"notes"`
}

// UpdateMovementRequest amends an existing ledger entry. The product
// aggregate is adjusted by the quantity delta.
type UpdateMovementRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
	Notes    string          `json:"notes"`
}

// MovementFromEntity maps a ledger entry to its read model.
func MovementFromEntity(m *entity.StockMovement) MovementDTO {
	return MovementDTO{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		ReferenceID:   m.ReferenceID,
		ReferenceType: m.ReferenceType,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// ── Count sheets ──────────────────────────────────────────────────────────────

// CreateInventoryRequest opens a new count sheet over the selected products.
type CreateInventoryRequest struct {
	Name       string   `json:"name"`
	ProductIDs []string `json:"productIds"`
}

// CountItemRequest records a counted quantity for one sheet item.
// Zero is a valid count.
type CountItemRequest struct {
	Counted decimal.Decimal `json:"counted"`
}

// InventoryDTO is the read model for a count sheet.
type InventoryDTO struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Status      string             `json:"status"`
	CreatedAt   string             `json:"createdAt"`
	CompletedAt string             `json:"completedAt,omitempty"`
	Items       []InventoryItemDTO `json:"items,omitempty"`
}

// InventoryItemDTO is the read model for one sheet item. Counted and
// Difference stay null while the item is uncounted.
type InventoryItemDTO struct {
	ID          string           `json:"id"`
	ProductID   string           `json:"productId"`
	ProductName string           `json:"productName"`
	Unit        string           `json:"unit"`
	Expected    decimal.Decimal  `json:"expected"`
	Counted     *decimal.Decimal `json:"counted"`
	Difference  *decimal.Decimal `json:"difference"`
	Status      string           `json:"status"`
}

// InventoryFromEntity maps a count sheet to its read model.
func InventoryFromEntity(inv *entity.Inventory) InventoryDTO {
	out := InventoryDTO{
		ID:        inv.ID,
		Name:      inv.Name,
		Status:    inv.Status,
		CreatedAt: inv.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if inv.CompletedAt != nil {
		out.CompletedAt = inv.CompletedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	for _, it := range inv.Items {
		out.Items = append(out.Items, InventoryItemDTO{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Unit:        it.Unit,
			Expected:    it.Expected,
			Counted:     it.Counted,
			Difference:  it.Difference(),
			Status:      it.StatusLabel(),
		})
	}
	return out
}
