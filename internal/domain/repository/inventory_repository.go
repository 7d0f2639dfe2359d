package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/magazynpro/magazyn-api/internal/domain/entity"
)

// InventoryRepository is the persistence port for count sheets.
// At most one item exists per (inventory, product).
type InventoryRepository interface {
	Create(inventory *entity.Inventory) error
	GetByID(id string) (*entity.Inventory, error)
	GetItem(itemID string) (*entity.InventoryItem, error)
	List(limit, offset int) ([]*entity.Inventory, error)
	UpdateStatus(id, status string, completedAt *time.Time) error
	// UpdateItemCount sets counted_quantity. A zero count is a real value,
	// distinct from never-counted (NULL).
	UpdateItemCount(itemID string, counted decimal.Decimal) error
	Delete(id string) error
}
