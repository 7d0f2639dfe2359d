package repository

import (
	"github.com/shopspring/decimal"

	"github.com/magazynpro/magazyn-api/internal/domain/entity"
)

// ProductRepository is the persistence port for Product.
// CurrentStock and LastPurchasePrice are ledger-maintained: only the
// AdjustStock / UpdateLastPurchasePrice methods may touch them, and only
// from within a ledger transaction.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	// GetByName looks a product up by its exact, case-sensitive name.
	GetByName(name string) (*entity.Product, error)
	// GetForUpdate loads the product row with a row lock (SELECT FOR UPDATE)
	// so concurrent ledger writes serialize per product.
	GetForUpdate(id string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
	Update(product *entity.Product) error
	// AdjustStock applies current_stock += delta.
	AdjustStock(productID string, delta decimal.Decimal) error
	UpdateLastPurchasePrice(productID string, price decimal.Decimal) error
}
