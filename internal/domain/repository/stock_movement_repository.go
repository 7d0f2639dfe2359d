package repository

import "github.com/magazynpro/magazyn-api/internal/domain/entity"

// StockMovementRepository is the persistence port for the stock ledger.
// Implementations only store rows; keeping products.current_stock in step
// with every write is the ledger service's job, inside one transaction.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	Update(movement *entity.StockMovement) error
	Delete(id string) error
	ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error)
	ListByReference(referenceType, referenceID string) ([]*entity.StockMovement, error)
	ListRecent(limit, offset int) ([]*entity.StockMovement, error)
}
