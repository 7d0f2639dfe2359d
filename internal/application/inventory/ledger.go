package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/magazynpro/magazyn-api/internal/domain"
	"github.com/magazynpro/magazyn-api/internal/domain/entity"
	"github.com/magazynpro/magazyn-api/internal/domain/repository"
)

// Ledger primitives. Product.current_stock is a pure function of the
// movement history; these helpers keep the aggregate in step with every
// ledger write. They must run on transaction-bound repositories: the row
// insert/update/delete and the stock delta are one atomic unit.

// AppendMovement inserts a ledger entry and applies current_stock += quantity.
// The product row is locked first so concurrent writers serialize.
func AppendMovement(
	movements repository.StockMovementRepository,
	products repository.ProductRepository,
	m *entity.StockMovement,
) error {
	if m.ProductID == "" || !entity.ValidMovementType(m.Type) || m.Quantity.IsZero() {
		return domain.ErrInvalidInput
	}
	p, err := products.GetForUpdate(m.ProductID)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	if err := movements.Create(m); err != nil {
		return err
	}
	return products.AdjustStock(m.ProductID, m.Quantity)
}

// AmendMovement changes an entry's quantity (and notes) and applies
// current_stock += (new − old).
func AmendMovement(
	movements repository.StockMovementRepository,
	products repository.ProductRepository,
	id string,
	quantity decimal.Decimal,
	notes string,
) error {
	m, err := movements.GetByID(id)
	if err != nil {
		return err
	}
	if m == nil {
		return domain.ErrNotFound
	}
	if quantity.IsZero() {
		return domain.ErrInvalidInput
	}
	if p, err := products.GetForUpdate(m.ProductID); err != nil {
		return err
	} else if p == nil {
		return domain.ErrNotFound
	}
	delta := quantity.Sub(m.Quantity)
	m.Quantity = quantity
	m.Notes = notes
	if err := movements.Update(m); err != nil {
		return err
	}
	if delta.IsZero() {
		return nil
	}
	return products.AdjustStock(m.ProductID, delta)
}

// RemoveMovement deletes an entry and applies current_stock −= quantity.
func RemoveMovement(
	movements repository.StockMovementRepository,
	products repository.ProductRepository,
	id string,
) error {
	m, err := movements.GetByID(id)
	if err != nil {
		return err
	}
	if m == nil {
		return domain.ErrNotFound
	}
	if p, err := products.GetForUpdate(m.ProductID); err != nil {
		return err
	} else if p == nil {
		return domain.ErrNotFound
	}
	if err := movements.Delete(id); err != nil {
		return err
	}
	return products.AdjustStock(m.ProductID, m.Quantity.Neg())
}

// RemoveByReference reverses and deletes every movement that references the
// given row. Used by the cascade paths (invoice/sale deletion).
func RemoveByReference(
	movements repository.StockMovementRepository,
	products repository.ProductRepository,
	referenceType, referenceID string,
) error {
	list, err := movements.ListByReference(referenceType, referenceID)
	if err != nil {
		return err
	}
	for _, m := range list {
		if err := RemoveMovement(movements, products, m.ID); err != nil {
			return err
		}
	}
	return nil
}
