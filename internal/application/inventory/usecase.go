package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/magazynpro/magazyn-api/internal/application/dto"
	"github.com/magazynpro/magazyn-api/internal/domain"
	"github.com/magazynpro/magazyn-api/internal/domain/entity"
	"github.com/magazynpro/magazyn-api/internal/domain/repository"
)

// MovementUseCase exposes the stock ledger: manual adjustments plus the
// correction paths (amend/remove) that keep the aggregate consistent.
type MovementUseCase struct {
	txRunner  TxRunner
	movements repository.StockMovementRepository
	products  repository.ProductRepository
}

// NewMovementUseCase builds the use case. The repositories are pool-bound
// and serve reads; every write goes through the TxRunner.
func NewMovementUseCase(
	txRunner TxRunner,
	movements repository.StockMovementRepository,
	products repository.ProductRepository,
) *MovementUseCase {
	return &MovementUseCase{txRunner: txRunner, movements: movements, products: products}
}

// RegisterAdjustment appends a manual adjustment movement. The sign is
// free-form: positive adds stock, negative removes it.
func (uc *MovementUseCase) RegisterAdjustment(ctx context.Context, in dto.AdjustmentRequest) (*entity.StockMovement, error) {
	if in.ProductID == "" || in.Quantity.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	m := &entity.StockMovement{
		ID:        uuid.New().String(),
		ProductID: in.ProductID,
		Type:      entity.MovementTypeAdjustment,
		Quantity:  in.Quantity,
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: time.Now(),
	}
	err := uc.txRunner.Run(ctx, func(
		movements repository.StockMovementRepository,
		products repository.ProductRepository,
	) error {
		return AppendMovement(movements, products, m)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// UpdateMovement amends quantity/notes of one entry; the stock aggregate
// moves by the quantity delta.
func (uc *MovementUseCase) UpdateMovement(ctx context.Context, id string, in dto.UpdateMovementRequest) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(
		movements repository.StockMovementRepository,
		products repository.ProductRepository,
	) error {
		return AmendMovement(movements, products, id, in.Quantity, strings.TrimSpace(in.Notes))
	})
}

// DeleteMovement removes one entry, reversing its stock effect.
func (uc *MovementUseCase) DeleteMovement(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(
		movements repository.StockMovementRepository,
		products repository.ProductRepository,
	) error {
		return RemoveMovement(movements, products, id)
	})
}

// ListByProduct returns the ledger for one product, newest first.
func (uc *MovementUseCase) ListByProduct(_ context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.movements.ListByProduct(productID, normalizeLimit(limit), offset)
}

// ListRecent returns the most recent ledger entries across all products.
func (uc *MovementUseCase) ListRecent(_ context.Context, limit, offset int) ([]*entity.StockMovement, error) {
	return uc.movements.ListRecent(normalizeLimit(limit), offset)
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 200 {
		return 50
	}
	return limit
}

// FindOrCreateProduct looks a product up by exact name and creates it on
// first sight (unit from the invoice line, zero stock). Must run inside the
// same transaction as the movement that follows it; a naming collision
// across vendors intentionally merges onto one product record.
func FindOrCreateProduct(
	products repository.ProductRepository,
	name, unit string,
) (*entity.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	p, err := products.GetByName(name)
	if err != nil {
		return nil, err
	}
	if p != nil {
		return p, nil
	}
	now := time.Now()
	p = &entity.Product{
		ID:                uuid.New().String(),
		Name:              name,
		Unit:              unit,
		CurrentStock:      decimal.Zero,
		MinStockLevel:     decimal.Zero,
		LastPurchasePrice: decimal.Zero,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := products.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}
