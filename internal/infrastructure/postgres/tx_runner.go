package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/magazynpro/magazyn-api/internal/application/billing"
	"github.com/magazynpro/magazyn-api/internal/application/inventory"
	"github.com/magazynpro/magazyn-api/internal/application/sales"
	"github.com/magazynpro/magazyn-api/internal/application/stocktake"
	"github.com/magazynpro/magazyn-api/internal/domain/repository"
)

// Ensure TxRunner satisfies every application-side transaction port.
var (
	_ inventory.TxRunner = (*TxRunner)(nil)
	_ billing.TxRunner   = (*TxRunner)(nil)
	_ stocktake.TxRunner = (*TxRunner)(nil)
	_ sales.TxRunner     = (*TxRunner)(nil)
)

// TxRunner executes callbacks inside one PostgreSQL transaction, handing
// each callback repositories bound to that transaction. Commit on success,
// rollback on any error.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner builds the runner over the pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run serves the ledger use cases (movement + product aggregate).
func (r *TxRunner) Run(ctx context.Context, fn func(
	movements repository.StockMovementRepository,
	products repository.ProductRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(NewStockMovementRepository(q), NewProductRepository(q))
	})
}

// RunBilling serves invoice confirmation and deletion.
func (r *TxRunner) RunBilling(ctx context.Context, fn func(
	movements repository.StockMovementRepository,
	products repository.ProductRepository,
	invoices repository.InvoiceRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(NewStockMovementRepository(q), NewProductRepository(q), NewInvoiceRepository(q))
	})
}

// RunStocktake serves the count-sheet workflow.
func (r *TxRunner) RunStocktake(ctx context.Context, fn func(
	movements repository.StockMovementRepository,
	products repository.ProductRepository,
	inventories repository.InventoryRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(NewStockMovementRepository(q), NewProductRepository(q), NewInventoryRepository(q))
	})
}

// RunSale serves sale creation and deletion.
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	movements repository.StockMovementRepository,
	products repository.ProductRepository,
	sales repository.SaleRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(NewStockMovementRepository(q), NewProductRepository(q), NewSaleRepository(q))
	})
}

func (r *TxRunner) inTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
