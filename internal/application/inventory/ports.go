package inventory

import (
	"context"

	"github.com/magazynpro/magazyn-api/internal/domain/repository"
)

// TxRunner runs a function inside a DB transaction, handing it repositories
// bound to that transaction. Every ledger write and its stock delta commit
// or roll back together.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movements repository.StockMovementRepository,
		products repository.ProductRepository,
	) error) error
}
