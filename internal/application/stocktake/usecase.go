package stocktake

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/magazynpro/magazyn-api/internal/application/inventory"
	"github.com/magazynpro/magazyn-api/internal/domain"
	"github.com/magazynpro/magazyn-api/internal/domain/entity"
	"github.com/magazynpro/magazyn-api/internal/domain/repository"
)

// TxRunner runs count-sheet write sequences atomically; completion writes
// the status change and the compensating movements as one unit.
type TxRunner interface {
	RunStocktake(ctx context.Context, fn func(
		movements repository.StockMovementRepository,
		products repository.ProductRepository,
		inventories repository.InventoryRepository,
	) error) error
}

// ReportGenerator renders a completed or in-flight count sheet to a
// printable document.
type ReportGenerator interface {
	GenerateStocktakeReport(inv *entity.Inventory) ([]byte, error)
}

// UseCase drives the reconciliation workflow over a count sheet:
// draft → in_progress → completed, forward-only. On completion, every
// counted item with a nonzero difference emits one compensating inventory
// movement back into the ledger.
type UseCase struct {
	txRunner    TxRunner
	inventories repository.InventoryRepository
	products    repository.ProductRepository
	reports     ReportGenerator
}

// NewUseCase builds the workflow use case.
func NewUseCase(
	txRunner TxRunner,
	inventories repository.InventoryRepository,
	products repository.ProductRepository,
	reports ReportGenerator,
) *UseCase {
	return &UseCase{txRunner: txRunner, inventories: inventories, products: products, reports: reports}
}

// Create opens a draft count sheet over the selected products, snapshotting
// each product's current stock as the expected quantity. The selection must
// be non-empty; duplicate product ids collapse to one item.
func (uc *UseCase) Create(ctx context.Context, name string, productIDs []string) (*entity.Inventory, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(productIDs) == 0 {
		return nil, domain.ErrInvalidInput
	}

	inv := &entity.Inventory{
		ID:        uuid.New().String(),
		Name:      name,
		Status:    entity.InventoryStatusDraft,
		CreatedAt: time.Now(),
	}

	err := uc.txRunner.RunStocktake(ctx, func(
		_ repository.StockMovementRepository,
		products repository.ProductRepository,
		inventories repository.InventoryRepository,
	) error {
		seen := make(map[string]bool, len(productIDs))
		for _, productID := range productIDs {
			if seen[productID] {
				continue
			}
			seen[productID] = true
			p, err := products.GetByID(productID)
			if err != nil {
				return err
			}
			if p == nil {
				return domain.ErrNotFound
			}
			inv.Items = append(inv.Items, entity.InventoryItem{
				ID:          uuid.New().String(),
				InventoryID: inv.ID,
				ProductID:   p.ID,
				ProductName: p.Name,
				Unit:        p.Unit,
				Expected:    p.CurrentStock,
			})
		}
		return inventories.Create(inv)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// Start moves a draft sheet to in_progress. No other side effects.
func (uc *UseCase) Start(ctx context.Context, id string) error {
	return uc.transition(ctx, id, entity.InventoryStatusInProgress, nil)
}

// Count records a counted quantity for one item. Allowed only while the
// sheet is in_progress; zero is a valid count, distinct from uncounted.
// Concurrent counts on the same item are last-write-wins.
func (uc *UseCase) Count(ctx context.Context, inventoryID, itemID string, counted decimal.Decimal) error {
	if inventoryID == "" || itemID == "" || counted.IsNegative() {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunStocktake(ctx, func(
		_ repository.StockMovementRepository,
		_ repository.ProductRepository,
		inventories repository.InventoryRepository,
	) error {
		inv, err := inventories.GetByID(inventoryID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if inv.Status != entity.InventoryStatusInProgress {
			return domain.ErrInvalidTransition
		}
		item, err := inventories.GetItem(itemID)
		if err != nil {
			return err
		}
		if item == nil || item.InventoryID != inventoryID {
			return domain.ErrNotFound
		}
		return inventories.UpdateItemCount(itemID, counted)
	})
}

// Complete closes an in_progress sheet: sets completed_at and, for every
// counted item with difference ≠ 0, appends one inventory-typed movement
// with quantity = difference. Items never counted are skipped: no movement,
// no forced zero. After completion the sheet is read-only.
func (uc *UseCase) Complete(ctx context.Context, id string) (*entity.Inventory, error) {
	var completed *entity.Inventory
	err := uc.txRunner.RunStocktake(ctx, func(
		movements repository.StockMovementRepository,
		products repository.ProductRepository,
		inventories repository.InventoryRepository,
	) error {
		inv, err := inventories.GetByID(id)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if !inv.CanTransition(entity.InventoryStatusCompleted) {
			return domain.ErrInvalidTransition
		}

		now := time.Now()
		for _, item := range inv.Items {
			diff := item.Difference()
			if diff == nil || diff.IsZero() {
				continue
			}
			label := "niedobór"
			if diff.IsPositive() {
				label = "nadwyżka"
			}
			m := &entity.StockMovement{
				ProductID:     item.ProductID,
				Type:          entity.MovementTypeInventory,
				Quantity:      *diff,
				ReferenceID:   inv.ID,
				ReferenceType: entity.ReferenceTypeInventory,
				Notes:         fmt.Sprintf("Inwentaryzacja %s: %s %s %s", inv.Name, label, diff.Abs().String(), item.Unit),
				CreatedAt:     now,
			}
			if err := inventory.AppendMovement(movements, products, m); err != nil {
				return err
			}
		}
		if err := inventories.UpdateStatus(inv.ID, entity.InventoryStatusCompleted, &now); err != nil {
			return err
		}
		inv.Status = entity.InventoryStatusCompleted
		inv.CompletedAt = &now
		completed = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return completed, nil
}

// Delete removes a count sheet. For a completed sheet the compensating
// movements it emitted are reversed first, so the ledger invariant
// (stock = Σ movements) holds after the sheet is gone.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunStocktake(ctx, func(
		movements repository.StockMovementRepository,
		products repository.ProductRepository,
		inventories repository.InventoryRepository,
	) error {
		inv, err := inventories.GetByID(id)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if inv.Status == entity.InventoryStatusCompleted {
			if err := inventory.RemoveByReference(movements, products, entity.ReferenceTypeInventory, inv.ID); err != nil {
				return err
			}
		}
		return inventories.Delete(id)
	})
}

// Get returns one count sheet with items.
func (uc *UseCase) Get(_ context.Context, id string) (*entity.Inventory, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	inv, err := uc.inventories.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

// List returns count sheets with pagination, newest first.
func (uc *UseCase) List(_ context.Context, limit, offset int) ([]*entity.Inventory, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return uc.inventories.List(limit, offset)
}

// Export renders the sheet to a printable PDF. Read-only; not a state
// transition, any status may be exported.
func (uc *UseCase) Export(ctx context.Context, id string) ([]byte, error) {
	inv, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.reports.GenerateStocktakeReport(inv)
}

// transition applies one forward step of the state machine.
func (uc *UseCase) transition(ctx context.Context, id, next string, completedAt *time.Time) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunStocktake(ctx, func(
		_ repository.StockMovementRepository,
		_ repository.ProductRepository,
		inventories repository.InventoryRepository,
	) error {
		inv, err := inventories.GetByID(id)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if !inv.CanTransition(next) {
			return domain.ErrInvalidTransition
		}
		return inventories.UpdateStatus(id, next, completedAt)
	})
}
