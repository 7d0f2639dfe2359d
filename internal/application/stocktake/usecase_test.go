package stocktake_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magazynpro/magazyn-api/internal/application/apptest"
	"github.com/magazynpro/magazyn-api/internal/application/stocktake"
	"github.com/magazynpro/magazyn-api/internal/domain"
	"github.com/magazynpro/magazyn-api/internal/domain/entity"
)

// fakeReports returns a fixed byte blob instead of rendering a PDF.
type fakeReports struct{}

func (fakeReports) GenerateStocktakeReport(*entity.Inventory) ([]byte, error) {
	return []byte("%PDF"), nil
}

func newFixture(t *testing.T) (*apptest.Store, *stocktake.UseCase) {
	t.Helper()
	store := apptest.NewStore()
	uc := stocktake.NewUseCase(store, store.Inventories, store.Products, fakeReports{})
	return store, uc
}

func seedProduct(t *testing.T, store *apptest.Store, id, name string, stock int64) {
	t.Helper()
	require.NoError(t, store.Products.Create(&entity.Product{
		ID:           id,
		Name:         name,
		Unit:         entity.UnitPiece,
		CurrentStock: decimal.NewFromInt(stock),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}))
}

func TestCreateSnapshotsExpectedStock(t *testing.T) {
	store, uc := newFixture(t)
	seedProduct(t, store, "p1", "Deska", 10)
	seedProduct(t, store, "p2", "Lakier", 3)

	// Duplicate ids collapse to one item.
	inv, err := uc.Create(context.Background(), "Spis roczny", []string{"p1", "p2", "p1"})
	require.NoError(t, err)
	assert.Equal(t, entity.InventoryStatusDraft, inv.Status)
	require.Len(t, inv.Items, 2)
	assert.True(t, inv.Items[0].Expected.Equal(decimal.NewFromInt(10)))
	assert.Nil(t, inv.Items[0].Counted)
	assert.Equal(t, "Deska", inv.Items[0].ProductName)
}

func TestCreateValidation(t *testing.T) {
	store, uc := newFixture(t)
	seedProduct(t, store, "p1", "Deska", 10)

	_, err := uc.Create(context.Background(), "  ", []string{"p1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(context.Background(), "Pusty spis", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(context.Background(), "Spis", []string{"missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStateMachineForwardOnly(t *testing.T) {
	store, uc := newFixture(t)
	seedProduct(t, store, "p1", "Deska", 10)
	ctx := context.Background()

	inv, err := uc.Create(ctx, "Spis", []string{"p1"})
	require.NoError(t, err)

	// Counting and completing a draft are rejected.
	err = uc.Count(ctx, inv.ID, inv.Items[0].ID, decimal.NewFromInt(7))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = uc.Complete(ctx, inv.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	require.NoError(t, uc.Start(ctx, inv.ID))
	// Starting twice is rejected.
	assert.ErrorIs(t, uc.Start(ctx, inv.ID), domain.ErrInvalidTransition)

	_, err = uc.Complete(ctx, inv.ID)
	require.NoError(t, err)

	// A completed sheet is read-only.
	err = uc.Count(ctx, inv.ID, inv.Items[0].ID, decimal.NewFromInt(7))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = uc.Complete(ctx, inv.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCompleteEmitsCorrectingMovements(t *testing.T) {
	store, uc := newFixture(t)
	seedProduct(t, store, "p1", "Deska", 10)
	seedProduct(t, store, "p2", "Lakier", 5)
	seedProduct(t, store, "p3", "Klej", 8)
	ctx := context.Background()

	inv, err := uc.Create(ctx, "Spis kwartalny", []string{"p1", "p2", "p3"})
	require.NoError(t, err)
	require.NoError(t, uc.Start(ctx, inv.ID))

	itemByProduct := make(map[string]string)
	for _, it := range inv.Items {
		itemByProduct[it.ProductID] = it.ID
	}

	// p1: shortage 10 → 7. p2: exact match. p3: never counted.
	require.NoError(t, uc.Count(ctx, inv.ID, itemByProduct["p1"], decimal.NewFromInt(7)))
	require.NoError(t, uc.Count(ctx, inv.ID, itemByProduct["p2"], decimal.NewFromInt(5)))

	completed, err := uc.Complete(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InventoryStatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)

	// Exactly one movement, for the shortage, quantity −3.
	ms, err := store.Movements.ListByReference(entity.ReferenceTypeInventory, inv.ID)
	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.Equal(t, "p1", ms[0].ProductID)
	assert.Equal(t, entity.MovementTypeInventory, ms[0].Type)
	assert.True(t, ms[0].Quantity.Equal(decimal.NewFromInt(-3)))

	// Stock converges on the counted values; uncounted stays untouched.
	p1, _ := store.Products.GetByID("p1")
	p2, _ := store.Products.GetByID("p2")
	p3, _ := store.Products.GetByID("p3")
	assert.True(t, p1.CurrentStock.Equal(decimal.NewFromInt(7)))
	assert.True(t, p2.CurrentStock.Equal(decimal.NewFromInt(5)))
	assert.True(t, p3.CurrentStock.Equal(decimal.NewFromInt(8)))
}

func TestCountedZeroIsARealCount(t *testing.T) {
	store, uc := newFixture(t)
	seedProduct(t, store, "p1", "Deska", 4)
	ctx := context.Background()

	inv, err := uc.Create(ctx, "Spis", []string{"p1"})
	require.NoError(t, err)
	require.NoError(t, uc.Start(ctx, inv.ID))
	require.NoError(t, uc.Count(ctx, inv.ID, inv.Items[0].ID, decimal.Zero))

	_, err = uc.Complete(ctx, inv.ID)
	require.NoError(t, err)

	// A zero count writes the full negative difference.
	ms, err := store.Movements.ListByReference(entity.ReferenceTypeInventory, inv.ID)
	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.True(t, ms[0].Quantity.Equal(decimal.NewFromInt(-4)))

	p1, _ := store.Products.GetByID("p1")
	assert.True(t, p1.CurrentStock.IsZero())
}

func TestCountValidation(t *testing.T) {
	store, uc := newFixture(t)
	seedProduct(t, store, "p1", "Deska", 4)
	seedProduct(t, store, "p2", "Lakier", 2)
	ctx := context.Background()

	inv, err := uc.Create(ctx, "Spis A", []string{"p1"})
	require.NoError(t, err)
	other, err := uc.Create(ctx, "Spis B", []string{"p2"})
	require.NoError(t, err)
	require.NoError(t, uc.Start(ctx, inv.ID))

	err = uc.Count(ctx, inv.ID, inv.Items[0].ID, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// An item from another sheet is not reachable through this one.
	err = uc.Count(ctx, inv.ID, other.Items[0].ID, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = uc.Count(ctx, "missing", inv.Items[0].ID, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemStatusLabels(t *testing.T) {
	store, uc := newFixture(t)
	seedProduct(t, store, "p1", "Deska", 10)
	seedProduct(t, store, "p2", "Lakier", 5)
	seedProduct(t, store, "p3", "Klej", 8)
	seedProduct(t, store, "p4", "Wkręty", 2)
	ctx := context.Background()

	inv, err := uc.Create(ctx, "Spis", []string{"p1", "p2", "p3", "p4"})
	require.NoError(t, err)
	require.NoError(t, uc.Start(ctx, inv.ID))

	itemByProduct := make(map[string]string)
	for _, it := range inv.Items {
		itemByProduct[it.ProductID] = it.ID
	}
	require.NoError(t, uc.Count(ctx, inv.ID, itemByProduct["p1"], decimal.NewFromInt(7)))  // shortage
	require.NoError(t, uc.Count(ctx, inv.ID, itemByProduct["p2"], decimal.NewFromInt(9)))  // surplus
	require.NoError(t, uc.Count(ctx, inv.ID, itemByProduct["p3"], decimal.NewFromInt(8)))  // exact

	got, err := uc.Get(ctx, inv.ID)
	require.NoError(t, err)
	labels := make(map[string]string)
	for _, it := range got.Items {
		labels[it.ProductID] = it.StatusLabel()
	}
	assert.Equal(t, entity.ItemStatusShortage, labels["p1"])
	assert.Equal(t, entity.ItemStatusSurplus, labels["p2"])
	assert.Equal(t, entity.ItemStatusOK, labels["p3"])
	assert.Equal(t, entity.ItemStatusUncounted, labels["p4"])
}

func TestDeleteDraftSheet(t *testing.T) {
	store, uc := newFixture(t)
	seedProduct(t, store, "p1", "Deska", 10)
	ctx := context.Background()

	inv, err := uc.Create(ctx, "Spis", []string{"p1"})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, inv.ID))

	got, err := store.Inventories.GetByID(inv.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, uc.Delete(ctx, inv.ID), domain.ErrNotFound)
}

func TestDeleteCompletedSheetReversesCorrections(t *testing.T) {
	store, uc := newFixture(t)
	seedProduct(t, store, "p1", "Deska", 10)
	ctx := context.Background()

	inv, err := uc.Create(ctx, "Spis", []string{"p1"})
	require.NoError(t, err)
	require.NoError(t, uc.Start(ctx, inv.ID))
	require.NoError(t, uc.Count(ctx, inv.ID, inv.Items[0].ID, decimal.NewFromInt(7)))
	_, err = uc.Complete(ctx, inv.ID)
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, inv.ID))

	// The correcting movement is gone and stock is back at the
	// pre-reconciliation value.
	ms, err := store.Movements.ListByReference(entity.ReferenceTypeInventory, inv.ID)
	require.NoError(t, err)
	assert.Empty(t, ms)
	p1, _ := store.Products.GetByID("p1")
	assert.True(t, p1.CurrentStock.Equal(decimal.NewFromInt(10)))
}

func TestExport(t *testing.T) {
	store, uc := newFixture(t)
	seedProduct(t, store, "p1", "Deska", 10)
	ctx := context.Background()

	inv, err := uc.Create(ctx, "Spis", []string{"p1"})
	require.NoError(t, err)

	out, err := uc.Export(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), out)

	_, err = uc.Export(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
