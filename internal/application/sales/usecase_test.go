package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magazynpro/magazyn-api/internal/application/apptest"
	"github.com/magazynpro/magazyn-api/internal/application/dto"
	"github.com/magazynpro/magazyn-api/internal/application/sales"
	"github.com/magazynpro/magazyn-api/internal/domain"
	"github.com/magazynpro/magazyn-api/internal/domain/entity"
)

func newFixture(t *testing.T, stock int64) (*apptest.Store, *sales.UseCase) {
	t.Helper()
	store := apptest.NewStore()
	require.NoError(t, store.Products.Create(&entity.Product{
		ID:           "p1",
		Name:         "Deska sosnowa",
		Unit:         entity.UnitPiece,
		CurrentStock: decimal.NewFromInt(stock),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}))
	return store, sales.NewUseCase(store, store.Sales)
}

func saleRequest() dto.CreateSaleRequest {
	return dto.CreateSaleRequest{
		SaleNumber: "S/2024/001",
		Date:       "2024-03-01",
		Customer:   "Stolarnia Kowalski",
		Items: []dto.CreateSaleItem{
			{ProductID: "p1", Quantity: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(30)},
		},
	}
}

func TestCreateSaleWritesNegativeMovement(t *testing.T) {
	store, uc := newFixture(t, 20)

	sale, err := uc.Create(context.Background(), saleRequest())
	require.NoError(t, err)
	require.Len(t, sale.Items, 1)
	assert.True(t, sale.TotalAmount.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, "2024-03-01", sale.Date.Format("2006-01-02"))

	// The user-facing quantity is positive; the ledger entry is negated.
	ms, err := store.Movements.ListByReference(entity.ReferenceTypeSaleItem, sale.Items[0].ID)
	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.Equal(t, entity.MovementTypeSale, ms[0].Type)
	assert.True(t, ms[0].Quantity.Equal(decimal.NewFromInt(-5)))

	p, err := store.Products.GetByID("p1")
	require.NoError(t, err)
	assert.True(t, p.CurrentStock.Equal(decimal.NewFromInt(15)))
}

func TestCreateSaleDefaultsDateToToday(t *testing.T) {
	_, uc := newFixture(t, 20)

	in := saleRequest()
	in.Date = ""
	sale, err := uc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, time.Now().Format("2006-01-02"), sale.Date.Format("2006-01-02"))
}

func TestCreateSaleValidation(t *testing.T) {
	_, uc := newFixture(t, 20)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*dto.CreateSaleRequest)
		want   error
	}{
		{"blank number", func(in *dto.CreateSaleRequest) { in.SaleNumber = "  " }, domain.ErrInvalidInput},
		{"no items", func(in *dto.CreateSaleRequest) { in.Items = nil }, domain.ErrInvalidInput},
		{"zero quantity", func(in *dto.CreateSaleRequest) { in.Items[0].Quantity = decimal.Zero }, domain.ErrInvalidInput},
		{"negative price", func(in *dto.CreateSaleRequest) { in.Items[0].UnitPrice = decimal.NewFromInt(-1) }, domain.ErrInvalidInput},
		{"bad date", func(in *dto.CreateSaleRequest) { in.Date = "01.03.2024" }, domain.ErrInvalidInput},
		{"missing product", func(in *dto.CreateSaleRequest) { in.Items[0].ProductID = "nope" }, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := saleRequest()
			tc.mutate(&in)
			_, err := uc.Create(ctx, in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCreateSaleDuplicateNumber(t *testing.T) {
	_, uc := newFixture(t, 20)
	ctx := context.Background()

	_, err := uc.Create(ctx, saleRequest())
	require.NoError(t, err)
	_, err = uc.Create(ctx, saleRequest())
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestDeleteSaleReturnsStock(t *testing.T) {
	store, uc := newFixture(t, 20)
	ctx := context.Background()

	sale, err := uc.Create(ctx, saleRequest())
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, sale.ID))

	p, err := store.Products.GetByID("p1")
	require.NoError(t, err)
	assert.True(t, p.CurrentStock.Equal(decimal.NewFromInt(20)))

	ms, err := store.Movements.ListByReference(entity.ReferenceTypeSaleItem, sale.Items[0].ID)
	require.NoError(t, err)
	assert.Empty(t, ms)

	_, err = uc.Get(ctx, sale.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, sale.ID), domain.ErrNotFound)
}
