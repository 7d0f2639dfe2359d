package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magazynpro/magazyn-api/internal/application/apptest"
	"github.com/magazynpro/magazyn-api/internal/application/billing"
	"github.com/magazynpro/magazyn-api/internal/application/dto"
	"github.com/magazynpro/magazyn-api/internal/application/extraction"
	"github.com/magazynpro/magazyn-api/internal/domain"
	"github.com/magazynpro/magazyn-api/internal/domain/entity"
	"github.com/magazynpro/magazyn-api/pkg/logger"
)

// staticTextExtractor returns canned text regardless of the PDF bytes.
type staticTextExtractor struct{ text string }

func (s staticTextExtractor) ExtractText([]byte) string { return s.text }

func newBillingUseCase(store *apptest.Store, text string) *billing.UseCase {
	parser := extraction.NewService(nil, 0, logger.Nop())
	return billing.NewUseCase(store, store.Invoices, parser, staticTextExtractor{text: text})
}

func parsedInvoice() dto.ParsedInvoiceData {
	return dto.ParsedInvoiceData{
		InvoiceNumber: "FV/2024/001",
		Date:          "2024-01-15",
		Vendor:        "Tartak Podlaski Sp. z o.o.",
		Items: []dto.ParsedInvoiceItem{
			{
				Name:     "Deska sosnowa 25x150",
				Quantity: decimal.NewFromInt(10),
				Unit:     entity.UnitPiece,
				NetPrice: decimal.NewFromInt(20),
			},
			{
				Name:     "Lakier bezbarwny",
				Quantity: decimal.NewFromInt(2),
				Unit:     entity.UnitLiter,
				NetPrice: decimal.NewFromFloat(45.50),
			},
		},
	}
}

func TestConfirmPersistsInvoiceAndStock(t *testing.T) {
	store := apptest.NewStore()
	uc := newBillingUseCase(store, "")

	inv, err := uc.Confirm(context.Background(), dto.ConfirmInvoiceRequest{
		Filename: "faktura_tartak.pdf",
		Data:     parsedInvoice(),
	})
	require.NoError(t, err)
	require.Len(t, inv.Items, 2)
	assert.Equal(t, "FV/2024/001", inv.InvoiceNumber)
	assert.Equal(t, "2024-01-15", inv.Date.Format("2006-01-02"))

	// Totals are recomputed server-side from the items.
	net, gross := inv.SumTotals()
	assert.True(t, inv.TotalNet.Equal(net))
	assert.True(t, inv.TotalGross.Equal(gross))
	assert.True(t, gross.GreaterThan(net))

	// One product per item, stocked with the purchased quantity.
	deska, err := store.Products.GetByName("Deska sosnowa 25x150")
	require.NoError(t, err)
	require.NotNil(t, deska)
	assert.True(t, deska.CurrentStock.Equal(decimal.NewFromInt(10)))
	assert.True(t, deska.LastPurchasePrice.Equal(decimal.NewFromInt(20)))

	lakier, err := store.Products.GetByName("Lakier bezbarwny")
	require.NoError(t, err)
	require.NotNil(t, lakier)
	assert.True(t, lakier.CurrentStock.Equal(decimal.NewFromInt(2)))

	// Each item left a purchase movement referencing it.
	for _, item := range inv.Items {
		ms, err := store.Movements.ListByReference(entity.ReferenceTypeInvoiceItem, item.ID)
		require.NoError(t, err)
		require.Len(t, ms, 1)
		assert.Equal(t, entity.MovementTypePurchase, ms[0].Type)
		assert.True(t, ms[0].Quantity.Equal(item.Quantity))
	}
}

func TestConfirmDuplicateNumber(t *testing.T) {
	store := apptest.NewStore()
	uc := newBillingUseCase(store, "")

	_, err := uc.Confirm(context.Background(), dto.ConfirmInvoiceRequest{Data: parsedInvoice()})
	require.NoError(t, err)

	_, err = uc.Confirm(context.Background(), dto.ConfirmInvoiceRequest{Data: parsedInvoice()})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestConfirmRejectsEmptyItems(t *testing.T) {
	store := apptest.NewStore()
	uc := newBillingUseCase(store, "")

	data := parsedInvoice()
	data.Items = nil
	_, err := uc.Confirm(context.Background(), dto.ConfirmInvoiceRequest{Data: data})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Nothing was persisted: no invoice, no products, no movements.
	invoices, err := store.Invoices.List(10, 0)
	require.NoError(t, err)
	assert.Empty(t, invoices)
	products, err := store.Products.List(10, 0)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestConfirmRepeatedProductAccumulates(t *testing.T) {
	store := apptest.NewStore()
	uc := newBillingUseCase(store, "")

	first := parsedInvoice()
	_, err := uc.Confirm(context.Background(), dto.ConfirmInvoiceRequest{Data: first})
	require.NoError(t, err)

	second := parsedInvoice()
	second.InvoiceNumber = "FV/2024/002"
	second.Items = second.Items[:1]
	second.Items[0].NetPrice = decimal.NewFromInt(25)
	_, err = uc.Confirm(context.Background(), dto.ConfirmInvoiceRequest{Data: second})
	require.NoError(t, err)

	p, err := store.Products.GetByName("Deska sosnowa 25x150")
	require.NoError(t, err)
	assert.True(t, p.CurrentStock.Equal(decimal.NewFromInt(20)))
	// Last purchase price is last-write-wins.
	assert.True(t, p.LastPurchasePrice.Equal(decimal.NewFromInt(25)))
}

func TestConfirmNormalizesDate(t *testing.T) {
	store := apptest.NewStore()
	uc := newBillingUseCase(store, "")

	data := parsedInvoice()
	data.Date = "not-a-date"
	inv, err := uc.Confirm(context.Background(), dto.ConfirmInvoiceRequest{Data: data})
	require.NoError(t, err)
	// Unparseable dates are sanitized to today before persistence.
	assert.Equal(t, time.Now().Format("2006-01-02"), inv.Date.Format("2006-01-02"))
}

func TestDeleteReversesMovements(t *testing.T) {
	store := apptest.NewStore()
	uc := newBillingUseCase(store, "")

	inv, err := uc.Confirm(context.Background(), dto.ConfirmInvoiceRequest{Data: parsedInvoice()})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), inv.ID))

	// Stock returns to zero and referencing movements are gone.
	p, err := store.Products.GetByName("Deska sosnowa 25x150")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.True(t, p.CurrentStock.IsZero())
	for _, item := range inv.Items {
		ms, err := store.Movements.ListByReference(entity.ReferenceTypeInvoiceItem, item.ID)
		require.NoError(t, err)
		assert.Empty(t, ms)
	}

	got, err := store.Invoices.GetByID(inv.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, uc.Delete(context.Background(), inv.ID), domain.ErrNotFound)
}

func TestParseFallsBackToHeuristics(t *testing.T) {
	store := apptest.NewStore()
	uc := newBillingUseCase(store, "Faktura VAT nr FV/2024/123\nData wystawienia: 15.01.2024\n")

	out := uc.Parse(context.Background(), []byte("%PDF-1.4 irrelevant"))
	require.NotNil(t, out)
	assert.Equal(t, "FV/2024/123", out.InvoiceNumber)
	assert.Equal(t, "2024-01-15", out.Date)
	// The extractor guarantees at least one item even on sparse text.
	assert.NotEmpty(t, out.Items)
}
