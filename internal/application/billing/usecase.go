package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magazynpro/magazyn-api/internal/application/dto"
	"github.com/magazynpro/magazyn-api/internal/application/extraction"
	"github.com/magazynpro/magazyn-api/internal/application/inventory"
	"github.com/magazynpro/magazyn-api/internal/domain"
	"github.com/magazynpro/magazyn-api/internal/domain/entity"
	"github.com/magazynpro/magazyn-api/internal/domain/repository"
)

// TextExtractor is the inbound document port: PDF bytes to raw text.
// Implementations never fail (they fall back to sample text).
type TextExtractor interface {
	ExtractText(data []byte) string
}

// TxRunner runs the confirm/delete write sequences atomically with
// invoice-side repositories bound to the same transaction.
type TxRunner interface {
	RunBilling(ctx context.Context, fn func(
		movements repository.StockMovementRepository,
		products repository.ProductRepository,
		invoices repository.InvoiceRepository,
	) error) error
}

// UseCase drives the invoice pipeline: parse → user confirmation → persist
// invoice + items + purchase movements, all-or-nothing.
type UseCase struct {
	txRunner TxRunner
	invoices repository.InvoiceRepository
	parser   *extraction.Service
	pdfText  TextExtractor
}

// NewUseCase builds the invoice use case.
func NewUseCase(
	txRunner TxRunner,
	invoices repository.InvoiceRepository,
	parser *extraction.Service,
	pdfText TextExtractor,
) *UseCase {
	return &UseCase{txRunner: txRunner, invoices: invoices, parser: parser, pdfText: pdfText}
}

// Parse extracts structured data from an uploaded invoice PDF. Nothing is
// persisted; the result goes back to the user for review and confirmation.
func (uc *UseCase) Parse(ctx context.Context, pdfBytes []byte) *dto.ParsedInvoiceData {
	text := uc.pdfText.ExtractText(pdfBytes)
	return uc.parser.Parse(ctx, text)
}

// Confirm persists a reviewed invoice. Totals are recomputed server-side
// (user edits invalidate cached totals), then one transaction inserts the
// invoice with its items and, per item, finds-or-creates the product by
// exact name and appends a purchase movement. The product's last purchase
// price is overwritten with the item's net price, last-write-wins.
func (uc *UseCase) Confirm(ctx context.Context, in dto.ConfirmInvoiceRequest) (*entity.Invoice, error) {
	data := in.Data
	// The never-empty guarantee belongs to the extractor. A confirmation
	// with no line items is a user error, not something to repair.
	if len(data.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	extraction.Sanitize(&data)

	existing, err := uc.invoices.GetByNumber(data.InvoiceNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	date, err := time.Parse("2006-01-02", data.Date)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	inv := &entity.Invoice{
		ID:            uuid.New().String(),
		Filename:      strings.TrimSpace(in.Filename),
		InvoiceNumber: data.InvoiceNumber,
		Date:          date,
		Vendor:        data.Vendor,
		TotalNet:      data.TotalNet,
		TotalGross:    data.TotalGross,
		ProcessedAt:   now,
	}
	for _, it := range data.Items {
		inv.Items = append(inv.Items, entity.InvoiceItem{
			ID:         uuid.New().String(),
			InvoiceID:  inv.ID,
			Name:       it.Name,
			Quantity:   it.Quantity,
			Unit:       it.Unit,
			Percentage: it.Percentage,
			NetPrice:   it.NetPrice,
			GrossPrice: it.GrossPrice,
			TotalNet:   it.TotalNet,
			TotalGross: it.TotalGross,
		})
	}

	err = uc.txRunner.RunBilling(ctx, func(
		movements repository.StockMovementRepository,
		products repository.ProductRepository,
		invoices repository.InvoiceRepository,
	) error {
		if err := invoices.Create(inv); err != nil {
			return err
		}
		for _, item := range inv.Items {
			product, err := inventory.FindOrCreateProduct(products, item.Name, item.Unit)
			if err != nil {
				return err
			}
			m := &entity.StockMovement{
				ProductID:     product.ID,
				Type:          entity.MovementTypePurchase,
				Quantity:      item.Quantity,
				ReferenceID:   item.ID,
				ReferenceType: entity.ReferenceTypeInvoiceItem,
				Notes:         fmt.Sprintf("Zakup z faktury %s", inv.InvoiceNumber),
				CreatedAt:     now,
			}
			if err := inventory.AppendMovement(movements, products, m); err != nil {
				return err
			}
			if err := products.UpdateLastPurchasePrice(product.ID, item.NetPrice); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// Get returns one invoice with its items.
func (uc *UseCase) Get(_ context.Context, id string) (*entity.Invoice, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	inv, err := uc.invoices.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

// List returns invoices with pagination, newest first.
func (uc *UseCase) List(_ context.Context, limit, offset int) ([]*entity.Invoice, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return uc.invoices.List(limit, offset)
}

// Delete removes an invoice. In one transaction every purchase movement
// referencing its items is reversed and deleted, then the invoice and its
// items go. The ledger invariant (stock = Σ movements) holds throughout.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunBilling(ctx, func(
		movements repository.StockMovementRepository,
		products repository.ProductRepository,
		invoices repository.InvoiceRepository,
	) error {
		inv, err := invoices.GetByID(id)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		for _, item := range inv.Items {
			if err := inventory.RemoveByReference(movements, products, entity.ReferenceTypeInvoiceItem, item.ID); err != nil {
				return err
			}
		}
		return invoices.Delete(id)
	})
}
