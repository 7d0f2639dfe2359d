package sales

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magazynpro/magazyn-api/internal/application/dto"
	"github.com/magazynpro/magazyn-api/internal/application/inventory"
	"github.com/magazynpro/magazyn-api/internal/domain"
	"github.com/magazynpro/magazyn-api/internal/domain/entity"
	"github.com/magazynpro/magazyn-api/internal/domain/repository"
)

// TxRunner runs sale write sequences atomically: sale, items, and the
// negative ledger movements commit or roll back together.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		movements repository.StockMovementRepository,
		products repository.ProductRepository,
		sales repository.SaleRepository,
	) error) error
}

// UseCase records and manages sales.
type UseCase struct {
	txRunner TxRunner
	sales    repository.SaleRepository
}

// NewUseCase builds the sales use case.
func NewUseCase(txRunner TxRunner, sales repository.SaleRepository) *UseCase {
	return &UseCase{txRunner: txRunner, sales: sales}
}

// Create records a sale. User-facing quantities are positive; the ledger
// entry per item is written with the negated quantity. This is the single
// place where the sale sign inversion happens.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateSaleRequest) (*entity.Sale, error) {
	number := strings.TrimSpace(in.SaleNumber)
	if number == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, it := range in.Items {
		if it.ProductID == "" || !it.Quantity.IsPositive() || it.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}

	existing, err := uc.sales.GetByNumber(number)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	date := time.Now()
	if in.Date != "" {
		parsed, err := time.Parse("2006-01-02", in.Date)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		date = parsed
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:         uuid.New().String(),
		SaleNumber: number,
		Date:       date,
		Customer:   strings.TrimSpace(in.Customer),
		CreatedAt:  now,
	}
	for _, it := range in.Items {
		sale.Items = append(sale.Items, entity.SaleItem{
			ID:         uuid.New().String(),
			SaleID:     sale.ID,
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.Quantity.Mul(it.UnitPrice),
		})
	}
	sale.TotalAmount = sale.SumTotal()

	err = uc.txRunner.RunSale(ctx, func(
		movements repository.StockMovementRepository,
		products repository.ProductRepository,
		sales repository.SaleRepository,
	) error {
		if err := sales.Create(sale); err != nil {
			return err
		}
		for _, item := range sale.Items {
			m := &entity.StockMovement{
				ProductID:     item.ProductID,
				Type:          entity.MovementTypeSale,
				Quantity:      item.Quantity.Neg(),
				ReferenceID:   item.ID,
				ReferenceType: entity.ReferenceTypeSaleItem,
				Notes:         fmt.Sprintf("Sprzedaż %s", sale.SaleNumber),
				CreatedAt:     now,
			}
			if err := inventory.AppendMovement(movements, products, m); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// Get returns one sale with items.
func (uc *UseCase) Get(_ context.Context, id string) (*entity.Sale, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	s, err := uc.sales.GetByID(id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// List returns sales with pagination, newest first.
func (uc *UseCase) List(_ context.Context, limit, offset int) ([]*entity.Sale, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return uc.sales.List(limit, offset)
}

// Delete removes a sale, reversing its ledger movements in the same
// transaction so stock returns to pre-sale levels.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunSale(ctx, func(
		movements repository.StockMovementRepository,
		products repository.ProductRepository,
		sales repository.SaleRepository,
	) error {
		sale, err := sales.GetByID(id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		for _, item := range sale.Items {
			if err := inventory.RemoveByReference(movements, products, entity.ReferenceTypeSaleItem, item.ID); err != nil {
				return err
			}
		}
		return sales.Delete(id)
	})
}
