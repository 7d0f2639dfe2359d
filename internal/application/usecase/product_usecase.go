package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/magazynpro/magazyn-api/internal/application/dto"
	"github.com/magazynpro/magazyn-api/internal/domain"
	"github.com/magazynpro/magazyn-api/internal/domain/entity"
	"github.com/magazynpro/magazyn-api/internal/domain/repository"
)

// ProductUseCase covers the read/edit surface of products. Products are
// never created here (they come into existence through invoice
// confirmation) and stock is never changed here, only through the ledger.
type ProductUseCase struct {
	products repository.ProductRepository
}

// NewProductUseCase builds the use case.
func NewProductUseCase(products repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{products: products}
}

// List returns products with pagination.
func (uc *ProductUseCase) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return uc.products.List(limit, offset)
}

// Get returns one product by id.
func (uc *ProductUseCase) Get(_ context.Context, id string) (*entity.Product, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	p, err := uc.products.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// Update edits name, unit and minimum stock level. Renaming onto an existing
// product name is rejected as a duplicate.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*entity.Product, error) {
	p, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" || in.MinStockLevel.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if name != p.Name {
		existing, err := uc.products.GetByName(name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	p.Name = name
	if in.Unit != "" {
		p.Unit = in.Unit
	}
	p.MinStockLevel = in.MinStockLevel
	p.UpdatedAt = time.Now()
	if err := uc.products.Update(p); err != nil {
		return nil, err
	}
	return p, nil
}
