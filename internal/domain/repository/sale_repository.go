package repository

import "github.com/magazynpro/magazyn-api/internal/domain/entity"

// SaleRepository is the persistence port for sales and their items.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	GetByID(id string) (*entity.Sale, error)
	GetByNumber(saleNumber string) (*entity.Sale, error)
	List(limit, offset int) ([]*entity.Sale, error)
	Delete(id string) error
}
