package repository

import "github.com/magazynpro/magazyn-api/internal/domain/entity"

// InvoiceRepository is the persistence port for invoices and their items.
// Items are exclusively owned: Create persists the whole aggregate, Delete
// cascades to items.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	GetByID(id string) (*entity.Invoice, error)
	GetByNumber(invoiceNumber string) (*entity.Invoice, error)
	List(limit, offset int) ([]*entity.Invoice, error)
	Delete(id string) error
}
