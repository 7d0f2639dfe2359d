// Package apptest provides in-memory implementations of the persistence
// ports and the transaction runners, used by use-case tests in place of a
// database. "Transactions" just invoke the callback with the same repos.
package apptest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magazynpro/magazyn-api/internal/domain"
	"github.com/magazynpro/magazyn-api/internal/domain/entity"
	"github.com/magazynpro/magazyn-api/internal/domain/repository"
)

// Store holds every in-memory repository behind one lock.
type Store struct {
	mu sync.Mutex

	products    map[string]*entity.Product
	movements   map[string]*entity.StockMovement
	invoices    map[string]*entity.Invoice
	inventories map[string]*entity.Inventory
	sales       map[string]*entity.Sale

	seq int // insertion counter, breaks CreatedAt ties in listings
	ord map[string]int

	Products    *ProductRepo
	Movements   *MovementRepo
	Invoices    *InvoiceRepo
	Inventories *InventoryRepo
	Sales       *SaleRepo
}

// NewStore builds an empty store.
func NewStore() *Store {
	s := &Store{
		products:    make(map[string]*entity.Product),
		movements:   make(map[string]*entity.StockMovement),
		invoices:    make(map[string]*entity.Invoice),
		inventories: make(map[string]*entity.Inventory),
		sales:       make(map[string]*entity.Sale),
		ord:         make(map[string]int),
	}
	s.Products = &ProductRepo{s: s}
	s.Movements = &MovementRepo{s: s}
	s.Invoices = &InvoiceRepo{s: s}
	s.Inventories = &InventoryRepo{s: s}
	s.Sales = &SaleRepo{s: s}
	return s
}

func (s *Store) track(id string) {
	s.seq++
	s.ord[id] = s.seq
}

// ── Transaction runners ───────────────────────────────────────────────────────

// Run satisfies the ledger transaction runner.
func (s *Store) Run(_ context.Context, fn func(
	movements repository.StockMovementRepository,
	products repository.ProductRepository,
) error) error {
	return fn(s.Movements, s.Products)
}

// RunBilling satisfies the invoice transaction runner.
func (s *Store) RunBilling(_ context.Context, fn func(
	movements repository.StockMovementRepository,
	products repository.ProductRepository,
	invoices repository.InvoiceRepository,
) error) error {
	return fn(s.Movements, s.Products, s.Invoices)
}

// RunStocktake satisfies the count-sheet transaction runner.
func (s *Store) RunStocktake(_ context.Context, fn func(
	movements repository.StockMovementRepository,
	products repository.ProductRepository,
	inventories repository.InventoryRepository,
) error) error {
	return fn(s.Movements, s.Products, s.Inventories)
}

// RunSale satisfies the sale transaction runner.
func (s *Store) RunSale(_ context.Context, fn func(
	movements repository.StockMovementRepository,
	products repository.ProductRepository,
	sales repository.SaleRepository,
) error) error {
	return fn(s.Movements, s.Products, s.Sales)
}

// ── Products ──────────────────────────────────────────────────────────────────

type ProductRepo struct{ s *Store }

var _ repository.ProductRepository = (*ProductRepo)(nil)

func (r *ProductRepo) Create(p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.products {
		if existing.Name == p.Name {
			return domain.ErrDuplicate
		}
	}
	cp := *p
	r.s.products[p.ID] = &cp
	r.s.track(p.ID)
	return nil
}

func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return copyProduct(r.s.products[id]), nil
}

func (r *ProductRepo) GetByName(name string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.Name == name {
			return copyProduct(p), nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		all = append(all, copyProduct(p))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return paginate(all, limit, offset), nil
}

func (r *ProductRepo) Update(p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.products[p.ID]
	if !ok {
		return nil
	}
	existing.Name = p.Name
	existing.Unit = p.Unit
	existing.MinStockLevel = p.MinStockLevel
	existing.UpdatedAt = time.Now()
	return nil
}

func (r *ProductRepo) AdjustStock(productID string, delta decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.CurrentStock = p.CurrentStock.Add(delta)
	return nil
}

func (r *ProductRepo) UpdateLastPurchasePrice(productID string, price decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.LastPurchasePrice = price
	return nil
}

// ── Stock movements ───────────────────────────────────────────────────────────

type MovementRepo struct{ s *Store }

var _ repository.StockMovementRepository = (*MovementRepo)(nil)

func (r *MovementRepo) Create(m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *m
	r.s.movements[m.ID] = &cp
	r.s.track(m.ID)
	return nil
}

func (r *MovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.movements[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *MovementRepo) Update(m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.movements[m.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *m
	r.s.movements[m.ID] = &cp
	return nil
}

func (r *MovementRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.movements, id)
	return nil
}

func (r *MovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error) {
	return r.list(func(m *entity.StockMovement) bool { return m.ProductID == productID }, limit, offset), nil
}

func (r *MovementRepo) ListByReference(referenceType, referenceID string) ([]*entity.StockMovement, error) {
	return r.list(func(m *entity.StockMovement) bool {
		return m.ReferenceType == referenceType && m.ReferenceID == referenceID
	}, 0, 0), nil
}

func (r *MovementRepo) ListRecent(limit, offset int) ([]*entity.StockMovement, error) {
	return r.list(func(*entity.StockMovement) bool { return true }, limit, offset), nil
}

func (r *MovementRepo) list(match func(*entity.StockMovement) bool, limit, offset int) []*entity.StockMovement {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if match(m) {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return r.s.ord[out[i].ID] > r.s.ord[out[j].ID] })
	if limit == 0 {
		return out
	}
	return paginate(out, limit, offset)
}

// ── Invoices ──────────────────────────────────────────────────────────────────

type InvoiceRepo struct{ s *Store }

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

func (r *InvoiceRepo) Create(inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.invoices {
		if existing.InvoiceNumber == inv.InvoiceNumber {
			return domain.ErrDuplicate
		}
	}
	cp := *inv
	cp.Items = append([]entity.InvoiceItem(nil), inv.Items...)
	r.s.invoices[inv.ID] = &cp
	r.s.track(inv.ID)
	return nil
}

func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return copyInvoice(r.s.invoices[id]), nil
}

func (r *InvoiceRepo) GetByNumber(invoiceNumber string) (*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.invoices {
		if inv.InvoiceNumber == invoiceNumber {
			return copyInvoice(inv), nil
		}
	}
	return nil, nil
}

func (r *InvoiceRepo) List(limit, offset int) ([]*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]*entity.Invoice, 0, len(r.s.invoices))
	for _, inv := range r.s.invoices {
		all = append(all, copyInvoice(inv))
	}
	sort.Slice(all, func(i, j int) bool { return r.s.ord[all[i].ID] > r.s.ord[all[j].ID] })
	return paginate(all, limit, offset), nil
}

func (r *InvoiceRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.invoices, id)
	return nil
}

// ── Inventories ───────────────────────────────────────────────────────────────

type InventoryRepo struct{ s *Store }

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

func (r *InventoryRepo) Create(inv *entity.Inventory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := make(map[string]bool, len(inv.Items))
	for _, it := range inv.Items {
		if seen[it.ProductID] {
			return domain.ErrDuplicate
		}
		seen[it.ProductID] = true
	}
	r.s.inventories[inv.ID] = copyInventory(inv)
	r.s.track(inv.ID)
	return nil
}

func (r *InventoryRepo) GetByID(id string) (*entity.Inventory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.inventories[id]
	if !ok {
		return nil, nil
	}
	return copyInventory(inv), nil
}

func (r *InventoryRepo) GetItem(itemID string) (*entity.InventoryItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.inventories {
		for _, it := range inv.Items {
			if it.ID == itemID {
				cp := it
				cp.Counted = copyDecimal(it.Counted)
				return &cp, nil
			}
		}
	}
	return nil, nil
}

func (r *InventoryRepo) List(limit, offset int) ([]*entity.Inventory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]*entity.Inventory, 0, len(r.s.inventories))
	for _, inv := range r.s.inventories {
		all = append(all, copyInventory(inv))
	}
	sort.Slice(all, func(i, j int) bool { return r.s.ord[all[i].ID] > r.s.ord[all[j].ID] })
	return paginate(all, limit, offset), nil
}

func (r *InventoryRepo) UpdateStatus(id, status string, completedAt *time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.inventories[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.Status = status
	inv.CompletedAt = completedAt
	return nil
}

func (r *InventoryRepo) UpdateItemCount(itemID string, counted decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.inventories {
		for i := range inv.Items {
			if inv.Items[i].ID == itemID {
				c := counted
				inv.Items[i].Counted = &c
				return nil
			}
		}
	}
	return domain.ErrNotFound
}

func (r *InventoryRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.inventories, id)
	return nil
}

// ── Sales ─────────────────────────────────────────────────────────────────────

type SaleRepo struct{ s *Store }

var _ repository.SaleRepository = (*SaleRepo)(nil)

func (r *SaleRepo) Create(sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.sales {
		if existing.SaleNumber == sale.SaleNumber {
			return domain.ErrDuplicate
		}
	}
	cp := *sale
	cp.Items = append([]entity.SaleItem(nil), sale.Items...)
	r.s.sales[sale.ID] = &cp
	r.s.track(sale.ID)
	return nil
}

func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return copySale(r.s.sales[id]), nil
}

func (r *SaleRepo) GetByNumber(saleNumber string) (*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, s := range r.s.sales {
		if s.SaleNumber == saleNumber {
			return copySale(s), nil
		}
	}
	return nil, nil
}

func (r *SaleRepo) List(limit, offset int) ([]*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]*entity.Sale, 0, len(r.s.sales))
	for _, s := range r.s.sales {
		all = append(all, copySale(s))
	}
	sort.Slice(all, func(i, j int) bool { return r.s.ord[all[i].ID] > r.s.ord[all[j].ID] })
	return paginate(all, limit, offset), nil
}

func (r *SaleRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.sales, id)
	return nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func paginate[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all
}

func copyProduct(p *entity.Product) *entity.Product {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

func copyInvoice(inv *entity.Invoice) *entity.Invoice {
	if inv == nil {
		return nil
	}
	cp := *inv
	cp.Items = append([]entity.InvoiceItem(nil), inv.Items...)
	return &cp
}

func copyInventory(inv *entity.Inventory) *entity.Inventory {
	if inv == nil {
		return nil
	}
	cp := *inv
	cp.Items = make([]entity.InventoryItem, len(inv.Items))
	for i, it := range inv.Items {
		cp.Items[i] = it
		cp.Items[i].Counted = copyDecimal(it.Counted)
	}
	return &cp
}

func copySale(s *entity.Sale) *entity.Sale {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Items = append([]entity.SaleItem(nil), s.Items...)
	return &cp
}

func copyDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	cp := *d
	return &cp
}
