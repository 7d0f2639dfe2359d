package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/magazynpro/magazyn-api/internal/domain"
	"github.com/magazynpro/magazyn-api/internal/domain/entity"
	"github.com/magazynpro/magazyn-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implements the count-sheet store over PostgreSQL.
// Item rows join products for display name and unit.
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository builds the adapter. Pass a pool or a tx.
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

// Create persists the sheet and its items atomically (run inside a tx).
func (r *InventoryRepo) Create(inv *entity.Inventory) error {
	ctx := context.Background()
	_, err := r.q.Exec(ctx,
		`INSERT INTO inventories (id, name, status, created_at, completed_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		inv.ID, inv.Name, inv.Status, inv.CreatedAt, inv.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inventory: %w", err)
	}
	for _, it := range inv.Items {
		_, err := r.q.Exec(ctx,
			`INSERT INTO inventory_items (id, inventory_id, product_id, expected_quantity, counted_quantity)
			 VALUES ($1, $2, $3, $4, $5)`,
			it.ID, inv.ID, it.ProductID, it.Expected, it.Counted,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("insert inventory item: %w", err)
		}
	}
	return nil
}

// GetByID returns the sheet with its items, or nil when absent.
func (r *InventoryRepo) GetByID(id string) (*entity.Inventory, error) {
	var inv entity.Inventory
	err := r.q.QueryRow(context.Background(),
		`SELECT id, name, status, created_at, completed_at FROM inventories WHERE id = $1`, id,
	).Scan(&inv.ID, &inv.Name, &inv.Status, &inv.CreatedAt, &inv.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory: %w", err)
	}

	rows, err := r.q.Query(context.Background(), `
		SELECT i.id, i.inventory_id, i.product_id, p.name, p.unit, i.expected_quantity, i.counted_quantity
		FROM inventory_items i
		JOIN products p ON p.id = i.product_id
		WHERE i.inventory_id = $1
		ORDER BY p.name`, id)
	if err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.InventoryItem
		if err := rows.Scan(&it.ID, &it.InventoryID, &it.ProductID, &it.ProductName,
			&it.Unit, &it.Expected, &it.Counted); err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		inv.Items = append(inv.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetItem returns one sheet item, or nil when absent.
func (r *InventoryRepo) GetItem(itemID string) (*entity.InventoryItem, error) {
	var it entity.InventoryItem
	err := r.q.QueryRow(context.Background(), `
		SELECT i.id, i.inventory_id, i.product_id, p.name, p.unit, i.expected_quantity, i.counted_quantity
		FROM inventory_items i
		JOIN products p ON p.id = i.product_id
		WHERE i.id = $1`, itemID,
	).Scan(&it.ID, &it.InventoryID, &it.ProductID, &it.ProductName, &it.Unit, &it.Expected, &it.Counted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory item: %w", err)
	}
	return &it, nil
}

// List returns sheets (headers only), newest first.
func (r *InventoryRepo) List(limit, offset int) ([]*entity.Inventory, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, name, status, created_at, completed_at
		 FROM inventories ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inventories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Inventory
	for rows.Next() {
		var inv entity.Inventory
		if err := rows.Scan(&inv.ID, &inv.Name, &inv.Status, &inv.CreatedAt, &inv.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		list = append(list, &inv)
	}
	return list, rows.Err()
}

// UpdateStatus moves the sheet to the given status. Transition legality is
// validated by the use case before this runs.
func (r *InventoryRepo) UpdateStatus(id, status string, completedAt *time.Time) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE inventories SET status = $2, completed_at = $3 WHERE id = $1`,
		id, status, completedAt,
	)
	if err != nil {
		return fmt.Errorf("update inventory status: %w", err)
	}
	return nil
}

// UpdateItemCount sets counted_quantity. NULL means "never counted"; this
// always writes a value, so a zero count stays distinguishable.
func (r *InventoryRepo) UpdateItemCount(itemID string, counted decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE inventory_items SET counted_quantity = $2 WHERE id = $1`,
		itemID, counted,
	)
	if err != nil {
		return fmt.Errorf("update counted quantity: %w", err)
	}
	return nil
}

// Delete removes the sheet; items go via ON DELETE CASCADE.
func (r *InventoryRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM inventories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete inventory: %w", err)
	}
	return nil
}
