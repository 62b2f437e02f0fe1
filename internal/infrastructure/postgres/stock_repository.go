package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con
// pool o tx). Clave de la tabla stock: (item_kind, item_id, branch_id).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el stock actual de un ítem en una sucursal. Si no hay fila
// devuelve un registro en cero (el ítem aún no se ha movido allí).
func (r *StockRepo) Get(itemKind, itemID, branchID string) (*entity.StockRecord, error) {
	query := `
		SELECT item_kind, item_id, branch_id, quantity, min_quantity, unit_cost, updated_at
		FROM stock WHERE item_kind = $1 AND item_id = $2 AND branch_id = $3`
	var s entity.StockRecord
	err := r.q.QueryRow(context.Background(), query, itemKind, itemID, branchID).Scan(
		&s.ItemKind, &s.ItemID, &s.BranchID, &s.Quantity, &s.MinQuantity, &s.UnitCost, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockRecord{ItemKind: itemKind, ItemID: itemID, BranchID: branchID, UnitCost: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// GetForUpdate obtiene el stock y bloquea la fila (SELECT FOR UPDATE).
// Es el candado por ítem de la sección crítica leer-calcular-escribir.
func (r *StockRepo) GetForUpdate(itemKind, itemID, branchID string) (*entity.StockRecord, error) {
	query := `
		SELECT item_kind, item_id, branch_id, quantity, min_quantity, unit_cost, updated_at
		FROM stock WHERE item_kind = $1 AND item_id = $2 AND branch_id = $3
		FOR UPDATE`
	var s entity.StockRecord
	err := r.q.QueryRow(context.Background(), query, itemKind, itemID, branchID).Scan(
		&s.ItemKind, &s.ItemID, &s.BranchID, &s.Quantity, &s.MinQuantity, &s.UnitCost, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockRecord{ItemKind: itemKind, ItemID: itemID, BranchID: branchID, UnitCost: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza la fila de stock (cantidad, mínimo y costo).
func (r *StockRepo) Upsert(record *entity.StockRecord) error {
	query := `
		INSERT INTO stock (item_kind, item_id, branch_id, quantity, min_quantity, unit_cost, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (item_kind, item_id, branch_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, min_quantity = EXCLUDED.min_quantity,
		              unit_cost = EXCLUDED.unit_cost, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		record.ItemKind, record.ItemID, record.BranchID,
		record.Quantity, record.MinQuantity, record.UnitCost,
	)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// UpdateCost sobreescribe solo el costo unitario (política last-cost).
func (r *StockRepo) UpdateCost(itemKind, itemID, branchID string, cost decimal.Decimal) error {
	query := `
		UPDATE stock SET unit_cost = $4, updated_at = now()
		WHERE item_kind = $1 AND item_id = $2 AND branch_id = $3`
	_, err := r.q.Exec(context.Background(), query, itemKind, itemID, branchID, cost)
	if err != nil {
		return fmt.Errorf("update stock cost: %w", err)
	}
	return nil
}

// ListLowStock devuelve los registros de la sucursal con cantidad en o por
// debajo del mínimo, ordenados por déficit descendente (mayor quiebre primero).
func (r *StockRepo) ListLowStock(ctx context.Context, branchID string) ([]*entity.StockRecord, error) {
	query := `
		SELECT item_kind, item_id, branch_id, quantity, min_quantity, unit_cost, updated_at
		FROM stock
		WHERE branch_id = $1 AND quantity <= min_quantity
		ORDER BY (min_quantity - quantity) DESC`
	rows, err := r.q.Query(ctx, query, branchID)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockRecord
	for rows.Next() {
		var s entity.StockRecord
		if err := rows.Scan(&s.ItemKind, &s.ItemID, &s.BranchID, &s.Quantity, &s.MinQuantity, &s.UnitCost, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
