package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo kardex sobre PostgreSQL. Solo INSERT y SELECT: el libro es
// append-only y ninguna ruta de código emite UPDATE ni DELETE sobre movements.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador del kardex.
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, type, item_kind, item_id, branch_id, quantity,
	quantity_before, quantity_after, reason, document_ref, created_by, date, created_at`

// Create inserta un asiento del kardex. Asigna ID y fechas si vienen vacíos.
func (r *MovementRepo) Create(entry *entity.MovementEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Date.IsZero() {
		entry.Date = time.Now().UTC()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.Type, entry.ItemKind, entry.ItemID, entry.BranchID,
		entry.Quantity, entry.QuantityBefore, entry.QuantityAfter,
		entry.Reason, entry.DocumentRef, entry.CreatedBy, entry.Date, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// ListByItem devuelve el kardex de un ítem del asiento más antiguo al más
// reciente; created_at e id desempatan asientos del mismo instante.
func (r *MovementRepo) ListByItem(ctx context.Context, itemKind, itemID string, limit, offset int) ([]*entity.MovementEntry, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movements
		WHERE item_kind = $1 AND item_id = $2
		ORDER BY created_at ASC, id ASC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, itemKind, itemID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements by item: %w", err)
	}
	return scanMovements(rows)
}

// ListByBranch devuelve los movimientos de una sucursal, opcionalmente
// filtrados por ventana de fechas, del más reciente al más antiguo.
func (r *MovementRepo) ListByBranch(ctx context.Context, branchID string, from, to *time.Time, limit, offset int) ([]*entity.MovementEntry, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movements
		WHERE branch_id = $1
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date <= $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, branchID, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements by branch: %w", err)
	}
	return scanMovements(rows)
}

// ListByDateRange devuelve los movimientos de todas las sucursales en una
// ventana de fechas, del más reciente al más antiguo.
func (r *MovementRepo) ListByDateRange(ctx context.Context, from, to time.Time, limit, offset int) ([]*entity.MovementEntry, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movements
		WHERE date >= $1 AND date <= $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements by date range: %w", err)
	}
	return scanMovements(rows)
}

func scanMovements(rows pgx.Rows) ([]*entity.MovementEntry, error) {
	defer rows.Close()
	var list []*entity.MovementEntry
	for rows.Next() {
		var m entity.MovementEntry
		if err := rows.Scan(
			&m.ID, &m.Type, &m.ItemKind, &m.ItemID, &m.BranchID,
			&m.Quantity, &m.QuantityBefore, &m.QuantityAfter,
			&m.Reason, &m.DocumentRef, &m.CreatedBy, &m.Date, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
