package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.AccountingRepository = (*AccountingRepo)(nil)

// AccountingRepo libro de ingresos/egresos sobre PostgreSQL. Igual que el
// kardex: append-only, solo INSERT y SELECT.
type AccountingRepo struct {
	q Querier
}

// NewAccountingRepository construye el adaptador del libro contable.
func NewAccountingRepository(q Querier) *AccountingRepo {
	return &AccountingRepo{q: q}
}

// Create inserta un asiento contable. Asigna ID y fechas si vienen vacíos.
func (r *AccountingRepo) Create(entry *entity.AccountingEntry) error {
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
		INSERT INTO accounting_entries
			(id, kind, category, amount, branch_id, sale_id, purchase_id, description, date, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.Kind, entry.Category, entry.Amount, entry.BranchID,
		entry.SaleID, entry.PurchaseID, entry.Description, entry.Date, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert accounting entry: %w", err)
	}
	return nil
}

// Sum suma los montos de una naturaleza (INCOME o EXPENSE) de una sucursal en
// una ventana de fechas.
func (r *AccountingRepo) Sum(ctx context.Context, kind, branchID string, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM accounting_entries
		WHERE kind = $1 AND branch_id = $2 AND date >= $3 AND date <= $4`
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, query, kind, branchID, from, to).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum accounting entries: %w", err)
	}
	return total, nil
}

// Summary agrega ingresos, egresos y número de asientos de una sucursal en
// una ventana de fechas, en una sola consulta.
func (r *AccountingRepo) Summary(ctx context.Context, branchID string, from, to time.Time) (*repository.LedgerSummary, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE kind = 'INCOME'), 0),
			COALESCE(SUM(amount) FILTER (WHERE kind = 'EXPENSE'), 0),
			COUNT(*)
		FROM accounting_entries
		WHERE branch_id = $1 AND date >= $2 AND date <= $3`
	var s repository.LedgerSummary
	err := r.q.QueryRow(ctx, query, branchID, from, to).Scan(&s.Income, &s.Expense, &s.Count)
	if err != nil {
		return nil, fmt.Errorf("summarize accounting entries: %w", err)
	}
	return &s, nil
}

// ListByBranch devuelve los asientos de una sucursal en una ventana de
// fechas, del más antiguo al más reciente (orden de libro).
func (r *AccountingRepo) ListByBranch(ctx context.Context, branchID string, from, to time.Time) ([]*entity.AccountingEntry, error) {
	query := `
		SELECT id, kind, category, amount, branch_id,
		       COALESCE(sale_id, ''), COALESCE(purchase_id, ''),
		       description, date, created_at
		FROM accounting_entries
		WHERE branch_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC, created_at ASC`
	rows, err := r.q.Query(ctx, query, branchID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list accounting entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.AccountingEntry
	for rows.Next() {
		var e entity.AccountingEntry
		if err := rows.Scan(
			&e.ID, &e.Kind, &e.Category, &e.Amount, &e.BranchID,
			&e.SaleID, &e.PurchaseID, &e.Description, &e.Date, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan accounting entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
