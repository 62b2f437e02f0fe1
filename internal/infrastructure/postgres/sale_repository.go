package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo persistencia de ventas sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta la cabecera de una venta. Un choque en el número único sale
// como domain.ErrDuplicate.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = now
	}
	sale.UpdatedAt = now
	query := `
		INSERT INTO sales
			(id, number, branch_id, worker_id, customer_id, payment_method,
			 subtotal, tax, total, commission, status, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.Number, sale.BranchID, sale.WorkerID, sale.CustomerID,
		sale.PaymentMethod, sale.Subtotal, sale.Tax, sale.Total, sale.Commission,
		sale.Status, sale.Date, sale.CreatedAt, sale.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: número de venta %s", domain.ErrDuplicate, sale.Number)
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateLine inserta una línea de venta.
func (r *SaleRepo) CreateLine(line *entity.SaleLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sale_lines
			(id, sale_id, item_kind, item_id, description, quantity, unit_price, subtotal, taxable)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.SaleID, line.ItemKind, line.ItemID, line.Description,
		line.Quantity, line.UnitPrice, line.Subtotal, line.Taxable,
	)
	if err != nil {
		return fmt.Errorf("insert sale line: %w", err)
	}
	return nil
}

// GetByID obtiene una venta por ID. Devuelve nil si no existe.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `
		SELECT id, number, branch_id, worker_id, COALESCE(customer_id, ''),
		       payment_method, subtotal, tax, total, commission, status,
		       date, created_at, updated_at
		FROM sales WHERE id = $1`
	var s entity.Sale
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.Number, &s.BranchID, &s.WorkerID, &s.CustomerID,
		&s.PaymentMethod, &s.Subtotal, &s.Tax, &s.Total, &s.Commission,
		&s.Status, &s.Date, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return &s, nil
}

// GetLines devuelve las líneas de una venta en su orden de inserción.
func (r *SaleRepo) GetLines(saleID string) ([]*entity.SaleLine, error) {
	query := `
		SELECT id, sale_id, item_kind, COALESCE(item_id, ''), description,
		       quantity, unit_price, subtotal, taxable
		FROM sale_lines WHERE sale_id = $1
		ORDER BY id ASC`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("get sale lines: %w", err)
	}
	defer rows.Close()
	var lines []*entity.SaleLine
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(
			&l.ID, &l.SaleID, &l.ItemKind, &l.ItemID, &l.Description,
			&l.Quantity, &l.UnitPrice, &l.Subtotal, &l.Taxable,
		); err != nil {
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

// MarkVoid pasa la venta de ACTIVE a VOID. La guarda por estado en el UPDATE
// hace la anulación idempotente bajo concurrencia: si otra transacción ya la
// anuló, aquí no hay filas afectadas y sale domain.ErrConflict.
func (r *SaleRepo) MarkVoid(id string) error {
	query := `
		UPDATE sales SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3`
	tag, err := r.q.Exec(context.Background(), query,
		entity.SaleStatusVoid, id, entity.SaleStatusActive)
	if err != nil {
		return fmt.Errorf("void sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: la venta ya está anulada", domain.ErrConflict)
	}
	return nil
}
