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

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo persistencia de compras sobre PostgreSQL.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador de compras.
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create inserta la cabecera de una compra. Un choque en el número único sale
// como domain.ErrDuplicate.
func (r *PurchaseRepo) Create(purchase *entity.Purchase) error {
	if purchase.ID == "" {
		purchase.ID = uuid.New().String()
	}
	if purchase.CreatedAt.IsZero() {
		purchase.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO purchases
			(id, number, branch_id, supplier_id, document_type, document_number,
			 subtotal, tax, total, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		purchase.ID, purchase.Number, purchase.BranchID, purchase.SupplierID,
		purchase.DocumentType, purchase.DocumentNumber,
		purchase.Subtotal, purchase.Tax, purchase.Total,
		purchase.Date, purchase.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: número de compra %s", domain.ErrDuplicate, purchase.Number)
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// CreateLine inserta una línea de compra.
func (r *PurchaseRepo) CreateLine(line *entity.PurchaseLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	query := `
		INSERT INTO purchase_lines
			(id, purchase_id, item_kind, item_id, quantity, unit_cost, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.PurchaseID, line.ItemKind, line.ItemID,
		line.Quantity, line.UnitCost, line.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("insert purchase line: %w", err)
	}
	return nil
}

// GetByID obtiene una compra por ID. Devuelve nil si no existe.
func (r *PurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	query := `
		SELECT id, number, branch_id, supplier_id, document_type, document_number,
		       subtotal, tax, total, date, created_at
		FROM purchases WHERE id = $1`
	var p entity.Purchase
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.Number, &p.BranchID, &p.SupplierID,
		&p.DocumentType, &p.DocumentNumber,
		&p.Subtotal, &p.Tax, &p.Total, &p.Date, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return &p, nil
}

// GetLines devuelve las líneas de una compra en su orden de inserción.
func (r *PurchaseRepo) GetLines(purchaseID string) ([]*entity.PurchaseLine, error) {
	query := `
		SELECT id, purchase_id, item_kind, item_id, quantity, unit_cost, subtotal
		FROM purchase_lines WHERE purchase_id = $1
		ORDER BY id ASC`
	rows, err := r.q.Query(context.Background(), query, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("get purchase lines: %w", err)
	}
	defer rows.Close()
	var lines []*entity.PurchaseLine
	for rows.Next() {
		var l entity.PurchaseLine
		if err := rows.Scan(
			&l.ID, &l.PurchaseID, &l.ItemKind, &l.ItemID,
			&l.Quantity, &l.UnitCost, &l.Subtotal,
		); err != nil {
			return nil, fmt.Errorf("scan purchase line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}
