package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/purchases"
	"github.com/jhoicas/kardex-api/internal/application/sales"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// Ensure TxRunner implements the per-flow runner ports.
var _ sales.TxRunner = (*TxRunner)(nil)
var _ purchases.TxRunner = (*TxRunner)(nil)
var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Los
// fallos de serialización/deadlock salen como domain.ErrTxConflict para que
// el orquestador reintente la unidad completa.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunSale inicia una transacción con los repos que toca una venta
// (kardex, stock, venta, contabilidad) y hace Commit o Rollback.
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	saleRepo repository.SaleRepository,
	acctRepo repository.AccountingRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	movRepo := NewMovementRepository(tx)
	stockRepo := NewStockRepository(tx)
	saleRepo := NewSaleRepository(tx)
	acctRepo := NewAccountingRepository(tx)

	if err := fn(movRepo, stockRepo, saleRepo, acctRepo); err != nil {
		return wrapTxErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return wrapTxErr(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// RunPurchase inicia una transacción con los repos que toca una compra.
func (r *TxRunner) RunPurchase(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	itemRepo repository.ItemRepository,
	purchaseRepo repository.PurchaseRepository,
	acctRepo repository.AccountingRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	movRepo := NewMovementRepository(tx)
	stockRepo := NewStockRepository(tx)
	itemRepo := NewItemRepository(tx)
	purchaseRepo := NewPurchaseRepository(tx)
	acctRepo := NewAccountingRepository(tx)

	if err := fn(movRepo, stockRepo, itemRepo, purchaseRepo, acctRepo); err != nil {
		return wrapTxErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return wrapTxErr(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// Run inicia una transacción con los repos de stock y kardex (ajustes).
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewMovementRepository(tx), NewStockRepository(tx)); err != nil {
		return wrapTxErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return wrapTxErr(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}
