package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// LedgerSummary agregado de ingresos/egresos de una sucursal en un período.
type LedgerSummary struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Count   int64
}

// AccountingRepository libro de ingresos/egresos, append-only. La única
// agregación expuesta es la suma por naturaleza en una ventana de fechas.
type AccountingRepository interface {
	Create(entry *entity.AccountingEntry) error
	Sum(ctx context.Context, kind, branchID string, from, to time.Time) (decimal.Decimal, error)
	Summary(ctx context.Context, branchID string, from, to time.Time) (*LedgerSummary, error)
	ListByBranch(ctx context.Context, branchID string, from, to time.Time) ([]*entity.AccountingEntry, error)
}
