package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// StockRepository acceso a las cantidades actuales por (clase, ítem, sucursal).
// Si no existe fila devuelve un registro con cantidad cero, nunca nil.
type StockRepository interface {
	Get(itemKind, itemID, branchID string) (*entity.StockRecord, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE). Usar solo dentro
	// de una transacción; es el candado por ítem del motor.
	GetForUpdate(itemKind, itemID, branchID string) (*entity.StockRecord, error)
	Upsert(record *entity.StockRecord) error
	UpdateCost(itemKind, itemID, branchID string, cost decimal.Decimal) error
	// ListLowStock devuelve los registros con quantity <= min_quantity.
	ListLowStock(ctx context.Context, branchID string) ([]*entity.StockRecord, error)
}
