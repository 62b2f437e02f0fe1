package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockRecord representa la cantidad actual de un ítem almacenable en una
// sucursal. Clave: (ItemKind, ItemID, BranchID). Solo los orquestadores de
// venta/compra/ajuste mutan Quantity, siempre dentro de una transacción con
// la fila bloqueada (SELECT FOR UPDATE). Nunca se borra; si no existe fila
// se asume cantidad cero.
type StockRecord struct {
	ItemKind    string
	ItemID      string
	BranchID    string
	Quantity    int64
	MinQuantity int64           // umbral de stock bajo
	UnitCost    decimal.Decimal // costo de última compra
	UpdatedAt   time.Time
}

// IsLow indica si el ítem está en o por debajo de su mínimo.
func (s *StockRecord) IsLow() bool {
	return s.Quantity <= s.MinQuantity
}
