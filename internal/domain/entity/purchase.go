package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase representa la cabecera de una compra a proveedor. Number tiene la
// forma COM-<unix UTC>. Las compras no se anulan; una devolución se registra
// como ajuste manual con motivo.
type Purchase struct {
	ID             string
	Number         string
	BranchID       string
	SupplierID     string
	DocumentType   string // factura | remisión | otro
	DocumentNumber string
	Subtotal       decimal.Decimal
	Tax            decimal.Decimal
	Total          decimal.Decimal
	Date           time.Time
	CreatedAt      time.Time
}

// PurchaseLine representa una línea de compra de un producto o insumo.
// UnitCost sobreescribe el costo del ítem y del stock (política last-cost).
type PurchaseLine struct {
	ID         string
	PurchaseID string
	ItemKind   string // GOOD | SUPPLY
	ItemID     string
	Quantity   int64
	UnitCost   decimal.Decimal
	Subtotal   decimal.Decimal
}
