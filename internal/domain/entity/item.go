package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Clases de ítem. GOOD y SUPPLY son almacenables (tienen stock por sucursal);
// SERVICE solo se vende, nunca toca inventario.
const (
	ItemKindGood    = "GOOD"    // producto para la venta
	ItemKindSupply  = "SUPPLY"  // insumo interno
	ItemKindService = "SERVICE" // servicio
)

// IsStockable indica si la clase de ítem mantiene stock.
func IsStockable(kind string) bool {
	return kind == ItemKindGood || kind == ItemKindSupply
}

// Item representa un producto, insumo o servicio del catálogo.
// Cost se sobreescribe con el costo de la última compra (política last-cost).
type Item struct {
	ID          string
	Kind        string // GOOD | SUPPLY | SERVICE
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta
	Cost        decimal.Decimal // costo de última compra
	Taxable     bool            // aplica IVA en la venta
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
