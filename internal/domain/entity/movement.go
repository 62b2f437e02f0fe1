package entity

import "time"

// Tipos de movimiento del kardex.
const (
	MovementTypeIN     = "IN"     // entrada (compra)
	MovementTypeOUT    = "OUT"    // salida (venta)
	MovementTypeADJUST = "ADJUST" // ajuste manual o compensación de anulación
)

// MovementEntry es un asiento inmutable del kardex: cada cambio de stock
// queda registrado con la foto antes/después. Es la fuente de verdad del
// inventario; no existe operación de update ni delete sobre esta tabla.
//
// Convención de signo en Quantity:
//   - IN:  magnitud positiva, se suma (after = before + qty)
//   - OUT: magnitud positiva, se resta (after = before - qty)
//   - ADJUST: delta con signo, se suma (after = before + qty)
type MovementEntry struct {
	ID             string
	Type           string // IN | OUT | ADJUST
	ItemKind       string // GOOD | SUPPLY
	ItemID         string
	BranchID       string
	Quantity       int64
	QuantityBefore int64
	QuantityAfter  int64
	Reason         string // obligatorio para ADJUST
	DocumentRef    string // número de venta/compra de origen (V-..., COM-...)
	CreatedBy      string
	Date           time.Time
	CreatedAt      time.Time
}

// Delta devuelve el efecto con signo del movimiento sobre el stock.
func (m *MovementEntry) Delta() int64 {
	if m.Type == MovementTypeOUT {
		return -m.Quantity
	}
	return m.Quantity
}

// Consistent verifica la invariante antes/después del asiento.
func (m *MovementEntry) Consistent() bool {
	return m.QuantityAfter == m.QuantityBefore+m.Delta()
}
