package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta. Anular una venta no borra nada: escribe movimientos
// de compensación y pasa la cabecera a VOID.
const (
	SaleStatusActive = "ACTIVE"
	SaleStatusVoid   = "VOID"
)

// Métodos de pago aceptados.
const (
	PaymentCash     = "efectivo"
	PaymentCard     = "tarjeta"
	PaymentTransfer = "transferencia"
)

// Sale representa la cabecera de una venta. Number tiene la forma
// V-<unix UTC> y se asigna dentro de la transacción.
type Sale struct {
	ID            string
	Number        string
	BranchID      string
	WorkerID      string
	CustomerID    string // opcional
	PaymentMethod string
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	Commission    decimal.Decimal
	Status        string // ACTIVE | VOID
	Date          time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SaleLine representa una línea de venta: un producto (GOOD) que descuenta
// stock, o un servicio (SERVICE) referenciado del catálogo o ad-hoc con
// descripción y precio explícitos.
type SaleLine struct {
	ID          string
	SaleID      string
	ItemKind    string // GOOD | SERVICE
	ItemID      string // vacío para servicio ad-hoc
	Description string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
	Taxable     bool
}
