package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Naturaleza del asiento contable.
const (
	EntryKindIncome  = "INCOME"
	EntryKindExpense = "EXPENSE"
)

// Categorías de asiento.
const (
	CategorySale             = "SALE"
	CategoryPurchase         = "PURCHASE"
	CategoryCommission       = "COMMISSION"
	CategoryOperatingExpense = "OPERATING_EXPENSE"
	CategoryOther            = "OTHER"
)

// AccountingEntry es un asiento inmutable del libro de ingresos/egresos.
// Cada venta genera exactamente un INCOME/SALE por su total y, si hay
// comisión, un EXPENSE/COMMISSION; cada compra genera un EXPENSE/PURCHASE.
// SaleID/PurchaseID enlazan el asiento con el documento de origen.
type AccountingEntry struct {
	ID          string
	Kind        string          // INCOME | EXPENSE
	Category    string          // SALE | PURCHASE | COMMISSION | OPERATING_EXPENSE | OTHER
	Amount      decimal.Decimal // siempre >= 0
	BranchID    string
	SaleID      string // opcional
	PurchaseID  string // opcional
	Description string
	Date        time.Time
	CreatedAt   time.Time
}
