package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountingSummaryResponse resumen de ingresos/egresos de una sucursal.
type AccountingSummaryResponse struct {
	BranchID     string          `json:"branch_id"`
	From         time.Time       `json:"from"`
	To           time.Time       `json:"to"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Net          decimal.Decimal `json:"net"`
	Count        int64           `json:"count"`
}

// AccountingEntryResponse asiento del libro para listados y exportación.
type AccountingEntryResponse struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	BranchID    string          `json:"branch_id"`
	SaleID      string          `json:"sale_id,omitempty"`
	PurchaseID  string          `json:"purchase_id,omitempty"`
	Description string          `json:"description,omitempty"`
	Date        time.Time       `json:"date"`
}
