package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest una línea de venta. Para GOOD: item_id y quantity. Para
// SERVICE: item_id del catálogo, o description + unit_price para un servicio
// ad-hoc (taxable lo decide el caller en ese caso).
type SaleLineRequest struct {
	ItemKind    string          `json:"item_kind" validate:"required,oneof=GOOD SERVICE"`
	ItemID      string          `json:"item_id,omitempty"`
	Description string          `json:"description,omitempty"`
	Quantity    int64           `json:"quantity" validate:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"` // cero = tomar precio del catálogo
	Taxable     bool            `json:"taxable,omitempty"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	BranchID      string            `json:"branch_id" validate:"required"`
	CustomerID    string            `json:"customer_id,omitempty"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=efectivo tarjeta transferencia"`
	Lines         []SaleLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// SaleLineResponse línea de venta persistida.
type SaleLineResponse struct {
	ID          string          `json:"id"`
	ItemKind    string          `json:"item_kind"`
	ItemID      string          `json:"item_id,omitempty"`
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Taxable     bool            `json:"taxable"`
}

// SaleResponse venta completa con totales y comisión.
type SaleResponse struct {
	ID            string             `json:"id"`
	Number        string             `json:"number"`
	BranchID      string             `json:"branch_id"`
	WorkerID      string             `json:"worker_id"`
	CustomerID    string             `json:"customer_id,omitempty"`
	PaymentMethod string             `json:"payment_method"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Tax           decimal.Decimal    `json:"tax"`
	Total         decimal.Decimal    `json:"total"`
	Commission    decimal.Decimal    `json:"commission"`
	Status        string             `json:"status"`
	Date          time.Time          `json:"date"`
	Lines         []SaleLineResponse `json:"lines"`
}
