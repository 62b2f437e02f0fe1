package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseLineRequest una línea de compra (producto o insumo).
type PurchaseLineRequest struct {
	ItemKind string          `json:"item_kind" validate:"required,oneof=GOOD SUPPLY"`
	ItemID   string          `json:"item_id" validate:"required"`
	Quantity int64           `json:"quantity" validate:"required,gt=0"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// RegisterPurchaseRequest body para POST /api/purchases.
type RegisterPurchaseRequest struct {
	BranchID       string                `json:"branch_id" validate:"required"`
	SupplierID     string                `json:"supplier_id" validate:"required"`
	DocumentType   string                `json:"document_type,omitempty"`
	DocumentNumber string                `json:"document_number,omitempty"`
	Lines          []PurchaseLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// PurchaseLineResponse línea de compra persistida.
type PurchaseLineResponse struct {
	ID       string          `json:"id"`
	ItemKind string          `json:"item_kind"`
	ItemID   string          `json:"item_id"`
	Quantity int64           `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// PurchaseResponse compra completa con totales.
type PurchaseResponse struct {
	ID             string                 `json:"id"`
	Number         string                 `json:"number"`
	BranchID       string                 `json:"branch_id"`
	SupplierID     string                 `json:"supplier_id"`
	DocumentType   string                 `json:"document_type,omitempty"`
	DocumentNumber string                 `json:"document_number,omitempty"`
	Subtotal       decimal.Decimal        `json:"subtotal"`
	Tax            decimal.Decimal        `json:"tax"`
	Total          decimal.Decimal        `json:"total"`
	Date           time.Time              `json:"date"`
	Lines          []PurchaseLineResponse `json:"lines"`
}
