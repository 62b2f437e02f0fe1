package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustmentRequest body para POST /api/inventory/adjustments. Delta puede
// ser negativo (merma) o positivo (sobrante); Reason es obligatorio.
type AdjustmentRequest struct {
	ItemKind string `json:"item_kind" validate:"required,oneof=GOOD SUPPLY"`
	ItemID   string `json:"item_id" validate:"required"`
	BranchID string `json:"branch_id" validate:"required"`
	Delta    int64  `json:"delta" validate:"required"`
	Reason   string `json:"reason" validate:"required"`
}

// MovementResponse asiento de kardex persistido.
type MovementResponse struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	ItemKind       string    `json:"item_kind"`
	ItemID         string    `json:"item_id"`
	BranchID       string    `json:"branch_id"`
	Quantity       int64     `json:"quantity"`
	QuantityBefore int64     `json:"quantity_before"`
	QuantityAfter  int64     `json:"quantity_after"`
	Reason         string    `json:"reason,omitempty"`
	DocumentRef    string    `json:"document_ref,omitempty"`
	Date           time.Time `json:"date"`
}

// StockResponse registro de stock para listados (stock bajo).
type StockResponse struct {
	ItemKind    string          `json:"item_kind"`
	ItemID      string          `json:"item_id"`
	BranchID    string          `json:"branch_id"`
	Quantity    int64           `json:"quantity"`
	MinQuantity int64           `json:"min_quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}
