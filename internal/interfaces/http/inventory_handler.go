package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
)

// InventoryHandler maneja ajustes manuales y consultas de inventario
// (protegido).
type InventoryHandler struct {
	adjustUC *inventory.AdjustmentUseCase
	kardexUC *inventory.KardexUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(adjustUC *inventory.AdjustmentUseCase, kardexUC *inventory.KardexUseCase) *InventoryHandler {
	return &InventoryHandler{adjustUC: adjustUC, kardexUC: kardexUC}
}

// Adjust aplica un ajuste manual con motivo (solo admin).
// POST /api/inventory/adjustments
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if !parseBody(c, &in) {
		return nil
	}
	mov, err := h.adjustUC.RegisterAdjustment(c.Context(), GetPrincipal(c), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(mov)
}

// Kardex devuelve el historial de movimientos de un ítem, del más antiguo al
// más reciente.
// GET /api/inventory/kardex/:item_kind/:item_id?limit=&offset=
func (h *InventoryHandler) Kardex(c *fiber.Ctx) error {
	itemKind := c.Params("item_kind")
	itemID := c.Params("item_id")
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	entries, err := h.kardexUC.KardexFor(c.Context(), itemKind, itemID, page)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(entries)
}

// LowStock lista el stock en o por debajo del mínimo de una sucursal.
// GET /api/inventory/low-stock/:branch_id
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	branchID := c.Params("branch_id")
	records, err := h.kardexUC.LowStock(c.Context(), branchID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(records)
}
