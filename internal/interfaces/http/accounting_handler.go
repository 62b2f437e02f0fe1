package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/reports"
)

// AccountingHandler maneja los agregados y la exportación del libro contable
// (protegido).
type AccountingHandler struct {
	uc *reports.SummaryUseCase
}

// NewAccountingHandler construye el handler.
func NewAccountingHandler(uc *reports.SummaryUseCase) *AccountingHandler {
	return &AccountingHandler{uc: uc}
}

// Summary devuelve ingresos, egresos y neto de una sucursal en un período.
// GET /api/accounting/summary/:branch_id?from=2026-01-01&to=2026-01-31
func (h *AccountingHandler) Summary(c *fiber.Ctx) error {
	branchID := c.Params("branch_id")
	from, to, ok := parseDateRange(c)
	if !ok {
		return nil
	}
	summary, err := h.uc.AccountingSummary(c.Context(), branchID, from, to)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(summary)
}

// Export exporta el libro del período como PDF o XLSX.
// GET /api/accounting/export/:branch_id?from=...&to=...&format=pdf|xlsx
func (h *AccountingHandler) Export(c *fiber.Ctx) error {
	branchID := c.Params("branch_id")
	from, to, ok := parseDateRange(c)
	if !ok {
		return nil
	}
	format := c.Query("format", reports.FormatPDF)
	data, contentType, err := h.uc.ExportLedger(c.Context(), branchID, from, to, format)
	if err != nil {
		return domainError(c, err)
	}
	ext := "pdf"
	if format == reports.FormatXLSX {
		ext = "xlsx"
	}
	c.Set("Content-Type", contentType)
	c.Set("Content-Disposition", `attachment; filename="libro-`+branchID+`.`+ext+`"`)
	return c.Send(data)
}

// parseDateRange lee from/to (YYYY-MM-DD) del query string. Sin parámetros,
// el período por defecto es el mes en curso. Devuelve false si ya respondió
// con error.
func parseDateRange(c *fiber.Ctx) (time.Time, time.Time, bool) {
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := now

	if s := c.Query("from"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (YYYY-MM-DD)"})
			return time.Time{}, time.Time{}, false
		}
		from = t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (YYYY-MM-DD)"})
			return time.Time{}, time.Time{}, false
		}
		// Inclusivo: el día "to" completo.
		to = t.Add(24*time.Hour - time.Nanosecond)
	}
	return from, to, true
}
