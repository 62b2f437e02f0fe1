package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// SummaryUseCase agregados del libro contable: resumen de período y
// exportación a PDF/XLSX vía los renderers registrados.
type SummaryUseCase struct {
	acctRepo   repository.AccountingRepository
	branchRepo repository.BranchRepository
	renderers  map[string]LedgerRenderer
}

// NewSummaryUseCase construye el caso de uso. renderers mapea formato
// ("pdf", "xlsx") a su renderer.
func NewSummaryUseCase(
	acctRepo repository.AccountingRepository,
	branchRepo repository.BranchRepository,
	renderers map[string]LedgerRenderer,
) *SummaryUseCase {
	return &SummaryUseCase{acctRepo: acctRepo, branchRepo: branchRepo, renderers: renderers}
}

// AccountingSummary devuelve ingresos, egresos, neto y número de asientos de
// una sucursal en la ventana [from, to].
func (uc *SummaryUseCase) AccountingSummary(ctx context.Context, branchID string, from, to time.Time) (*dto.AccountingSummaryResponse, error) {
	branch, err := uc.branchRepo.GetByID(branchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, fmt.Errorf("%w: sucursal %s", domain.ErrNotFound, branchID)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: rango de fechas invertido", domain.ErrInvalidInput)
	}
	summary, err := uc.acctRepo.Summary(ctx, branchID, from, to)
	if err != nil {
		return nil, err
	}
	return &dto.AccountingSummaryResponse{
		BranchID:     branchID,
		From:         from,
		To:           to,
		TotalIncome:  summary.Income,
		TotalExpense: summary.Expense,
		Net:          summary.Income.Sub(summary.Expense),
		Count:        summary.Count,
	}, nil
}

// ExportLedger renderiza los asientos del período en el formato pedido.
// Devuelve los bytes y el content-type.
func (uc *SummaryUseCase) ExportLedger(ctx context.Context, branchID string, from, to time.Time, format string) ([]byte, string, error) {
	renderer, ok := uc.renderers[format]
	if !ok {
		return nil, "", fmt.Errorf("%w: formato %q no soportado", domain.ErrInvalidInput, format)
	}
	branch, err := uc.branchRepo.GetByID(branchID)
	if err != nil {
		return nil, "", err
	}
	if branch == nil {
		return nil, "", fmt.Errorf("%w: sucursal %s", domain.ErrNotFound, branchID)
	}
	entries, err := uc.acctRepo.ListByBranch(ctx, branchID, from, to)
	if err != nil {
		return nil, "", err
	}

	doc := &LedgerDocument{
		Title:      "Libro de ingresos y egresos",
		BranchName: branch.Name,
		From:       from,
		To:         to,
		Rows:       make([]LedgerRow, 0, len(entries)),
	}
	for _, e := range entries {
		ref := e.SaleID
		if ref == "" {
			ref = e.PurchaseID
		}
		doc.Rows = append(doc.Rows, LedgerRow{
			Date:        e.Date,
			Kind:        e.Kind,
			Category:    e.Category,
			Description: e.Description,
			DocumentRef: ref,
			Amount:      e.Amount,
		})
		if e.Kind == entity.EntryKindIncome {
			doc.TotalIncome = doc.TotalIncome.Add(e.Amount)
		} else {
			doc.TotalExpense = doc.TotalExpense.Add(e.Amount)
		}
	}
	doc.Net = doc.TotalIncome.Sub(doc.TotalExpense)

	data, err := renderer.Render(doc)
	if err != nil {
		return nil, "", fmt.Errorf("exportar libro: %w", err)
	}
	contentType := "application/pdf"
	if format == FormatXLSX {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return data, contentType, nil
}
