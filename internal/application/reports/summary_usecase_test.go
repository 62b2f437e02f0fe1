package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/apptest"
	"github.com/jhoicas/kardex-api/internal/application/reports"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

const branchID = "b-0001"

// recordingRenderer captura el documento que recibe y devuelve bytes fijos.
type recordingRenderer struct {
	doc *reports.LedgerDocument
}

func (r *recordingRenderer) Render(doc *reports.LedgerDocument) ([]byte, error) {
	r.doc = doc
	return []byte("render"), nil
}

func seedStore() *apptest.Store {
	s := apptest.NewStore()
	s.Branches[branchID] = &entity.Branch{ID: branchID, Name: "Centro"}
	base := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	s.Entries = []*entity.AccountingEntry{
		{ID: "e1", Kind: entity.EntryKindIncome, Category: entity.CategorySale,
			Amount: decimal.NewFromInt(50000), BranchID: branchID, SaleID: "s1", Date: base},
		{ID: "e2", Kind: entity.EntryKindExpense, Category: entity.CategoryCommission,
			Amount: decimal.NewFromInt(5000), BranchID: branchID, SaleID: "s1", Date: base},
		{ID: "e3", Kind: entity.EntryKindExpense, Category: entity.CategoryPurchase,
			Amount: decimal.NewFromInt(20000), BranchID: branchID, PurchaseID: "c1", Date: base.AddDate(0, 0, 1)},
		// Fuera de la ventana consultada:
		{ID: "e4", Kind: entity.EntryKindIncome, Category: entity.CategorySale,
			Amount: decimal.NewFromInt(99999), BranchID: branchID, Date: base.AddDate(0, 2, 0)},
		// Otra sucursal:
		{ID: "e5", Kind: entity.EntryKindIncome, Category: entity.CategorySale,
			Amount: decimal.NewFromInt(77777), BranchID: "b-otra", Date: base},
	}
	return s
}

func window() (time.Time, time.Time) {
	return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)
}

func TestAccountingSummary_AgregaPorSucursalYPeriodo(t *testing.T) {
	s := seedStore()
	uc := reports.NewSummaryUseCase(&apptest.AccountingRepo{S: s}, &apptest.BranchRepo{S: s}, nil)
	from, to := window()

	resp, err := uc.AccountingSummary(context.Background(), branchID, from, to)
	require.NoError(t, err)

	assert.True(t, resp.TotalIncome.Equal(decimal.NewFromInt(50000)), "ingresos: %s", resp.TotalIncome)
	assert.True(t, resp.TotalExpense.Equal(decimal.NewFromInt(25000)), "egresos: %s", resp.TotalExpense)
	assert.True(t, resp.Net.Equal(decimal.NewFromInt(25000)), "neto: %s", resp.Net)
	assert.Equal(t, int64(3), resp.Count)
}

func TestAccountingSummary_Errores(t *testing.T) {
	s := seedStore()
	uc := reports.NewSummaryUseCase(&apptest.AccountingRepo{S: s}, &apptest.BranchRepo{S: s}, nil)
	from, to := window()

	_, err := uc.AccountingSummary(context.Background(), "no-existe", from, to)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.AccountingSummary(context.Background(), branchID, to, from)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "rango invertido")
}

func TestExportLedger_ArmaElDocumentoYDelega(t *testing.T) {
	s := seedStore()
	rend := &recordingRenderer{}
	uc := reports.NewSummaryUseCase(&apptest.AccountingRepo{S: s}, &apptest.BranchRepo{S: s},
		map[string]reports.LedgerRenderer{reports.FormatPDF: rend})
	from, to := window()

	data, contentType, err := uc.ExportLedger(context.Background(), branchID, from, to, reports.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, []byte("render"), data)
	assert.Equal(t, "application/pdf", contentType)

	require.NotNil(t, rend.doc)
	assert.Equal(t, "Centro", rend.doc.BranchName)
	assert.Len(t, rend.doc.Rows, 3)
	assert.True(t, rend.doc.TotalIncome.Equal(decimal.NewFromInt(50000)))
	assert.True(t, rend.doc.TotalExpense.Equal(decimal.NewFromInt(25000)))
	assert.True(t, rend.doc.Net.Equal(decimal.NewFromInt(25000)))
	// La referencia de documento toma la venta o la compra de origen.
	assert.Equal(t, "s1", rend.doc.Rows[0].DocumentRef)
	assert.Equal(t, "c1", rend.doc.Rows[2].DocumentRef)
}

func TestExportLedger_FormatoNoSoportado(t *testing.T) {
	s := seedStore()
	uc := reports.NewSummaryUseCase(&apptest.AccountingRepo{S: s}, &apptest.BranchRepo{S: s},
		map[string]reports.LedgerRenderer{})
	from, to := window()

	_, _, err := uc.ExportLedger(context.Background(), branchID, from, to, "csv")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
