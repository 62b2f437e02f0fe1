package reports

import (
	"time"

	"github.com/shopspring/decimal"
)

// Formatos de exportación soportados.
const (
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

// LedgerRow fila plana del libro contable para renderizar.
type LedgerRow struct {
	Date        time.Time
	Kind        string
	Category    string
	Description string
	DocumentRef string
	Amount      decimal.Decimal
}

// LedgerDocument documento listo para renderizar: título, período y filas
// con los totales ya calculados.
type LedgerDocument struct {
	Title        string
	BranchName   string
	From, To     time.Time
	Rows         []LedgerRow
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Net          decimal.Decimal
}

// LedgerRenderer convierte el libro en un flujo de bytes (PDF, XLSX).
// Colaborador externo del núcleo: la capa transaccional nunca lo invoca.
type LedgerRenderer interface {
	Render(doc *LedgerDocument) ([]byte, error)
}
