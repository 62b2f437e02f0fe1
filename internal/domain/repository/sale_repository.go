package repository

import "github.com/jhoicas/kardex-api/internal/domain/entity"

// SaleRepository persistencia de ventas. Las líneas y los asientos derivados
// nunca se reescriben; la anulación solo cambia el estado de la cabecera.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateLine(line *entity.SaleLine) error
	GetByID(id string) (*entity.Sale, error)
	GetLines(saleID string) ([]*entity.SaleLine, error)
	// MarkVoid pasa la venta de ACTIVE a VOID. Devuelve ErrConflict si la
	// venta ya estaba anulada (guarda por estado en el UPDATE).
	MarkVoid(id string) error
}
