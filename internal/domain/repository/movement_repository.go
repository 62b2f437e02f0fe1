package repository

import (
	"context"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// MovementRepository es el kardex: solo inserta y consulta, jamás expone
// update ni delete (el libro es append-only).
type MovementRepository interface {
	Create(entry *entity.MovementEntry) error
	// ListByItem devuelve el kardex de un ítem ordenado del más antiguo al
	// más reciente (orden de auditoría), paginable para reanudar lecturas.
	ListByItem(ctx context.Context, itemKind, itemID string, limit, offset int) ([]*entity.MovementEntry, error)
	ListByBranch(ctx context.Context, branchID string, from, to *time.Time, limit, offset int) ([]*entity.MovementEntry, error)
	ListByDateRange(ctx context.Context, from, to time.Time, limit, offset int) ([]*entity.MovementEntry, error)
}
