package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// KardexUseCase consultas de solo lectura sobre el inventario: historial de
// movimientos de un ítem y lista de stock bajo por sucursal. No calcula
// saldos a partir del kardex; los tableros concilian contra el stock actual.
type KardexUseCase struct {
	movRepo    repository.MovementRepository
	stockRepo  repository.StockRepository
	itemRepo   repository.ItemRepository
	branchRepo repository.BranchRepository
}

// NewKardexUseCase construye el caso de uso de consultas.
func NewKardexUseCase(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	itemRepo repository.ItemRepository,
	branchRepo repository.BranchRepository,
) *KardexUseCase {
	return &KardexUseCase{movRepo: movRepo, stockRepo: stockRepo, itemRepo: itemRepo, branchRepo: branchRepo}
}

// KardexFor devuelve el historial de un ítem del más antiguo al más
// reciente (vista de auditoría).
func (uc *KardexUseCase) KardexFor(ctx context.Context, itemKind, itemID string, page dto.PageRequest) ([]dto.MovementResponse, error) {
	if !entity.IsStockable(itemKind) {
		return nil, fmt.Errorf("%w: clase %q no es almacenable", domain.ErrInvalidInput, itemKind)
	}
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: ítem %s", domain.ErrNotFound, itemID)
	}
	page.DefaultPage()
	entries, err := uc.movRepo.ListByItem(ctx, itemKind, itemID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(entries))
	for _, m := range entries {
		out = append(out, *toMovementResponse(m))
	}
	return out, nil
}

// LowStock devuelve los registros de la sucursal en o por debajo del mínimo.
func (uc *KardexUseCase) LowStock(ctx context.Context, branchID string) ([]dto.StockResponse, error) {
	branch, err := uc.branchRepo.GetByID(branchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, fmt.Errorf("%w: sucursal %s", domain.ErrNotFound, branchID)
	}
	records, err := uc.stockRepo.ListLowStock(ctx, branchID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockResponse, 0, len(records))
	for _, r := range records {
		out = append(out, dto.StockResponse{
			ItemKind:    r.ItemKind,
			ItemID:      r.ItemID,
			BranchID:    r.BranchID,
			Quantity:    r.Quantity,
			MinQuantity: r.MinQuantity,
			UnitCost:    r.UnitCost,
		})
	}
	return out, nil
}
