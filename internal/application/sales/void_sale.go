package sales

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/identity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// VoidSale anula una venta: por cada línea GOOD escribe un ADJUST de
// compensación (delta positivo, motivo "anulación de venta") y pasa la
// cabecera a VOID. Los asientos originales del kardex y del libro contable
// quedan intactos; anular dos veces devuelve ErrConflict sin efectos.
// Operación restringida a administradores.
func (uc *CreateSaleUseCase) VoidSale(ctx context.Context, principal identity.Principal, saleID string) error {
	if !principal.HasRole(entity.RoleAdmin) {
		return domain.ErrForbidden
	}
	if saleID == "" {
		return domain.ErrInvalidInput
	}

	return uc.runWithRetry(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		saleRepo repository.SaleRepository,
		_ repository.AccountingRepository,
	) error {
		sale, err := saleRepo.GetByID(saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return fmt.Errorf("%w: venta %s", domain.ErrNotFound, saleID)
		}
		// La guarda por estado vive en el UPDATE: si otra transacción anuló
		// primero, MarkVoid devuelve ErrConflict y no se compensa nada.
		if sale.Status != entity.SaleStatusActive {
			return fmt.Errorf("%w: venta %s ya está anulada", domain.ErrConflict, sale.Number)
		}
		if err := saleRepo.MarkVoid(sale.ID); err != nil {
			return err
		}

		lines, err := saleRepo.GetLines(sale.ID)
		if err != nil {
			return err
		}
		goods := make([]*entity.SaleLine, 0, len(lines))
		for _, l := range lines {
			if l.ItemKind == entity.ItemKindGood {
				goods = append(goods, l)
			}
		}
		sort.Slice(goods, func(i, j int) bool { return goods[i].ItemID < goods[j].ItemID })

		now := time.Now()
		for _, l := range goods {
			stock, err := stockRepo.GetForUpdate(l.ItemKind, l.ItemID, sale.BranchID)
			if err != nil {
				return err
			}
			before := stock.Quantity
			stock.Quantity = before + l.Quantity
			stock.UpdatedAt = now
			if err := stockRepo.Upsert(stock); err != nil {
				return err
			}
			mov := &entity.MovementEntry{
				ID:             uuid.New().String(),
				Type:           entity.MovementTypeADJUST,
				ItemKind:       l.ItemKind,
				ItemID:         l.ItemID,
				BranchID:       sale.BranchID,
				Quantity:       l.Quantity,
				QuantityBefore: before,
				QuantityAfter:  stock.Quantity,
				Reason:         "anulación de venta",
				DocumentRef:    sale.Number,
				CreatedBy:      principal.UserID,
				Date:           now,
				CreatedAt:      now,
			}
			if err := movRepo.Create(mov); err != nil {
				return err
			}
		}
		return nil
	})
}
