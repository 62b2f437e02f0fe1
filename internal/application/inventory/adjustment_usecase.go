package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/identity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// AdjustmentUseCase registra correcciones manuales de stock (merma, rotura,
// conteo físico). Todo ajuste exige un motivo; no toca el libro contable.
// Operación restringida a administradores.
type AdjustmentUseCase struct {
	txRunner     TxRunner
	itemRepo     repository.ItemRepository
	branchRepo   repository.BranchRepository
	maxTxRetries int
}

// NewAdjustmentUseCase construye el caso de uso.
func NewAdjustmentUseCase(txRunner TxRunner, itemRepo repository.ItemRepository, branchRepo repository.BranchRepository, maxTxRetries int) *AdjustmentUseCase {
	if maxTxRetries <= 0 {
		maxTxRetries = 3
	}
	return &AdjustmentUseCase{txRunner: txRunner, itemRepo: itemRepo, branchRepo: branchRepo, maxTxRetries: maxTxRetries}
}

// RegisterAdjustment aplica un delta con signo sobre el stock y escribe un
// único asiento ADJUST. Rechaza motivo en blanco y resultados negativos
// (salvo sucursal con stock negativo habilitado). Un ajuste fallido no deja
// rastro ni en el stock ni en el kardex.
func (uc *AdjustmentUseCase) RegisterAdjustment(ctx context.Context, principal identity.Principal, in dto.AdjustmentRequest) (*dto.MovementResponse, error) {
	if !principal.HasRole(entity.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	if strings.TrimSpace(in.Reason) == "" {
		return nil, fmt.Errorf("%w: el motivo del ajuste es obligatorio", domain.ErrInvalidInput)
	}
	if in.Delta == 0 {
		return nil, fmt.Errorf("%w: delta no puede ser cero", domain.ErrInvalidInput)
	}
	if !entity.IsStockable(in.ItemKind) {
		return nil, fmt.Errorf("%w: clase %q no es almacenable", domain.ErrInvalidInput, in.ItemKind)
	}

	item, err := uc.itemRepo.GetByID(in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.Kind != in.ItemKind {
		return nil, fmt.Errorf("%w: ítem %s (%s)", domain.ErrNotFound, in.ItemID, in.ItemKind)
	}
	branch, err := uc.branchRepo.GetByID(in.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, fmt.Errorf("%w: sucursal %s", domain.ErrNotFound, in.BranchID)
	}

	var mov *entity.MovementEntry
	run := func(movRepo repository.MovementRepository, stockRepo repository.StockRepository) error {
		stock, err := stockRepo.GetForUpdate(in.ItemKind, in.ItemID, in.BranchID)
		if err != nil {
			return err
		}
		before := stock.Quantity
		after := before + in.Delta
		if after < 0 && in.Delta < 0 && !branch.AllowNegativeStock {
			return fmt.Errorf("%w: ítem %s (disponible %d, ajuste %d)",
				domain.ErrInsufficientStock, in.ItemID, before, in.Delta)
		}
		now := time.Now()
		stock.Quantity = after
		stock.UpdatedAt = now
		if err := stockRepo.Upsert(stock); err != nil {
			return err
		}
		mov = &entity.MovementEntry{
			ID:             uuid.New().String(),
			Type:           entity.MovementTypeADJUST,
			ItemKind:       in.ItemKind,
			ItemID:         in.ItemID,
			BranchID:       in.BranchID,
			Quantity:       in.Delta,
			QuantityBefore: before,
			QuantityAfter:  after,
			Reason:         strings.TrimSpace(in.Reason),
			CreatedBy:      principal.UserID,
			Date:           now,
			CreatedAt:      now,
		}
		return movRepo.Create(mov)
	}

	for attempt := 0; attempt < uc.maxTxRetries; attempt++ {
		err = uc.txRunner.Run(ctx, run)
		if err == nil || !errors.Is(err, domain.ErrTxConflict) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return toMovementResponse(mov), nil
}

func toMovementResponse(m *entity.MovementEntry) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:             m.ID,
		Type:           m.Type,
		ItemKind:       m.ItemKind,
		ItemID:         m.ItemID,
		BranchID:       m.BranchID,
		Quantity:       m.Quantity,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		Reason:         m.Reason,
		DocumentRef:    m.DocumentRef,
		Date:           m.Date,
	}
}
