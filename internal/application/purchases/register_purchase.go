package purchases

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/identity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// Config parámetros del orquestador de compras.
type Config struct {
	TaxRate      decimal.Decimal // IVA sobre el subtotal de la compra
	MaxTxRetries int
}

// RegisterPurchaseUseCase orquesta una compra a proveedor: por cada línea
// suma stock con bloqueo de fila, escribe la entrada en el kardex y
// sobreescribe el costo del ítem con el de la línea (política last-cost,
// sin promedios ponderados). Registra además el egreso en el libro contable.
type RegisterPurchaseUseCase struct {
	txRunner     TxRunner
	itemRepo     repository.ItemRepository
	branchRepo   repository.BranchRepository
	supplierRepo repository.SupplierRepository
	cfg          Config
}

// NewRegisterPurchaseUseCase construye el caso de uso.
func NewRegisterPurchaseUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	branchRepo repository.BranchRepository,
	supplierRepo repository.SupplierRepository,
	cfg Config,
) *RegisterPurchaseUseCase {
	if cfg.TaxRate.IsZero() {
		cfg.TaxRate = decimal.NewFromFloat(0.19)
	}
	if cfg.MaxTxRetries <= 0 {
		cfg.MaxTxRetries = 3
	}
	return &RegisterPurchaseUseCase{
		txRunner:     txRunner,
		itemRepo:     itemRepo,
		branchRepo:   branchRepo,
		supplierRepo: supplierRepo,
		cfg:          cfg,
	}
}

// RegisterPurchase valida fuera de la transacción y ejecuta la recepción de
// mercancía dentro de TxRunner.RunPurchase. Las entradas siempre se aceptan
// (recibir stock nunca falla por política de negativo). El número
// COM-<unix UTC> se asigna dentro de la unidad atómica.
func (uc *RegisterPurchaseUseCase) RegisterPurchase(ctx context.Context, principal identity.Principal, in dto.RegisterPurchaseRequest) (*dto.PurchaseResponse, error) {
	if !principal.HasRole(entity.RoleAdmin, entity.RoleWorker) {
		return nil, domain.ErrForbidden
	}
	if in.BranchID == "" || in.SupplierID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}

	branch, err := uc.branchRepo.GetByID(in.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, fmt.Errorf("%w: sucursal %s", domain.ErrNotFound, in.BranchID)
	}
	supplier, err := uc.supplierRepo.GetByID(in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, in.SupplierID)
	}

	// Validar líneas contra el catálogo: solo clases almacenables.
	for _, l := range in.Lines {
		if l.Quantity <= 0 || l.UnitCost.LessThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: cantidad o costo inválido en ítem %s", domain.ErrInvalidInput, l.ItemID)
		}
		if !entity.IsStockable(l.ItemKind) {
			return nil, fmt.Errorf("%w: clase %q no es almacenable", domain.ErrInvalidInput, l.ItemKind)
		}
		item, err := uc.itemRepo.GetByID(l.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil || item.Kind != l.ItemKind {
			return nil, fmt.Errorf("%w: ítem %s (%s)", domain.ErrNotFound, l.ItemID, l.ItemKind)
		}
	}

	var subtotal decimal.Decimal
	for _, l := range in.Lines {
		subtotal = subtotal.Add(l.UnitCost.Mul(decimal.NewFromInt(l.Quantity)))
	}
	tax := subtotal.Mul(uc.cfg.TaxRate).Round(2)
	total := subtotal.Add(tax)

	// Orden determinista de candados: (clase, ítem) ascendente.
	sorted := make([]dto.PurchaseLineRequest, len(in.Lines))
	copy(sorted, in.Lines)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ItemKind != sorted[j].ItemKind {
			return sorted[i].ItemKind < sorted[j].ItemKind
		}
		return sorted[i].ItemID < sorted[j].ItemID
	})

	var purchase *entity.Purchase
	var persisted []*entity.PurchaseLine
	err = uc.runWithRetry(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		itemRepo repository.ItemRepository,
		purchaseRepo repository.PurchaseRepository,
		acctRepo repository.AccountingRepository,
	) error {
		now := time.Now()
		number := fmt.Sprintf("COM-%d", now.UTC().UnixNano()/1e3)

		purchase = &entity.Purchase{
			ID:             uuid.New().String(),
			Number:         number,
			BranchID:       in.BranchID,
			SupplierID:     in.SupplierID,
			DocumentType:   in.DocumentType,
			DocumentNumber: in.DocumentNumber,
			Subtotal:       subtotal,
			Tax:            tax,
			Total:          total,
			Date:           now,
			CreatedAt:      now,
		}
		if err := purchaseRepo.Create(purchase); err != nil {
			return err
		}

		persisted = persisted[:0]
		for _, l := range sorted {
			line := &entity.PurchaseLine{
				ID:         uuid.New().String(),
				PurchaseID: purchase.ID,
				ItemKind:   l.ItemKind,
				ItemID:     l.ItemID,
				Quantity:   l.Quantity,
				UnitCost:   l.UnitCost,
				Subtotal:   l.UnitCost.Mul(decimal.NewFromInt(l.Quantity)),
			}
			if err := purchaseRepo.CreateLine(line); err != nil {
				return err
			}
			persisted = append(persisted, line)

			stock, err := stockRepo.GetForUpdate(l.ItemKind, l.ItemID, in.BranchID)
			if err != nil {
				return err
			}
			before := stock.Quantity
			stock.Quantity = before + l.Quantity
			stock.UnitCost = l.UnitCost // last-cost
			stock.UpdatedAt = now
			if err := stockRepo.Upsert(stock); err != nil {
				return err
			}
			if err := itemRepo.UpdateCost(l.ItemID, l.UnitCost); err != nil {
				return err
			}
			mov := &entity.MovementEntry{
				ID:             uuid.New().String(),
				Type:           entity.MovementTypeIN,
				ItemKind:       l.ItemKind,
				ItemID:         l.ItemID,
				BranchID:       in.BranchID,
				Quantity:       l.Quantity,
				QuantityBefore: before,
				QuantityAfter:  stock.Quantity,
				DocumentRef:    number,
				CreatedBy:      principal.UserID,
				Date:           now,
				CreatedAt:      now,
			}
			if err := movRepo.Create(mov); err != nil {
				return err
			}
		}

		// Egreso contable por el total de la compra.
		expense := &entity.AccountingEntry{
			ID:          uuid.New().String(),
			Kind:        entity.EntryKindExpense,
			Category:    entity.CategoryPurchase,
			Amount:      total,
			BranchID:    in.BranchID,
			PurchaseID:  purchase.ID,
			Description: "compra " + number,
			Date:        now,
			CreatedAt:   now,
		}
		return acctRepo.Create(expense)
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseResponse(purchase, persisted), nil
}

func (uc *RegisterPurchaseUseCase) runWithRetry(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	itemRepo repository.ItemRepository,
	purchaseRepo repository.PurchaseRepository,
	acctRepo repository.AccountingRepository,
) error) error {
	var err error
	for attempt := 0; attempt < uc.cfg.MaxTxRetries; attempt++ {
		err = uc.txRunner.RunPurchase(ctx, fn)
		if err == nil || !errors.Is(err, domain.ErrTxConflict) {
			return err
		}
	}
	return err
}

func toPurchaseResponse(p *entity.Purchase, lines []*entity.PurchaseLine) *dto.PurchaseResponse {
	resp := &dto.PurchaseResponse{
		ID:             p.ID,
		Number:         p.Number,
		BranchID:       p.BranchID,
		SupplierID:     p.SupplierID,
		DocumentType:   p.DocumentType,
		DocumentNumber: p.DocumentNumber,
		Subtotal:       p.Subtotal,
		Tax:            p.Tax,
		Total:          p.Total,
		Date:           p.Date,
		Lines:          make([]dto.PurchaseLineResponse, 0, len(lines)),
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.PurchaseLineResponse{
			ID:       l.ID,
			ItemKind: l.ItemKind,
			ItemID:   l.ItemID,
			Quantity: l.Quantity,
			UnitCost: l.UnitCost,
			Subtotal: l.Subtotal,
		})
	}
	return resp
}
