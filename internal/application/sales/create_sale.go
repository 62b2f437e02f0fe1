package sales

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/identity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// Config parámetros del orquestador de ventas.
type Config struct {
	TaxRate      decimal.Decimal // tasa de IVA sobre líneas gravadas (0.19 = 19%)
	MaxTxRetries int             // reintentos ante ErrTxConflict
}

// DefaultConfig valores por defecto: IVA 19%, 3 reintentos.
func DefaultConfig() Config {
	return Config{TaxRate: decimal.NewFromFloat(0.19), MaxTxRetries: 3}
}

// CreateSaleUseCase orquesta una venta: valida trabajador/sucursal/líneas,
// descuenta stock con bloqueo de fila, escribe el kardex, la cabecera con
// sus líneas y los asientos contables (ingreso + comisión) en una sola
// transacción. Falla completa o confirma completa.
type CreateSaleUseCase struct {
	txRunner     TxRunner
	itemRepo     repository.ItemRepository
	branchRepo   repository.BranchRepository
	workerRepo   repository.WorkerRepository
	customerRepo repository.CustomerRepository
	cfg          Config
}

// NewCreateSaleUseCase construye el caso de uso.
func NewCreateSaleUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	branchRepo repository.BranchRepository,
	workerRepo repository.WorkerRepository,
	customerRepo repository.CustomerRepository,
	cfg Config,
) *CreateSaleUseCase {
	if cfg.TaxRate.IsZero() {
		cfg.TaxRate = DefaultConfig().TaxRate
	}
	if cfg.MaxTxRetries <= 0 {
		cfg.MaxTxRetries = DefaultConfig().MaxTxRetries
	}
	return &CreateSaleUseCase{
		txRunner:     txRunner,
		itemRepo:     itemRepo,
		branchRepo:   branchRepo,
		workerRepo:   workerRepo,
		customerRepo: customerRepo,
		cfg:          cfg,
	}
}

// resolvedLine línea validada con precio, impuesto y subtotal resueltos.
type resolvedLine struct {
	itemKind    string
	itemID      string
	description string
	quantity    int64
	unitPrice   decimal.Decimal
	subtotal    decimal.Decimal
	taxable     bool
}

// CreateSale valida fuera de la transacción (solo lecturas de catálogo) y
// ejecuta la parte mutante dentro de TxRunner.RunSale. El número V-<unix UTC>
// se asigna dentro de la unidad atómica. Ante ErrTxConflict reintenta la
// transacción completa, nunca pasos sueltos.
func (uc *CreateSaleUseCase) CreateSale(ctx context.Context, principal identity.Principal, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if !principal.HasRole(entity.RoleAdmin, entity.RoleWorker) {
		return nil, domain.ErrForbidden
	}
	if in.BranchID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}

	// Trabajador: debe existir, estar activo y tener rol de ventas.
	worker, err := uc.workerRepo.GetByID(principal.UserID)
	if err != nil {
		return nil, err
	}
	if worker == nil {
		return nil, fmt.Errorf("%w: trabajador %s", domain.ErrNotFound, principal.UserID)
	}
	if worker.Status != "active" || (worker.Role != entity.RoleAdmin && worker.Role != entity.RoleWorker) {
		return nil, domain.ErrForbidden
	}

	branch, err := uc.branchRepo.GetByID(in.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, fmt.Errorf("%w: sucursal %s", domain.ErrNotFound, in.BranchID)
	}

	if in.CustomerID != "" {
		customer, err := uc.customerRepo.GetByID(in.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, in.CustomerID)
		}
	}

	lines, err := uc.resolveLines(in.Lines)
	if err != nil {
		return nil, err
	}

	// Totales: subtotal, IVA solo sobre líneas gravadas, comisión sobre total.
	var subtotal, tax decimal.Decimal
	for _, l := range lines {
		subtotal = subtotal.Add(l.subtotal)
		if l.taxable {
			tax = tax.Add(l.subtotal.Mul(uc.cfg.TaxRate))
		}
	}
	tax = tax.Round(2)
	total := subtotal.Add(tax)
	commission := total.Mul(worker.CommissionPercent).Div(decimal.NewFromInt(100)).Round(2)

	var sale *entity.Sale
	var persisted []*entity.SaleLine
	err = uc.runWithRetry(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		saleRepo repository.SaleRepository,
		acctRepo repository.AccountingRepository,
	) error {
		now := time.Now()
		number := fmt.Sprintf("V-%d", now.UTC().UnixNano()/1e3)

		sale = &entity.Sale{
			ID:            uuid.New().String(),
			Number:        number,
			BranchID:      in.BranchID,
			WorkerID:      worker.ID,
			CustomerID:    in.CustomerID,
			PaymentMethod: in.PaymentMethod,
			Subtotal:      subtotal,
			Tax:           tax,
			Total:         total,
			Commission:    commission,
			Status:        entity.SaleStatusActive,
			Date:          now,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := saleRepo.Create(sale); err != nil {
			return err
		}
		persisted = persisted[:0]
		for _, l := range lines {
			line := &entity.SaleLine{
				ID:          uuid.New().String(),
				SaleID:      sale.ID,
				ItemKind:    l.itemKind,
				ItemID:      l.itemID,
				Description: l.description,
				Quantity:    l.quantity,
				UnitPrice:   l.unitPrice,
				Subtotal:    l.subtotal,
				Taxable:     l.taxable,
			}
			if err := saleRepo.CreateLine(line); err != nil {
				return err
			}
			persisted = append(persisted, line)
		}

		// Salidas de stock por cada línea GOOD, en orden determinista de
		// ítem para evitar deadlocks entre ventas concurrentes.
		for _, l := range sortGoods(lines) {
			stock, err := stockRepo.GetForUpdate(l.itemKind, l.itemID, in.BranchID)
			if err != nil {
				return err
			}
			if stock.Quantity < l.quantity && !branch.AllowNegativeStock {
				return fmt.Errorf("%w: ítem %s (disponible %d, solicitado %d)",
					domain.ErrInsufficientStock, l.itemID, stock.Quantity, l.quantity)
			}
			before := stock.Quantity
			stock.Quantity = before - l.quantity
			stock.UpdatedAt = now
			if err := stockRepo.Upsert(stock); err != nil {
				return err
			}
			mov := &entity.MovementEntry{
				ID:             uuid.New().String(),
				Type:           entity.MovementTypeOUT,
				ItemKind:       l.itemKind,
				ItemID:         l.itemID,
				BranchID:       in.BranchID,
				Quantity:       l.quantity,
				QuantityBefore: before,
				QuantityAfter:  stock.Quantity,
				DocumentRef:    number,
				CreatedBy:      worker.ID,
				Date:           now,
				CreatedAt:      now,
			}
			if err := movRepo.Create(mov); err != nil {
				return err
			}
		}

		// Asientos contables: ingreso por el total y egreso por la comisión.
		income := &entity.AccountingEntry{
			ID:          uuid.New().String(),
			Kind:        entity.EntryKindIncome,
			Category:    entity.CategorySale,
			Amount:      total,
			BranchID:    in.BranchID,
			SaleID:      sale.ID,
			Description: "venta " + number,
			Date:        now,
			CreatedAt:   now,
		}
		if err := acctRepo.Create(income); err != nil {
			return err
		}
		if commission.GreaterThan(decimal.Zero) {
			expense := &entity.AccountingEntry{
				ID:          uuid.New().String(),
				Kind:        entity.EntryKindExpense,
				Category:    entity.CategoryCommission,
				Amount:      commission,
				BranchID:    in.BranchID,
				SaleID:      sale.ID,
				Description: "comisión venta " + number,
				Date:        now,
				CreatedAt:   now,
			}
			if err := acctRepo.Create(expense); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, persisted), nil
}

// resolveLines valida cada línea contra el catálogo (solo lectura, fuera de
// la tx): GOOD exige ítem existente de esa clase; SERVICE toma precio y
// bandera de IVA del catálogo, o los trae el caller en un servicio ad-hoc.
func (uc *CreateSaleUseCase) resolveLines(in []dto.SaleLineRequest) ([]resolvedLine, error) {
	lines := make([]resolvedLine, 0, len(in))
	for _, req := range in {
		if req.Quantity <= 0 {
			return nil, fmt.Errorf("%w: cantidad debe ser positiva", domain.ErrInvalidInput)
		}
		switch req.ItemKind {
		case entity.ItemKindGood:
			if req.ItemID == "" {
				return nil, fmt.Errorf("%w: línea GOOD sin item_id", domain.ErrInvalidInput)
			}
			item, err := uc.itemRepo.GetByID(req.ItemID)
			if err != nil {
				return nil, err
			}
			if item == nil || item.Kind != entity.ItemKindGood {
				return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, req.ItemID)
			}
			price := req.UnitPrice
			if price.IsZero() {
				price = item.Price
			}
			if price.LessThan(decimal.Zero) {
				return nil, fmt.Errorf("%w: precio negativo", domain.ErrInvalidInput)
			}
			lines = append(lines, resolvedLine{
				itemKind:    entity.ItemKindGood,
				itemID:      item.ID,
				description: item.Name,
				quantity:    req.Quantity,
				unitPrice:   price,
				subtotal:    price.Mul(decimal.NewFromInt(req.Quantity)),
				taxable:     item.Taxable,
			})
		case entity.ItemKindService:
			if req.ItemID != "" {
				item, err := uc.itemRepo.GetByID(req.ItemID)
				if err != nil {
					return nil, err
				}
				if item == nil || item.Kind != entity.ItemKindService {
					return nil, fmt.Errorf("%w: servicio %s", domain.ErrNotFound, req.ItemID)
				}
				price := req.UnitPrice
				if price.IsZero() {
					price = item.Price
				}
				lines = append(lines, resolvedLine{
					itemKind:    entity.ItemKindService,
					itemID:      item.ID,
					description: item.Name,
					quantity:    req.Quantity,
					unitPrice:   price,
					subtotal:    price.Mul(decimal.NewFromInt(req.Quantity)),
					taxable:     item.Taxable,
				})
				continue
			}
			// Servicio ad-hoc: descripción y precio explícitos obligatorios.
			if strings.TrimSpace(req.Description) == "" || !req.UnitPrice.GreaterThan(decimal.Zero) {
				return nil, fmt.Errorf("%w: servicio ad-hoc requiere descripción y precio", domain.ErrInvalidInput)
			}
			lines = append(lines, resolvedLine{
				itemKind:    entity.ItemKindService,
				description: req.Description,
				quantity:    req.Quantity,
				unitPrice:   req.UnitPrice,
				subtotal:    req.UnitPrice.Mul(decimal.NewFromInt(req.Quantity)),
				taxable:     req.Taxable,
			})
		default:
			return nil, fmt.Errorf("%w: clase de línea %q", domain.ErrInvalidInput, req.ItemKind)
		}
	}
	return lines, nil
}

// sortGoods filtra las líneas GOOD y las ordena por ítem ascendente: todas
// las transacciones adquieren los candados de fila en el mismo orden.
func sortGoods(lines []resolvedLine) []resolvedLine {
	goods := make([]resolvedLine, 0, len(lines))
	for _, l := range lines {
		if l.itemKind == entity.ItemKindGood {
			goods = append(goods, l)
		}
	}
	sort.Slice(goods, func(i, j int) bool { return goods[i].itemID < goods[j].itemID })
	return goods
}

// runWithRetry reintenta la transacción completa ante ErrTxConflict, con un
// tope configurado. Cualquier otro error corta de inmediato.
func (uc *CreateSaleUseCase) runWithRetry(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	saleRepo repository.SaleRepository,
	acctRepo repository.AccountingRepository,
) error) error {
	var err error
	for attempt := 0; attempt < uc.cfg.MaxTxRetries; attempt++ {
		err = uc.txRunner.RunSale(ctx, fn)
		if err == nil || !errors.Is(err, domain.ErrTxConflict) {
			return err
		}
	}
	return err
}

func toSaleResponse(sale *entity.Sale, lines []*entity.SaleLine) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:            sale.ID,
		Number:        sale.Number,
		BranchID:      sale.BranchID,
		WorkerID:      sale.WorkerID,
		CustomerID:    sale.CustomerID,
		PaymentMethod: sale.PaymentMethod,
		Subtotal:      sale.Subtotal,
		Tax:           sale.Tax,
		Total:         sale.Total,
		Commission:    sale.Commission,
		Status:        sale.Status,
		Date:          sale.Date,
		Lines:         make([]dto.SaleLineResponse, 0, len(lines)),
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.SaleLineResponse{
			ID:          l.ID,
			ItemKind:    l.ItemKind,
			ItemID:      l.ItemID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal,
			Taxable:     l.Taxable,
		})
	}
	return resp
}
