package purchases_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/apptest"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/purchases"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/identity"
)

const (
	branchID   = "b-0001"
	supplierID = "p-0001"
	shampooID  = "i-shampoo"
	guantesID  = "i-guantes"
	corteID    = "i-corte"
)

func seedStore() *apptest.Store {
	s := apptest.NewStore()
	s.Branches[branchID] = &entity.Branch{ID: branchID, Name: "Centro"}
	s.Suppliers[supplierID] = &entity.Supplier{ID: supplierID, Name: "Distribuidora"}
	s.Items[shampooID] = &entity.Item{
		ID: shampooID, Kind: entity.ItemKindGood, Name: "Shampoo",
		Price: decimal.NewFromInt(10000), Cost: decimal.NewFromInt(5000),
	}
	s.Items[guantesID] = &entity.Item{
		ID: guantesID, Kind: entity.ItemKindSupply, Name: "Guantes",
		Cost: decimal.NewFromInt(800),
	}
	s.Items[corteID] = &entity.Item{ID: corteID, Kind: entity.ItemKindService, Name: "Corte"}
	s.SetStock(entity.ItemKindGood, shampooID, branchID, 3, 2, decimal.NewFromInt(5000))
	return s
}

func newUseCase(s *apptest.Store, runner *apptest.TxRunner) *purchases.RegisterPurchaseUseCase {
	return purchases.NewRegisterPurchaseUseCase(
		runner,
		&apptest.ItemRepo{S: s},
		&apptest.BranchRepo{S: s},
		&apptest.SupplierRepo{S: s},
		purchases.Config{TaxRate: decimal.NewFromFloat(0.19), MaxTxRetries: 3},
	)
}

func buyerPrincipal() identity.Principal {
	return identity.Principal{UserID: "w-0001", BranchID: branchID, Role: entity.RoleWorker}
}

// Compra de producto e insumo: suma stock, escribe los IN en el kardex,
// sobreescribe costos (last-cost) y asienta el egreso por el total.
func TestRegisterPurchase_ActualizaStockYCostos(t *testing.T) {
	s := seedStore()
	runner := &apptest.TxRunner{S: s}
	uc := newUseCase(s, runner)

	resp, err := uc.RegisterPurchase(context.Background(), buyerPrincipal(), dto.RegisterPurchaseRequest{
		BranchID:       branchID,
		SupplierID:     supplierID,
		DocumentType:   "factura",
		DocumentNumber: "F-1234",
		Lines: []dto.PurchaseLineRequest{
			{ItemKind: entity.ItemKindGood, ItemID: shampooID, Quantity: 10, UnitCost: decimal.NewFromInt(6000)},
			{ItemKind: entity.ItemKindSupply, ItemID: guantesID, Quantity: 5, UnitCost: decimal.NewFromInt(900)},
		},
	})
	require.NoError(t, err)
	assert.Regexp(t, `^COM-\d+$`, resp.Number)

	// Subtotal 60000 + 4500 = 64500; IVA 12255; total 76755.
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(64500)), "subtotal: %s", resp.Subtotal)
	assert.True(t, resp.Tax.Equal(decimal.NewFromInt(12255)), "IVA: %s", resp.Tax)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(76755)), "total: %s", resp.Total)

	// Stock sumado; el insumo arranca de cero sin fila previa.
	assert.Equal(t, int64(13), s.StockQty(entity.ItemKindGood, shampooID, branchID))
	assert.Equal(t, int64(5), s.StockQty(entity.ItemKindSupply, guantesID, branchID))

	// Last-cost: catálogo y stock quedan con el costo de la línea.
	assert.True(t, s.Items[shampooID].Cost.Equal(decimal.NewFromInt(6000)))
	assert.True(t, s.Items[guantesID].Cost.Equal(decimal.NewFromInt(900)))

	// Kardex: dos IN consistentes enlazados al número de la compra.
	require.Len(t, s.Movements, 2)
	for _, m := range s.Movements {
		assert.Equal(t, entity.MovementTypeIN, m.Type)
		assert.Equal(t, resp.Number, m.DocumentRef)
		assert.True(t, m.Consistent())
	}

	// Egreso contable único por el total.
	require.Len(t, s.Entries, 1)
	assert.Equal(t, entity.EntryKindExpense, s.Entries[0].Kind)
	assert.Equal(t, entity.CategoryPurchase, s.Entries[0].Category)
	assert.True(t, s.Entries[0].Amount.Equal(decimal.NewFromInt(76755)))
}

// Línea con servicio o ítem inexistente: la compra no deja rastro.
func TestRegisterPurchase_LineasInvalidas_SinEfectos(t *testing.T) {
	s := seedStore()
	uc := newUseCase(s, &apptest.TxRunner{S: s})
	ctx := context.Background()

	_, err := uc.RegisterPurchase(ctx, buyerPrincipal(), dto.RegisterPurchaseRequest{
		BranchID: branchID, SupplierID: supplierID,
		Lines: []dto.PurchaseLineRequest{
			{ItemKind: entity.ItemKindService, ItemID: corteID, Quantity: 1, UnitCost: decimal.NewFromInt(100)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "un servicio no es almacenable")

	_, err = uc.RegisterPurchase(ctx, buyerPrincipal(), dto.RegisterPurchaseRequest{
		BranchID: branchID, SupplierID: supplierID,
		Lines: []dto.PurchaseLineRequest{
			{ItemKind: entity.ItemKindGood, ItemID: "no-existe", Quantity: 1, UnitCost: decimal.NewFromInt(100)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.RegisterPurchase(ctx, buyerPrincipal(), dto.RegisterPurchaseRequest{
		BranchID: branchID, SupplierID: "no-existe",
		Lines: []dto.PurchaseLineRequest{
			{ItemKind: entity.ItemKindGood, ItemID: shampooID, Quantity: 1, UnitCost: decimal.NewFromInt(100)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, int64(3), s.StockQty(entity.ItemKindGood, shampooID, branchID))
	assert.Empty(t, s.Movements)
	assert.Empty(t, s.Purchases)
	assert.Empty(t, s.Entries)
}

// Conflicto de concurrencia: reintenta la transacción completa y el stock se
// suma exactamente una vez.
func TestRegisterPurchase_ReintentaAnteConflicto(t *testing.T) {
	s := seedStore()
	runner := &apptest.TxRunner{S: s, ConflictsLeft: 1}
	uc := newUseCase(s, runner)

	_, err := uc.RegisterPurchase(context.Background(), buyerPrincipal(), dto.RegisterPurchaseRequest{
		BranchID: branchID, SupplierID: supplierID,
		Lines: []dto.PurchaseLineRequest{
			{ItemKind: entity.ItemKindGood, ItemID: shampooID, Quantity: 2, UnitCost: decimal.NewFromInt(5500)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, runner.Runs)
	assert.Equal(t, int64(5), s.StockQty(entity.ItemKindGood, shampooID, branchID))
	assert.Len(t, s.Movements, 1)
}
