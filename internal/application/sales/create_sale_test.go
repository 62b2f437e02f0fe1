package sales_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/apptest"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/sales"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/identity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	branchID   = "b-0001"
	workerID   = "w-0001"
	adminID    = "w-0099"
	customerID = "c-0001"
	shampooID  = "i-shampoo"
	tinteID    = "i-tinte"
	corteID    = "i-corte"
)

// seedStore arma el estado base: sucursal, vendedor con comisión 10%, admin,
// cliente, dos productos gravados y un servicio de catálogo, con stock.
func seedStore() *apptest.Store {
	s := apptest.NewStore()
	s.Branches[branchID] = &entity.Branch{ID: branchID, Name: "Centro"}
	s.Workers[workerID] = &entity.Worker{
		ID: workerID, BranchID: branchID, Name: "Vendedor", Email: "v@x.co",
		Role: entity.RoleWorker, CommissionPercent: decimal.NewFromInt(10), Status: "active",
	}
	s.Workers[adminID] = &entity.Worker{
		ID: adminID, BranchID: branchID, Name: "Admin", Email: "a@x.co",
		Role: entity.RoleAdmin, Status: "active",
	}
	s.Customers[customerID] = &entity.Customer{ID: customerID, Name: "Cliente"}
	s.Items[shampooID] = &entity.Item{
		ID: shampooID, Kind: entity.ItemKindGood, Name: "Shampoo",
		Price: decimal.NewFromInt(10000), Taxable: true,
	}
	s.Items[tinteID] = &entity.Item{
		ID: tinteID, Kind: entity.ItemKindGood, Name: "Tinte",
		Price: decimal.NewFromInt(20000), Taxable: true,
	}
	s.Items[corteID] = &entity.Item{
		ID: corteID, Kind: entity.ItemKindService, Name: "Corte",
		Price: decimal.NewFromInt(15000), Taxable: false,
	}
	s.SetStock(entity.ItemKindGood, shampooID, branchID, 10, 2, decimal.NewFromInt(6000))
	s.SetStock(entity.ItemKindGood, tinteID, branchID, 5, 1, decimal.NewFromInt(12000))
	return s
}

func newUseCase(s *apptest.Store, runner *apptest.TxRunner) *sales.CreateSaleUseCase {
	return sales.NewCreateSaleUseCase(
		runner,
		&apptest.ItemRepo{S: s},
		&apptest.BranchRepo{S: s},
		&apptest.WorkerRepo{S: s},
		&apptest.CustomerRepo{S: s},
		sales.Config{TaxRate: decimal.NewFromFloat(0.19), MaxTxRetries: 3},
	)
}

func sellerPrincipal() identity.Principal {
	return identity.Principal{UserID: workerID, BranchID: branchID, Role: entity.RoleWorker}
}

func adminPrincipal() identity.Principal {
	return identity.Principal{UserID: adminID, BranchID: branchID, Role: entity.RoleAdmin}
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateSale
// ──────────────────────────────────────────────────────────────────────────────

// Venta de un producto gravado: descuenta stock, escribe el OUT en el kardex
// con la foto antes/después, calcula IVA y comisión y asienta el ingreso.
func TestCreateSale_ProductoGravado(t *testing.T) {
	s := seedStore()
	runner := &apptest.TxRunner{S: s}
	uc := newUseCase(s, runner)

	resp, err := uc.CreateSale(context.Background(), sellerPrincipal(), dto.CreateSaleRequest{
		BranchID:      branchID,
		CustomerID:    customerID,
		PaymentMethod: entity.PaymentCash,
		Lines: []dto.SaleLineRequest{
			{ItemKind: entity.ItemKindGood, ItemID: shampooID, Quantity: 3},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	// Totales: 3 × 10000 = 30000; IVA 19% = 5700; total 35700; comisión 10% = 3570.
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(30000)), "subtotal: %s", resp.Subtotal)
	assert.True(t, resp.Tax.Equal(decimal.NewFromInt(5700)), "IVA: %s", resp.Tax)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(35700)), "total: %s", resp.Total)
	assert.True(t, resp.Commission.Equal(decimal.NewFromInt(3570)), "comisión: %s", resp.Commission)
	assert.Equal(t, entity.SaleStatusActive, resp.Status)
	assert.Regexp(t, `^V-\d+$`, resp.Number, "el número debe tener la forma V-<unix>")

	// Stock: 10 - 3 = 7.
	assert.Equal(t, int64(7), s.StockQty(entity.ItemKindGood, shampooID, branchID))

	// Kardex: un OUT consistente, enlazado al número de la venta.
	require.Len(t, s.Movements, 1)
	mov := s.Movements[0]
	assert.Equal(t, entity.MovementTypeOUT, mov.Type)
	assert.Equal(t, int64(10), mov.QuantityBefore)
	assert.Equal(t, int64(7), mov.QuantityAfter)
	assert.Equal(t, resp.Number, mov.DocumentRef)
	assert.True(t, mov.Consistent(), "el asiento debe cumplir after = before + delta")

	// Contabilidad: ingreso por el total + egreso por la comisión.
	require.Len(t, s.Entries, 2)
	assert.Equal(t, entity.EntryKindIncome, s.Entries[0].Kind)
	assert.Equal(t, entity.CategorySale, s.Entries[0].Category)
	assert.True(t, s.Entries[0].Amount.Equal(decimal.NewFromInt(35700)))
	assert.Equal(t, entity.EntryKindExpense, s.Entries[1].Kind)
	assert.Equal(t, entity.CategoryCommission, s.Entries[1].Category)
	assert.True(t, s.Entries[1].Amount.Equal(decimal.NewFromInt(3570)))
}

// Venta mixta producto + servicio ad-hoc: solo el producto toca inventario;
// el servicio no genera movimiento ni exige stock.
func TestCreateSale_MixtaProductoServicio(t *testing.T) {
	s := seedStore()
	runner := &apptest.TxRunner{S: s}
	uc := newUseCase(s, runner)

	resp, err := uc.CreateSale(context.Background(), sellerPrincipal(), dto.CreateSaleRequest{
		BranchID:      branchID,
		PaymentMethod: entity.PaymentCard,
		Lines: []dto.SaleLineRequest{
			{ItemKind: entity.ItemKindGood, ItemID: shampooID, Quantity: 1},
			{ItemKind: entity.ItemKindService, Description: "Peinado evento", UnitPrice: decimal.NewFromInt(40000), Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Lines, 2)

	// Subtotal 10000 + 40000 = 50000; IVA solo sobre el shampoo: 1900.
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(50000)))
	assert.True(t, resp.Tax.Equal(decimal.NewFromInt(1900)))

	assert.Equal(t, int64(9), s.StockQty(entity.ItemKindGood, shampooID, branchID))
	assert.Len(t, s.Movements, 1, "el servicio no debe generar movimiento de kardex")
}

// Servicio de catálogo: toma precio y bandera de IVA del ítem.
func TestCreateSale_ServicioDeCatalogo(t *testing.T) {
	s := seedStore()
	uc := newUseCase(s, &apptest.TxRunner{S: s})

	resp, err := uc.CreateSale(context.Background(), sellerPrincipal(), dto.CreateSaleRequest{
		BranchID:      branchID,
		PaymentMethod: entity.PaymentTransfer,
		Lines: []dto.SaleLineRequest{
			{ItemKind: entity.ItemKindService, ItemID: corteID, Quantity: 2},
		},
	})
	require.NoError(t, err)
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(30000)))
	assert.True(t, resp.Tax.IsZero(), "el corte no es gravado")
	assert.Empty(t, s.Movements)
}

// Stock insuficiente: la venta falla completa, sin rastro en stock, kardex,
// ventas ni contabilidad, aunque otras líneas fueran viables.
func TestCreateSale_StockInsuficiente_SinEfectos(t *testing.T) {
	s := seedStore()
	runner := &apptest.TxRunner{S: s}
	uc := newUseCase(s, runner)

	_, err := uc.CreateSale(context.Background(), sellerPrincipal(), dto.CreateSaleRequest{
		BranchID:      branchID,
		PaymentMethod: entity.PaymentCash,
		Lines: []dto.SaleLineRequest{
			{ItemKind: entity.ItemKindGood, ItemID: shampooID, Quantity: 2},
			{ItemKind: entity.ItemKindGood, ItemID: tinteID, Quantity: 6}, // solo hay 5
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(10), s.StockQty(entity.ItemKindGood, shampooID, branchID), "el stock de la otra línea debe quedar intacto")
	assert.Equal(t, int64(5), s.StockQty(entity.ItemKindGood, tinteID, branchID))
	assert.Empty(t, s.Movements)
	assert.Empty(t, s.Sales)
	assert.Empty(t, s.Entries)
}

// Sucursal con stock negativo habilitado: la sobreventa pasa y el saldo
// queda bajo cero.
func TestCreateSale_SucursalPermiteNegativo(t *testing.T) {
	s := seedStore()
	s.Branches[branchID].AllowNegativeStock = true
	uc := newUseCase(s, &apptest.TxRunner{S: s})

	_, err := uc.CreateSale(context.Background(), sellerPrincipal(), dto.CreateSaleRequest{
		BranchID:      branchID,
		PaymentMethod: entity.PaymentCash,
		Lines: []dto.SaleLineRequest{
			{ItemKind: entity.ItemKindGood, ItemID: tinteID, Quantity: 8},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-3), s.StockQty(entity.ItemKindGood, tinteID, branchID))
}

// Conflicto de concurrencia: la transacción completa se reintenta hasta el
// tope y termina confirmando una sola vez.
func TestCreateSale_ReintentaAnteConflicto(t *testing.T) {
	s := seedStore()
	runner := &apptest.TxRunner{S: s, ConflictsLeft: 2}
	uc := newUseCase(s, runner)

	_, err := uc.CreateSale(context.Background(), sellerPrincipal(), dto.CreateSaleRequest{
		BranchID:      branchID,
		PaymentMethod: entity.PaymentCash,
		Lines: []dto.SaleLineRequest{
			{ItemKind: entity.ItemKindGood, ItemID: shampooID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, runner.Runs, "dos conflictos + un commit")
	assert.Equal(t, int64(9), s.StockQty(entity.ItemKindGood, shampooID, branchID), "el efecto debe aplicarse exactamente una vez")
	assert.Len(t, s.Movements, 1)
}

// Conflictos por encima del tope: la operación sale con ErrTxConflict.
func TestCreateSale_ConflictosAgotanReintentos(t *testing.T) {
	s := seedStore()
	runner := &apptest.TxRunner{S: s, ConflictsLeft: 5}
	uc := newUseCase(s, runner)

	_, err := uc.CreateSale(context.Background(), sellerPrincipal(), dto.CreateSaleRequest{
		BranchID:      branchID,
		PaymentMethod: entity.PaymentCash,
		Lines: []dto.SaleLineRequest{
			{ItemKind: entity.ItemKindGood, ItemID: shampooID, Quantity: 1},
		},
	})
	require.ErrorIs(t, err, domain.ErrTxConflict)
	assert.Equal(t, 3, runner.Runs)
	assert.Equal(t, int64(10), s.StockQty(entity.ItemKindGood, shampooID, branchID))
}

// Validaciones de entrada.
func TestCreateSale_Invalidas(t *testing.T) {
	s := seedStore()
	uc := newUseCase(s, &apptest.TxRunner{S: s})
	ctx := context.Background()

	// Sin líneas.
	_, err := uc.CreateSale(ctx, sellerPrincipal(), dto.CreateSaleRequest{
		BranchID: branchID, PaymentMethod: entity.PaymentCash,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Producto inexistente.
	_, err = uc.CreateSale(ctx, sellerPrincipal(), dto.CreateSaleRequest{
		BranchID: branchID, PaymentMethod: entity.PaymentCash,
		Lines: []dto.SaleLineRequest{{ItemKind: entity.ItemKindGood, ItemID: "no-existe", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Servicio ad-hoc sin precio.
	_, err = uc.CreateSale(ctx, sellerPrincipal(), dto.CreateSaleRequest{
		BranchID: branchID, PaymentMethod: entity.PaymentCash,
		Lines: []dto.SaleLineRequest{{ItemKind: entity.ItemKindService, Description: "algo", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Principal sin rol de ventas.
	_, err = uc.CreateSale(ctx, identity.Principal{UserID: workerID, Role: "invitado"}, dto.CreateSaleRequest{
		BranchID: branchID, PaymentMethod: entity.PaymentCash,
		Lines: []dto.SaleLineRequest{{ItemKind: entity.ItemKindGood, ItemID: shampooID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// VoidSale
// ──────────────────────────────────────────────────────────────────────────────

// Anulación: repone el stock con un ADJUST de compensación, pasa la cabecera
// a VOID y deja intactos los asientos originales.
func TestVoidSale_CompensaYMarcaVoid(t *testing.T) {
	s := seedStore()
	runner := &apptest.TxRunner{S: s}
	uc := newUseCase(s, runner)
	ctx := context.Background()

	resp, err := uc.CreateSale(ctx, sellerPrincipal(), dto.CreateSaleRequest{
		BranchID:      branchID,
		PaymentMethod: entity.PaymentCash,
		Lines: []dto.SaleLineRequest{
			{ItemKind: entity.ItemKindGood, ItemID: shampooID, Quantity: 4},
		},
	})
	require.NoError(t, err)
	require.Equal(t, int64(6), s.StockQty(entity.ItemKindGood, shampooID, branchID))

	require.NoError(t, uc.VoidSale(ctx, adminPrincipal(), resp.ID))

	// Stock repuesto y cabecera en VOID.
	assert.Equal(t, int64(10), s.StockQty(entity.ItemKindGood, shampooID, branchID))
	assert.Equal(t, entity.SaleStatusVoid, s.Sales[resp.ID].Status)

	// Kardex: el OUT original queda + un ADJUST de compensación.
	require.Len(t, s.Movements, 2)
	adj := s.Movements[1]
	assert.Equal(t, entity.MovementTypeADJUST, adj.Type)
	assert.Equal(t, int64(4), adj.Quantity)
	assert.Equal(t, "anulación de venta", adj.Reason)
	assert.Equal(t, resp.Number, adj.DocumentRef)
	assert.True(t, adj.Consistent())

	// El libro contable no se reescribe.
	assert.Len(t, s.Entries, 2)
}

// Anular dos veces: la segunda sale con ErrConflict y no duplica la
// compensación.
func TestVoidSale_Idempotente(t *testing.T) {
	s := seedStore()
	uc := newUseCase(s, &apptest.TxRunner{S: s})
	ctx := context.Background()

	resp, err := uc.CreateSale(ctx, sellerPrincipal(), dto.CreateSaleRequest{
		BranchID:      branchID,
		PaymentMethod: entity.PaymentCash,
		Lines: []dto.SaleLineRequest{
			{ItemKind: entity.ItemKindGood, ItemID: shampooID, Quantity: 2},
		},
	})
	require.NoError(t, err)
	require.NoError(t, uc.VoidSale(ctx, adminPrincipal(), resp.ID))

	err = uc.VoidSale(ctx, adminPrincipal(), resp.ID)
	require.ErrorIs(t, err, domain.ErrConflict)

	assert.Equal(t, int64(10), s.StockQty(entity.ItemKindGood, shampooID, branchID), "la compensación no debe aplicarse dos veces")
	assert.Len(t, s.Movements, 2)
}

// Solo admin anula; la venta inexistente sale con ErrNotFound.
func TestVoidSale_Restricciones(t *testing.T) {
	s := seedStore()
	uc := newUseCase(s, &apptest.TxRunner{S: s})
	ctx := context.Background()

	assert.ErrorIs(t, uc.VoidSale(ctx, sellerPrincipal(), "cualquiera"), domain.ErrForbidden)
	assert.ErrorIs(t, uc.VoidSale(ctx, adminPrincipal(), "no-existe"), domain.ErrNotFound)
}
