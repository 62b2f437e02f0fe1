// seed aplica el esquema y carga datos mínimos de arranque: una sucursal, un
// administrador, un trabajador con comisión, ítems de catálogo (producto,
// insumo y servicio), un cliente, un proveedor y stock inicial.
//
// Uso: go run ./cmd/seed [ruta/schema.sql]
// Por defecto busca migrations/schema.sql en el directorio actual.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/infrastructure/postgres"
	"github.com/jhoicas/kardex-api/pkg/config"
)

func main() {
	schemaPath := "migrations/schema.sql"
	if len(os.Args) > 1 {
		schemaPath = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fail("cargar configuración: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fail("conexión a PostgreSQL: %v", err)
	}
	defer pool.Close()

	schema, err := os.ReadFile(schemaPath)
	if err != nil {
		fail("leer esquema %s: %v", schemaPath, err)
	}
	if _, err := pool.Exec(ctx, string(schema)); err != nil {
		fail("aplicar esquema: %v", err)
	}
	fmt.Println("esquema aplicado")

	branchRepo := postgres.NewBranchRepository(pool)
	workerRepo := postgres.NewWorkerRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)

	branch := &entity.Branch{
		ID:      uuid.New().String(),
		Name:    "Sucursal Centro",
		Address: "Calle 10 # 5-23",
	}
	if err := branchRepo.Create(branch); err != nil {
		fail("crear sucursal: %v", err)
	}

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin1234"), bcrypt.DefaultCost)
	admin := &entity.Worker{
		ID:           uuid.New().String(),
		BranchID:     branch.ID,
		Name:         "Administrador",
		Email:        "admin@kardex.local",
		PasswordHash: string(adminHash),
		Role:         entity.RoleAdmin,
		Status:       "active",
	}
	if err := workerRepo.Create(admin); err != nil {
		fail("crear admin: %v", err)
	}

	workerHash, _ := bcrypt.GenerateFromPassword([]byte("clave1234"), bcrypt.DefaultCost)
	seller := &entity.Worker{
		ID:                uuid.New().String(),
		BranchID:          branch.ID,
		Name:              "Vendedor Demo",
		Email:             "vendedor@kardex.local",
		PasswordHash:      string(workerHash),
		Role:              entity.RoleWorker,
		CommissionPercent: decimal.NewFromInt(10),
		Status:            "active",
	}
	if err := workerRepo.Create(seller); err != nil {
		fail("crear vendedor: %v", err)
	}

	good := &entity.Item{
		ID:      uuid.New().String(),
		Kind:    entity.ItemKindGood,
		Name:    "Shampoo profesional 500ml",
		Price:   decimal.NewFromInt(35000),
		Cost:    decimal.NewFromInt(20000),
		Taxable: true,
	}
	supply := &entity.Item{
		ID:      uuid.New().String(),
		Kind:    entity.ItemKindSupply,
		Name:    "Guantes de nitrilo (caja)",
		Price:   decimal.Zero,
		Cost:    decimal.NewFromInt(15000),
		Taxable: false,
	}
	service := &entity.Item{
		ID:      uuid.New().String(),
		Kind:    entity.ItemKindService,
		Name:    "Corte de cabello",
		Price:   decimal.NewFromInt(25000),
		Taxable: false,
	}
	for _, it := range []*entity.Item{good, supply, service} {
		if err := itemRepo.Create(it); err != nil {
			fail("crear ítem %s: %v", it.Name, err)
		}
	}

	if err := customerRepo.Create(&entity.Customer{
		ID:       uuid.New().String(),
		Name:     "Cliente Demo",
		Document: "1020304050",
	}); err != nil {
		fail("crear cliente: %v", err)
	}
	if err := supplierRepo.Create(&entity.Supplier{
		ID:       uuid.New().String(),
		Name:     "Distribuidora Demo S.A.S.",
		Document: "900123456-7",
	}); err != nil {
		fail("crear proveedor: %v", err)
	}

	// Stock inicial de los ítems almacenables.
	for _, s := range []*entity.StockRecord{
		{ItemKind: good.Kind, ItemID: good.ID, BranchID: branch.ID, Quantity: 50, MinQuantity: 10, UnitCost: good.Cost},
		{ItemKind: supply.Kind, ItemID: supply.ID, BranchID: branch.ID, Quantity: 20, MinQuantity: 5, UnitCost: supply.Cost},
	} {
		if err := stockRepo.Upsert(s); err != nil {
			fail("crear stock: %v", err)
		}
	}

	fmt.Println("datos de arranque cargados")
	fmt.Printf("  sucursal:  %s\n", branch.ID)
	fmt.Printf("  admin:     admin@kardex.local / admin1234\n")
	fmt.Printf("  vendedor:  vendedor@kardex.local / clave1234\n")
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
