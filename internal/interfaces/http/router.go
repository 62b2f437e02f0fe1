package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/kardex-api/internal/application/auth"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/purchases"
	"github.com/jhoicas/kardex-api/internal/application/reports"
	"github.com/jhoicas/kardex-api/internal/application/sales"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	CreateSale   *sales.CreateSaleUseCase
	RegisterBuy  *purchases.RegisterPurchaseUseCase
	AdjustmentUC *inventory.AdjustmentUseCase
	KardexUC     *inventory.KardexUseCase
	SummaryUC    *reports.SummaryUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Workers (solo admin)
	workers := protected.Group("/workers", RequireRole(entity.RoleAdmin))
	workers.Post("/", authHandler.RegisterWorker)

	// Sales (protegido; anulación solo admin)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.CreateSale)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Post("/:id/void", RequireRole(entity.RoleAdmin), saleHandler.Void)

	// Purchases (protegido)
	purchasesGroup := protected.Group("/purchases")
	purchaseHandler := NewPurchaseHandler(deps.RegisterBuy)
	purchasesGroup.Post("/", purchaseHandler.Register)

	// Inventory (ajustes solo admin; consultas para todos los autenticados)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.AdjustmentUC, deps.KardexUC)
	invGroup.Post("/adjustments", RequireRole(entity.RoleAdmin), inventoryHandler.Adjust)
	invGroup.Get("/kardex/:item_kind/:item_id", inventoryHandler.Kardex)
	invGroup.Get("/low-stock/:branch_id", inventoryHandler.LowStock)

	// Accounting (solo admin)
	acctGroup := protected.Group("/accounting", RequireRole(entity.RoleAdmin))
	accountingHandler := NewAccountingHandler(deps.SummaryUC)
	acctGroup.Get("/summary/:branch_id", accountingHandler.Summary)
	acctGroup.Get("/export/:branch_id", accountingHandler.Export)
}
