package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/kardex-api/internal/application/auth"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/purchases"
	"github.com/jhoicas/kardex-api/internal/application/reports"
	"github.com/jhoicas/kardex-api/internal/application/sales"
	infraexcel "github.com/jhoicas/kardex-api/internal/infrastructure/excel"
	infrapdf "github.com/jhoicas/kardex-api/internal/infrastructure/pdf"
	"github.com/jhoicas/kardex-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/kardex-api/internal/interfaces/http"
	"github.com/jhoicas/kardex-api/pkg/config"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repos de catálogo sobre el pool (lecturas fuera de transacción).
	itemRepo := postgres.NewItemRepository(pool)
	branchRepo := postgres.NewBranchRepository(pool)
	workerRepo := postgres.NewWorkerRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	acctRepo := postgres.NewAccountingRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	salesCfg := sales.Config{
		TaxRate:      cfg.Sales.TaxRate,
		MaxTxRetries: cfg.Sales.MaxTxRetries,
	}
	createSaleUC := sales.NewCreateSaleUseCase(
		txRunner, itemRepo, branchRepo, workerRepo, customerRepo, salesCfg,
	)
	registerPurchaseUC := purchases.NewRegisterPurchaseUseCase(
		txRunner, itemRepo, branchRepo, supplierRepo,
		purchases.Config{TaxRate: cfg.Sales.TaxRate, MaxTxRetries: cfg.Sales.MaxTxRetries},
	)
	adjustmentUC := inventory.NewAdjustmentUseCase(txRunner, itemRepo, branchRepo, cfg.Sales.MaxTxRetries)
	kardexUC := inventory.NewKardexUseCase(movementRepo, stockRepo, itemRepo, branchRepo)

	summaryUC := reports.NewSummaryUseCase(acctRepo, branchRepo, map[string]reports.LedgerRenderer{
		reports.FormatPDF:  infrapdf.NewMarotoLedgerRenderer(),
		reports.FormatXLSX: infraexcel.NewExcelizeLedgerRenderer(),
	})

	authUC := auth.NewAuthUseCase(workerRepo, branchRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Kardex API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		CreateSale:   createSaleUC,
		RegisterBuy:  registerPurchaseUC,
		AdjustmentUC: adjustmentUC,
		KardexUC:     kardexUC,
		SummaryUC:    summaryUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
