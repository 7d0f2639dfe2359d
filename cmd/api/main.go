package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/magazynpro/magazyn-api/internal/application/billing"
	"github.com/magazynpro/magazyn-api/internal/application/extraction"
	"github.com/magazynpro/magazyn-api/internal/application/inventory"
	"github.com/magazynpro/magazyn-api/internal/application/ports"
	"github.com/magazynpro/magazyn-api/internal/application/sales"
	"github.com/magazynpro/magazyn-api/internal/application/stocktake"
	"github.com/magazynpro/magazyn-api/internal/application/usecase"
	infraai "github.com/magazynpro/magazyn-api/internal/infrastructure/ai"
	infrapdf "github.com/magazynpro/magazyn-api/internal/infrastructure/pdf"
	"github.com/magazynpro/magazyn-api/internal/infrastructure/pdftext"
	"github.com/magazynpro/magazyn-api/internal/infrastructure/postgres"
	httpRouter "github.com/magazynpro/magazyn-api/internal/interfaces/http"
	"github.com/magazynpro/magazyn-api/pkg/config"
	"github.com/magazynpro/magazyn-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("PostgreSQL connection")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	inventoryRepo := postgres.NewInventoryRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// AI extraction is optional: without an API key the parser runs on the
	// heuristic extractor alone.
	var llm ports.InvoiceExtractor
	if cfg.AI.APIKey != "" {
		llm = infraai.NewAnthropicService(cfg.AI.APIKey, cfg.AI.Model)
	} else {
		log.Warn().Msg("AI_API_KEY not set, invoice extraction uses heuristics only")
	}
	parser := extraction.NewService(llm, cfg.AI.Timeout, log)

	productUC := usecase.NewProductUseCase(productRepo)
	movementUC := inventory.NewMovementUseCase(txRunner, movementRepo, productRepo)
	billingUC := billing.NewUseCase(txRunner, invoiceRepo, parser, pdftext.NewExtractor())
	stocktakeUC := stocktake.NewUseCase(txRunner, inventoryRepo, productRepo, infrapdf.NewStocktakeReportGenerator())
	salesUC := sales.NewUseCase(txRunner, saleRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    12 << 20, // room for invoice PDF uploads
	})
	app.Use(recover.New())
	app.Use(cors.New())

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "MagazynPro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:   productUC,
		MovementUC:  movementUC,
		BillingUC:   billingUC,
		StocktakeUC: stocktakeUC,
		SalesUC:     salesUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
