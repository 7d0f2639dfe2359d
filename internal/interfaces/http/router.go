package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/magazynpro/magazyn-api/internal/application/billing"
	"github.com/magazynpro/magazyn-api/internal/application/inventory"
	"github.com/magazynpro/magazyn-api/internal/application/sales"
	"github.com/magazynpro/magazyn-api/internal/application/stocktake"
	"github.com/magazynpro/magazyn-api/internal/application/usecase"
)

// RouterDeps holds the use cases the router wires into handlers.
type RouterDeps struct {
	ProductUC   *usecase.ProductUseCase
	MovementUC  *inventory.MovementUseCase
	BillingUC   *billing.UseCase
	StocktakeUC *stocktake.UseCase
	SalesUC     *sales.UseCase
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Invoices: parse first, confirm second.
	invoices := api.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.BillingUC)
	invoices.Post("/parse", invoiceHandler.Parse)
	invoices.Post("/", invoiceHandler.Confirm)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Delete("/:id", invoiceHandler.Delete)

	// Products: read and metadata edits only.
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	movementHandler := NewMovementHandler(deps.MovementUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Get("/:id/movements", movementHandler.ListByProduct)

	// Stock ledger.
	movements := api.Group("/movements")
	movements.Post("/", movementHandler.RegisterAdjustment)
	movements.Get("/", movementHandler.ListRecent)
	movements.Put("/:id", movementHandler.Update)
	movements.Delete("/:id", movementHandler.Delete)

	// Count sheets.
	inventories := api.Group("/inventories")
	inventoryHandler := NewInventoryHandler(deps.StocktakeUC)
	inventories.Post("/", inventoryHandler.Create)
	inventories.Get("/", inventoryHandler.List)
	inventories.Get("/:id", inventoryHandler.GetByID)
	inventories.Delete("/:id", inventoryHandler.Delete)
	inventories.Post("/:id/start", inventoryHandler.Start)
	inventories.Put("/:id/items/:itemID", inventoryHandler.CountItem)
	inventories.Post("/:id/complete", inventoryHandler.Complete)
	inventories.Get("/:id/export", inventoryHandler.Export)

	// Sales.
	salesGroup := api.Group("/sales")
	saleHandler := NewSaleHandler(deps.SalesUC)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Delete("/:id", saleHandler.Delete)
}
