package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/sedes-inventario/internal/application/auth"
	"github.com/jhoicas/sedes-inventario/internal/application/document"
	"github.com/jhoicas/sedes-inventario/internal/application/inventory"
	"github.com/jhoicas/sedes-inventario/internal/application/reconciliation"
	"github.com/jhoicas/sedes-inventario/internal/application/usecase"
	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
	"github.com/jhoicas/sedes-inventario/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WarehouseUC      *usecase.WarehouseUseCase
	ProductUC        *usecase.ProductUseCase
	UserUC           *usecase.UserUseCase
	AuthUC           *auth.AuthUseCase
	LedgerUC         *inventory.LedgerUseCase
	EngineUC         *document.EngineUseCase
	ReconciliationUC *reconciliation.UseCase
	Warehouses       warehouseDirectory
	JWTSecret        string
	EnforceWindow    bool
	Now              func() time.Time
	Logger           *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.NewNop()
	}
	const (
		solicitante = entity.RoleSolicitante
		almacen     = entity.RoleAlmacen
		admin       = entity.RoleAdmin
		jefa        = entity.RoleJefa
	)

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC, log)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token y sede activa)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireActiveWarehouse(deps.Warehouses))

	protected.Post("/auth/register", RequireRole(admin), authHandler.Register)
	protected.Get("/auth/me", authHandler.Me)

	// Warehouses
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC, log)
	warehouses.Post("/", RequireRole(admin), warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/central", warehouseHandler.Central)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", RequireRole(admin), warehouseHandler.Update)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, log)
	products.Post("/", RequireRole(admin, almacen), productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/next-code", productHandler.NextCode)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", RequireRole(admin, almacen), productHandler.Update)

	// Inventory: movimientos sueltos, kardex y stock
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.LedgerUC, log)
	invGroup.Post("/movements", RequireRole(admin, almacen), inventoryHandler.RegisterMovement)
	invGroup.Get("/kardex", inventoryHandler.Kardex)
	invGroup.Get("/stock", inventoryHandler.Stock)
	invGroup.Get("/verify", inventoryHandler.Verify)

	// Documents
	docs := protected.Group("/documents")
	documentHandler := NewDocumentHandler(deps.EngineUC, deps.Warehouses, log)
	requesters := RequireRole(solicitante, almacen, admin)
	keepers := RequireRole(almacen, admin)
	docs.Post("/requisitions", requesters, documentHandler.CreateRequisition)
	docs.Post("/", keepers, documentHandler.Create)
	docs.Get("/", documentHandler.List)
	docs.Get("/:id", documentHandler.GetByID)
	docs.Post("/:id/lines", requesters, documentHandler.AddLine)
	docs.Put("/:id/lines/:product_id", requesters, documentHandler.SetLineQty)
	docs.Delete("/:id/lines/:product_id", requesters, documentHandler.RemoveLine)
	docs.Put("/:id/lines/:product_id/liquidation", keepers, documentHandler.SetLiquidation)
	docs.Post("/:id/submit", requesters, documentHandler.Submit)
	docs.Post("/:id/defaults", requesters, documentHandler.ApplyDefaults)
	docs.Post("/:id/void", requesters, documentHandler.Void)
	docs.Post("/:id/reject", keepers, documentHandler.Reject)
	docs.Post("/:id/convert", keepers, documentHandler.Convert)
	docs.Post("/:id/confirm", keepers, documentHandler.Confirm)
	docs.Post("/:id/receipt", keepers, documentHandler.EnsureReceipt)

	// Reconciliation
	rec := protected.Group("/reconciliation")
	recHandler := NewReconciliationHandler(deps.ReconciliationUC, log, deps.EnforceWindow, deps.Now)
	rec.Post("/warehouse", RequireRole(almacen, admin), recHandler.RunWarehouse)
	rec.Post("/central", RequireRole(admin, jefa), recHandler.RunCentral)
	rec.Get("/summary", recHandler.Summary)
	rec.Get("/records", recHandler.List)
	rec.Get("/logs", recHandler.Logs)
	rec.Get("/period", recHandler.Period)
}
