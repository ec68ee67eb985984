package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fulfillment-api/internal/application/auth"
	"github.com/jhoicas/fulfillment-api/internal/application/catalog"
	"github.com/jhoicas/fulfillment-api/internal/application/movement"
	"github.com/jhoicas/fulfillment-api/internal/application/order"
	"github.com/jhoicas/fulfillment-api/internal/application/stock"
	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/fulfillment-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.UseCase
	ProductUC   *catalog.ProductUseCase
	WarehouseUC *catalog.WarehouseUseCase
	VendorUC    *catalog.VendorUseCase
	ClientUC    *catalog.ClientUseCase
	StockLedger *stock.Ledger
	MovementLog *movement.Log
	OrderLedger *order.Ledger
	StockRepo   repository.StockRecordRepository
	OrderRepo   repository.OrderRepository
	CostRepo    repository.CostOperationRepository
	IncomeRepo  repository.IncomeOperationRepository
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo de productos
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	// Almacenes y ubicaciones
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id/locations", warehouseHandler.ListLocations)
	protected.Post("/locations", warehouseHandler.CreateLocation)

	// Proveedores y tarifas
	vendors := protected.Group("/vendors")
	vendorHandler := NewVendorHandler(deps.VendorUC)
	vendors.Post("/", vendorHandler.Create)
	vendors.Get("/", vendorHandler.List)
	vendors.Post("/services", vendorHandler.CreateService)
	vendors.Get("/:id/services", vendorHandler.ListServices)
	vendors.Delete("/services/:id", vendorHandler.DeactivateService)

	// Clientes
	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id/tariff", clientHandler.UpdateTariff)

	// Mutaciones de stock: solo personal de almacén y admin
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockLedger, deps.StockRepo)
	stockMutation := RequireRole(entity.RoleAdmin, entity.RoleOperator)
	stockGroup.Post("/receive", stockMutation, stockHandler.Receive)
	stockGroup.Post("/transfer", stockMutation, stockHandler.Transfer)
	stockGroup.Post("/write-off", stockMutation, stockHandler.WriteOff)
	stockGroup.Get("/locations/:id", stockHandler.ListByLocation)
	stockGroup.Get("/products/:id", stockHandler.ListByProduct)

	// Bitácora de movimientos (solo lectura)
	movements := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.MovementLog)
	movements.Get("/", movementHandler.List)
	movements.Get("/stats", movementHandler.Stats)

	// Pedidos y su ciclo financiero
	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderLedger, deps.OrderRepo, deps.CostRepo, deps.IncomeRepo)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Post("/payments", orderHandler.RecordPayment)
	orders.Patch("/cost-operations/:id", orderHandler.AdjustCost)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/:id/recalculate", orderHandler.Recalculate)
}
