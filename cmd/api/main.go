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

	"github.com/jhoicas/fulfillment-api/internal/application/auth"
	"github.com/jhoicas/fulfillment-api/internal/application/catalog"
	"github.com/jhoicas/fulfillment-api/internal/application/movement"
	"github.com/jhoicas/fulfillment-api/internal/application/order"
	"github.com/jhoicas/fulfillment-api/internal/application/stock"
	infracache "github.com/jhoicas/fulfillment-api/internal/infrastructure/cache"
	"github.com/jhoicas/fulfillment-api/internal/infrastructure/finance"
	"github.com/jhoicas/fulfillment-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/fulfillment-api/internal/interfaces/http"
	"github.com/jhoicas/fulfillment-api/pkg/config"
	"github.com/jhoicas/fulfillment-api/pkg/logger"
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

	// Repositorios atados al pool (lecturas y CRUD fuera de transacción)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	locationRepo := postgres.NewStorageLocationRepository(pool)
	stockRepo := postgres.NewStockRecordRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	vendorRepo := postgres.NewVendorRepository(pool)
	serviceRepo := postgres.NewVendorServiceRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	costRepo := postgres.NewCostOperationRepository(pool)
	incomeRepo := postgres.NewIncomeOperationRepository(pool)

	// Caché de estadísticas de la bitácora: Redis opcional
	var statsCache movement.StatsCache
	if cfg.Redis.Addr != "" {
		redisCache := infracache.NewRedisStatsCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := redisCache.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("Redis no disponible, caché de estadísticas desactivado")
		} else {
			statsCache = redisCache
			defer redisCache.Close()
		}
	}

	stockTx := postgres.NewTxRunner(pool)
	orderTx := postgres.NewOrderTxRunner(pool)
	financialWriter := finance.NewEntryWriter(pool)

	stockLedger := stock.NewLedger(stockTx, productRepo, locationRepo, financialWriter)
	movementLog := movement.NewLog(movementRepo, statsCache)
	orderLedger := order.NewLedger(orderTx, clientRepo, serviceRepo)

	productUC := catalog.NewProductUseCase(productRepo)
	warehouseUC := catalog.NewWarehouseUseCase(warehouseRepo, locationRepo)
	vendorUC := catalog.NewVendorUseCase(vendorRepo, serviceRepo)
	clientUC := catalog.NewClientUseCase(clientRepo)
	authUC := auth.NewUseCase(userRepo, auth.JWTConfig{
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
		Title:    "Fulfillment API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ProductUC:   productUC,
		WarehouseUC: warehouseUC,
		VendorUC:    vendorUC,
		ClientUC:    clientUC,
		StockLedger: stockLedger,
		MovementLog: movementLog,
		OrderLedger: orderLedger,
		StockRepo:   stockRepo,
		OrderRepo:   orderRepo,
		CostRepo:    costRepo,
		IncomeRepo:  incomeRepo,
		JWTSecret:   cfg.JWT.Secret,
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
