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
	"github.com/swaggo/swag"

	"github.com/jhoicas/sedes-inventario/docs"
	"github.com/jhoicas/sedes-inventario/internal/application/auth"
	"github.com/jhoicas/sedes-inventario/internal/application/document"
	"github.com/jhoicas/sedes-inventario/internal/application/inventory"
	"github.com/jhoicas/sedes-inventario/internal/application/reconciliation"
	"github.com/jhoicas/sedes-inventario/internal/application/sequence"
	"github.com/jhoicas/sedes-inventario/internal/application/usecase"
	"github.com/jhoicas/sedes-inventario/internal/domain/repository"
	"github.com/jhoicas/sedes-inventario/internal/infrastructure/memory"
	"github.com/jhoicas/sedes-inventario/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/sedes-inventario/internal/interfaces/http"
	"github.com/jhoicas/sedes-inventario/pkg/config"
	"github.com/jhoicas/sedes-inventario/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	var (
		repos    repository.Repos
		txRunner inventory.TxRunner
	)
	switch cfg.App.Storage {
	case config.StorageMemory:
		store := memory.NewStore()
		repos, txRunner = store.Repos(), store
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		for _, name := range applied {
			log.Info().Str("migration", name).Msg("migración aplicada")
		}
		repos, txRunner = postgres.NewRepos(pool), postgres.NewTxRunner(pool)
	}

	ledgerUC := inventory.NewLedgerUseCase(txRunner, repos)
	engineUC := document.NewEngineUseCase(txRunner, repos, ledgerUC, sequence.NewGenerator(), log)
	reconciliationUC := reconciliation.NewUseCase(txRunner, repos, log, cfg.Inventory.Location(), cfg.Inventory.AcceptablePct)
	authUC := auth.NewAuthUseCase(repos.Users, repos.Warehouses, auth.JWTConfig{
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
	app.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Sedes Inventario API",
		}))
	}
	app.Get("/api/docs/swagger.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			return fiber.ErrNotFound
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		return c.SendString(doc)
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.App.Storage})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		WarehouseUC:      usecase.NewWarehouseUseCase(repos.Warehouses),
		ProductUC:        usecase.NewProductUseCase(repos.Products, cfg.Inventory.CodePrefix),
		UserUC:           usecase.NewUserUseCase(repos.Users),
		AuthUC:           authUC,
		LedgerUC:         ledgerUC,
		EngineUC:         engineUC,
		ReconciliationUC: reconciliationUC,
		Warehouses:       repos.Warehouses,
		JWTSecret:        cfg.JWT.Secret,
		EnforceWindow:    cfg.Inventory.EnforceWindow,
		Logger:           log,
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
