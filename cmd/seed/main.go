// seed prepara una base nueva: crea la sede CENTRAL, el usuario admin y, opcionalmente,
// importa el catálogo de productos desde un CSV exportado de hoja de cálculo.
//
// Uso: go run ./cmd/seed -admin-email admin@sedes.local -admin-password ******** [-products catalogo.csv]
//
// El CSV lleva cabecera y columnas nombre;unidad;costo;stock_minimo;codigo_barras.
// Con -charset latin1 se decodifica ISO-8859-1 (exportaciones de Excel en Windows).
package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/jhoicas/sedes-inventario/internal/application/auth"
	"github.com/jhoicas/sedes-inventario/internal/application/dto"
	"github.com/jhoicas/sedes-inventario/internal/application/usecase"
	"github.com/jhoicas/sedes-inventario/internal/domain"
	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
	"github.com/jhoicas/sedes-inventario/internal/domain/repository"
	"github.com/jhoicas/sedes-inventario/internal/infrastructure/postgres"
	"github.com/jhoicas/sedes-inventario/pkg/config"
	"github.com/jhoicas/sedes-inventario/pkg/logger"
)

func main() {
	var (
		centralName   = flag.String("central", "Central", "nombre de la sede CENTRAL")
		adminEmail    = flag.String("admin-email", "", "email del usuario admin")
		adminPassword = flag.String("admin-password", "", "password del usuario admin")
		productsPath  = flag.String("products", "", "CSV de productos a importar")
		charset       = flag.String("charset", "utf-8", "codificación del CSV: utf-8 | latin1")
		sep           = flag.String("sep", ";", "separador de columnas del CSV")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("seed")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if _, err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	repos := postgres.NewRepos(pool)

	seeder := newSeeder(repos, cfg, log)
	if err := seeder.ensureCentral(ctx, *centralName); err != nil {
		log.Fatal().Err(err).Msg("sede CENTRAL")
	}
	if *adminEmail != "" {
		if err := seeder.ensureAdmin(ctx, *adminEmail, *adminPassword); err != nil {
			log.Fatal().Err(err).Msg("usuario admin")
		}
	}
	if *productsPath == "" {
		return
	}
	f, err := os.Open(*productsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir CSV")
	}
	defer f.Close()
	rows, err := readProducts(f, *charset, *sep)
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}
	created, skipped := seeder.importProducts(ctx, rows)
	log.Info().Int("created", created).Int("skipped", skipped).Msg("catálogo importado")
}

type seeder struct {
	warehouses *usecase.WarehouseUseCase
	products   *usecase.ProductUseCase
	auth       *auth.AuthUseCase
	log        *logger.Logger
}

func newSeeder(repos repository.Repos, cfg *config.Config, log *logger.Logger) *seeder {
	return &seeder{
		warehouses: usecase.NewWarehouseUseCase(repos.Warehouses),
		products:   usecase.NewProductUseCase(repos.Products, cfg.Inventory.CodePrefix),
		auth: auth.NewAuthUseCase(repos.Users, repos.Warehouses, auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		}),
		log: log,
	}
}

// ensureCentral crea la CENTRAL si no hay ninguna activa.
func (s *seeder) ensureCentral(ctx context.Context, name string) error {
	central, err := s.warehouses.GetCentral(ctx)
	if err == nil {
		s.log.Info().Str("id", central.ID).Str("name", central.Name).Msg("sede CENTRAL existente")
		return nil
	}
	if !errors.Is(err, domain.ErrConfiguration) {
		return err
	}
	created, err := s.warehouses.Create(ctx, dto.CreateWarehouseRequest{Name: name, Kind: entity.WarehouseKindCentral})
	if err != nil {
		return err
	}
	s.log.Info().Str("id", created.ID).Str("name", created.Name).Msg("sede CENTRAL creada")
	return nil
}

// ensureAdmin registra el admin; si el email ya existe no hace nada.
func (s *seeder) ensureAdmin(ctx context.Context, email, password string) error {
	user, err := s.auth.RegisterUser(ctx, dto.RegisterRequest{Email: email, Password: password, Name: "Administrador", Role: entity.RoleAdmin})
	if errors.Is(err, domain.ErrConflict) {
		s.log.Info().Str("email", email).Msg("usuario admin existente")
		return nil
	}
	if err != nil {
		return err
	}
	s.log.Info().Str("id", user.ID).Str("email", user.Email).Msg("usuario admin creado")
	return nil
}

// importProducts crea cada fila; conflictos y filas inválidas se registran y se omiten.
func (s *seeder) importProducts(ctx context.Context, rows []dto.CreateProductRequest) (created, skipped int) {
	for _, row := range rows {
		p, err := s.products.Create(ctx, row)
		if err != nil {
			if errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrInvalidInput) {
				s.log.Warn().Err(err).Str("name", row.Name).Msg("producto omitido")
				skipped++
				continue
			}
			s.log.Error().Err(err).Str("name", row.Name).Msg("producto no importado")
			skipped++
			continue
		}
		s.log.Debug().Str("code", p.InternalCode).Str("name", p.Name).Msg("producto creado")
		created++
	}
	return created, skipped
}
