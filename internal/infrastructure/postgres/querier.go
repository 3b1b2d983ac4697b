package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/sedes-inventario/internal/domain/repository"
)

// Querier interfaz común de *pgxpool.Pool y pgx.Tx; los repos la reciben para funcionar
// igual fuera o dentro de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	_ Querier = (*pgxpool.Pool)(nil)
	_ Querier = (pgx.Tx)(nil)
)

// NewRepos ata todos los repositorios al mismo Querier.
func NewRepos(q Querier) repository.Repos {
	return repository.Repos{
		Warehouses:      NewWarehouseRepository(q),
		Products:        NewProductRepository(q),
		Stock:           NewStockRepository(q),
		Movements:       NewMovementRepository(q),
		Documents:       NewDocumentRepository(q),
		Sequences:       NewSequenceRepository(q),
		Reconciliations: NewReconciliationRepository(q),
		Users:           NewUserRepository(q),
	}
}
