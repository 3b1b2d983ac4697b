package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/sedes-inventario/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback de todo; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repos) error) error
}

// Clock fuente de la hora actual (inyectable en tests).
type Clock func() time.Time
