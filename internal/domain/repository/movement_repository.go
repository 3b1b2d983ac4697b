package repository

import (
	"context"
	"time"

	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
)

// MovementRepository puerto del kardex (append-only).
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.MovementRecord) error
	// ListByProductWarehouse historial más reciente primero.
	ListByProductWarehouse(ctx context.Context, productID, warehouseID string, limit, offset int) ([]*entity.MovementRecord, error)
	// ListForReplay historial completo en orden de aplicación.
	ListForReplay(ctx context.Context, productID, warehouseID string) ([]*entity.MovementRecord, error)
	// LastBefore último movimiento aplicado antes del instante dado (nil si no hay).
	LastBefore(ctx context.Context, productID, warehouseID string, before time.Time) (*entity.MovementRecord, error)
	// ProductsWithMovements productos con movimientos en [from, to).
	ProductsWithMovements(ctx context.Context, warehouseID string, from, to time.Time) ([]string, error)
}
