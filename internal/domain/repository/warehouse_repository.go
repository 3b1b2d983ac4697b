package repository

import (
	"context"

	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
)

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
// GetByID y GetActiveCentral devuelven (nil, nil) si no existe.
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *entity.Warehouse) error
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	GetByNameKey(ctx context.Context, nameKey string) (*entity.Warehouse, error)
	GetActiveCentral(ctx context.Context) (*entity.Warehouse, error)
	Update(ctx context.Context, warehouse *entity.Warehouse) error
	List(ctx context.Context, limit, offset int) ([]*entity.Warehouse, error)
}
