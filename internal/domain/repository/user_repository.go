package repository

import (
	"context"

	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// FindKeeperByWarehouse primer usuario activo con rol almacen en la sede (nil si no hay).
	FindKeeperByWarehouse(ctx context.Context, warehouseID string) (*entity.User, error)
}
