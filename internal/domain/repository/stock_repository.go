package repository

import (
	"context"

	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar stock por bodega+producto.
// Get devuelve nil si la fila aún no existe; GetForUpdate devuelve un nivel con cantidad 0.
type StockRepository interface {
	Get(ctx context.Context, productID, warehouseID string) (*entity.StockLevel, error)
	// GetForUpdate bloquea la fila (SELECT ... FOR UPDATE) hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockLevel, error)
	Upsert(ctx context.Context, stock *entity.StockLevel) error
	ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.StockLevel, error)
}
