package repository

import (
	"context"

	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByInternalCode(ctx context.Context, code string) (*entity.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
	// MaxInternalCode devuelve el mayor código interno con el prefijo dado ("" si no hay).
	MaxInternalCode(ctx context.Context, prefix string) (string, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
}
