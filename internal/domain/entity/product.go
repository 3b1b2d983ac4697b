package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un artículo del catálogo.
// InternalCode sigue el formato PREFIJO-NNNNNN; Barcode es opcional y único.
type Product struct {
	ID           string
	Name         string
	InternalCode string
	Barcode      string
	Unit         string          // unidad de medida (UND, KG, LT...)
	StandardCost decimal.Decimal // costo unitario estándar, >= 0
	MinStock     int64           // umbral de stock mínimo
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
