package entity

import "time"

// Tipos de bodega (sede).
const (
	WarehouseKindCentral   = "CENTRAL"
	WarehouseKindSecondary = "SECONDARY"
)

// Warehouse representa una sede física que almacena stock. Solo una puede ser CENTRAL activa.
type Warehouse struct {
	ID        string
	Name      string
	NameKey   string // nombre normalizado para unicidad sin mayúsculas ni tildes
	Kind      string // CENTRAL, SECONDARY
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCentral indica si la bodega es la central.
func (w *Warehouse) IsCentral() bool {
	return w != nil && w.Kind == WarehouseKindCentral
}

// ValidWarehouseKind valida el tipo de bodega.
func ValidWarehouseKind(kind string) bool {
	return kind == WarehouseKindCentral || kind == WarehouseKindSecondary
}
