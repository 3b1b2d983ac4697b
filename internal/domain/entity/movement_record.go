package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del kardex.
const (
	MovementKindIN     = "IN"     // entrada
	MovementKindOUT    = "OUT"    // salida
	MovementKindADJUST = "ADJUST" // ajuste con signo propio
)

// MovementRecord línea inmutable del kardex. BalanceAfter es la foto del stock justo después
// de aplicar el movimiento; se escribe una sola vez bajo el bloqueo de la fila de stock.
type MovementRecord struct {
	ID           string
	ProductID    string
	WarehouseID  string
	Location     string
	Kind         string
	Quantity     int64 // IN/OUT > 0; ADJUST con signo, != 0
	UnitCost     decimal.Decimal
	TotalCost    decimal.Decimal
	Reference    string
	ActorID      string
	BalanceAfter int64
	CreatedAt    time.Time
}

// Delta devuelve el efecto con signo del movimiento sobre el stock.
func (m *MovementRecord) Delta() int64 {
	switch m.Kind {
	case MovementKindIN:
		return m.Quantity
	case MovementKindOUT:
		return -m.Quantity
	default:
		return m.Quantity
	}
}
