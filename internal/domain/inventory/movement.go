// Package inventory contiene las reglas puras del kardex: validación de movimientos,
// costo total y aplicación del delta sobre el stock.
package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sedes-inventario/internal/domain"
	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
)

// ValidateMovement IN/OUT exigen cantidad > 0; ADJUST exige cantidad != 0 (con signo).
func ValidateMovement(kind string, qty int64) error {
	switch kind {
	case entity.MovementKindIN, entity.MovementKindOUT:
		if qty <= 0 {
			return domain.NewValidationError("quantity", "la cantidad de un movimiento %s debe ser mayor que cero", kind)
		}
	case entity.MovementKindADJUST:
		if qty == 0 {
			return domain.NewValidationError("quantity", "un ajuste no puede ser cero")
		}
	default:
		return domain.NewValidationError("kind", "tipo de movimiento desconocido %q", kind)
	}
	return nil
}

// TotalCost |cantidad| × costo unitario, redondeado a centavos.
func TotalCost(qty int64, unitCost decimal.Decimal) decimal.Decimal {
	if qty < 0 {
		qty = -qty
	}
	return decimal.NewFromInt(qty).Mul(unitCost).Round(2)
}

// ApplyDelta calcula la nueva cantidad tras aplicar el movimiento. Devuelve
// InsufficientStockError si el resultado sería negativo.
func ApplyDelta(current int64, m *entity.MovementRecord) (int64, error) {
	next := current + m.Delta()
	if next < 0 {
		requested := m.Quantity
		if requested < 0 {
			requested = -requested
		}
		return current, &domain.InsufficientStockError{
			ProductID:   m.ProductID,
			WarehouseID: m.WarehouseID,
			Available:   current,
			Requested:   requested,
		}
	}
	return next, nil
}

// Replay reconstruye la cantidad desde cero aplicando los movimientos en orden.
func Replay(records []*entity.MovementRecord) int64 {
	var qty int64
	for _, r := range records {
		qty += r.Delta()
	}
	return qty
}
