package reconciliation

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
)

// Totals entradas del cálculo de una fila de liquidación.
type Totals struct {
	Opening   int64
	Closing   int64
	Delivered int64
	Used      int64
	Returned  int64
	Wasted    int64
}

// Variance (inicial - final) - (entregado - devuelto). Cero significa que el consumo de stock
// coincide con lo entregado neto.
func Variance(t Totals) int64 {
	return (t.Opening - t.Closing) - (t.Delivered - t.Returned)
}

// StatusFor CONSISTENT si la varianza es cero, INCONSISTENT en otro caso.
func StatusFor(variance int64) string {
	if variance == 0 {
		return entity.ReconciliationConsistent
	}
	return entity.ReconciliationInconsistent
}

// Record arma la fila de liquidación para un producto.
func Record(week, year int, warehouseID, productID string, t Totals) *entity.ReconciliationRecord {
	v := Variance(t)
	return &entity.ReconciliationRecord{
		Week:         week,
		Year:         year,
		WarehouseID:  warehouseID,
		ProductID:    productID,
		OpeningStock: t.Opening,
		ClosingStock: t.Closing,
		Delivered:    t.Delivered,
		Used:         t.Used,
		Returned:     t.Returned,
		Wasted:       t.Wasted,
		Variance:     v,
		Status:       StatusFor(v),
	}
}

// CentralCheck datos del cruce de la CENTRAL contra las sedes secundarias para un producto.
type CentralCheck struct {
	CentralVariance   int64
	SecondaryVariance int64 // suma de varianzas de las sedes
	SecondaryRecords  int   // filas de sedes encontradas para el producto
	Dispatched        int64 // entregado por la CENTRAL en el periodo
}

// CentralStatus INCONSISTENT si alguna varianza no cuadra; NEEDS_REVIEW si la CENTRAL entregó
// el producto y ninguna sede lo liquidó; CONSISTENT en otro caso.
func CentralStatus(c CentralCheck) string {
	if c.CentralVariance != 0 || c.SecondaryVariance != 0 {
		return entity.ReconciliationInconsistent
	}
	if c.Dispatched > 0 && c.SecondaryRecords == 0 {
		return entity.ReconciliationNeedsReview
	}
	return entity.ReconciliationConsistent
}

// OverallState porcentaje de productos con diferencia y estado general del resumen.
// acceptable es el porcentaje máximo para considerarse ACCEPTABLE.
func OverallState(productsWithDifference, totalProducts int, acceptable decimal.Decimal) (decimal.Decimal, string) {
	if totalProducts == 0 || productsWithDifference == 0 {
		return decimal.Zero, entity.OverallPerfect
	}
	pct := decimal.NewFromInt(int64(productsWithDifference)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(totalProducts))).
		Round(2)
	if pct.LessThanOrEqual(acceptable) {
		return pct, entity.OverallAcceptable
	}
	return pct, entity.OverallReview
}
