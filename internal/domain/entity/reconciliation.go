package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una fila de liquidación.
const (
	ReconciliationPending      = "PENDING"
	ReconciliationDone         = "DONE"
	ReconciliationConsistent   = "CONSISTENT"
	ReconciliationInconsistent = "INCONSISTENT"
	ReconciliationNeedsReview  = "NEEDS_REVIEW"
)

// Tipos de diferencia.
const (
	DifferenceBalanced = "BALANCED"
	DifferenceSurplus  = "SURPLUS"
	DifferenceShortage = "SHORTAGE"
)

// Estado general del resumen de liquidaciones.
const (
	OverallPerfect    = "PERFECT"
	OverallAcceptable = "ACCEPTABLE"
	OverallReview     = "REVIEW"
)

// Tipos de entrada de bitácora de liquidación.
const (
	ReconciliationLogWarehouse    = "WAREHOUSE_RUN"
	ReconciliationLogCentral      = "CENTRAL_RUN"
	ReconciliationLogCorrection   = "CORRECTION"
	ReconciliationLogVerification = "VERIFICATION"
)

// ReconciliationRecord liquidación semanal por (semana ISO, año, bodega, producto).
type ReconciliationRecord struct {
	ID           string
	Week         int
	Year         int
	WarehouseID  string
	ProductID    string
	OpeningStock int64
	ClosingStock int64
	Delivered    int64
	Used         int64
	Returned     int64
	Wasted       int64
	Variance     int64 // esperado - real
	Status       string
	ActorID      string
	Notes        string
	CreatedAt    time.Time
}

// StockVariation stock inicial menos stock final.
func (r *ReconciliationRecord) StockVariation() int64 {
	return r.OpeningStock - r.ClosingStock
}

// NetMovement entregado menos devuelto.
func (r *ReconciliationRecord) NetMovement() int64 {
	return r.Delivered - r.Returned
}

// UsedPercentage porcentaje usado sobre el stock inicial (2 decimales).
func (r *ReconciliationRecord) UsedPercentage() decimal.Decimal {
	return percentOf(r.Used, r.OpeningStock)
}

// WastePercentage porcentaje de merma sobre el stock inicial (2 decimales).
func (r *ReconciliationRecord) WastePercentage() decimal.Decimal {
	return percentOf(r.Wasted, r.OpeningStock)
}

// DifferenceKind BALANCED, SURPLUS o SHORTAGE según el signo de la variación.
func (r *ReconciliationRecord) DifferenceKind() string {
	switch {
	case r.Variance == 0:
		return DifferenceBalanced
	case r.Variance > 0:
		return DifferenceSurplus
	default:
		return DifferenceShortage
	}
}

func percentOf(part, total int64) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(part).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(total)).Round(2)
}

// ReconciliationLogEntry bitácora append-only de cada ejecución de liquidación.
type ReconciliationLogEntry struct {
	ID                 string
	Kind               string
	Week               int
	Year               int
	WarehouseID        string // vacío en la verificación central
	ActorID            string
	Description        string
	ProductsProcessed  int
	DiscrepanciesFound int
	CreatedAt          time.Time
}

// ReconciliationFilter filtros de consulta de liquidaciones.
type ReconciliationFilter struct {
	Week        int
	Year        int
	WarehouseID string
	ProductID   string
	Limit       int
	Offset      int
}

// ReconciliationSummary agregado de liquidaciones (resumen).
type ReconciliationSummary struct {
	TotalProducts          int
	ProductsWithDifference int
	TotalOpeningStock      int64
	TotalClosingStock      int64
	TotalDelivered         int64
	TotalUsed              int64
	TotalReturned          int64
	TotalWasted            int64
	TotalVariance          int64
	DifferencePercentage   decimal.Decimal
	OverallState           string
}
