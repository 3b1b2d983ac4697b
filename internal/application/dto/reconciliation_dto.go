package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RunReconciliationRequest ejecuta una liquidación. Week/Year en cero usan la semana anterior.
type RunReconciliationRequest struct {
	WarehouseID string `json:"warehouse_id"`
	Week        int    `json:"week" validate:"omitempty,min=1,max=53"`
	Year        int    `json:"year" validate:"omitempty,min=2000,max=9999"`
	Notes       string `json:"notes" validate:"omitempty,max=1000"`
}

// ReconciliationQuery filtros de consulta.
type ReconciliationQuery struct {
	Week        int    `query:"week" validate:"omitempty,min=1,max=53"`
	Year        int    `query:"year" validate:"omitempty,min=2000,max=9999"`
	WarehouseID string `query:"warehouse_id"`
	ProductID   string `query:"product_id"`
	Limit       int    `query:"limit" validate:"omitempty,min=1,max=500"`
	Offset      int    `query:"offset" validate:"omitempty,min=0"`
}

// ReconciliationRecordResponse una fila de liquidación con sus derivados.
type ReconciliationRecordResponse struct {
	ID              string          `json:"id"`
	Week            int             `json:"week"`
	Year            int             `json:"year"`
	WarehouseID     string          `json:"warehouse_id"`
	ProductID       string          `json:"product_id"`
	OpeningStock    int64           `json:"opening_stock"`
	ClosingStock    int64           `json:"closing_stock"`
	Delivered       int64           `json:"delivered"`
	Used            int64           `json:"used"`
	Returned        int64           `json:"returned"`
	Wasted          int64           `json:"wasted"`
	Variance        int64           `json:"variance"`
	Status          string          `json:"status"`
	StockVariation  int64           `json:"stock_variation"`
	NetMovement     int64           `json:"net_movement"`
	UsedPercentage  decimal.Decimal `json:"used_percentage"`
	WastePercentage decimal.Decimal `json:"waste_percentage"`
	DifferenceKind  string          `json:"difference_kind"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ReconciliationRunResponse resultado de una ejecución.
type ReconciliationRunResponse struct {
	Week          int                            `json:"week"`
	Year          int                            `json:"year"`
	WarehouseID   string                         `json:"warehouse_id"`
	Discrepancies int                            `json:"discrepancies"`
	Records       []ReconciliationRecordResponse `json:"records"`
}

// ReconciliationSummaryResponse resumen agregado.
type ReconciliationSummaryResponse struct {
	TotalProducts          int             `json:"total_products"`
	ProductsWithDifference int             `json:"products_with_difference"`
	TotalOpeningStock      int64           `json:"total_opening_stock"`
	TotalClosingStock      int64           `json:"total_closing_stock"`
	TotalDelivered         int64           `json:"total_delivered"`
	TotalUsed              int64           `json:"total_used"`
	TotalReturned          int64           `json:"total_returned"`
	TotalWasted            int64           `json:"total_wasted"`
	TotalVariance          int64           `json:"total_variance"`
	DifferencePercentage   decimal.Decimal `json:"difference_percentage"`
	OverallState           string          `json:"overall_state"`
}

// ReconciliationLogResponse entrada de bitácora.
type ReconciliationLogResponse struct {
	ID                 string    `json:"id"`
	Kind               string    `json:"kind"`
	Week               int       `json:"week"`
	Year               int       `json:"year"`
	WarehouseID        string    `json:"warehouse_id,omitempty"`
	ActorID            string    `json:"actor_id"`
	Description        string    `json:"description"`
	ProductsProcessed  int       `json:"products_processed"`
	DiscrepanciesFound int       `json:"discrepancies_found"`
	CreatedAt          time.Time `json:"created_at"`
}

// PeriodResponse semana a liquidar por defecto.
type PeriodResponse struct {
	Week     int       `json:"week"`
	Year     int       `json:"year"`
	From     time.Time `json:"from"`
	To       time.Time `json:"to"`
	IsWindow bool      `json:"is_window"`
}
