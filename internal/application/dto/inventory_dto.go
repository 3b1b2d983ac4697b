package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventory/movements. En ADJUST la cantidad
// lleva signo; en IN y OUT debe ser positiva.
type RegisterMovementRequest struct {
	ProductID   string           `json:"product_id" validate:"required"`
	WarehouseID string           `json:"warehouse_id"`
	Location    string           `json:"location" validate:"omitempty,max=100"`
	Type        string           `json:"type" validate:"required,oneof=IN OUT ADJUST"`
	Quantity    int64            `json:"quantity" validate:"required"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"`
	Reference   string           `json:"reference" validate:"omitempty,max=100"`
}

// MovementResponse un renglón del kardex.
type MovementResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	WarehouseID  string          `json:"warehouse_id"`
	Location     string          `json:"location,omitempty"`
	Type         string          `json:"type"`
	Quantity     int64           `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	Reference    string          `json:"reference,omitempty"`
	ActorID      string          `json:"actor_id"`
	BalanceAfter int64           `json:"balance_after"`
	CreatedAt    time.Time       `json:"created_at"`
}

// StockItemResponse stock de un producto en una bodega.
type StockItemResponse struct {
	ProductID    string    `json:"product_id"`
	InternalCode string    `json:"internal_code"`
	ProductName  string    `json:"product_name"`
	Quantity     int64     `json:"quantity"`
	MinStock     int64     `json:"min_stock"`
	BelowMinimum bool      `json:"below_minimum"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LedgerCheckResponse resultado de reconstruir el saldo desde el kardex.
type LedgerCheckResponse struct {
	ProductID   string `json:"product_id"`
	WarehouseID string `json:"warehouse_id"`
	Replayed    int64  `json:"replayed"`
	Stock       int64  `json:"stock"`
	Movements   int    `json:"movements"`
	Consistent  bool   `json:"consistent"`
}
