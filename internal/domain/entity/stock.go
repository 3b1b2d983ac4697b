package entity

import "time"

// StockLevel cantidad actual de un producto en una bodega. Nunca negativa; nunca se elimina.
type StockLevel struct {
	ProductID   string
	WarehouseID string
	Quantity    int64
	UpdatedAt   time.Time
}
