package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. InternalCode vacío se autogenera.
type CreateProductRequest struct {
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	InternalCode string          `json:"internal_code" validate:"omitempty,max=40"`
	Barcode      string          `json:"barcode" validate:"omitempty,max=32"`
	Unit         string          `json:"unit" validate:"omitempty,max=20"`
	StandardCost decimal.Decimal `json:"standard_cost"`
	MinStock     int64           `json:"min_stock" validate:"min=0"`
}

// UpdateProductRequest entrada para actualizar un producto (el stock solo cambia vía movimientos).
type UpdateProductRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Barcode      *string          `json:"barcode" validate:"omitempty,max=32"`
	Unit         *string          `json:"unit" validate:"omitempty,max=20"`
	StandardCost *decimal.Decimal `json:"standard_cost"`
	MinStock     *int64           `json:"min_stock" validate:"omitempty,min=0"`
	Active       *bool            `json:"active"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	InternalCode string          `json:"internal_code"`
	Barcode      string          `json:"barcode,omitempty"`
	Unit         string          `json:"unit"`
	StandardCost decimal.Decimal `json:"standard_cost"`
	MinStock     int64           `json:"min_stock"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// NextCodeResponse próximo código interno disponible.
type NextCodeResponse struct {
	Code string `json:"code"`
}
