package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateRequisitionRequest entrada para crear un requerimiento en borrador.
// WarehouseID vacío usa la sede del usuario.
type CreateRequisitionRequest struct {
	WarehouseID            string     `json:"warehouse_id"`
	Kind                   string     `json:"requisition_kind" validate:"omitempty,oneof=LOCAL SUPPLIER INTER_SITE"`
	DestinationWarehouseID string     `json:"destination_warehouse_id"`
	Supplier               string     `json:"supplier" validate:"omitempty,max=200"`
	Location               string     `json:"location" validate:"omitempty,max=100"`
	Notes                  string     `json:"notes" validate:"omitempty,max=1000"`
	Date                   *time.Time `json:"date"`
}

// CreateDocumentRequest entrada para crear una salida, ingreso o merma en borrador.
type CreateDocumentRequest struct {
	Type                   string     `json:"type" validate:"required,oneof=DISPATCH RECEIPT WASTE"`
	WarehouseID            string     `json:"warehouse_id"`
	DestinationWarehouseID string     `json:"destination_warehouse_id"`
	Location               string     `json:"location" validate:"omitempty,max=100"`
	Notes                  string     `json:"notes" validate:"omitempty,max=1000"`
	Date                   *time.Time `json:"date"`
}

// AddLineRequest agrega un producto (o suma cantidad) a un documento en borrador.
type AddLineRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"required,min=1"`
	Notes     string `json:"notes" validate:"omitempty,max=500"`
}

// SetLineQtyRequest fija la cantidad de una línea.
type SetLineQtyRequest struct {
	Quantity int64 `json:"quantity" validate:"required,min=1"`
}

// LiquidationRequest cantidades liquidadas de una línea.
type LiquidationRequest struct {
	Returned int64 `json:"returned" validate:"min=0"`
	Wasted   int64 `json:"wasted" validate:"min=0"`
	Used     int64 `json:"used" validate:"min=0"`
}

// RejectRequest motivo del rechazo de un requerimiento.
type RejectRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// DocumentListQuery filtros de GET /api/documents.
type DocumentListQuery struct {
	Type        string `query:"type" validate:"omitempty,oneof=REQUISITION DISPATCH RECEIPT WASTE"`
	State       string `query:"state" validate:"omitempty,oneof=DRAFT PENDING FULFILLED REJECTED CONFIRMED VOIDED"`
	WarehouseID string `query:"warehouse_id"`
	RequesterID string `query:"requester_id"`
	Limit       int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset      int    `query:"offset" validate:"omitempty,min=0"`
}

// DocumentLineResponse salida de una línea.
type DocumentLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Notes     string          `json:"notes,omitempty"`
	Returned  int64           `json:"returned"`
	Wasted    int64           `json:"wasted"`
	Used      int64           `json:"used"`
}

// DocumentResponse salida de un documento con sus líneas.
type DocumentResponse struct {
	ID                     string                 `json:"id"`
	Type                   string                 `json:"type"`
	RequisitionKind        string                 `json:"requisition_kind,omitempty"`
	Number                 string                 `json:"number,omitempty"`
	Date                   time.Time              `json:"date"`
	WarehouseID            string                 `json:"warehouse_id"`
	Location               string                 `json:"location,omitempty"`
	OriginWarehouseID      string                 `json:"origin_warehouse_id,omitempty"`
	DestinationWarehouseID string                 `json:"destination_warehouse_id,omitempty"`
	Supplier               string                 `json:"supplier,omitempty"`
	RequesterID            string                 `json:"requester_id"`
	FulfillerID            string                 `json:"fulfiller_id,omitempty"`
	State                  string                 `json:"state"`
	Notes                  string                 `json:"notes,omitempty"`
	OriginDocumentID       string                 `json:"origin_document_id,omitempty"`
	Received               bool                   `json:"received"`
	ReceivedBy             string                 `json:"received_by,omitempty"`
	ReceivedAt             *time.Time             `json:"received_at,omitempty"`
	Lines                  []DocumentLineResponse `json:"lines"`
	CreatedAt              time.Time              `json:"created_at"`
	UpdatedAt              time.Time              `json:"updated_at"`
}

// DocumentListResponse lista paginada de documentos.
type DocumentListResponse struct {
	Items []DocumentResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
