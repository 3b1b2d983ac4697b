package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de documento.
const (
	DocumentTypeRequisition = "REQUISITION" // requerimiento
	DocumentTypeDispatch    = "DISPATCH"    // salida
	DocumentTypeReceipt     = "RECEIPT"     // ingreso
	DocumentTypeWaste       = "WASTE"       // merma
)

// Estados de documento. REQUISITION usa DRAFT/PENDING/FULFILLED/REJECTED;
// DISPATCH, RECEIPT y WASTE usan DRAFT/CONFIRMED/VOIDED.
const (
	DocumentStateDraft     = "DRAFT"
	DocumentStatePending   = "PENDING"
	DocumentStateFulfilled = "FULFILLED"
	DocumentStateRejected  = "REJECTED"
	DocumentStateConfirmed = "CONFIRMED"
	DocumentStateVoided    = "VOIDED"
)

// Clases de requerimiento.
const (
	RequisitionKindLocal     = "LOCAL"
	RequisitionKindSupplier  = "SUPPLIER"
	RequisitionKindInterSite = "INTER_SITE"
)

// Document cabecera de un documento de negocio. Number queda vacío hasta que se asigna.
// OriginDocumentID es una referencia débil al documento que lo generó (REQ→SAL→ING).
type Document struct {
	ID                     string
	Type                   string
	RequisitionKind        string
	Number                 string
	Date                   time.Time
	WarehouseID            string
	Location               string
	OriginWarehouseID      string
	DestinationWarehouseID string
	Supplier               string
	RequesterID            string
	FulfillerID            string
	State                  string
	Notes                  string
	OriginDocumentID       string
	Received               bool
	ReceivedBy             string
	ReceivedAt             *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
	Lines                  []DocumentLine
}

// IsMovementDocument indica si el tipo afecta stock al confirmarse.
func (d *Document) IsMovementDocument() bool {
	return IsMovementDocumentType(d.Type)
}

// IsMovementDocumentType DISPATCH, RECEIPT y WASTE mueven stock.
func IsMovementDocumentType(docType string) bool {
	switch docType {
	case DocumentTypeDispatch, DocumentTypeReceipt, DocumentTypeWaste:
		return true
	}
	return false
}

// IsTransfer indica una salida hacia otra sede.
func (d *Document) IsTransfer() bool {
	return d.Type == DocumentTypeDispatch && d.DestinationWarehouseID != "" && d.DestinationWarehouseID != d.WarehouseID
}

// Line busca la línea del producto indicado.
func (d *Document) Line(productID string) *DocumentLine {
	for i := range d.Lines {
		if d.Lines[i].ProductID == productID {
			return &d.Lines[i]
		}
	}
	return nil
}

// DocumentLine detalle (documento, producto) único. Returned+Wasted+Used <= Quantity.
type DocumentLine struct {
	ID         string
	DocumentID string
	ProductID  string
	Quantity   int64
	UnitCost   decimal.Decimal
	Notes      string
	Returned   int64
	Wasted     int64
	Used       int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Liquidated suma de las cantidades liquidadas de la línea.
func (l *DocumentLine) Liquidated() int64 {
	return l.Returned + l.Wasted + l.Used
}

// DocumentFilter filtros para listados de documentos.
type DocumentFilter struct {
	Type        string
	State       string
	WarehouseID string
	RequesterID string
	Limit       int
	Offset      int
}
