// Package document contiene las reglas puras del motor documental: máquinas de estado,
// restricciones por clase de requerimiento y cantidades de liquidación.
package document

import (
	"github.com/jhoicas/sedes-inventario/internal/domain"
	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
)

var requisitionTransitions = map[string][]string{
	entity.DocumentStateDraft:   {entity.DocumentStatePending},
	entity.DocumentStatePending: {entity.DocumentStateFulfilled, entity.DocumentStateRejected},
}

var movementTransitions = map[string][]string{
	entity.DocumentStateDraft: {entity.DocumentStateConfirmed, entity.DocumentStateVoided},
}

// ValidType valida el tipo de documento.
func ValidType(docType string) bool {
	return docType == entity.DocumentTypeRequisition || entity.IsMovementDocumentType(docType)
}

// CanTransition indica si el tipo admite pasar de from a to.
func CanTransition(docType, from, to string) bool {
	table := movementTransitions
	if docType == entity.DocumentTypeRequisition {
		table = requisitionTransitions
	} else if !entity.IsMovementDocumentType(docType) {
		return false
	}
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition aplica la transición o devuelve ValidationError sobre el campo state.
func Transition(doc *entity.Document, to string) error {
	if !CanTransition(doc.Type, doc.State, to) {
		return domain.NewValidationError("state", "%s no puede pasar de %s a %s", doc.Type, doc.State, to)
	}
	doc.State = to
	return nil
}

// RequireState exige que el documento esté en el estado indicado.
func RequireState(doc *entity.Document, state string) error {
	if doc.State != state {
		return domain.NewValidationError("state", "el documento %s está en %s, se requiere %s", doc.ID, doc.State, state)
	}
	return nil
}

// RequireLines exige al menos una línea.
func RequireLines(doc *entity.Document) error {
	if len(doc.Lines) == 0 {
		return domain.NewValidationError("lines", "el documento no tiene líneas")
	}
	return nil
}

// ValidRequisitionKind valida la clase de requerimiento.
func ValidRequisitionKind(kind string) bool {
	switch kind {
	case entity.RequisitionKindLocal, entity.RequisitionKindSupplier, entity.RequisitionKindInterSite:
		return true
	}
	return false
}

// ValidateRequisition aplica las restricciones de campos por clase de requerimiento.
// central es la bodega CENTRAL activa (nil si no existe).
func ValidateRequisition(doc *entity.Document, central *entity.Warehouse) error {
	switch doc.RequisitionKind {
	case entity.RequisitionKindLocal:
		if doc.Supplier != "" {
			return domain.NewValidationError("supplier", "un requerimiento LOCAL no admite proveedor")
		}
		if doc.DestinationWarehouseID != "" {
			return domain.NewValidationError("destination_warehouse_id", "un requerimiento LOCAL no admite sede destino")
		}
	case entity.RequisitionKindSupplier:
		if doc.Supplier == "" {
			return domain.NewValidationError("supplier", "un requerimiento SUPPLIER requiere proveedor")
		}
		if doc.DestinationWarehouseID != "" {
			return domain.NewValidationError("destination_warehouse_id", "un requerimiento SUPPLIER no admite sede destino")
		}
		if central == nil {
			return domain.NewConfigurationError("no existe bodega CENTRAL activa")
		}
		if doc.WarehouseID != central.ID {
			return domain.NewValidationError("requisition_kind", "SUPPLIER solo aplica en la sede CENTRAL")
		}
	case entity.RequisitionKindInterSite:
		if doc.Supplier != "" {
			return domain.NewValidationError("supplier", "un requerimiento INTER_SITE no admite proveedor")
		}
		if doc.DestinationWarehouseID == "" {
			return domain.NewValidationError("destination_warehouse_id", "un requerimiento INTER_SITE requiere sede destino")
		}
		if central == nil {
			return domain.NewConfigurationError("no existe bodega CENTRAL activa")
		}
		if doc.DestinationWarehouseID != central.ID {
			return domain.NewValidationError("destination_warehouse_id", "la sede destino debe ser la CENTRAL")
		}
		if doc.WarehouseID == central.ID {
			return domain.NewValidationError("requisition_kind", "la sede CENTRAL no puede pedir INTER_SITE")
		}
	default:
		return domain.NewValidationError("requisition_kind", "clase de requerimiento desconocida %q", doc.RequisitionKind)
	}
	return nil
}

// ValidateLineQuantity la cantidad de una línea debe ser >= 1.
func ValidateLineQuantity(qty int64) error {
	if qty < 1 {
		return domain.NewValidationError("quantity", "la cantidad debe ser al menos 1")
	}
	return nil
}

// ValidateLiquidation returned + wasted + used <= quantity, todas no negativas.
func ValidateLiquidation(quantity, returned, wasted, used int64) error {
	if returned < 0 || wasted < 0 || used < 0 {
		return domain.NewValidationError("liquidation", "las cantidades liquidadas no pueden ser negativas")
	}
	if returned+wasted+used > quantity {
		return domain.NewValidationError("liquidation",
			"devuelto (%d) + merma (%d) + usado (%d) supera la cantidad %d", returned, wasted, used, quantity)
	}
	return nil
}

// MovementKindFor tipo de movimiento que genera cada documento al confirmarse.
func MovementKindFor(docType string) string {
	if docType == entity.DocumentTypeReceipt {
		return entity.MovementKindIN
	}
	return entity.MovementKindOUT
}
