package document

import "github.com/jhoicas/sedes-inventario/internal/domain/entity"

// NormalizeRequisitionDefaults completa la clase y los campos de un requerimiento según el rol
// y la sede operativa del actor. Es pura: recibe una copia y devuelve otra.
//   - sin clase → LOCAL
//   - solicitante → LOCAL, sin proveedor ni destino
//   - almacen en la CENTRAL → SUPPLIER, sin destino
//   - almacen en otra sede → INTER_SITE hacia la CENTRAL, sin proveedor
func NormalizeRequisitionDefaults(doc entity.Document, actorRole string, actorWarehouse *entity.Warehouse, centralID string) entity.Document {
	if doc.Type != entity.DocumentTypeRequisition {
		return doc
	}
	if doc.RequisitionKind == "" {
		doc.RequisitionKind = entity.RequisitionKindLocal
	}
	switch actorRole {
	case entity.RoleSolicitante:
		doc.RequisitionKind = entity.RequisitionKindLocal
		doc.DestinationWarehouseID = ""
		doc.Supplier = ""
	case entity.RoleAlmacen:
		if actorWarehouse == nil {
			return doc
		}
		if actorWarehouse.IsCentral() {
			doc.RequisitionKind = entity.RequisitionKindSupplier
			doc.DestinationWarehouseID = ""
			return doc
		}
		doc.RequisitionKind = entity.RequisitionKindInterSite
		doc.Supplier = ""
		if centralID != "" {
			doc.DestinationWarehouseID = centralID
		}
	}
	return doc
}
