// Package document implementa el motor documental: requerimientos, salidas, ingresos y mermas,
// sus transiciones de estado y las cascadas entre sedes.
package document

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/sedes-inventario/internal/application/inventory"
	"github.com/jhoicas/sedes-inventario/internal/application/sequence"
	"github.com/jhoicas/sedes-inventario/internal/domain"
	domaindoc "github.com/jhoicas/sedes-inventario/internal/domain/document"
	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
	"github.com/jhoicas/sedes-inventario/internal/domain/repository"
	"github.com/jhoicas/sedes-inventario/pkg/logger"
)

// EngineUseCase casos de uso del ciclo de vida de documentos. Toda operación que cambia estado
// corre en una sola transacción: o se aplica completa o no queda nada.
type EngineUseCase struct {
	txRunner inventory.TxRunner
	repos    repository.Repos
	ledger   *inventory.LedgerUseCase
	numbers  *sequence.Generator
	log      *logger.Logger
	now      inventory.Clock
}

// NewEngineUseCase construye el motor. repos se usa para lecturas fuera de transacción.
func NewEngineUseCase(
	txRunner inventory.TxRunner,
	repos repository.Repos,
	ledger *inventory.LedgerUseCase,
	numbers *sequence.Generator,
	log *logger.Logger,
) *EngineUseCase {
	return &EngineUseCase{
		txRunner: txRunner,
		repos:    repos,
		ledger:   ledger,
		numbers:  numbers,
		log:      log.Named("document_engine"),
		now:      time.Now,
	}
}

// SetClock reemplaza la fuente de hora.
func (uc *EngineUseCase) SetClock(now inventory.Clock) {
	uc.now = now
}

// RequisitionInput entrada para crear un requerimiento en borrador.
type RequisitionInput struct {
	ActorID                string
	WarehouseID            string
	Kind                   string
	DestinationWarehouseID string
	Supplier               string
	Location               string
	Notes                  string
	Date                   time.Time
}

// DraftInput entrada para crear una salida, ingreso o merma en borrador.
type DraftInput struct {
	ActorID                string
	Type                   string
	WarehouseID            string
	DestinationWarehouseID string
	Location               string
	Notes                  string
	Date                   time.Time
}

// CreateDraftRequisition crea un REQUISITION en DRAFT validando la clase de requerimiento.
func (uc *EngineUseCase) CreateDraftRequisition(ctx context.Context, in RequisitionInput) (*entity.Document, error) {
	kind := strings.ToUpper(strings.TrimSpace(in.Kind))
	if kind == "" {
		kind = entity.RequisitionKindLocal
	}
	if !domaindoc.ValidRequisitionKind(kind) {
		return nil, domain.NewValidationError("requisition_kind", "clase de requerimiento desconocida %q", in.Kind)
	}
	var out *entity.Document
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		if _, err := activeWarehouse(ctx, repos, in.WarehouseID, "warehouse_id"); err != nil {
			return err
		}
		doc := uc.newDocument(entity.DocumentTypeRequisition, in.WarehouseID, in.ActorID, in.Date)
		doc.RequisitionKind = kind
		doc.DestinationWarehouseID = in.DestinationWarehouseID
		doc.Supplier = strings.TrimSpace(in.Supplier)
		doc.Location = in.Location
		doc.Notes = in.Notes
		if doc.DestinationWarehouseID != "" {
			if _, err := activeWarehouse(ctx, repos, doc.DestinationWarehouseID, "destination_warehouse_id"); err != nil {
				return err
			}
		}
		central, err := repos.Warehouses.GetActiveCentral(ctx)
		if err != nil {
			return err
		}
		if err := domaindoc.ValidateRequisition(doc, central); err != nil {
			return err
		}
		if err := repos.Documents.Create(ctx, doc); err != nil {
			return err
		}
		out = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CreateDraft crea una salida, ingreso o merma en DRAFT. El destino solo aplica a salidas;
// la regla "solo la CENTRAL despacha a otra sede" se evalúa al confirmar.
func (uc *EngineUseCase) CreateDraft(ctx context.Context, in DraftInput) (*entity.Document, error) {
	if !entity.IsMovementDocumentType(in.Type) {
		return nil, domain.NewValidationError("type", "tipo de documento no admitido %q", in.Type)
	}
	if in.DestinationWarehouseID != "" && in.Type != entity.DocumentTypeDispatch {
		return nil, domain.NewValidationError("destination_warehouse_id", "solo una salida admite sede destino")
	}
	var out *entity.Document
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		if _, err := activeWarehouse(ctx, repos, in.WarehouseID, "warehouse_id"); err != nil {
			return err
		}
		if in.DestinationWarehouseID != "" {
			if _, err := activeWarehouse(ctx, repos, in.DestinationWarehouseID, "destination_warehouse_id"); err != nil {
				return err
			}
		}
		doc := uc.newDocument(in.Type, in.WarehouseID, in.ActorID, in.Date)
		doc.DestinationWarehouseID = in.DestinationWarehouseID
		if doc.DestinationWarehouseID != "" {
			doc.OriginWarehouseID = in.WarehouseID
		}
		doc.Location = in.Location
		doc.Notes = in.Notes
		if err := repos.Documents.Create(ctx, doc); err != nil {
			return err
		}
		out = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get obtiene un documento con sus líneas.
func (uc *EngineUseCase) Get(ctx context.Context, id string) (*entity.Document, error) {
	doc, err := uc.repos.Documents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

// List lista documentos con filtros.
func (uc *EngineUseCase) List(ctx context.Context, filter entity.DocumentFilter) ([]*entity.Document, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return uc.repos.Documents.List(ctx, filter)
}

// ApplyRequisitionDefaults completa clase, destino y proveedor de un requerimiento en DRAFT
// según el rol y la sede del actor (ver NormalizeRequisitionDefaults).
func (uc *EngineUseCase) ApplyRequisitionDefaults(ctx context.Context, docID, actorRole, actorWarehouseID string) (*entity.Document, error) {
	var out *entity.Document
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		doc, err := lockDocument(ctx, repos, docID, entity.DocumentTypeRequisition)
		if err != nil {
			return err
		}
		if err := domaindoc.RequireState(doc, entity.DocumentStateDraft); err != nil {
			return err
		}
		var actorWarehouse *entity.Warehouse
		if actorWarehouseID != "" {
			if actorWarehouse, err = repos.Warehouses.GetByID(ctx, actorWarehouseID); err != nil {
				return err
			}
		}
		centralID := ""
		central, err := repos.Warehouses.GetActiveCentral(ctx)
		if err != nil {
			return err
		}
		if central != nil {
			centralID = central.ID
		}
		normalized := domaindoc.NormalizeRequisitionDefaults(*doc, actorRole, actorWarehouse, centralID)
		normalized.UpdatedAt = uc.now()
		if err := repos.Documents.Update(ctx, &normalized); err != nil {
			return err
		}
		out = &normalized
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (uc *EngineUseCase) newDocument(docType, warehouseID, actorID string, date time.Time) *entity.Document {
	now := uc.now()
	if date.IsZero() {
		date = now
	}
	return &entity.Document{
		ID:          uuid.New().String(),
		Type:        docType,
		Date:        date,
		WarehouseID: warehouseID,
		RequesterID: actorID,
		State:       entity.DocumentStateDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// activeWarehouse carga una bodega exigiendo que exista y esté activa.
func activeWarehouse(ctx context.Context, repos repository.Repos, id, field string) (*entity.Warehouse, error) {
	if id == "" {
		return nil, domain.NewValidationError(field, "la bodega es obligatoria")
	}
	w, err := repos.Warehouses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.NewValidationError(field, "la bodega %s no existe", id)
	}
	if !w.Active {
		return nil, domain.NewValidationError(field, "la bodega %s está inactiva", w.Name)
	}
	return w, nil
}

// lockDocument bloquea el documento y verifica su tipo ("" = cualquiera).
func lockDocument(ctx context.Context, repos repository.Repos, id, docType string) (*entity.Document, error) {
	doc, err := repos.Documents.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	if docType != "" && doc.Type != docType {
		return nil, domain.NewValidationError("type", "se esperaba un documento %s y es %s", docType, doc.Type)
	}
	return doc, nil
}
