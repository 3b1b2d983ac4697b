package document

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/sedes-inventario/internal/application/inventory"
	"github.com/jhoicas/sedes-inventario/internal/domain"
	domaindoc "github.com/jhoicas/sedes-inventario/internal/domain/document"
	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
	"github.com/jhoicas/sedes-inventario/internal/domain/repository"
)

// SubmitRequisition DRAFT → PENDING: exige líneas, valida la clase y asigna número si falta.
func (uc *EngineUseCase) SubmitRequisition(ctx context.Context, docID, actorID string) (*entity.Document, error) {
	var out *entity.Document
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		doc, err := lockDocument(ctx, repos, docID, entity.DocumentTypeRequisition)
		if err != nil {
			return err
		}
		if err := domaindoc.RequireState(doc, entity.DocumentStateDraft); err != nil {
			return err
		}
		if err := domaindoc.RequireLines(doc); err != nil {
			return err
		}
		central, err := repos.Warehouses.GetActiveCentral(ctx)
		if err != nil {
			return err
		}
		if err := domaindoc.ValidateRequisition(doc, central); err != nil {
			return err
		}
		if err := uc.numbers.AssignIfMissing(ctx, repos.Sequences, doc); err != nil {
			return err
		}
		if err := domaindoc.Transition(doc, entity.DocumentStatePending); err != nil {
			return err
		}
		doc.UpdatedAt = uc.now()
		if err := repos.Documents.Update(ctx, doc); err != nil {
			return err
		}
		out = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("document", out.Number).Str("actor", actorID).Msg("requerimiento enviado")
	return out, nil
}

// RejectRequisition PENDING → REJECTED; el motivo se agrega a las notas.
func (uc *EngineUseCase) RejectRequisition(ctx context.Context, docID, actorID, reason string) (*entity.Document, error) {
	var out *entity.Document
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		doc, err := lockDocument(ctx, repos, docID, entity.DocumentTypeRequisition)
		if err != nil {
			return err
		}
		if err := domaindoc.Transition(doc, entity.DocumentStateRejected); err != nil {
			return err
		}
		if reason = strings.TrimSpace(reason); reason != "" {
			if doc.Notes != "" {
				doc.Notes += "\n"
			}
			doc.Notes += "Rechazado: " + reason
		}
		doc.FulfillerID = actorID
		doc.UpdatedAt = uc.now()
		if err := repos.Documents.Update(ctx, doc); err != nil {
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

// ConvertToDispatch genera la salida en DRAFT que atiende un requerimiento PENDING.
// Bajo bloqueo del requerimiento: si ya existe una salida DRAFT con ese origen la devuelve.
// La salida sale de la sede del actor hacia la sede del requerimiento con las mismas líneas.
func (uc *EngineUseCase) ConvertToDispatch(ctx context.Context, requisitionID, actorID, actorWarehouseID string) (*entity.Document, error) {
	var out *entity.Document
	created := false
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		req, err := lockDocument(ctx, repos, requisitionID, entity.DocumentTypeRequisition)
		if err != nil {
			return err
		}
		if err := domaindoc.RequireState(req, entity.DocumentStatePending); err != nil {
			return err
		}
		if err := domaindoc.RequireLines(req); err != nil {
			return err
		}
		existing, err := repos.Documents.FindByOrigin(ctx, req.ID, entity.DocumentTypeDispatch, entity.DocumentStateDraft)
		if err != nil {
			return err
		}
		if existing != nil {
			out = existing
			return nil
		}
		if _, err := activeWarehouse(ctx, repos, actorWarehouseID, "warehouse_id"); err != nil {
			return err
		}
		dispatch := uc.newDocument(entity.DocumentTypeDispatch, actorWarehouseID, actorID, uc.now())
		dispatch.OriginDocumentID = req.ID
		dispatch.DestinationWarehouseID = req.WarehouseID
		dispatch.OriginWarehouseID = actorWarehouseID
		dispatch.Location = req.Location
		if req.Number != "" {
			dispatch.Notes = "Atiende " + req.Number
		}
		if err := repos.Documents.Create(ctx, dispatch); err != nil {
			return err
		}
		if err := copyLines(ctx, repos, req, dispatch, ""); err != nil {
			return err
		}
		out = dispatch
		created = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if created {
		uc.log.Info().Str("requisition", requisitionID).Str("dispatch", out.ID).Msg("salida generada desde requerimiento")
	}
	return out, nil
}

// ConfirmMovementDocument DRAFT → CONFIRMED para salidas, ingresos y mermas. En una sola
// transacción asigna número, aplica un movimiento por línea y ejecuta las cascadas.
// Cualquier error (p. ej. stock insuficiente) revierte todo.
func (uc *EngineUseCase) ConfirmMovementDocument(ctx context.Context, docID, actorID string) (*entity.Document, error) {
	var out *entity.Document
	var receipt *entity.Document
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		doc, err := lockDocument(ctx, repos, docID, "")
		if err != nil {
			return err
		}
		if !doc.IsMovementDocument() {
			return domain.NewValidationError("type", "un %s no se confirma, se envía", doc.Type)
		}
		if err := domaindoc.RequireState(doc, entity.DocumentStateDraft); err != nil {
			return err
		}
		if err := domaindoc.RequireLines(doc); err != nil {
			return err
		}
		if doc.IsTransfer() {
			if err := requireCentralOrigin(ctx, repos, doc); err != nil {
				return err
			}
		}
		if err := uc.numbers.AssignIfMissing(ctx, repos.Sequences, doc); err != nil {
			return err
		}
		kind := domaindoc.MovementKindFor(doc.Type)
		for i := range doc.Lines {
			line := &doc.Lines[i]
			product, err := repos.Products.GetByID(ctx, line.ProductID)
			if err != nil {
				return err
			}
			unitCost := line.UnitCost
			rec, err := inventory.NewMovement(product, inventory.MovementInput{
				WarehouseID: doc.WarehouseID,
				Location:    doc.Location,
				Kind:        kind,
				Quantity:    line.Quantity,
				UnitCost:    &unitCost,
				Reference:   doc.Number,
				ActorID:     actorID,
			})
			if err != nil {
				return err
			}
			if err := uc.ledger.Apply(ctx, repos, rec); err != nil {
				return err
			}
		}
		if err := domaindoc.Transition(doc, entity.DocumentStateConfirmed); err != nil {
			return err
		}
		doc.FulfillerID = actorID
		doc.UpdatedAt = uc.now()
		if err := repos.Documents.Update(ctx, doc); err != nil {
			return err
		}

		if doc.IsTransfer() {
			if receipt, err = uc.ensureTransferReceipt(ctx, repos, doc); err != nil {
				return err
			}
		}
		if doc.Type == entity.DocumentTypeDispatch && doc.OriginDocumentID != "" {
			if err := uc.fulfillRequisition(ctx, repos, doc, actorID); err != nil {
				return err
			}
		}
		if doc.Type == entity.DocumentTypeReceipt && doc.OriginDocumentID != "" {
			if err := uc.markDispatchReceived(ctx, repos, doc, actorID); err != nil {
				return err
			}
		}
		out = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	ev := uc.log.Info().Str("document", out.Number).Str("type", out.Type).Int("lines", len(out.Lines))
	if receipt != nil {
		ev = ev.Str("receipt", receipt.ID)
	}
	ev.Msg("documento confirmado")
	return out, nil
}

// VoidDraft DRAFT → VOIDED para salidas, ingresos y mermas. No genera movimientos.
func (uc *EngineUseCase) VoidDraft(ctx context.Context, docID, actorID string) (*entity.Document, error) {
	var out *entity.Document
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		doc, err := lockDocument(ctx, repos, docID, "")
		if err != nil {
			return err
		}
		if !doc.IsMovementDocument() {
			return domain.NewValidationError("type", "un %s no se anula", doc.Type)
		}
		if err := domaindoc.Transition(doc, entity.DocumentStateVoided); err != nil {
			return err
		}
		doc.FulfillerID = actorID
		doc.UpdatedAt = uc.now()
		if err := repos.Documents.Update(ctx, doc); err != nil {
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

// requireCentralOrigin solo la CENTRAL activa puede despachar hacia otra sede.
func requireCentralOrigin(ctx context.Context, repos repository.Repos, doc *entity.Document) error {
	central, err := repos.Warehouses.GetActiveCentral(ctx)
	if err != nil {
		return err
	}
	if central == nil {
		return domain.NewConfigurationError("no hay una sede CENTRAL activa")
	}
	if central.ID != doc.WarehouseID {
		return domain.NewValidationError("destination_warehouse_id", "solo la sede CENTRAL activa puede despachar a otra sede")
	}
	dest, err := repos.Warehouses.GetByID(ctx, doc.DestinationWarehouseID)
	if err != nil {
		return err
	}
	if dest == nil {
		return domain.NewValidationError("destination_warehouse_id", "la sede destino %s no existe", doc.DestinationWarehouseID)
	}
	return nil
}

// copyLines replica las líneas de src en dst (producto, cantidad, costo).
func copyLines(ctx context.Context, repos repository.Repos, src, dst *entity.Document, notes string) error {
	for _, l := range src.Lines {
		line := entity.DocumentLine{
			ID:         uuid.New().String(),
			DocumentID: dst.ID,
			ProductID:  l.ProductID,
			Quantity:   l.Quantity,
			UnitCost:   l.UnitCost,
			Notes:      l.Notes,
			CreatedAt:  dst.CreatedAt,
			UpdatedAt:  dst.CreatedAt,
		}
		if notes != "" {
			line.Notes = notes
		}
		if err := repos.Documents.AddLine(ctx, &line); err != nil {
			return err
		}
		dst.Lines = append(dst.Lines, line)
	}
	return nil
}
