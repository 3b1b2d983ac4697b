package document

import (
	"context"

	"github.com/jhoicas/sedes-inventario/internal/domain"
	domaindoc "github.com/jhoicas/sedes-inventario/internal/domain/document"
	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
	"github.com/jhoicas/sedes-inventario/internal/domain/repository"
)

// EnsureTransferReceipt garantiza el ingreso en DRAFT de una salida CONFIRMED entre sedes.
// Es idempotente: si ya existe un ingreso con esa salida como origen, lo devuelve.
func (uc *EngineUseCase) EnsureTransferReceipt(ctx context.Context, dispatchID string) (*entity.Document, error) {
	var out *entity.Document
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		dispatch, err := lockDocument(ctx, repos, dispatchID, entity.DocumentTypeDispatch)
		if err != nil {
			return err
		}
		if err := domaindoc.RequireState(dispatch, entity.DocumentStateConfirmed); err != nil {
			return err
		}
		if !dispatch.IsTransfer() {
			return domain.NewValidationError("destination_warehouse_id", "la salida %s no es un traslado", dispatch.Number)
		}
		out, err = uc.ensureTransferReceipt(ctx, repos, dispatch)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ensureTransferReceipt crea el ingreso en la sede destino. La clave de idempotencia es
// (origen, RECEIPT) y se consulta dentro del bloqueo de la salida.
func (uc *EngineUseCase) ensureTransferReceipt(ctx context.Context, repos repository.Repos, dispatch *entity.Document) (*entity.Document, error) {
	existing, err := repos.Documents.FindByOrigin(ctx, dispatch.ID, entity.DocumentTypeReceipt, "")
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	requester := dispatch.RequesterID
	keeper, err := repos.Users.FindKeeperByWarehouse(ctx, dispatch.DestinationWarehouseID)
	if err != nil {
		return nil, err
	}
	if keeper != nil {
		requester = keeper.ID
	}
	receipt := uc.newDocument(entity.DocumentTypeReceipt, dispatch.DestinationWarehouseID, requester, uc.now())
	receipt.OriginDocumentID = dispatch.ID
	receipt.OriginWarehouseID = dispatch.WarehouseID
	receipt.Notes = "ING generado por transferencia desde " + dispatch.Number
	if err := repos.Documents.Create(ctx, receipt); err != nil {
		return nil, err
	}
	if err := copyLines(ctx, repos, dispatch, receipt, "Recepción de "+dispatch.Number); err != nil {
		return nil, err
	}
	return receipt, nil
}

// fulfillRequisition marca FULFILLED el requerimiento PENDING que originó la salida.
func (uc *EngineUseCase) fulfillRequisition(ctx context.Context, repos repository.Repos, dispatch *entity.Document, actorID string) error {
	origin, err := repos.Documents.GetForUpdate(ctx, dispatch.OriginDocumentID)
	if err != nil {
		return err
	}
	if origin == nil || origin.Type != entity.DocumentTypeRequisition || origin.State != entity.DocumentStatePending {
		return nil
	}
	if err := domaindoc.Transition(origin, entity.DocumentStateFulfilled); err != nil {
		return err
	}
	origin.FulfillerID = actorID
	origin.UpdatedAt = uc.now()
	return repos.Documents.Update(ctx, origin)
}

// markDispatchReceived marca como recibida la salida CONFIRMED que originó el ingreso,
// solo si iba dirigida a la sede del ingreso y aún no estaba recibida.
func (uc *EngineUseCase) markDispatchReceived(ctx context.Context, repos repository.Repos, receipt *entity.Document, actorID string) error {
	origin, err := repos.Documents.GetForUpdate(ctx, receipt.OriginDocumentID)
	if err != nil {
		return err
	}
	if origin == nil || origin.Type != entity.DocumentTypeDispatch || origin.State != entity.DocumentStateConfirmed {
		return nil
	}
	if origin.DestinationWarehouseID != receipt.WarehouseID || origin.Received {
		return nil
	}
	now := uc.now()
	origin.Received = true
	origin.ReceivedBy = actorID
	origin.ReceivedAt = &now
	origin.UpdatedAt = now
	return repos.Documents.Update(ctx, origin)
}
