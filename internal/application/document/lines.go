package document

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/sedes-inventario/internal/domain"
	domaindoc "github.com/jhoicas/sedes-inventario/internal/domain/document"
	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
	"github.com/jhoicas/sedes-inventario/internal/domain/repository"
)

// AddLine agrega un producto a un documento en DRAFT. Si el producto ya tiene línea,
// suma la cantidad. El costo unitario se copia del producto.
func (uc *EngineUseCase) AddLine(ctx context.Context, docID, productID string, qty int64, notes string) (*entity.Document, error) {
	if err := domaindoc.ValidateLineQuantity(qty); err != nil {
		return nil, err
	}
	return uc.mutateDraft(ctx, docID, func(repos repository.Repos, doc *entity.Document) error {
		product, err := repos.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.NewValidationError("product_id", "el producto %s no existe", productID)
		}
		if !product.Active {
			return domain.NewValidationError("product_id", "el producto %s está inactivo", product.InternalCode)
		}
		now := uc.now()
		if line := doc.Line(productID); line != nil {
			line.Quantity += qty
			if notes != "" {
				line.Notes = notes
			}
			line.UpdatedAt = now
			return repos.Documents.UpdateLine(ctx, line)
		}
		line := entity.DocumentLine{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			ProductID:  productID,
			Quantity:   qty,
			UnitCost:   product.StandardCost,
			Notes:      notes,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := repos.Documents.AddLine(ctx, &line); err != nil {
			return err
		}
		doc.Lines = append(doc.Lines, line)
		return nil
	})
}

// SetLineQty fija la cantidad de una línea existente (>= 1) en un documento DRAFT.
func (uc *EngineUseCase) SetLineQty(ctx context.Context, docID, productID string, qty int64) (*entity.Document, error) {
	if err := domaindoc.ValidateLineQuantity(qty); err != nil {
		return nil, err
	}
	return uc.mutateDraft(ctx, docID, func(repos repository.Repos, doc *entity.Document) error {
		line := doc.Line(productID)
		if line == nil {
			return domain.ErrNotFound
		}
		if err := domaindoc.ValidateLiquidation(qty, line.Returned, line.Wasted, line.Used); err != nil {
			return err
		}
		line.Quantity = qty
		line.UpdatedAt = uc.now()
		return repos.Documents.UpdateLine(ctx, line)
	})
}

// RemoveLine elimina la línea del producto en un documento DRAFT.
func (uc *EngineUseCase) RemoveLine(ctx context.Context, docID, productID string) (*entity.Document, error) {
	return uc.mutateDraft(ctx, docID, func(repos repository.Repos, doc *entity.Document) error {
		line := doc.Line(productID)
		if line == nil {
			return domain.ErrNotFound
		}
		if err := repos.Documents.DeleteLine(ctx, line.ID); err != nil {
			return err
		}
		kept := doc.Lines[:0]
		for _, l := range doc.Lines {
			if l.ProductID != productID {
				kept = append(kept, l)
			}
		}
		doc.Lines = kept
		return nil
	})
}

// LiquidationInput cantidades liquidadas de una línea.
type LiquidationInput struct {
	Returned int64
	Wasted   int64
	Used     int64
}

// SetLineLiquidation registra devuelto, merma y usado de una línea. Se permite en cualquier
// estado (liquidación posterior); exige returned + wasted + used <= quantity.
func (uc *EngineUseCase) SetLineLiquidation(ctx context.Context, docID, productID string, in LiquidationInput) (*entity.Document, error) {
	var out *entity.Document
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		doc, err := lockDocument(ctx, repos, docID, "")
		if err != nil {
			return err
		}
		line := doc.Line(productID)
		if line == nil {
			return domain.ErrNotFound
		}
		if err := domaindoc.ValidateLiquidation(line.Quantity, in.Returned, in.Wasted, in.Used); err != nil {
			return err
		}
		line.Returned, line.Wasted, line.Used = in.Returned, in.Wasted, in.Used
		line.UpdatedAt = uc.now()
		if err := repos.Documents.UpdateLine(ctx, line); err != nil {
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

// mutateDraft bloquea el documento, exige DRAFT y ejecuta fn en la misma transacción.
func (uc *EngineUseCase) mutateDraft(ctx context.Context, docID string, fn func(repos repository.Repos, doc *entity.Document) error) (*entity.Document, error) {
	var out *entity.Document
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		doc, err := lockDocument(ctx, repos, docID, "")
		if err != nil {
			return err
		}
		if err := domaindoc.RequireState(doc, entity.DocumentStateDraft); err != nil {
			return err
		}
		if err := fn(repos, doc); err != nil {
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
	return out, nil
}
