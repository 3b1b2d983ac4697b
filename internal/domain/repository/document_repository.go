package repository

import (
	"context"
	"time"

	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
)

// DocumentRepository puerto de persistencia de documentos y sus líneas.
// GetByID y GetForUpdate cargan las líneas; devuelven (nil, nil) si no existe.
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	GetByID(ctx context.Context, id string) (*entity.Document, error)
	// GetForUpdate bloquea la cabecera del documento hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Document, error)
	Update(ctx context.Context, doc *entity.Document) error
	List(ctx context.Context, filter entity.DocumentFilter) ([]*entity.Document, error)
	// FindByOrigin busca un documento derivado por (origen, tipo); state vacío = cualquier estado.
	FindByOrigin(ctx context.Context, originID, docType, state string) (*entity.Document, error)

	AddLine(ctx context.Context, line *entity.DocumentLine) error
	UpdateLine(ctx context.Context, line *entity.DocumentLine) error
	DeleteLine(ctx context.Context, lineID string) error
	// ListConfirmedLines líneas de documentos CONFIRMED del tipo dado con fecha en [from, to).
	ListConfirmedLines(ctx context.Context, warehouseID, docType string, from, to time.Time) ([]*entity.DocumentLine, error)
}
