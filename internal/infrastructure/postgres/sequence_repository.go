package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/sedes-inventario/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo contadores de numeración por tipo de documento.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Increment crea o avanza el contador en una sola sentencia. El upsert deja la fila bloqueada
// hasta el fin de la transacción, así que un rollback no consume el número.
func (r *SequenceRepo) Increment(ctx context.Context, docType string) (int64, error) {
	var next int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO document_sequences (document_type, last_value)
		VALUES ($1, 1)
		ON CONFLICT (document_type)
		DO UPDATE SET last_value = document_sequences.last_value + 1
		RETURNING last_value`,
		docType,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("increment sequence %s: %w", docType, err)
	}
	return next, nil
}
