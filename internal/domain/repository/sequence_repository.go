package repository

import "context"

// SequenceRepository contador atómico por tipo de documento.
type SequenceRepository interface {
	// Increment bloquea el contador del tipo, lo incrementa y devuelve el nuevo valor.
	Increment(ctx context.Context, docType string) (int64, error)
}
