// Package sequence emite los números de documento (PREFIJO-dddddddddd).
package sequence

import (
	"context"
	"fmt"

	"github.com/jhoicas/sedes-inventario/internal/domain"
	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
	"github.com/jhoicas/sedes-inventario/internal/domain/repository"
)

var prefixes = map[string]string{
	entity.DocumentTypeRequisition: "REQ",
	entity.DocumentTypeDispatch:    "SAL",
	entity.DocumentTypeReceipt:     "ING",
	entity.DocumentTypeWaste:       "MER",
}

// Prefix prefijo del número para el tipo de documento.
func Prefix(docType string) (string, bool) {
	p, ok := prefixes[docType]
	return p, ok
}

// Format arma el número visible, ej. SAL-0000000042.
func Format(prefix string, n int64) string {
	return fmt.Sprintf("%s-%010d", prefix, n)
}

// Generator emite números usando el contador por tipo dentro de la transacción del llamador.
type Generator struct{}

// NewGenerator construye el generador.
func NewGenerator() *Generator {
	return &Generator{}
}

// NextNumber bloquea el contador del tipo, lo incrementa y devuelve el número formateado.
// Corre en la transacción del llamador: si ésta se aborta el contador no avanza.
func (g *Generator) NextNumber(ctx context.Context, seq repository.SequenceRepository, docType string) (string, error) {
	prefix, ok := Prefix(docType)
	if !ok {
		return "", domain.NewValidationError("type", "tipo de documento sin numeración: %q", docType)
	}
	n, err := seq.Increment(ctx, docType)
	if err != nil {
		return "", fmt.Errorf("next number %s: %w", docType, err)
	}
	return Format(prefix, n), nil
}

// AssignIfMissing asigna número solo si el documento aún no tiene uno.
func (g *Generator) AssignIfMissing(ctx context.Context, seq repository.SequenceRepository, doc *entity.Document) error {
	if doc.Number != "" {
		return nil
	}
	number, err := g.NextNumber(ctx, seq, doc.Type)
	if err != nil {
		return err
	}
	doc.Number = number
	return nil
}
