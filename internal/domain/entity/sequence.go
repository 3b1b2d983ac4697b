package entity

// SequenceCounter último número emitido por tipo de documento.
type SequenceCounter struct {
	DocumentType string
	LastValue    int64
}
