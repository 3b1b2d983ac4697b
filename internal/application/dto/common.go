package dto

// Topes de paginación por tipo de listado.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100 // catálogos y documentos
	MaxKardexLimit   = 200
	MaxRecordsLimit  = 500 // filas de liquidación
)

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// NewPageRequest paginación ya normalizada: límite por defecto si no viene, recortado a max,
// y offset no negativo.
func NewPageRequest(limit, offset, max int) PageRequest {
	p := PageRequest{Limit: limit, Offset: offset}
	p.Normalize(DefaultPageLimit, max)
	return p
}

// Normalize aplica def si Limit no es positivo y recorta a max (max <= 0 no recorta).
func (p *PageRequest) Normalize(def, max int) {
	if p.Limit <= 0 {
		p.Limit = def
	}
	if max > 0 && p.Limit > max {
		p.Limit = max
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// Response metadatos de la página efectivamente servida.
func (p PageRequest) Response() PageResponse {
	return PageResponse{Limit: p.Limit, Offset: p.Offset}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
