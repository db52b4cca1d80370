package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// Window aplica la página a un total de n elementos y devuelve los índices [from, to).
func (p PageRequest) Window(n int) (from, to int) {
	from = p.Offset
	if from > n {
		from = n
	}
	to = from + p.Limit
	if to > n {
		to = n
	}
	return from, to
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

// DeleteResponse resultado de un borrado permitido por el guardián.
type DeleteResponse struct {
	Entity string `json:"entity"`
	ID     int64  `json:"id"`
	// Deleted número de filas eliminadas (una orden cuenta también sus ítems).
	Deleted int `json:"deleted"`
}
