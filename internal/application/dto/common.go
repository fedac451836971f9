package dto

// ErrorResponse formato estándar de error en la API.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ListResponse envoltorio de listados. Version es la versión de la instantánea
// compartida (se repite en el header ETag).
type ListResponse[T any] struct {
	Items   []T    `json:"items"`
	Total   int    `json:"total"`
	Version string `json:"version,omitempty"`
}

// NewList arma un ListResponse sin devolver nunca items en null.
func NewList[T any](items []T, version string) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Total: len(items), Version: version}
}
