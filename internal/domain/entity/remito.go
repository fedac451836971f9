package entity

import (
	"fmt"
	"time"
)

// Remito comprobante numerado de una orden completada. Uno por orden: regenerar
// reemplaza el registro (upsert por WorkOrderID) con un número nuevo.
type Remito struct {
	CompanyID    string
	WorkOrderID  string
	RemitoNumber int64
	FileURL      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FormatRemitoNumber formatea el número a 8 dígitos con ceros a la izquierda.
func FormatRemitoNumber(n int64) string {
	return fmt.Sprintf("%08d", n)
}

// Display devuelve el número formateado.
func (r *Remito) Display() string {
	return FormatRemitoNumber(r.RemitoNumber)
}
