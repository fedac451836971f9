// Package export genera planillas de órdenes de trabajo.
package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/ascensores-api/internal/application/ports"
)

const sheetName = "Órdenes"

var header = []any{
	"Creada", "Programada", "Estado", "Prioridad", "Tipo de reclamo", "Subtipo",
	"Dirección", "Activo", "Técnico", "Contacto", "Teléfono", "Descripción",
	"Inicio", "Fin", "Comentarios", "Repuestos",
}

// XLSXExporter implementa ports.WorkOrderExporter con excelize.
type XLSXExporter struct{}

// NewXLSXExporter construye el exportador.
func NewXLSXExporter() *XLSXExporter { return &XLSXExporter{} }

var _ ports.WorkOrderExporter = (*XLSXExporter)(nil)

// ExportWorkOrders arma una hoja con una fila por orden. Las fechas van en loc.
func (e *XLSXExporter) ExportWorkOrders(_ context.Context, rows []ports.WorkOrderSheetRow, loc *time.Location) ([]byte, error) {
	if loc == nil {
		loc = time.UTC
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("export: hoja: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"00467F"}},
	})
	if err != nil {
		return nil, fmt.Errorf("export: estilo: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("export: encabezado: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", bold); err != nil {
		return nil, fmt.Errorf("export: estilo: %w", err)
	}

	for i, r := range rows {
		w := r.Order
		if w == nil {
			continue
		}
		values := []any{
			w.CreatedAt.In(loc).Format("02/01/2006 15:04"),
			formatTime(w.DateTime, loc),
			w.Status,
			w.Priority,
			w.ClaimType,
			deref(w.CorrectiveType),
			r.Address,
			r.AssetLabel,
			r.TechnicianName,
			w.ContactName,
			w.ContactPhone,
			w.Description,
			formatTime(w.StartTime, loc),
			formatTime(w.FinishTime, loc),
			deref(w.Comments),
			formatParts(r),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("export: fila %d: %w", i+2, err)
		}
	}
	_ = f.SetColWidth(sheetName, "A", "F", 16)
	_ = f.SetColWidth(sheetName, "G", "L", 28)
	_ = f.SetColWidth(sheetName, "M", lastCol, 20)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

func formatTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format("02/01/2006 15:04")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// formatParts "Grasa x 1.5; Cable x 12".
func formatParts(r ports.WorkOrderSheetRow) string {
	parts := make([]string, 0, len(r.Order.PartsUsed))
	for _, p := range r.Order.PartsUsed {
		parts = append(parts, p.Name+" x "+p.Quantity.String())
	}
	return strings.Join(parts, "; ")
}
