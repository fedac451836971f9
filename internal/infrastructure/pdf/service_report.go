// Package pdf genera los documentos PDF de las órdenes de trabajo.
//
// Informe de servicio (maroto, página A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa             │  INFORME DE SERVICIO + Fecha │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EDIFICIO: Dirección / Barrio / Cliente                      │
//	│  ACTIVO + TÉCNICO + Tipo de reclamo / Prioridad              │
//	│  HORARIOS: Inicio / Fin                                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TRABAJO: Descripción + Comentarios                          │
//	│  TABLA: Repuesto | Cantidad                                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: Firma del cliente + QR de la orden                  │
//	└─────────────────────────────────────────────────────────────┘
//
// El remito usa gofpdf con posiciones fijas sobre una plantilla (ver remito.go).
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/ascensores-api/internal/application/ports"
	"github.com/jhoicas/ascensores-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

const dateTimeLayout = "02/01/2006 15:04"

// ── Generator ─────────────────────────────────────────────────────────────────

// ServiceReportGenerator implementa ports.ServiceReportRenderer usando Maroto v2.
type ServiceReportGenerator struct{}

// NewServiceReportGenerator construye el generador.
func NewServiceReportGenerator() *ServiceReportGenerator { return &ServiceReportGenerator{} }

var _ ports.ServiceReportRenderer = (*ServiceReportGenerator)(nil)

// RenderServiceReport genera el PDF y devuelve sus bytes.
func (g *ServiceReportGenerator) RenderServiceReport(_ context.Context, r ports.ServiceReport) ([]byte, error) {
	if r.Order == nil || r.Building == nil {
		return nil, fmt.Errorf("pdf: informe sin orden o edificio")
	}
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Informe de servicio", true).
		WithAuthor(r.CompanyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(r, loc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(buildingRow(r.Building))
	m.AddRows(assetRow(r))
	m.AddRows(timesRow(r.Order, loc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(workRows(r.Order)...)
	if len(r.Order.PartsUsed) > 0 {
		m.AddRows(partsHeaderRow())
		m.AddRows(partsRows(r.Order.PartsUsed)...)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(r.Order))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar informe: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: empresa (izq) y título + fecha de emisión (der).
func headerRow(r ports.ServiceReport, loc *time.Location) core.Row {
	issued := r.Order.CreatedAt
	if r.Order.FinishTime != nil {
		issued = *r.Order.FinishTime
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(r.CompanyName, "—"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Orden: "+shortID(r.Order.ID), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("INFORME DE SERVICIO", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(r.Order.Status, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+issued.In(loc).Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func buildingRow(b *entity.Building) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("EDIFICIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(b.Address, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("Barrio: %s   |   Cliente: %s   |   Tel: %s",
				nonEmpty(b.Neighborhood, "—"),
				nonEmpty(b.ClientName, "—"),
				nonEmpty(b.ContactPhone, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func assetRow(r ports.ServiceReport) core.Row {
	claim := r.Order.ClaimType
	if r.Order.CorrectiveType != nil {
		claim += " / " + *r.Order.CorrectiveType
	}
	return row.New(12).Add(
		col.New(4).Add(
			text.New("ACTIVO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(r.AssetLabel, "—"), props.Text{Size: 9, Top: 6}),
		),
		col.New(4).Add(
			text.New("TÉCNICO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(r.TechnicianName, "Sin asignar"), props.Text{Size: 9, Top: 6}),
		),
		col.New(4).Add(
			text.New("RECLAMO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(claim+" ("+r.Order.Priority+")", props.Text{Size: 9, Top: 6}),
		),
	)
}

func timesRow(w *entity.WorkOrder, loc *time.Location) core.Row {
	at := func(t *time.Time) string {
		if t == nil {
			return "—"
		}
		return t.In(loc).Format(dateTimeLayout)
	}
	return row.New(10).Add(
		col.New(4).Add(text.New("Programada: "+at(w.DateTime), props.Text{Size: 8, Top: 2, Color: colorGray})),
		col.New(4).Add(text.New("Inicio: "+at(w.StartTime), props.Text{Size: 8, Top: 2, Color: colorGray})),
		col.New(4).Add(text.New("Fin: "+at(w.FinishTime), props.Text{Size: 8, Top: 2, Color: colorGray})),
	)
}

// workRows: descripción del reclamo y comentarios de cierre.
func workRows(w *entity.WorkOrder) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("TRABAJO SOLICITADO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		)),
		row.New(14).Add(col.New(12).Add(
			text.New(nonEmpty(w.Description, "—"), props.Text{Size: 9, Top: 1, Left: 2}),
		)),
	}
	if w.Comments != nil && *w.Comments != "" {
		rows = append(rows,
			row.New(6).Add(col.New(12).Add(
				text.New("TRABAJO REALIZADO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			)),
			row.New(14).Add(col.New(12).Add(
				text.New(*w.Comments, props.Text{Size: 9, Top: 1, Left: 2}),
			)),
		)
	}
	return rows
}

// partsHeaderRow: cabecera de la tabla de repuestos.
func partsHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Repuesto / insumo", 9, align.Left),
		h("Cantidad", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// partsRows: una fila por repuesto. La cantidad puede ser fraccionaria (litros, metros).
func partsRows(parts []entity.PartUsed) []core.Row {
	out := make([]core.Row, 0, len(parts))
	for _, p := range parts {
		out = append(out, row.New(7).Add(
			col.New(9).Add(text.New(p.Name, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(3).Add(text.New(p.Quantity.String(), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return out
}

// footerRow: firma del cliente (si es una imagen embebida) y QR con el id de la orden.
func footerRow(w *entity.WorkOrder) core.Row {
	signature := col.New(8).Add(
		text.New("Firma del cliente", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
	)
	if w.SignatureDataURL != nil {
		if data, kind, ok := decodeDataURL(*w.SignatureDataURL); ok {
			ext := extension.Png
			if kind == "image/jpeg" {
				ext = extension.Jpg
			}
			signature = col.New(8).Add(
				text.New("Firma del cliente", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
				image.NewFromBytes(data, ext, props.Rect{Percent: 70, Top: 6}),
			)
		} else {
			signature = col.New(8).Add(
				text.New("Firma del cliente", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
				text.New("Firmado digitalmente", props.Text{Size: 8, Top: 7, Color: colorGray}),
			)
		}
	}
	return row.New(40).Add(
		signature,
		col.New(4).Add(code.NewQr("OT:"+w.ID, props.Rect{Percent: 80, Center: true})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// shortID primeros 8 caracteres del id, en mayúsculas.
func shortID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return strings.ToUpper(id)
}
