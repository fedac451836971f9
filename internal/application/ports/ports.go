// Package ports define los puertos de salida de la capa de aplicación.
// Los adaptadores concretos viven en internal/infrastructure.
package ports

import (
	"context"
	"time"

	"github.com/jhoicas/ascensores-api/internal/domain/entity"
)

// BlobStorage almacenamiento de objetos (fotos, firmas, remitos).
// upsert=false falla si el objeto ya existe.
type BlobStorage interface {
	Upload(ctx context.Context, path, contentType string, data []byte, upsert bool) (string, error)
	PublicURL(path string) string
}

// ImageProcessor normaliza imágenes subidas (decodifica y reduce si excede el ancho máximo).
type ImageProcessor interface {
	Process(data []byte) (out []byte, contentType string, err error)
}

// RemitoPayload datos que se estampan sobre la plantilla del remito.
type RemitoPayload struct {
	Number           string // 8 dígitos
	Date             string // dd/mm/yyyy en Buenos Aires
	Address          string
	Description      string
	SignatureDataURL string
}

// RemitoRenderer genera el PDF del remito.
type RemitoRenderer interface {
	RenderRemito(ctx context.Context, p RemitoPayload) ([]byte, error)
}

// ServiceReport datos del informe de servicio de una orden.
type ServiceReport struct {
	CompanyName    string
	Order          *entity.WorkOrder
	Building       *entity.Building
	AssetLabel     string
	TechnicianName string
	Location       *time.Location
}

// ServiceReportRenderer genera el PDF del informe de servicio.
type ServiceReportRenderer interface {
	RenderServiceReport(ctx context.Context, r ServiceReport) ([]byte, error)
}

// RemitoQueue encola la generación del remito en segundo plano.
type RemitoQueue interface {
	EnqueueRemito(ctx context.Context, tenantID, workOrderID string) error
}

// WorkOrderSheetRow fila de la planilla de órdenes.
type WorkOrderSheetRow struct {
	Order          *entity.WorkOrder
	Address        string
	AssetLabel     string
	TechnicianName string
}

// WorkOrderExporter genera la planilla de órdenes.
type WorkOrderExporter interface {
	ExportWorkOrders(ctx context.Context, rows []WorkOrderSheetRow, loc *time.Location) ([]byte, error)
}
