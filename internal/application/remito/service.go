// Package remito emite el comprobante numerado de una orden completada.
package remito

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/ascensores-api/internal/application/dto"
	"github.com/jhoicas/ascensores-api/internal/application/ports"
	"github.com/jhoicas/ascensores-api/internal/domain"
	"github.com/jhoicas/ascensores-api/internal/domain/entity"
	"github.com/jhoicas/ascensores-api/internal/domain/repository"
	"github.com/jhoicas/ascensores-api/pkg/daykey"
	"github.com/jhoicas/ascensores-api/pkg/logger"
)

// Service numeración, render y registro de remitos.
type Service struct {
	store    repository.Store
	renderer ports.RemitoRenderer
	storage  ports.BlobStorage
	loc      *time.Location
	log      *logger.Logger
	now      func() time.Time
}

// NewService construye el servicio. loc nil usa la zona de Buenos Aires.
func NewService(
	store repository.Store,
	renderer ports.RemitoRenderer,
	storage ports.BlobStorage,
	loc *time.Location,
	log *logger.Logger,
) *Service {
	if loc == nil {
		loc = daykey.Location("")
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		store:    store,
		renderer: renderer,
		storage:  storage,
		loc:      loc,
		log:      log.Component("remito"),
		now:      time.Now,
	}
}

// Generate emite el remito de la orden: toma un número nuevo del contador del tenant,
// genera el PDF, lo sube y reemplaza el registro de la orden. Regenerar consume otro
// número. nil si la orden no existe en el tenant.
func (s *Service) Generate(ctx context.Context, tenantID, workOrderID string) (*dto.RemitoResponse, error) {
	// ── 1. Validar orden y edificio ───────────────────────────────────────────
	order, err := s.store.WorkOrders.GetByID(ctx, tenantID, workOrderID)
	if err != nil || order == nil {
		return nil, err
	}
	if order.Status != entity.StatusCompleted {
		return nil, domain.ErrRemitoNotReady
	}
	if order.FinishTime == nil {
		return nil, domain.ErrMissingFinishTime
	}
	building, err := s.store.Buildings.GetByID(ctx, tenantID, order.BuildingID)
	if err != nil {
		return nil, err
	}
	if building == nil || strings.TrimSpace(building.Address) == "" {
		return nil, domain.ErrMissingAddress
	}

	// ── 2. Número ─────────────────────────────────────────────────────────────
	number, err := s.store.Remitos.NextNumber(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("remito: numerar: %w", err)
	}

	// ── 3. Render y subida ────────────────────────────────────────────────────
	payload := ports.RemitoPayload{
		Number:      entity.FormatRemitoNumber(number),
		Date:        daykey.FormatDate(*order.FinishTime, s.loc),
		Address:     building.Address,
		Description: description(order),
	}
	if order.SignatureDataURL != nil {
		payload.SignatureDataURL = *order.SignatureDataURL
	}
	pdf, err := s.renderer.RenderRemito(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("remito: generar pdf: %w", err)
	}
	path := fmt.Sprintf("%s/%s/remito-%s.pdf", tenantID, order.ID, payload.Number)
	url, err := s.storage.Upload(ctx, path, "application/pdf", pdf, true)
	if err != nil {
		s.log.WithCompany(tenantID).Error().Err(err).Str("path", path).Msg("falló la subida del remito")
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}

	// ── 4. Registro (uno por orden) ───────────────────────────────────────────
	now := s.now()
	rec := &entity.Remito{
		CompanyID:    tenantID,
		WorkOrderID:  order.ID,
		RemitoNumber: number,
		FileURL:      url,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	prev, err := s.store.Remitos.GetByWorkOrder(ctx, tenantID, order.ID)
	if err != nil {
		return nil, err
	}
	if prev != nil {
		rec.CreatedAt = prev.CreatedAt
	}
	if err := s.store.Remitos.Upsert(ctx, rec); err != nil {
		return nil, fmt.Errorf("remito: guardar: %w", err)
	}

	s.log.WithCompany(tenantID).Info().Str("work_order_id", order.ID).Str("remito", rec.Display()).Msg("remito emitido")
	out := dto.FromRemito(rec)
	return &out, nil
}

// Get registro vigente del remito de la orden. nil si no se emitió.
func (s *Service) Get(ctx context.Context, tenantID, workOrderID string) (*dto.RemitoResponse, error) {
	rec, err := s.store.Remitos.GetByWorkOrder(ctx, tenantID, workOrderID)
	if err != nil || rec == nil {
		return nil, err
	}
	out := dto.FromRemito(rec)
	return &out, nil
}

// description texto del remito: los comentarios de cierre o, si no hay, la descripción.
func description(w *entity.WorkOrder) string {
	if w.Comments != nil && strings.TrimSpace(*w.Comments) != "" {
		return strings.TrimSpace(*w.Comments)
	}
	return strings.TrimSpace(w.Description)
}
