// Package report arma el informe de servicio en PDF de una orden de trabajo.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/ascensores-api/internal/application/ports"
	"github.com/jhoicas/ascensores-api/internal/domain"
	"github.com/jhoicas/ascensores-api/internal/domain/entity"
	"github.com/jhoicas/ascensores-api/internal/domain/repository"
	"github.com/jhoicas/ascensores-api/pkg/daykey"
)

// Service junta los datos de la orden y delega el render.
type Service struct {
	store     repository.Store
	generator ports.ServiceReportRenderer
	loc       *time.Location
}

// NewService construye el servicio. loc nil usa la zona de Buenos Aires.
func NewService(store repository.Store, generator ports.ServiceReportRenderer, loc *time.Location) *Service {
	if loc == nil {
		loc = daykey.Location("")
	}
	return &Service{store: store, generator: generator, loc: loc}
}

// Download devuelve el PDF y un nombre de archivo sugerido.
//
// Retorna:
//   - domain.ErrNotFound si la orden no existe en el tenant.
//   - domain.ErrMissingAddress si el edificio ya no existe.
func (s *Service) Download(ctx context.Context, tenantID, workOrderID string) (pdfBytes []byte, filename string, err error) {
	// ── 1. Cargar orden y edificio ────────────────────────────────────────────
	order, err := s.store.WorkOrders.GetByID(ctx, tenantID, workOrderID)
	if err != nil {
		return nil, "", fmt.Errorf("informe: obtener orden: %w", err)
	}
	if order == nil {
		return nil, "", domain.ErrNotFound
	}
	building, err := s.store.Buildings.GetByID(ctx, tenantID, order.BuildingID)
	if err != nil {
		return nil, "", fmt.Errorf("informe: obtener edificio: %w", err)
	}
	if building == nil {
		return nil, "", domain.ErrMissingAddress
	}

	// ── 2. Datos complementarios ──────────────────────────────────────────────
	r := ports.ServiceReport{Order: order, Building: building, Location: s.loc}
	if company, err := s.store.Companies.GetByID(ctx, tenantID); err != nil {
		return nil, "", fmt.Errorf("informe: obtener empresa: %w", err)
	} else if company != nil {
		r.CompanyName = company.Name
	}
	if order.TechnicianID != nil {
		tech, err := s.store.Technicians.GetByID(ctx, tenantID, *order.TechnicianID)
		if err != nil {
			return nil, "", fmt.Errorf("informe: obtener técnico: %w", err)
		}
		if tech != nil {
			r.TechnicianName = tech.Name
		}
	}
	if r.AssetLabel, err = s.assetLabel(ctx, tenantID, order); err != nil {
		return nil, "", err
	}

	// ── 3. Render ─────────────────────────────────────────────────────────────
	pdfBytes, err = s.generator.RenderServiceReport(ctx, r)
	if err != nil {
		return nil, "", fmt.Errorf("informe: generar pdf: %w", err)
	}
	return pdfBytes, fmt.Sprintf("informe-%s.pdf", order.ID), nil
}

func (s *Service) assetLabel(ctx context.Context, tenantID string, w *entity.WorkOrder) (string, error) {
	if w.ElevatorID != nil {
		e, err := s.store.Elevators.GetByID(ctx, tenantID, *w.ElevatorID)
		if err != nil {
			return "", fmt.Errorf("informe: obtener ascensor: %w", err)
		}
		if e != nil {
			return fmt.Sprintf("Ascensor N° %d", e.Number), nil
		}
	}
	if w.EquipmentID != nil {
		e, err := s.store.Equipment.GetByID(ctx, tenantID, *w.EquipmentID)
		if err != nil {
			return "", fmt.Errorf("informe: obtener equipo: %w", err)
		}
		if e != nil {
			return e.Name, nil
		}
	}
	return "", nil
}
