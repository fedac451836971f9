// Package lifecycle orquesta el ciclo de vida de una orden de trabajo sobre los
// repositorios: inicio, cambios de estado hacia adelante y cierre con firma.
package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ascensores-api/internal/application/dto"
	"github.com/jhoicas/ascensores-api/internal/application/optimistic"
	"github.com/jhoicas/ascensores-api/internal/application/ports"
	"github.com/jhoicas/ascensores-api/internal/application/snapshot"
	"github.com/jhoicas/ascensores-api/internal/domain"
	"github.com/jhoicas/ascensores-api/internal/domain/entity"
	"github.com/jhoicas/ascensores-api/internal/domain/repository"
	"github.com/jhoicas/ascensores-api/internal/domain/workorder"
	"github.com/jhoicas/ascensores-api/pkg/logger"
)

// Service ciclo de vida de órdenes. queue es opcional: sin cola no se encolan remitos.
type Service struct {
	store      repository.Store
	tx         repository.TxRunner
	cache      snapshot.Cache
	queue      ports.RemitoQueue
	signatures workorder.SignatureSource
	log        *logger.Logger
	now        func() time.Time
}

// NewService construye el servicio inyectando sus dependencias.
func NewService(
	store repository.Store,
	tx repository.TxRunner,
	cache snapshot.Cache,
	queue ports.RemitoQueue,
	log *logger.Logger,
) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{store: store, tx: tx, cache: cache, queue: queue, log: log.Component("lifecycle"), now: time.Now}
}

// WithClock reemplaza el reloj (pruebas).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithSignatureSource acepta también firmas por URL bajo las bases del almacenamiento.
// Sin llamarlo solo se aceptan data URLs.
func (s *Service) WithSignatureSource(src workorder.SignatureSource) *Service {
	s.signatures = src
	return s
}

// Start pasa la orden de Pending a In Progress y sella la hora de inicio.
// Un técnico solo puede iniciar órdenes sin asignar o asignadas a él. nil si no existe.
func (s *Service) Start(ctx context.Context, tenantID, id, actorUserID, actorRole string) (*dto.WorkOrderResponse, error) {
	order, err := s.store.WorkOrders.GetByID(ctx, tenantID, id)
	if err != nil || order == nil {
		return nil, err
	}
	if actorRole == entity.RoleTechnician {
		if err := s.assignedTo(ctx, tenantID, order, actorUserID); err != nil {
			return nil, err
		}
	}
	return s.transition(ctx, tenantID, order, entity.StatusInProgress)
}

// Authorize acota a un técnico a las órdenes sin asignar o asignadas a él; la oficina
// pasa siempre. Una orden inexistente no es error: el llamador responde 404.
func (s *Service) Authorize(ctx context.Context, tenantID, id, actorUserID, actorRole string) error {
	if actorRole != entity.RoleTechnician {
		return nil
	}
	order, err := s.store.WorkOrders.GetByID(ctx, tenantID, id)
	if err != nil || order == nil {
		return err
	}
	return s.assignedTo(ctx, tenantID, order, actorUserID)
}

func (s *Service) assignedTo(ctx context.Context, tenantID string, order *entity.WorkOrder, actorUserID string) error {
	if order.TechnicianID == nil {
		return nil
	}
	tech, err := s.store.Technicians.GetByID(ctx, tenantID, *order.TechnicianID)
	if err != nil {
		return err
	}
	if !tech.LinkedTo(actorUserID) {
		return domain.ErrNotAssignedTechnician
	}
	return nil
}

// ChangeStatus mueve la orden hacia adelante. Pasar a Completed por esta vía equivale
// a un cierre con los datos ya guardados: exige las mismas precondiciones que Complete.
// Solo lo usa la oficina, así que no revisa la asignación como Start.
// Pedir el estado actual no cambia nada. nil si no existe.
func (s *Service) ChangeStatus(ctx context.Context, tenantID, id, actorUserID, status string) (*dto.WorkOrderResponse, error) {
	to, ok := workorder.NormalizeStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
	}
	order, err := s.store.WorkOrders.GetByID(ctx, tenantID, id)
	if err != nil || order == nil {
		return nil, err
	}
	if order.Status == to {
		out := dto.FromWorkOrder(order)
		return &out, nil
	}
	if to == entity.StatusCompleted {
		current := dto.FromWorkOrder(order)
		return s.Complete(ctx, tenantID, id, actorUserID, dto.CompleteWorkOrderRequest{
			Comments:  current.Comments,
			PartsUsed: current.PartsUsed,
			PhotoURLs: current.PhotoURLs,
		})
	}
	return s.transition(ctx, tenantID, order, to)
}

func (s *Service) transition(ctx context.Context, tenantID string, order *entity.WorkOrder, to string) (*dto.WorkOrderResponse, error) {
	if !workorder.CanTransition(order.Status, to) {
		return nil, fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, order.Status, to)
	}
	w, err := s.store.WorkOrders.Transition(ctx, tenantID, order.ID, order.Status, to, s.now())
	if err != nil {
		return nil, err
	}
	if w == nil {
		// Otro pedido cambió el estado entre la lectura y la escritura.
		return nil, domain.ErrConflict
	}
	snapshot.Invalidate(ctx, s.cache, tenantID, snapshot.WorkOrders, snapshot.Technicians)
	s.log.WithCompany(tenantID).Info().Str("work_order_id", w.ID).Str("status", to).Msg("cambio de estado")
	out := dto.FromWorkOrder(w)
	return &out, nil
}

// Complete cierra la orden en una sola escritura guardada por status <> Completed.
//
// Precondiciones, en orden: la orden no está completada, el actor es el técnico
// asignado (si hay uno) y existe firma (la recibida o la ya guardada). Si alguna
// falla no se escribe nada y la orden conserva su estado. nil si no existe.
func (s *Service) Complete(ctx context.Context, tenantID, id, actorUserID string, in dto.CompleteWorkOrderRequest) (*dto.WorkOrderResponse, error) {
	// ── 1. Cargar orden y técnico ─────────────────────────────────────────────
	order, err := s.store.WorkOrders.GetByID(ctx, tenantID, id)
	if err != nil || order == nil {
		return nil, err
	}
	var tech *entity.Technician
	if order.TechnicianID != nil {
		if tech, err = s.store.Technicians.GetByID(ctx, tenantID, *order.TechnicianID); err != nil {
			return nil, err
		}
	}

	// ── 2. Precondiciones ─────────────────────────────────────────────────────
	signature := workorder.EffectiveSignature(order, in.SignatureDataURL)
	if err := workorder.CanComplete(order, tech, actorUserID, signature); err != nil {
		return nil, err
	}
	if in.SignatureDataURL != nil && strings.TrimSpace(*in.SignatureDataURL) != "" && !s.signatures.Allowed(*in.SignatureDataURL) {
		return nil, fmt.Errorf("%w: signatureDataUrl debe ser un data URL de imagen o una URL del almacenamiento", domain.ErrInvalidInput)
	}

	done := entity.Completion{
		FinishTime:       s.now(),
		Comments:         entity.NullableString(in.Comments),
		PartsUsed:        dto.ToParts(in.PartsUsed),
		PhotoURLs:        in.PhotoURLs,
		SignatureDataURL: signature,
	}
	if done.PhotoURLs == nil {
		done.PhotoURLs = order.PhotoURLs
	}
	expected := order.Clone()
	done.Apply(expected)

	// ── 3. Aplicar sobre la instantánea y confirmar en el backend ─────────────
	var completed *entity.WorkOrder
	local := snapshot.Local[dto.WorkOrderResponse]{Cache: s.cache, TenantID: tenantID, Collection: snapshot.WorkOrders}
	err = optimistic.Apply[[]dto.WorkOrderResponse](ctx, local,
		func(prev []dto.WorkOrderResponse) []dto.WorkOrderResponse {
			next := make([]dto.WorkOrderResponse, len(prev))
			copy(next, prev)
			for i := range next {
				if next[i].ID == order.ID {
					next[i] = dto.FromWorkOrder(expected)
				}
			}
			return next
		},
		func(ctx context.Context) error {
			return s.tx.Run(ctx, func(tx repository.Store) error {
				w, err := tx.WorkOrders.Complete(ctx, tenantID, order.ID, done)
				if err != nil {
					return err
				}
				if w == nil {
					return domain.ErrAlreadyCompleted
				}
				completed = w
				if w.ElevatorID == nil {
					return nil
				}
				return tx.History.Create(ctx, historyEntry(w, tech))
			})
		})
	if err != nil {
		s.log.WithCompany(tenantID).Warn().Err(err).Str("work_order_id", order.ID).Msg("no se pudo completar la orden")
		return nil, err
	}
	snapshot.Invalidate(ctx, s.cache, tenantID, snapshot.WorkOrders, snapshot.Technicians)

	// ── 4. Remito en segundo plano ────────────────────────────────────────────
	if s.queue != nil {
		if err := s.queue.EnqueueRemito(ctx, tenantID, completed.ID); err != nil {
			s.log.WithCompany(tenantID).Error().Err(err).Str("work_order_id", completed.ID).Msg("no se pudo encolar el remito")
		}
	}

	s.log.WithCompany(tenantID).Info().Str("work_order_id", completed.ID).Msg("orden completada")
	out := dto.FromWorkOrder(completed)
	return &out, nil
}

// historyEntry entrada del libro de servicio para una orden cerrada sobre un ascensor.
func historyEntry(w *entity.WorkOrder, tech *entity.Technician) *entity.ElevatorHistory {
	desc := w.Description
	if w.Comments != nil && strings.TrimSpace(*w.Comments) != "" {
		desc = *w.Comments
	}
	if strings.TrimSpace(desc) == "" {
		desc = w.ClaimType
	}
	name := ""
	if tech != nil {
		name = tech.Name
	}
	workOrderID := w.ID
	return &entity.ElevatorHistory{
		ID:             uuid.New().String(),
		CompanyID:      w.CompanyID,
		ElevatorID:     *w.ElevatorID,
		WorkOrderID:    &workOrderID,
		Date:           *w.FinishTime,
		Description:    desc,
		TechnicianName: name,
		CreatedAt:      *w.FinishTime,
	}
}
