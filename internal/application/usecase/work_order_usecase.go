package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/ascensores-api/internal/application/dto"
	"github.com/jhoicas/ascensores-api/internal/application/ports"
	"github.com/jhoicas/ascensores-api/internal/application/snapshot"
	"github.com/jhoicas/ascensores-api/internal/domain"
	"github.com/jhoicas/ascensores-api/internal/domain/entity"
	"github.com/jhoicas/ascensores-api/internal/domain/repository"
	"github.com/jhoicas/ascensores-api/internal/domain/workorder"
)

// WorkOrderQuery filtros del listado. Bucket recorta a un balde del tablero.
type WorkOrderQuery struct {
	repository.WorkOrderFilter
	Bucket string
}

// WorkOrderUseCase órdenes de trabajo del tenant (alta, lectura y edición de campos).
// Los cambios de estado pasan por el servicio de ciclo de vida.
type WorkOrderUseCase struct {
	*base
	exporter ports.WorkOrderExporter
}

// List órdenes, más recientes primero. Un balde desconocido es error de validación.
func (uc *WorkOrderUseCase) List(ctx context.Context, tenantID string, q WorkOrderQuery) (dto.ListResponse[dto.WorkOrderResponse], error) {
	orders, version, err := listWorkOrders(ctx, uc.base, tenantID, q.WorkOrderFilter)
	if err != nil {
		return dto.ListResponse[dto.WorkOrderResponse]{}, err
	}
	if q.Bucket != "" {
		picked, ok := workorder.Classify(orders, uc.now(), uc.loc).Get(q.Bucket)
		if !ok {
			return dto.ListResponse[dto.WorkOrderResponse]{}, fmt.Errorf("%w: balde %q", domain.ErrInvalidInput, q.Bucket)
		}
		orders = picked
	}
	return dto.NewList(dto.FromWorkOrders(orders), version), nil
}

// Mine órdenes asignadas al técnico vinculado a userID. Vacío si no hay técnico vinculado.
func (uc *WorkOrderUseCase) Mine(ctx context.Context, tenantID, userID string, q WorkOrderQuery) (dto.ListResponse[dto.WorkOrderResponse], error) {
	tech, err := uc.store.Technicians.GetByUserID(ctx, tenantID, userID)
	if err != nil {
		return dto.ListResponse[dto.WorkOrderResponse]{}, err
	}
	if tech == nil {
		return dto.NewList([]dto.WorkOrderResponse{}, ""), nil
	}
	q.TechnicianID = tech.ID
	return uc.List(ctx, tenantID, q)
}

// Get obtiene una orden. nil si no existe en el tenant.
func (uc *WorkOrderUseCase) Get(ctx context.Context, tenantID, id string) (*dto.WorkOrderResponse, error) {
	w, err := uc.store.WorkOrders.GetByID(ctx, tenantID, id)
	if err != nil || w == nil {
		return nil, err
	}
	out := dto.FromWorkOrder(w)
	return &out, nil
}

// Create valida edificio y activo antes de escribir y crea la orden en Pending.
func (uc *WorkOrderUseCase) Create(ctx context.Context, tenantID string, in dto.CreateWorkOrderRequest) (*dto.WorkOrderResponse, error) {
	w := &entity.WorkOrder{
		ID:           uuid.New().String(),
		CompanyID:    tenantID,
		BuildingID:   strings.TrimSpace(in.BuildingID),
		ElevatorID:   entity.NullableID(in.ElevatorID),
		EquipmentID:  entity.NullableID(in.EquipmentID),
		TechnicianID: entity.NullableID(in.TechnicianID),
		ContactName:  strings.TrimSpace(in.ContactName),
		ContactPhone: strings.TrimSpace(in.ContactPhone),
		DateTime:     in.DateTime,
		Description:  strings.TrimSpace(in.Description),
		Status:       entity.StatusPending,
		Priority:     entity.PriorityMedium,
		CreatedAt:    uc.now(),
	}
	if w.BuildingID == "" {
		return nil, domain.ErrBuildingRequired
	}
	if !w.HasAsset() {
		return nil, domain.ErrAssetRequired
	}

	var err error
	if w.ClaimType, err = claimType(in.ClaimType); err != nil {
		return nil, err
	}
	if w.CorrectiveType, err = correctiveType(in.CorrectiveType); err != nil {
		return nil, err
	}
	if in.Priority != "" {
		if w.Priority, err = priority(in.Priority); err != nil {
			return nil, err
		}
	}
	if err := uc.checkRefs(ctx, tenantID, w); err != nil {
		return nil, err
	}

	if err := uc.store.WorkOrders.Create(ctx, w); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, tenantID, snapshot.WorkOrders, snapshot.Technicians)
	out := dto.FromWorkOrder(w)
	return &out, nil
}

// Update aplica solo los campos presentes; el estado se ignora acá.
// La orden resultante debe seguir teniendo edificio y activo. nil si no existe en el tenant.
func (uc *WorkOrderUseCase) Update(ctx context.Context, tenantID, id string, in dto.UpdateWorkOrderRequest) (*dto.WorkOrderResponse, error) {
	current, err := uc.store.WorkOrders.GetByID(ctx, tenantID, id)
	if err != nil || current == nil {
		return nil, err
	}

	if sig := in.SignatureDataURL; sig.Set && sig.Value != nil && strings.TrimSpace(*sig.Value) != "" && !uc.signatures.Allowed(*sig.Value) {
		return nil, fmt.Errorf("%w: signatureDataUrl debe ser un data URL de imagen o una URL del almacenamiento", domain.ErrInvalidInput)
	}

	patch := entity.WorkOrderPatch{
		BuildingID:       in.BuildingID,
		ElevatorID:       nullableIDOpt(in.ElevatorID),
		EquipmentID:      nullableIDOpt(in.EquipmentID),
		TechnicianID:     nullableIDOpt(in.TechnicianID),
		ContactName:      in.ContactName,
		ContactPhone:     in.ContactPhone,
		DateTime:         in.DateTime,
		Description:      in.Description,
		Comments:         nullableOpt(in.Comments),
		PhotoURLs:        in.PhotoURLs,
		SignatureDataURL: nullableOpt(in.SignatureDataURL),
	}
	if in.ClaimType.Set {
		v, err := claimType(in.ClaimType.Value)
		if err != nil {
			return nil, err
		}
		patch.ClaimType = entity.Some(v)
	}
	if in.CorrectiveType.Set {
		v, err := correctiveType(in.CorrectiveType.Value)
		if err != nil {
			return nil, err
		}
		patch.CorrectiveType = entity.Some(v)
	}
	if in.Priority.Set {
		v, err := priority(in.Priority.Value)
		if err != nil {
			return nil, err
		}
		patch.Priority = entity.Some(v)
	}
	if in.PartsUsed.Set {
		patch.PartsUsed = entity.Some(dto.ToParts(in.PartsUsed.Value))
	}

	next := current.Clone()
	patch.Apply(next)
	if strings.TrimSpace(next.BuildingID) == "" {
		return nil, domain.ErrBuildingRequired
	}
	if !next.HasAsset() {
		return nil, domain.ErrAssetRequired
	}
	if err := uc.checkRefs(ctx, tenantID, next); err != nil {
		return nil, err
	}

	w, err := uc.store.WorkOrders.Update(ctx, tenantID, id, patch)
	if err != nil || w == nil {
		return nil, err
	}
	uc.invalidate(ctx, tenantID, snapshot.WorkOrders, snapshot.Technicians)
	out := dto.FromWorkOrder(w)
	return &out, nil
}

// Export planilla XLSX de las órdenes filtradas.
func (uc *WorkOrderUseCase) Export(ctx context.Context, tenantID string, q WorkOrderQuery) ([]byte, error) {
	if uc.exporter == nil {
		return nil, fmt.Errorf("exportación no configurada")
	}
	list, err := uc.List(ctx, tenantID, q)
	if err != nil {
		return nil, err
	}

	buildings, err := uc.store.Buildings.List(ctx, tenantID, repository.BuildingFilter{})
	if err != nil {
		return nil, err
	}
	techs, err := uc.store.Technicians.List(ctx, tenantID, repository.TechnicianFilter{})
	if err != nil {
		return nil, err
	}
	addresses := make(map[string]string, len(buildings))
	for _, b := range buildings {
		addresses[b.ID] = b.Address
	}
	names := make(map[string]string, len(techs))
	for _, t := range techs {
		names[t.ID] = t.Name
	}

	rows := make([]ports.WorkOrderSheetRow, 0, len(list.Items))
	for _, item := range list.Items {
		w := dto.ToWorkOrder(item)
		row := ports.WorkOrderSheetRow{Order: w, Address: addresses[w.BuildingID]}
		if w.TechnicianID != nil {
			row.TechnicianName = names[*w.TechnicianID]
		}
		row.AssetLabel, err = assetLabel(ctx, uc.store, tenantID, w)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return uc.exporter.ExportWorkOrders(ctx, rows, uc.loc)
}

// checkRefs verifica que las claves foráneas presentes existan en el tenant.
func (uc *WorkOrderUseCase) checkRefs(ctx context.Context, tenantID string, w *entity.WorkOrder) error {
	if err := uc.requireBuilding(ctx, tenantID, w.BuildingID); err != nil {
		return err
	}
	if w.ElevatorID != nil {
		e, err := uc.store.Elevators.GetByID(ctx, tenantID, *w.ElevatorID)
		if err != nil {
			return err
		}
		if e == nil {
			return invalidRef("elevatorId")
		}
	}
	if w.EquipmentID != nil {
		e, err := uc.store.Equipment.GetByID(ctx, tenantID, *w.EquipmentID)
		if err != nil {
			return err
		}
		if e == nil {
			return invalidRef("equipmentId")
		}
	}
	if w.TechnicianID != nil {
		t, err := uc.store.Technicians.GetByID(ctx, tenantID, *w.TechnicianID)
		if err != nil {
			return err
		}
		if t == nil {
			return invalidRef("technicianId")
		}
	}
	return nil
}

// assetLabel etiqueta del activo de la orden ("" si ya no existe).
func assetLabel(ctx context.Context, store repository.Store, tenantID string, w *entity.WorkOrder) (string, error) {
	if w.ElevatorID != nil {
		e, err := store.Elevators.GetByID(ctx, tenantID, *w.ElevatorID)
		if err != nil || e == nil {
			return "", err
		}
		return elevatorAsset(e).Label, nil
	}
	if w.EquipmentID != nil {
		e, err := store.Equipment.GetByID(ctx, tenantID, *w.EquipmentID)
		if err != nil || e == nil {
			return "", err
		}
		return equipmentAsset(e).Label, nil
	}
	return "", nil
}

// listWorkOrders lee las órdenes del tenant desde la instantánea compartida.
func listWorkOrders(ctx context.Context, b *base, tenantID string, f repository.WorkOrderFilter) ([]*entity.WorkOrder, string, error) {
	items, version, err := snapshot.List(ctx, b.cache, tenantID, snapshot.WorkOrders,
		variant("building", f.BuildingID, "elevator", f.ElevatorID, "equipment", f.EquipmentID,
			"technician", f.TechnicianID, "status", f.Status, "priority", f.Priority),
		func(ctx context.Context) ([]dto.WorkOrderResponse, error) {
			list, err := b.store.WorkOrders.List(ctx, tenantID, f)
			if err != nil {
				return nil, err
			}
			return dto.FromWorkOrders(list), nil
		})
	if err != nil {
		return nil, "", err
	}
	orders := make([]*entity.WorkOrder, 0, len(items))
	for _, item := range items {
		orders = append(orders, dto.ToWorkOrder(item))
	}
	return orders, version, nil
}

// ── Vocabulario ──────────────────────────────────────────────────────────────

func claimType(s string) (string, error) {
	v, ok := workorder.NormalizeClaimType(s)
	if !ok {
		return "", fmt.Errorf("%w: tipo de reclamo %q", domain.ErrInvalidInput, s)
	}
	return v, nil
}

func correctiveType(s *string) (*string, error) {
	s = entity.NullableID(s)
	if s == nil {
		return nil, nil
	}
	v, ok := workorder.NormalizeCorrectiveType(*s)
	if !ok {
		return nil, fmt.Errorf("%w: tipo de correctivo %q", domain.ErrInvalidInput, *s)
	}
	return &v, nil
}

func priority(s string) (string, error) {
	v, ok := workorder.NormalizePriority(s)
	if !ok {
		return "", fmt.Errorf("%w: prioridad %q", domain.ErrInvalidInput, s)
	}
	return v, nil
}
