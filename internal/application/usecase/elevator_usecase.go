package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ascensores-api/internal/application/dto"
	"github.com/jhoicas/ascensores-api/internal/application/snapshot"
	"github.com/jhoicas/ascensores-api/internal/domain"
	"github.com/jhoicas/ascensores-api/internal/domain/entity"
	"github.com/jhoicas/ascensores-api/internal/domain/repository"
)

// ElevatorUseCase ascensores del tenant y su libro de servicio.
type ElevatorUseCase struct {
	*base
}

// List ascensores, más recientes primero.
func (uc *ElevatorUseCase) List(ctx context.Context, tenantID string, f repository.ElevatorFilter) (dto.ListResponse[dto.ElevatorResponse], error) {
	items, version, err := snapshot.List(ctx, uc.cache, tenantID, snapshot.Elevators,
		variant("building", f.BuildingID, "status", f.Status),
		func(ctx context.Context) ([]dto.ElevatorResponse, error) {
			list, err := uc.store.Elevators.List(ctx, tenantID, f)
			if err != nil {
				return nil, err
			}
			out := make([]dto.ElevatorResponse, 0, len(list))
			for _, e := range list {
				out = append(out, dto.FromElevator(e))
			}
			return out, nil
		})
	if err != nil {
		return dto.ListResponse[dto.ElevatorResponse]{}, err
	}
	return dto.NewList(items, version), nil
}

// Get obtiene un ascensor. nil si no existe en el tenant.
func (uc *ElevatorUseCase) Get(ctx context.Context, tenantID, id string) (*dto.ElevatorResponse, error) {
	e, err := uc.store.Elevators.GetByID(ctx, tenantID, id)
	if err != nil || e == nil {
		return nil, err
	}
	out := dto.FromElevator(e)
	return &out, nil
}

// Create crea un ascensor en un edificio del tenant.
func (uc *ElevatorUseCase) Create(ctx context.Context, tenantID string, in dto.CreateElevatorRequest) (*dto.ElevatorResponse, error) {
	if err := uc.requireBuilding(ctx, tenantID, in.BuildingID); err != nil {
		return nil, err
	}
	e := newElevator(tenantID, in.BuildingID, in.ElevatorFields, uc.now())
	if err := uc.store.Elevators.Create(ctx, e); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, tenantID, snapshot.Elevators)
	out := dto.FromElevator(e)
	return &out, nil
}

// Update aplica solo los campos presentes. nil si no existe en el tenant.
func (uc *ElevatorUseCase) Update(ctx context.Context, tenantID, id string, in dto.UpdateElevatorRequest) (*dto.ElevatorResponse, error) {
	if in.Status.Set && !entity.ValidElevatorStatus(in.Status.Value) {
		return nil, fmt.Errorf("%w: estado de ascensor %q", domain.ErrInvalidInput, in.Status.Value)
	}
	if in.BuildingID.Set {
		if err := uc.requireBuilding(ctx, tenantID, in.BuildingID.Value); err != nil {
			return nil, err
		}
	}
	patch := entity.ElevatorPatch{
		BuildingID:          in.BuildingID,
		Number:              in.Number,
		LocationDescription: in.LocationDescription,
		TwoDoors:            in.TwoDoors,
		Status:              in.Status,
		Stops:               in.Stops,
		Capacity:            in.Capacity,
		MachineRoomLocation: in.MachineRoomLocation,
		ControlType:         in.ControlType,
	}
	if in.PlateNumber.Set {
		patch.PlateNumber = entity.Some(entity.NullableString(in.PlateNumber.Value))
	}
	e, err := uc.store.Elevators.Update(ctx, tenantID, id, patch)
	if err != nil || e == nil {
		return nil, err
	}
	uc.invalidate(ctx, tenantID, snapshot.Elevators)
	out := dto.FromElevator(e)
	return &out, nil
}

// History libro de servicio del ascensor, por fecha descendente. nil si el ascensor no existe.
func (uc *ElevatorUseCase) History(ctx context.Context, tenantID, elevatorID string) ([]dto.HistoryResponse, error) {
	e, err := uc.store.Elevators.GetByID(ctx, tenantID, elevatorID)
	if err != nil || e == nil {
		return nil, err
	}
	list, err := uc.store.History.ListByElevator(ctx, tenantID, elevatorID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.HistoryResponse, 0, len(list))
	for _, h := range list {
		out = append(out, dto.FromHistory(h))
	}
	return out, nil
}

// AddHistory agrega una entrada manual al libro. nil si el ascensor no existe.
func (uc *ElevatorUseCase) AddHistory(ctx context.Context, tenantID, elevatorID string, in dto.CreateHistoryRequest) (*dto.HistoryResponse, error) {
	e, err := uc.store.Elevators.GetByID(ctx, tenantID, elevatorID)
	if err != nil || e == nil {
		return nil, err
	}
	now := uc.now()
	h := &entity.ElevatorHistory{
		ID:             uuid.New().String(),
		CompanyID:      tenantID,
		ElevatorID:     elevatorID,
		WorkOrderID:    entity.NullableID(in.WorkOrderID),
		Date:           now,
		Description:    strings.TrimSpace(in.Description),
		TechnicianName: strings.TrimSpace(in.TechnicianName),
		CreatedAt:      now,
	}
	if in.Date != nil {
		h.Date = *in.Date
	}
	if h.WorkOrderID != nil {
		w, err := uc.store.WorkOrders.GetByID(ctx, tenantID, *h.WorkOrderID)
		if err != nil {
			return nil, err
		}
		if w == nil {
			return nil, invalidRef("workOrderId")
		}
	}
	if err := uc.store.History.Create(ctx, h); err != nil {
		return nil, err
	}
	out := dto.FromHistory(h)
	return &out, nil
}

func newElevator(tenantID, buildingID string, f dto.ElevatorFields, now time.Time) *entity.Elevator {
	status := f.Status
	if status == "" {
		status = entity.ElevatorFit
	}
	return &entity.Elevator{
		ID:                  uuid.New().String(),
		CompanyID:           tenantID,
		BuildingID:          buildingID,
		Number:              f.Number,
		LocationDescription: strings.TrimSpace(f.LocationDescription),
		TwoDoors:            f.TwoDoors,
		Status:              status,
		Stops:               f.Stops,
		Capacity:            f.Capacity,
		MachineRoomLocation: strings.TrimSpace(f.MachineRoomLocation),
		ControlType:         strings.TrimSpace(f.ControlType),
		PlateNumber:         entity.NullableString(f.PlateNumber),
		CreatedAt:           now,
	}
}

func elevatorAsset(e *entity.Elevator) entity.Asset {
	return entity.Asset{
		Kind:     entity.AssetKindElevator,
		ID:       e.ID,
		Label:    fmt.Sprintf("Ascensor N° %d", e.Number),
		Status:   e.Status,
		Elevator: e,
	}
}
