package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/ascensores-api/internal/application/dto"
	"github.com/jhoicas/ascensores-api/internal/application/snapshot"
	"github.com/jhoicas/ascensores-api/internal/domain/entity"
	"github.com/jhoicas/ascensores-api/internal/domain/repository"
)

// BuildingUseCase edificios del tenant.
type BuildingUseCase struct {
	*base
}

// List edificios, más recientes primero.
func (uc *BuildingUseCase) List(ctx context.Context, tenantID string, f repository.BuildingFilter) (dto.ListResponse[dto.BuildingResponse], error) {
	items, version, err := snapshot.List(ctx, uc.cache, tenantID, snapshot.Buildings,
		variant("neighborhood", f.Neighborhood, "client", f.ClientName),
		func(ctx context.Context) ([]dto.BuildingResponse, error) {
			list, err := uc.store.Buildings.List(ctx, tenantID, f)
			if err != nil {
				return nil, err
			}
			out := make([]dto.BuildingResponse, 0, len(list))
			for _, b := range list {
				out = append(out, dto.FromBuilding(b))
			}
			return out, nil
		})
	if err != nil {
		return dto.ListResponse[dto.BuildingResponse]{}, err
	}
	return dto.NewList(items, version), nil
}

// Get obtiene un edificio. nil si no existe en el tenant.
func (uc *BuildingUseCase) Get(ctx context.Context, tenantID, id string) (*dto.BuildingResponse, error) {
	b, err := uc.store.Buildings.GetByID(ctx, tenantID, id)
	if err != nil || b == nil {
		return nil, err
	}
	out := dto.FromBuilding(b)
	return &out, nil
}

// Create crea un edificio.
func (uc *BuildingUseCase) Create(ctx context.Context, tenantID string, in dto.CreateBuildingRequest) (*dto.BuildingResponse, error) {
	b, err := uc.newBuilding(tenantID, in)
	if err != nil {
		return nil, err
	}
	if err := uc.store.Buildings.Create(ctx, b); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, tenantID, snapshot.Buildings)
	out := dto.FromBuilding(b)
	return &out, nil
}

// Update aplica solo los campos presentes. nil si no existe en el tenant.
func (uc *BuildingUseCase) Update(ctx context.Context, tenantID, id string, in dto.UpdateBuildingRequest) (*dto.BuildingResponse, error) {
	patch := entity.BuildingPatch{
		Address:      in.Address,
		Neighborhood: in.Neighborhood,
		ContactPhone: in.ContactPhone,
		EntryHours:   in.EntryHours,
		ClientName:   in.ClientName,
	}
	if in.RelationshipStart.Set {
		start, err := uc.parseDate(in.RelationshipStart.Value)
		if err != nil {
			return nil, err
		}
		patch.RelationshipStart = entity.Some(start)
	}
	b, err := uc.store.Buildings.Update(ctx, tenantID, id, patch)
	if err != nil || b == nil {
		return nil, err
	}
	uc.invalidate(ctx, tenantID, snapshot.Buildings)
	out := dto.FromBuilding(b)
	return &out, nil
}

// CreateWithAssets crea el edificio con sus ascensores y equipos en una sola transacción:
// si algo falla no queda nada escrito.
func (uc *BuildingUseCase) CreateWithAssets(ctx context.Context, tenantID string, in dto.CreateBuildingWithAssetsRequest) (*dto.BuildingWithAssetsResponse, error) {
	b, err := uc.newBuilding(tenantID, in.Building)
	if err != nil {
		return nil, err
	}
	elevators := make([]*entity.Elevator, 0, len(in.Elevators))
	for _, f := range in.Elevators {
		elevators = append(elevators, newElevator(tenantID, b.ID, f, uc.now()))
	}
	equipment := make([]*entity.Equipment, 0, len(in.Equipment))
	for _, f := range in.Equipment {
		equipment = append(equipment, newEquipment(tenantID, b.ID, f, uc.now()))
	}

	err = uc.tx.Run(ctx, func(tx repository.Store) error {
		if err := tx.Buildings.Create(ctx, b); err != nil {
			return err
		}
		for _, e := range elevators {
			if err := tx.Elevators.Create(ctx, e); err != nil {
				return err
			}
		}
		for _, e := range equipment {
			if err := tx.Equipment.Create(ctx, e); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx, tenantID, snapshot.Buildings, snapshot.Elevators, snapshot.Equipment)

	out := &dto.BuildingWithAssetsResponse{
		Building:  dto.FromBuilding(b),
		Elevators: make([]dto.ElevatorResponse, 0, len(elevators)),
		Equipment: make([]dto.EquipmentResponse, 0, len(equipment)),
	}
	for _, e := range elevators {
		out.Elevators = append(out.Elevators, dto.FromElevator(e))
	}
	for _, e := range equipment {
		out.Equipment = append(out.Equipment, dto.FromEquipment(e))
	}
	return out, nil
}

// ListAssets vista unificada de ascensores y equipos del edificio. nil si el edificio no existe.
func (uc *BuildingUseCase) ListAssets(ctx context.Context, tenantID, buildingID string) ([]dto.AssetResponse, error) {
	b, err := uc.store.Buildings.GetByID(ctx, tenantID, buildingID)
	if err != nil || b == nil {
		return nil, err
	}
	elevators, err := uc.store.Elevators.List(ctx, tenantID, repository.ElevatorFilter{BuildingID: buildingID})
	if err != nil {
		return nil, err
	}
	equipment, err := uc.store.Equipment.List(ctx, tenantID, repository.EquipmentFilter{BuildingID: buildingID})
	if err != nil {
		return nil, err
	}
	out := make([]dto.AssetResponse, 0, len(elevators)+len(equipment))
	for _, e := range elevators {
		out = append(out, dto.FromAsset(elevatorAsset(e)))
	}
	for _, e := range equipment {
		out = append(out, dto.FromAsset(equipmentAsset(e)))
	}
	return out, nil
}

func (uc *BuildingUseCase) newBuilding(tenantID string, in dto.CreateBuildingRequest) (*entity.Building, error) {
	start, err := uc.parseDate(in.RelationshipStart)
	if err != nil {
		return nil, err
	}
	return &entity.Building{
		ID:                uuid.New().String(),
		CompanyID:         tenantID,
		Address:           strings.TrimSpace(in.Address),
		Neighborhood:      strings.TrimSpace(in.Neighborhood),
		ContactPhone:      strings.TrimSpace(in.ContactPhone),
		EntryHours:        strings.TrimSpace(in.EntryHours),
		ClientName:        strings.TrimSpace(in.ClientName),
		RelationshipStart: start,
		CreatedAt:         uc.now(),
	}, nil
}
