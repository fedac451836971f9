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

// EquipmentUseCase equipos del tenant. Es la única entidad que se puede borrar.
type EquipmentUseCase struct {
	*base
}

// List equipos, más recientes primero.
func (uc *EquipmentUseCase) List(ctx context.Context, tenantID string, f repository.EquipmentFilter) (dto.ListResponse[dto.EquipmentResponse], error) {
	items, version, err := snapshot.List(ctx, uc.cache, tenantID, snapshot.Equipment,
		variant("building", f.BuildingID, "type", f.Type, "status", f.Status),
		func(ctx context.Context) ([]dto.EquipmentResponse, error) {
			list, err := uc.store.Equipment.List(ctx, tenantID, f)
			if err != nil {
				return nil, err
			}
			out := make([]dto.EquipmentResponse, 0, len(list))
			for _, e := range list {
				out = append(out, dto.FromEquipment(e))
			}
			return out, nil
		})
	if err != nil {
		return dto.ListResponse[dto.EquipmentResponse]{}, err
	}
	return dto.NewList(items, version), nil
}

// Get obtiene un equipo. nil si no existe en el tenant.
func (uc *EquipmentUseCase) Get(ctx context.Context, tenantID, id string) (*dto.EquipmentResponse, error) {
	e, err := uc.store.Equipment.GetByID(ctx, tenantID, id)
	if err != nil || e == nil {
		return nil, err
	}
	out := dto.FromEquipment(e)
	return &out, nil
}

// Create crea un equipo en un edificio del tenant.
func (uc *EquipmentUseCase) Create(ctx context.Context, tenantID string, in dto.CreateEquipmentRequest) (*dto.EquipmentResponse, error) {
	if err := uc.requireBuilding(ctx, tenantID, in.BuildingID); err != nil {
		return nil, err
	}
	e := newEquipment(tenantID, in.BuildingID, in.EquipmentFields, uc.now())
	if err := uc.store.Equipment.Create(ctx, e); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, tenantID, snapshot.Equipment)
	out := dto.FromEquipment(e)
	return &out, nil
}

// Update aplica solo los campos presentes. nil si no existe en el tenant.
func (uc *EquipmentUseCase) Update(ctx context.Context, tenantID, id string, in dto.UpdateEquipmentRequest) (*dto.EquipmentResponse, error) {
	if in.Type.Set && !entity.ValidEquipmentType(in.Type.Value) {
		return nil, fmt.Errorf("%w: tipo de equipo %q", domain.ErrInvalidInput, in.Type.Value)
	}
	if in.Status.Set && in.Status.Value != entity.EquipmentStatusFit && in.Status.Value != entity.EquipmentStatusOutOfService {
		return nil, fmt.Errorf("%w: estado de equipo %q", domain.ErrInvalidInput, in.Status.Value)
	}
	patch := entity.EquipmentPatch{
		Type:                in.Type,
		Name:                in.Name,
		LocationDescription: in.LocationDescription,
		Brand:               nullableOpt(in.Brand),
		Model:               nullableOpt(in.Model),
		SerialNumber:        nullableOpt(in.SerialNumber),
		Capacity:            nullableOpt(in.Capacity),
		Status:              in.Status,
	}
	e, err := uc.store.Equipment.Update(ctx, tenantID, id, patch)
	if err != nil || e == nil {
		return nil, err
	}
	uc.invalidate(ctx, tenantID, snapshot.Equipment)
	out := dto.FromEquipment(e)
	return &out, nil
}

// Delete borra un equipo. false si no existía en el tenant; domain.ErrConflict
// mientras alguna orden lo referencie, para que la orden no quede sin activo.
func (uc *EquipmentUseCase) Delete(ctx context.Context, tenantID, id string) (bool, error) {
	ok, err := uc.store.Equipment.Delete(ctx, tenantID, id)
	if err != nil || !ok {
		return false, err
	}
	uc.invalidate(ctx, tenantID, snapshot.Equipment, snapshot.WorkOrders)
	return true, nil
}

func newEquipment(tenantID, buildingID string, f dto.EquipmentFields, now time.Time) *entity.Equipment {
	status := f.Status
	if status == "" {
		status = entity.EquipmentStatusFit
	}
	return &entity.Equipment{
		ID:                  uuid.New().String(),
		CompanyID:           tenantID,
		BuildingID:          buildingID,
		Type:                f.Type,
		Name:                strings.TrimSpace(f.Name),
		LocationDescription: strings.TrimSpace(f.LocationDescription),
		Brand:               entity.NullableString(f.Brand),
		Model:               entity.NullableString(f.Model),
		SerialNumber:        entity.NullableString(f.SerialNumber),
		Capacity:            entity.NullableString(f.Capacity),
		Status:              status,
		CreatedAt:           now,
	}
}

func equipmentAsset(e *entity.Equipment) entity.Asset {
	return entity.Asset{
		Kind:      entity.AssetKindEquipment,
		ID:        e.ID,
		Label:     e.Name,
		Status:    e.Status,
		Equipment: e,
	}
}

// nullableOpt normaliza un texto opcional presente en el patch ("" → null).
func nullableOpt(o entity.Optional[*string]) entity.Optional[*string] {
	if !o.Set {
		return o
	}
	return entity.Some(entity.NullableString(o.Value))
}

// nullableIDOpt normaliza una clave foránea presente en el patch ("", "null", "undefined" → null).
func nullableIDOpt(o entity.Optional[*string]) entity.Optional[*string] {
	if !o.Set {
		return o
	}
	return entity.Some(entity.NullableID(o.Value))
}
