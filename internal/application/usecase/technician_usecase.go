package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/ascensores-api/internal/application/dto"
	"github.com/jhoicas/ascensores-api/internal/application/snapshot"
	"github.com/jhoicas/ascensores-api/internal/domain"
	"github.com/jhoicas/ascensores-api/internal/domain/entity"
	"github.com/jhoicas/ascensores-api/internal/domain/repository"
	"github.com/jhoicas/ascensores-api/internal/domain/workorder"
)

// TechnicianUseCase técnicos del tenant con estado derivado.
type TechnicianUseCase struct {
	*base
}

// List técnicos con su estado free/busy recalculado sobre todas las órdenes del tenant.
func (uc *TechnicianUseCase) List(ctx context.Context, tenantID string, f repository.TechnicianFilter) (dto.ListResponse[dto.TechnicianResponse], error) {
	items, version, err := snapshot.List(ctx, uc.cache, tenantID, snapshot.Technicians, variant("role", f.Role),
		func(ctx context.Context) ([]dto.TechnicianResponse, error) {
			list, err := uc.store.Technicians.List(ctx, tenantID, f)
			if err != nil {
				return nil, err
			}
			out := make([]dto.TechnicianResponse, 0, len(list))
			for _, t := range list {
				out = append(out, dto.FromTechnician(t))
			}
			return out, nil
		})
	if err != nil {
		return dto.ListResponse[dto.TechnicianResponse]{}, err
	}
	orders, _, err := listWorkOrders(ctx, uc.base, tenantID, repository.WorkOrderFilter{})
	if err != nil {
		return dto.ListResponse[dto.TechnicianResponse]{}, err
	}
	withStatus(items, orders)
	return dto.NewList(items, version), nil
}

// Get obtiene un técnico. nil si no existe en el tenant.
func (uc *TechnicianUseCase) Get(ctx context.Context, tenantID, id string) (*dto.TechnicianResponse, error) {
	t, err := uc.store.Technicians.GetByID(ctx, tenantID, id)
	if err != nil || t == nil {
		return nil, err
	}
	out := dto.FromTechnician(t)
	return &out, nil
}

// Create crea un técnico. userId vacío o "null" queda sin identidad vinculada.
func (uc *TechnicianUseCase) Create(ctx context.Context, tenantID string, in dto.CreateTechnicianRequest) (*dto.TechnicianResponse, error) {
	if !validTechnicianRole(in.Role) {
		return nil, fmt.Errorf("%w: rol de técnico %q", domain.ErrInvalidInput, in.Role)
	}
	t := &entity.Technician{
		ID:        uuid.New().String(),
		CompanyID: tenantID,
		UserID:    entity.NullableID(in.UserID),
		Name:      strings.TrimSpace(in.Name),
		Specialty: strings.TrimSpace(in.Specialty),
		Contact:   strings.TrimSpace(in.Contact),
		Role:      in.Role,
		CreatedAt: uc.now(),
	}
	if err := uc.store.Technicians.Create(ctx, t); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, tenantID, snapshot.Technicians)
	out := dto.FromTechnician(t)
	return &out, nil
}

// Update aplica solo los campos presentes. nil si no existe en el tenant.
func (uc *TechnicianUseCase) Update(ctx context.Context, tenantID, id string, in dto.UpdateTechnicianRequest) (*dto.TechnicianResponse, error) {
	if in.Role.Set && !validTechnicianRole(in.Role.Value) {
		return nil, fmt.Errorf("%w: rol de técnico %q", domain.ErrInvalidInput, in.Role.Value)
	}
	patch := entity.TechnicianPatch{
		UserID:    nullableIDOpt(in.UserID),
		Name:      in.Name,
		Specialty: in.Specialty,
		Contact:   in.Contact,
		Role:      in.Role,
	}
	t, err := uc.store.Technicians.Update(ctx, tenantID, id, patch)
	if err != nil || t == nil {
		return nil, err
	}
	uc.invalidate(ctx, tenantID, snapshot.Technicians)
	out := dto.FromTechnician(t)
	return &out, nil
}

func validTechnicianRole(r string) bool {
	return r == entity.TechnicianReclamista || r == entity.TechnicianEngrasador
}

// withStatus completa el estado derivado de cada técnico.
func withStatus(items []dto.TechnicianResponse, orders []*entity.WorkOrder) {
	techs := make([]*entity.Technician, 0, len(items))
	for _, t := range items {
		techs = append(techs, &entity.Technician{ID: t.ID})
	}
	statuses := workorder.TechnicianStatuses(techs, orders)
	for i := range items {
		items[i].Status = statuses[items[i].ID]
	}
}
