package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/ascensores-api/internal/application/dto"
	"github.com/jhoicas/ascensores-api/internal/application/snapshot"
	"github.com/jhoicas/ascensores-api/internal/domain"
	"github.com/jhoicas/ascensores-api/internal/domain/entity"
	"github.com/jhoicas/ascensores-api/internal/domain/repository"
)

// EngineerReportUseCase informes de inspección de ingenieros.
type EngineerReportUseCase struct {
	*base
}

// List informes del tenant, más recientes primero.
func (uc *EngineerReportUseCase) List(ctx context.Context, tenantID string, f repository.EngineerReportFilter) (dto.ListResponse[dto.EngineerReportResponse], error) {
	read := ""
	if f.IsRead != nil {
		read = "false"
		if *f.IsRead {
			read = "true"
		}
	}
	items, version, err := snapshot.List(ctx, uc.cache, tenantID, snapshot.EngineerReports,
		variant("engineer", f.EngineerID, "read", read),
		func(ctx context.Context) ([]dto.EngineerReportResponse, error) {
			list, err := uc.store.EngineerReports.List(ctx, tenantID, f)
			if err != nil {
				return nil, err
			}
			out := make([]dto.EngineerReportResponse, 0, len(list))
			for _, r := range list {
				out = append(out, dto.FromEngineerReport(r))
			}
			return out, nil
		})
	if err != nil {
		return dto.ListResponse[dto.EngineerReportResponse]{}, err
	}
	return dto.NewList(items, version), nil
}

// Create registra un informe del ingeniero en la empresa activa. Se crea sin leer.
func (uc *EngineerReportUseCase) Create(ctx context.Context, tenantID, engineerID string, in dto.CreateEngineerReportRequest) (*dto.EngineerReportResponse, error) {
	if engineerID == "" {
		return nil, domain.ErrForbidden
	}
	eng, err := uc.store.Engineers.GetByID(ctx, engineerID)
	if err != nil {
		return nil, err
	}
	if eng == nil {
		return nil, domain.ErrForbidden
	}
	linked, err := uc.linked(ctx, engineerID, tenantID)
	if err != nil {
		return nil, err
	}
	if !linked {
		return nil, domain.ErrNotAMember
	}
	r := &entity.EngineerReport{
		ID:           uuid.New().String(),
		CompanyID:    tenantID,
		EngineerID:   engineerID,
		EngineerName: eng.Name,
		Address:      strings.TrimSpace(in.Address),
		Comments:     entity.NullableString(in.Comments),
		CreatedAt:    uc.now(),
	}
	if err := uc.store.EngineerReports.Create(ctx, r); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, tenantID, snapshot.EngineerReports)
	out := dto.FromEngineerReport(r)
	return &out, nil
}

// linked el token puede ser anterior a que el ingeniero deje la empresa.
func (uc *EngineerReportUseCase) linked(ctx context.Context, engineerID, tenantID string) (bool, error) {
	companies, err := uc.store.Engineers.ListCompanies(ctx, engineerID)
	if err != nil {
		return false, err
	}
	for _, c := range companies {
		if c.CompanyID == tenantID {
			return true, nil
		}
	}
	return false, nil
}

// SetRead marca el informe como leído o no leído. nil si no existe en el tenant.
func (uc *EngineerReportUseCase) SetRead(ctx context.Context, tenantID, id string, read bool) (*dto.EngineerReportResponse, error) {
	r, err := uc.store.EngineerReports.SetRead(ctx, tenantID, id, read)
	if err != nil || r == nil {
		return nil, err
	}
	uc.invalidate(ctx, tenantID, snapshot.EngineerReports)
	out := dto.FromEngineerReport(r)
	return &out, nil
}
