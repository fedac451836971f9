package repository

import (
	"context"

	"github.com/jhoicas/ascensores-api/internal/domain/entity"
)

// EngineerRepository perfiles de ingeniero y sus empresas (muchos-a-muchos).
type EngineerRepository interface {
	Create(ctx context.Context, e *entity.Engineer) error
	GetByID(ctx context.Context, id string) (*entity.Engineer, error)
	GetByUserID(ctx context.Context, userID string) (*entity.Engineer, error)
	// AddCompany es idempotente.
	AddCompany(ctx context.Context, engineerID, companyID string) error
	// RemoveCompany devuelve false si la relación no existía.
	RemoveCompany(ctx context.Context, engineerID, companyID string) (bool, error)
	ListCompanies(ctx context.Context, engineerID string) ([]*entity.EngineerCompanyMembership, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Engineer, error)
}

// EngineerReportFilter filtros opcionales del listado de informes.
type EngineerReportFilter struct {
	EngineerID string
	IsRead     *bool
}

// EngineerReportRepository informes de inspección. No se borran.
type EngineerReportRepository interface {
	Create(ctx context.Context, r *entity.EngineerReport) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.EngineerReport, error)
	List(ctx context.Context, tenantID string, f EngineerReportFilter) ([]*entity.EngineerReport, error)
	// SetRead devuelve nil, nil si el informe no pertenece al tenant.
	SetRead(ctx context.Context, tenantID, id string, read bool) (*entity.EngineerReport, error)
}
