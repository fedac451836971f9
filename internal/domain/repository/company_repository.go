package repository

import (
	"context"

	"github.com/jhoicas/ascensores-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
}

// MembershipRepository membresías oficina/técnico de una identidad.
type MembershipRepository interface {
	Create(ctx context.Context, m *entity.CompanyMembership) error
	// ListByUser devuelve las membresías con CompanyName resuelto, sin orden garantizado.
	ListByUser(ctx context.Context, userID string) ([]*entity.CompanyMembership, error)
}

// JoinCodeRepository códigos de unión emitidos por una empresa.
type JoinCodeRepository interface {
	Create(ctx context.Context, code *entity.JoinCode) error
	Get(ctx context.Context, code string) (*entity.JoinCode, error)
}
