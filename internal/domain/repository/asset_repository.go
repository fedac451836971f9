package repository

import (
	"context"

	"github.com/jhoicas/ascensores-api/internal/domain/entity"
)

// Todas las operaciones filtran por id Y tenant: una fila de otra empresa se comporta
// como inexistente (nil, nil) y un Update sobre ella no afecta filas.

// BuildingFilter filtros opcionales de edificios.
type BuildingFilter struct {
	Neighborhood string
	ClientName   string
}

// BuildingRepository edificios.
type BuildingRepository interface {
	Create(ctx context.Context, b *entity.Building) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Building, error)
	List(ctx context.Context, tenantID string, f BuildingFilter) ([]*entity.Building, error)
	Update(ctx context.Context, tenantID, id string, p entity.BuildingPatch) (*entity.Building, error)
}

// ElevatorFilter filtros opcionales de ascensores.
type ElevatorFilter struct {
	BuildingID string
	Status     string
}

// ElevatorRepository ascensores.
type ElevatorRepository interface {
	Create(ctx context.Context, e *entity.Elevator) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Elevator, error)
	List(ctx context.Context, tenantID string, f ElevatorFilter) ([]*entity.Elevator, error)
	Update(ctx context.Context, tenantID, id string, p entity.ElevatorPatch) (*entity.Elevator, error)
}

// EquipmentFilter filtros opcionales de equipos.
type EquipmentFilter struct {
	BuildingID string
	Type       string
	Status     string
}

// EquipmentRepository equipos. Es la única entidad con baja explícita.
type EquipmentRepository interface {
	Create(ctx context.Context, e *entity.Equipment) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Equipment, error)
	List(ctx context.Context, tenantID string, f EquipmentFilter) ([]*entity.Equipment, error)
	Update(ctx context.Context, tenantID, id string, p entity.EquipmentPatch) (*entity.Equipment, error)
	// Delete devuelve domain.ErrConflict si alguna orden de trabajo referencia al equipo.
	Delete(ctx context.Context, tenantID, id string) (bool, error)
}

// ElevatorHistoryRepository libro de servicio (solo alta y lectura).
type ElevatorHistoryRepository interface {
	Create(ctx context.Context, h *entity.ElevatorHistory) error
	// ListByElevator ordena por Date descendente.
	ListByElevator(ctx context.Context, tenantID, elevatorID string) ([]*entity.ElevatorHistory, error)
}

// TechnicianFilter filtros opcionales de técnicos.
type TechnicianFilter struct {
	Role string
}

// TechnicianRepository técnicos.
type TechnicianRepository interface {
	Create(ctx context.Context, t *entity.Technician) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Technician, error)
	GetByUserID(ctx context.Context, tenantID, userID string) (*entity.Technician, error)
	List(ctx context.Context, tenantID string, f TechnicianFilter) ([]*entity.Technician, error)
	Update(ctx context.Context, tenantID, id string, p entity.TechnicianPatch) (*entity.Technician, error)
}
