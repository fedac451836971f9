package repository

import (
	"context"
	"time"

	"github.com/jhoicas/ascensores-api/internal/domain/entity"
)

// WorkOrderFilter filtros opcionales de órdenes (igualdad).
type WorkOrderFilter struct {
	BuildingID   string
	ElevatorID   string
	EquipmentID  string
	TechnicianID string
	Status       string
	Priority     string
}

// WorkOrderRepository órdenes de trabajo con sus repuestos.
type WorkOrderRepository interface {
	Create(ctx context.Context, w *entity.WorkOrder) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.WorkOrder, error)
	// List ordena por CreatedAt descendente.
	List(ctx context.Context, tenantID string, f WorkOrderFilter) ([]*entity.WorkOrder, error)
	Update(ctx context.Context, tenantID, id string, p entity.WorkOrderPatch) (*entity.WorkOrder, error)
	// Transition cambia el estado solo si el actual es from. Devuelve nil, nil si no afectó filas.
	// Al pasar a In Progress sella start_time con at.
	Transition(ctx context.Context, tenantID, id, from, to string, at time.Time) (*entity.WorkOrder, error)
	// Complete pasa a Completed y persiste el cierre en una sola sentencia,
	// solo si la orden no estaba completada. nil, nil si no afectó filas.
	Complete(ctx context.Context, tenantID, id string, c entity.Completion) (*entity.WorkOrder, error)
}

// RemitoRepository numeración y registro de remitos.
type RemitoRepository interface {
	// NextNumber incrementa atómicamente el contador del tenant y devuelve el nuevo valor.
	NextNumber(ctx context.Context, tenantID string) (int64, error)
	// Upsert crea o reemplaza el remito de la orden (clave work_order_id).
	Upsert(ctx context.Context, r *entity.Remito) error
	GetByWorkOrder(ctx context.Context, tenantID, workOrderID string) (*entity.Remito, error)
}
