package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/ascensores-api/internal/domain/entity"
	"github.com/jhoicas/ascensores-api/internal/domain/repository"
)

var _ repository.ElevatorRepository = (*ElevatorRepo)(nil)

// ElevatorRepo ascensores sobre PostgreSQL.
type ElevatorRepo struct {
	db Querier
}

// NewElevatorRepository construye el adaptador de ascensores.
func NewElevatorRepository(db Querier) *ElevatorRepo {
	return &ElevatorRepo{db: db}
}

const elevatorColumns = `id, company_id, building_id, number, location_description, two_doors, status,
	stops, capacity, machine_room_location, control_type, plate_number, created_at`

func scanElevator(row rowScanner) (*entity.Elevator, error) {
	var e entity.Elevator
	err := row.Scan(&e.ID, &e.CompanyID, &e.BuildingID, &e.Number, &e.LocationDescription, &e.TwoDoors,
		&e.Status, &e.Stops, &e.Capacity, &e.MachineRoomLocation, &e.ControlType, &e.PlateNumber, &e.CreatedAt)
	return &e, err
}

// Create persiste un ascensor.
func (r *ElevatorRepo) Create(ctx context.Context, e *entity.Elevator) error {
	query := `INSERT INTO elevators (` + elevatorColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.db.Exec(ctx, query,
		e.ID, e.CompanyID, e.BuildingID, e.Number, e.LocationDescription, e.TwoDoors, e.Status,
		e.Stops, e.Capacity, e.MachineRoomLocation, e.ControlType, nullIfEmpty(e.PlateNumber), e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert elevator: %w", err)
	}
	return nil
}

// GetByID obtiene un ascensor del tenant.
func (r *ElevatorRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Elevator, error) {
	e, err := scanElevator(r.db.QueryRow(ctx,
		`SELECT `+elevatorColumns+` FROM elevators WHERE id = $1 AND company_id = $2`, id, tenantID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get elevator: %w", err)
	}
	return e, nil
}

// List ascensores del tenant, más recientes primero.
func (r *ElevatorRepo) List(ctx context.Context, tenantID string, f repository.ElevatorFilter) ([]*entity.Elevator, error) {
	query := `SELECT ` + elevatorColumns + ` FROM elevators WHERE company_id = $1`
	args := []any{tenantID}
	if f.BuildingID != "" {
		args = append(args, f.BuildingID)
		query += fmt.Sprintf(" AND building_id = $%d", len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list elevators: %w", err)
	}
	defer rows.Close()

	var list []*entity.Elevator
	for rows.Next() {
		e, err := scanElevator(rows)
		if err != nil {
			return nil, fmt.Errorf("scan elevator: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// Update aplica solo los campos presentes.
func (r *ElevatorRepo) Update(ctx context.Context, tenantID, id string, p entity.ElevatorPatch) (*entity.Elevator, error) {
	ub := newUpdateBuilder(id, tenantID)
	setOpt(ub, "building_id", p.BuildingID)
	setOpt(ub, "number", p.Number)
	setOpt(ub, "location_description", p.LocationDescription)
	setOpt(ub, "two_doors", p.TwoDoors)
	setOpt(ub, "status", p.Status)
	setOpt(ub, "stops", p.Stops)
	setOpt(ub, "capacity", p.Capacity)
	setOpt(ub, "machine_room_location", p.MachineRoomLocation)
	setOpt(ub, "control_type", p.ControlType)
	setOpt(ub, "plate_number", p.PlateNumber)
	if ub.empty() {
		return r.GetByID(ctx, tenantID, id)
	}

	e, err := scanElevator(r.db.QueryRow(ctx, ub.sql("elevators", elevatorColumns), ub.args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("update elevator: %w", err)
	}
	return e, nil
}

// ── Libro de servicio ────────────────────────────────────────────────────────

var _ repository.ElevatorHistoryRepository = (*ElevatorHistoryRepo)(nil)

// ElevatorHistoryRepo libro de servicio (solo alta).
type ElevatorHistoryRepo struct {
	db Querier
}

// NewElevatorHistoryRepository construye el adaptador del libro de servicio.
func NewElevatorHistoryRepository(db Querier) *ElevatorHistoryRepo {
	return &ElevatorHistoryRepo{db: db}
}

// Create agrega una entrada.
func (r *ElevatorHistoryRepo) Create(ctx context.Context, h *entity.ElevatorHistory) error {
	query := `
		INSERT INTO elevator_history (id, company_id, elevator_id, work_order_id, date, description, technician_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query,
		h.ID, h.CompanyID, h.ElevatorID, h.WorkOrderID, h.Date, h.Description, h.TechnicianName, h.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert elevator history: %w", err)
	}
	return nil
}

// ListByElevator entradas del ascensor ordenadas por fecha de servicio descendente.
func (r *ElevatorHistoryRepo) ListByElevator(ctx context.Context, tenantID, elevatorID string) ([]*entity.ElevatorHistory, error) {
	query := `
		SELECT id, company_id, elevator_id, work_order_id, date, description, technician_name, created_at
		  FROM elevator_history
		 WHERE company_id = $1 AND elevator_id = $2
		 ORDER BY date DESC, created_at DESC`
	rows, err := r.db.Query(ctx, query, tenantID, elevatorID)
	if err != nil {
		return nil, fmt.Errorf("list elevator history: %w", err)
	}
	defer rows.Close()

	var list []*entity.ElevatorHistory
	for rows.Next() {
		var h entity.ElevatorHistory
		if err := rows.Scan(&h.ID, &h.CompanyID, &h.ElevatorID, &h.WorkOrderID, &h.Date,
			&h.Description, &h.TechnicianName, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan elevator history: %w", err)
		}
		list = append(list, &h)
	}
	return list, rows.Err()
}
