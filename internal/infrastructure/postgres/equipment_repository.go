package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/ascensores-api/internal/domain"
	"github.com/jhoicas/ascensores-api/internal/domain/entity"
	"github.com/jhoicas/ascensores-api/internal/domain/repository"
)

var _ repository.EquipmentRepository = (*EquipmentRepo)(nil)

// EquipmentRepo equipos sobre PostgreSQL.
type EquipmentRepo struct {
	db Querier
}

// NewEquipmentRepository construye el adaptador de equipos.
func NewEquipmentRepository(db Querier) *EquipmentRepo {
	return &EquipmentRepo{db: db}
}

const equipmentColumns = `id, company_id, building_id, type, name, location_description,
	brand, model, serial_number, capacity, status, created_at`

func scanEquipment(row rowScanner) (*entity.Equipment, error) {
	var e entity.Equipment
	err := row.Scan(&e.ID, &e.CompanyID, &e.BuildingID, &e.Type, &e.Name, &e.LocationDescription,
		&e.Brand, &e.Model, &e.SerialNumber, &e.Capacity, &e.Status, &e.CreatedAt)
	return &e, err
}

// Create persiste un equipo.
func (r *EquipmentRepo) Create(ctx context.Context, e *entity.Equipment) error {
	query := `INSERT INTO equipment (` + equipmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.Exec(ctx, query,
		e.ID, e.CompanyID, e.BuildingID, e.Type, e.Name, e.LocationDescription,
		nullIfEmpty(e.Brand), nullIfEmpty(e.Model), nullIfEmpty(e.SerialNumber), nullIfEmpty(e.Capacity),
		e.Status, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert equipment: %w", err)
	}
	return nil
}

// GetByID obtiene un equipo del tenant.
func (r *EquipmentRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Equipment, error) {
	e, err := scanEquipment(r.db.QueryRow(ctx,
		`SELECT `+equipmentColumns+` FROM equipment WHERE id = $1 AND company_id = $2`, id, tenantID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get equipment: %w", err)
	}
	return e, nil
}

// List equipos del tenant, más recientes primero.
func (r *EquipmentRepo) List(ctx context.Context, tenantID string, f repository.EquipmentFilter) ([]*entity.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE company_id = $1`
	args := []any{tenantID}
	for _, c := range [][2]string{{"building_id", f.BuildingID}, {"type", f.Type}, {"status", f.Status}} {
		if c[1] != "" {
			args = append(args, c[1])
			query += fmt.Sprintf(" AND %s = $%d", c[0], len(args))
		}
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}
	defer rows.Close()

	var list []*entity.Equipment
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan equipment: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// Update aplica solo los campos presentes.
func (r *EquipmentRepo) Update(ctx context.Context, tenantID, id string, p entity.EquipmentPatch) (*entity.Equipment, error) {
	ub := newUpdateBuilder(id, tenantID)
	setOpt(ub, "type", p.Type)
	setOpt(ub, "name", p.Name)
	setOpt(ub, "location_description", p.LocationDescription)
	setOpt(ub, "brand", p.Brand)
	setOpt(ub, "model", p.Model)
	setOpt(ub, "serial_number", p.SerialNumber)
	setOpt(ub, "capacity", p.Capacity)
	setOpt(ub, "status", p.Status)
	if ub.empty() {
		return r.GetByID(ctx, tenantID, id)
	}

	e, err := scanEquipment(r.db.QueryRow(ctx, ub.sql("equipment", equipmentColumns), ub.args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("update equipment: %w", err)
	}
	return e, nil
}

// Delete elimina un equipo del tenant. false si no existía para ese tenant;
// domain.ErrConflict si alguna orden lo referencia (la FK es ON DELETE RESTRICT).
func (r *EquipmentRepo) Delete(ctx context.Context, tenantID, id string) (bool, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM equipment WHERE id = $1 AND company_id = $2`, id, tenantID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, fmt.Errorf("%w: el equipo tiene órdenes de trabajo", domain.ErrConflict)
		}
		return false, fmt.Errorf("delete equipment: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}
