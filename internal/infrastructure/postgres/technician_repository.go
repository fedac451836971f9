package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/ascensores-api/internal/domain/entity"
	"github.com/jhoicas/ascensores-api/internal/domain/repository"
)

var _ repository.TechnicianRepository = (*TechnicianRepo)(nil)

// TechnicianRepo técnicos sobre PostgreSQL.
type TechnicianRepo struct {
	db Querier
}

// NewTechnicianRepository construye el adaptador de técnicos.
func NewTechnicianRepository(db Querier) *TechnicianRepo {
	return &TechnicianRepo{db: db}
}

const technicianColumns = `id, company_id, user_id, name, specialty, contact, role, created_at`

func scanTechnician(row rowScanner) (*entity.Technician, error) {
	var t entity.Technician
	err := row.Scan(&t.ID, &t.CompanyID, &t.UserID, &t.Name, &t.Specialty, &t.Contact, &t.Role, &t.CreatedAt)
	return &t, err
}

// Create persiste un técnico.
func (r *TechnicianRepo) Create(ctx context.Context, t *entity.Technician) error {
	query := `INSERT INTO technicians (` + technicianColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query,
		t.ID, t.CompanyID, t.UserID, t.Name, t.Specialty, t.Contact, t.Role, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert technician: %w", err)
	}
	return nil
}

// GetByID obtiene un técnico del tenant.
func (r *TechnicianRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Technician, error) {
	return r.findOne(ctx, `id = $1 AND company_id = $2`, id, tenantID)
}

// GetByUserID técnico del tenant vinculado a la identidad.
func (r *TechnicianRepo) GetByUserID(ctx context.Context, tenantID, userID string) (*entity.Technician, error) {
	return r.findOne(ctx, `user_id = $1 AND company_id = $2`, userID, tenantID)
}

func (r *TechnicianRepo) findOne(ctx context.Context, where string, args ...any) (*entity.Technician, error) {
	t, err := scanTechnician(r.db.QueryRow(ctx,
		`SELECT `+technicianColumns+` FROM technicians WHERE `+where+` LIMIT 1`, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get technician: %w", err)
	}
	return t, nil
}

// List técnicos del tenant, más recientes primero.
func (r *TechnicianRepo) List(ctx context.Context, tenantID string, f repository.TechnicianFilter) ([]*entity.Technician, error) {
	query := `SELECT ` + technicianColumns + ` FROM technicians WHERE company_id = $1`
	args := []any{tenantID}
	if f.Role != "" {
		args = append(args, f.Role)
		query += ` AND role = $2`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list technicians: %w", err)
	}
	defer rows.Close()

	var list []*entity.Technician
	for rows.Next() {
		t, err := scanTechnician(rows)
		if err != nil {
			return nil, fmt.Errorf("scan technician: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Update aplica solo los campos presentes.
func (r *TechnicianRepo) Update(ctx context.Context, tenantID, id string, p entity.TechnicianPatch) (*entity.Technician, error) {
	ub := newUpdateBuilder(id, tenantID)
	setOpt(ub, "user_id", p.UserID)
	setOpt(ub, "name", p.Name)
	setOpt(ub, "specialty", p.Specialty)
	setOpt(ub, "contact", p.Contact)
	setOpt(ub, "role", p.Role)
	if ub.empty() {
		return r.GetByID(ctx, tenantID, id)
	}

	t, err := scanTechnician(r.db.QueryRow(ctx, ub.sql("technicians", technicianColumns), ub.args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("update technician: %w", err)
	}
	return t, nil
}
