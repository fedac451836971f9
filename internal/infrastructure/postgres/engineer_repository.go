package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/ascensores-api/internal/domain"
	"github.com/jhoicas/ascensores-api/internal/domain/entity"
	"github.com/jhoicas/ascensores-api/internal/domain/repository"
)

var _ repository.EngineerRepository = (*EngineerRepo)(nil)

// EngineerRepo perfiles de ingeniero y sus empresas.
type EngineerRepo struct {
	db Querier
}

// NewEngineerRepository construye el adaptador de ingenieros.
func NewEngineerRepository(db Querier) *EngineerRepo {
	return &EngineerRepo{db: db}
}

const engineerColumns = `id, user_id, name, contact, created_at`

// Create persiste el perfil. user_id es único: un segundo perfil devuelve ErrAlreadyEngineer.
func (r *EngineerRepo) Create(ctx context.Context, e *entity.Engineer) error {
	query := `INSERT INTO engineers (` + engineerColumns + `) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.Exec(ctx, query, e.ID, e.UserID, e.Name, e.Contact, e.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyEngineer
		}
		return fmt.Errorf("insert engineer: %w", err)
	}
	return nil
}

// GetByID obtiene un ingeniero.
func (r *EngineerRepo) GetByID(ctx context.Context, id string) (*entity.Engineer, error) {
	return r.findOne(ctx, `id = $1`, id)
}

// GetByUserID obtiene el perfil de ingeniero de una identidad.
func (r *EngineerRepo) GetByUserID(ctx context.Context, userID string) (*entity.Engineer, error) {
	return r.findOne(ctx, `user_id = $1`, userID)
}

func (r *EngineerRepo) findOne(ctx context.Context, where string, arg any) (*entity.Engineer, error) {
	var e entity.Engineer
	err := r.db.QueryRow(ctx, `SELECT `+engineerColumns+` FROM engineers WHERE `+where, arg).
		Scan(&e.ID, &e.UserID, &e.Name, &e.Contact, &e.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get engineer: %w", err)
	}
	return &e, nil
}

// AddCompany vincula ingeniero y empresa (idempotente).
func (r *EngineerRepo) AddCompany(ctx context.Context, engineerID, companyID string) error {
	query := `
		INSERT INTO engineer_company_memberships (engineer_id, company_id, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (engineer_id, company_id) DO NOTHING`
	if _, err := r.db.Exec(ctx, query, engineerID, companyID); err != nil {
		return fmt.Errorf("add engineer company: %w", err)
	}
	return nil
}

// RemoveCompany desvincula ingeniero y empresa.
func (r *EngineerRepo) RemoveCompany(ctx context.Context, engineerID, companyID string) (bool, error) {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM engineer_company_memberships WHERE engineer_id = $1 AND company_id = $2`,
		engineerID, companyID)
	if err != nil {
		return false, fmt.Errorf("remove engineer company: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// ListCompanies empresas del ingeniero, más recientes primero.
func (r *EngineerRepo) ListCompanies(ctx context.Context, engineerID string) ([]*entity.EngineerCompanyMembership, error) {
	query := `
		SELECT m.engineer_id, m.company_id, c.name, m.created_at
		  FROM engineer_company_memberships m
		  JOIN companies c ON c.id = m.company_id
		 WHERE m.engineer_id = $1
		 ORDER BY m.created_at DESC`
	rows, err := r.db.Query(ctx, query, engineerID)
	if err != nil {
		return nil, fmt.Errorf("list engineer companies: %w", err)
	}
	defer rows.Close()

	var list []*entity.EngineerCompanyMembership
	for rows.Next() {
		var m entity.EngineerCompanyMembership
		if err := rows.Scan(&m.EngineerID, &m.CompanyID, &m.CompanyName, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan engineer company: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// ListByCompany ingenieros vinculados a la empresa.
func (r *EngineerRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Engineer, error) {
	cols := "e." + strings.ReplaceAll(engineerColumns, ", ", ", e.")
	query := `
		SELECT ` + cols + `
		  FROM engineers e
		  JOIN engineer_company_memberships m ON m.engineer_id = e.id
		 WHERE m.company_id = $1
		 ORDER BY m.created_at DESC`
	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list engineers: %w", err)
	}
	defer rows.Close()

	var list []*entity.Engineer
	for rows.Next() {
		var e entity.Engineer
		if err := rows.Scan(&e.ID, &e.UserID, &e.Name, &e.Contact, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan engineer: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// ── Informes ─────────────────────────────────────────────────────────────────

var _ repository.EngineerReportRepository = (*EngineerReportRepo)(nil)

// EngineerReportRepo informes de inspección.
type EngineerReportRepo struct {
	db Querier
}

// NewEngineerReportRepository construye el adaptador de informes.
func NewEngineerReportRepository(db Querier) *EngineerReportRepo {
	return &EngineerReportRepo{db: db}
}

const reportSelect = `
	SELECT r.id, r.company_id, r.engineer_id, e.name, r.address, r.comments, r.is_read, r.created_at
	  FROM engineer_reports r
	  JOIN engineers e ON e.id = r.engineer_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*entity.EngineerReport, error) {
	var rep entity.EngineerReport
	err := row.Scan(&rep.ID, &rep.CompanyID, &rep.EngineerID, &rep.EngineerName,
		&rep.Address, &rep.Comments, &rep.IsRead, &rep.CreatedAt)
	return &rep, err
}

// Create persiste un informe (siempre sin leer).
func (r *EngineerReportRepo) Create(ctx context.Context, rep *entity.EngineerReport) error {
	query := `
		INSERT INTO engineer_reports (id, company_id, engineer_id, address, comments, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query,
		rep.ID, rep.CompanyID, rep.EngineerID, rep.Address, nullIfEmpty(rep.Comments), rep.IsRead, rep.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert engineer report: %w", err)
	}
	return nil
}

// GetByID obtiene un informe del tenant.
func (r *EngineerReportRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.EngineerReport, error) {
	rep, err := scanReport(r.db.QueryRow(ctx, reportSelect+` WHERE r.id = $1 AND r.company_id = $2`, id, tenantID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get engineer report: %w", err)
	}
	return rep, nil
}

// List informes del tenant, más recientes primero.
func (r *EngineerReportRepo) List(ctx context.Context, tenantID string, f repository.EngineerReportFilter) ([]*entity.EngineerReport, error) {
	query := reportSelect + ` WHERE r.company_id = $1`
	args := []any{tenantID}
	if f.EngineerID != "" {
		args = append(args, f.EngineerID)
		query += fmt.Sprintf(" AND r.engineer_id = $%d", len(args))
	}
	if f.IsRead != nil {
		args = append(args, *f.IsRead)
		query += fmt.Sprintf(" AND r.is_read = $%d", len(args))
	}
	query += ` ORDER BY r.created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list engineer reports: %w", err)
	}
	defer rows.Close()

	var list []*entity.EngineerReport
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan engineer report: %w", err)
		}
		list = append(list, rep)
	}
	return list, rows.Err()
}

// SetRead marca el informe como leído/no leído.
func (r *EngineerReportRepo) SetRead(ctx context.Context, tenantID, id string, read bool) (*entity.EngineerReport, error) {
	cmd, err := r.db.Exec(ctx,
		`UPDATE engineer_reports SET is_read = $3 WHERE id = $1 AND company_id = $2`, id, tenantID, read)
	if err != nil {
		return nil, fmt.Errorf("update engineer report: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, tenantID, id)
}
