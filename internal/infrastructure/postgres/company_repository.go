package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/ascensores-api/internal/domain"
	"github.com/jhoicas/ascensores-api/internal/domain/entity"
	"github.com/jhoicas/ascensores-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	db Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(db Querier) *CompanyRepo {
	return &CompanyRepo{db: db}
}

// Create persiste una nueva empresa.
func (r *CompanyRepo) Create(ctx context.Context, company *entity.Company) error {
	query := `INSERT INTO companies (id, name, created_at) VALUES ($1, $2, $3)`
	if _, err := r.db.Exec(ctx, query, company.ID, company.Name, company.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	var c entity.Company
	err := r.db.QueryRow(ctx, `SELECT id, name, created_at FROM companies WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}

// ── Membresías ───────────────────────────────────────────────────────────────

var _ repository.MembershipRepository = (*MembershipRepo)(nil)

// MembershipRepo membresías oficina/técnico.
type MembershipRepo struct {
	db Querier
}

// NewMembershipRepository construye el adaptador de membresías.
func NewMembershipRepository(db Querier) *MembershipRepo {
	return &MembershipRepo{db: db}
}

// Create persiste una membresía. (user_id, company_id) es único.
func (r *MembershipRepo) Create(ctx context.Context, m *entity.CompanyMembership) error {
	query := `
		INSERT INTO company_memberships (id, user_id, company_id, role, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.Exec(ctx, query, m.ID, m.UserID, m.CompanyID, m.Role, m.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert membership: %w", err)
	}
	return nil
}

// ListByUser devuelve las membresías de la identidad con el nombre de la empresa.
func (r *MembershipRepo) ListByUser(ctx context.Context, userID string) ([]*entity.CompanyMembership, error) {
	query := `
		SELECT m.id, m.user_id, m.company_id, c.name, m.role, m.created_at
		  FROM company_memberships m
		  JOIN companies c ON c.id = m.company_id
		 WHERE m.user_id = $1
		 ORDER BY m.created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()

	var list []*entity.CompanyMembership
	for rows.Next() {
		var m entity.CompanyMembership
		if err := rows.Scan(&m.ID, &m.UserID, &m.CompanyID, &m.CompanyName, &m.Role, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// ── Códigos de unión ─────────────────────────────────────────────────────────

var _ repository.JoinCodeRepository = (*JoinCodeRepo)(nil)

// JoinCodeRepo códigos de unión.
type JoinCodeRepo struct {
	db Querier
}

// NewJoinCodeRepository construye el adaptador de códigos de unión.
func NewJoinCodeRepository(db Querier) *JoinCodeRepo {
	return &JoinCodeRepo{db: db}
}

// Create persiste un código.
func (r *JoinCodeRepo) Create(ctx context.Context, j *entity.JoinCode) error {
	query := `
		INSERT INTO join_codes (code, company_id, role, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.Exec(ctx, query, j.Code, j.CompanyID, j.Role, j.CreatedAt, j.ExpiresAt); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert join code: %w", err)
	}
	return nil
}

// Get obtiene un código (vencido o no).
func (r *JoinCodeRepo) Get(ctx context.Context, code string) (*entity.JoinCode, error) {
	var j entity.JoinCode
	err := r.db.QueryRow(ctx,
		`SELECT code, company_id, role, created_at, expires_at FROM join_codes WHERE code = $1`, code,
	).Scan(&j.Code, &j.CompanyID, &j.Role, &j.CreatedAt, &j.ExpiresAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get join code: %w", err)
	}
	return &j, nil
}
