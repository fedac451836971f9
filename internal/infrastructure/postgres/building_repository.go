package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/ascensores-api/internal/domain/entity"
	"github.com/jhoicas/ascensores-api/internal/domain/repository"
)

var _ repository.BuildingRepository = (*BuildingRepo)(nil)

// BuildingRepo implementación del puerto BuildingRepository sobre PostgreSQL.
type BuildingRepo struct {
	db Querier
}

// NewBuildingRepository construye el adaptador de edificios.
func NewBuildingRepository(db Querier) *BuildingRepo {
	return &BuildingRepo{db: db}
}

const buildingColumns = `id, company_id, address, neighborhood, contact_phone, entry_hours,
	client_name, relationship_start, created_at`

func scanBuilding(row rowScanner) (*entity.Building, error) {
	var b entity.Building
	err := row.Scan(&b.ID, &b.CompanyID, &b.Address, &b.Neighborhood, &b.ContactPhone,
		&b.EntryHours, &b.ClientName, &b.RelationshipStart, &b.CreatedAt)
	return &b, err
}

// Create persiste un edificio.
func (r *BuildingRepo) Create(ctx context.Context, b *entity.Building) error {
	query := `INSERT INTO buildings (` + buildingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query,
		b.ID, b.CompanyID, b.Address, b.Neighborhood, b.ContactPhone,
		b.EntryHours, b.ClientName, b.RelationshipStart, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert building: %w", err)
	}
	return nil
}

// GetByID obtiene un edificio del tenant.
func (r *BuildingRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Building, error) {
	b, err := scanBuilding(r.db.QueryRow(ctx,
		`SELECT `+buildingColumns+` FROM buildings WHERE id = $1 AND company_id = $2`, id, tenantID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get building: %w", err)
	}
	return b, nil
}

// List edificios del tenant, más recientes primero.
func (r *BuildingRepo) List(ctx context.Context, tenantID string, f repository.BuildingFilter) ([]*entity.Building, error) {
	query := `SELECT ` + buildingColumns + ` FROM buildings WHERE company_id = $1`
	args := []any{tenantID}
	if f.Neighborhood != "" {
		args = append(args, f.Neighborhood)
		query += fmt.Sprintf(" AND neighborhood = $%d", len(args))
	}
	if f.ClientName != "" {
		args = append(args, f.ClientName)
		query += fmt.Sprintf(" AND client_name = $%d", len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list buildings: %w", err)
	}
	defer rows.Close()

	var list []*entity.Building
	for rows.Next() {
		b, err := scanBuilding(rows)
		if err != nil {
			return nil, fmt.Errorf("scan building: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// Update aplica solo los campos presentes. Otra empresa o id inexistente → nil, nil.
func (r *BuildingRepo) Update(ctx context.Context, tenantID, id string, p entity.BuildingPatch) (*entity.Building, error) {
	if p.Empty() {
		return r.GetByID(ctx, tenantID, id)
	}
	ub := newUpdateBuilder(id, tenantID)
	setOpt(ub, "address", p.Address)
	setOpt(ub, "neighborhood", p.Neighborhood)
	setOpt(ub, "contact_phone", p.ContactPhone)
	setOpt(ub, "entry_hours", p.EntryHours)
	setOpt(ub, "client_name", p.ClientName)
	setOpt(ub, "relationship_start", p.RelationshipStart)

	b, err := scanBuilding(r.db.QueryRow(ctx, ub.sql("buildings", buildingColumns), ub.args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("update building: %w", err)
	}
	return b, nil
}
