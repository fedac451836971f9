package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/ascensores-api/internal/domain/entity"
	"github.com/jhoicas/ascensores-api/internal/domain/repository"
)

var _ repository.RemitoRepository = (*RemitoRepo)(nil)

// RemitoRepo numeración y registro de remitos.
type RemitoRepo struct {
	db Querier
}

// NewRemitoRepository construye el adaptador de remitos.
func NewRemitoRepository(db Querier) *RemitoRepo {
	return &RemitoRepo{db: db}
}

// NextNumber incrementa el contador del tenant en una sola sentencia. El lock de fila del
// upsert serializa a los concurrentes: nunca devuelve dos veces el mismo valor.
func (r *RemitoRepo) NextNumber(ctx context.Context, tenantID string) (int64, error) {
	query := `
		INSERT INTO remito_sequences (company_id, last_value)
		VALUES ($1, 1)
		ON CONFLICT (company_id) DO UPDATE SET last_value = remito_sequences.last_value + 1
		RETURNING last_value`
	var n int64
	if err := r.db.QueryRow(ctx, query, tenantID).Scan(&n); err != nil {
		return 0, fmt.Errorf("next remito number: %w", err)
	}
	return n, nil
}

// Upsert crea o reemplaza el remito de la orden.
func (r *RemitoRepo) Upsert(ctx context.Context, rem *entity.Remito) error {
	query := `
		INSERT INTO remitos (company_id, work_order_id, remito_number, file_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (work_order_id) DO UPDATE
		   SET remito_number = EXCLUDED.remito_number,
		       file_url      = EXCLUDED.file_url,
		       updated_at    = EXCLUDED.updated_at
		 WHERE remitos.company_id = EXCLUDED.company_id`
	_, err := r.db.Exec(ctx, query,
		rem.CompanyID, rem.WorkOrderID, rem.RemitoNumber, rem.FileURL, rem.CreatedAt, rem.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert remito: %w", err)
	}
	return nil
}

// GetByWorkOrder remito de la orden dentro del tenant.
func (r *RemitoRepo) GetByWorkOrder(ctx context.Context, tenantID, workOrderID string) (*entity.Remito, error) {
	var rem entity.Remito
	err := r.db.QueryRow(ctx, `
		SELECT company_id, work_order_id, remito_number, file_url, created_at, updated_at
		  FROM remitos WHERE work_order_id = $1 AND company_id = $2`, workOrderID, tenantID,
	).Scan(&rem.CompanyID, &rem.WorkOrderID, &rem.RemitoNumber, &rem.FileURL, &rem.CreatedAt, &rem.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get remito: %w", err)
	}
	return &rem, nil
}
