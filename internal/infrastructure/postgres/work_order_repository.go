package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/ascensores-api/internal/domain/entity"
	"github.com/jhoicas/ascensores-api/internal/domain/repository"
)

var _ repository.WorkOrderRepository = (*WorkOrderRepo)(nil)

// WorkOrderRepo órdenes de trabajo sobre PostgreSQL. Los repuestos viven en work_order_parts
// (cantidad NUMERIC ↔ decimal.Decimal vía pgx-shopspring-decimal).
type WorkOrderRepo struct {
	db Querier
}

// NewWorkOrderRepository construye el adaptador de órdenes.
func NewWorkOrderRepository(db Querier) *WorkOrderRepo {
	return &WorkOrderRepo{db: db}
}

const workOrderColumns = `id, company_id, claim_type, corrective_type, building_id, elevator_id, equipment_id,
	technician_id, contact_name, contact_phone, date_time, description, status, priority, created_at,
	start_time, finish_time, comments, photo_urls, signature_data_url`

func scanWorkOrder(row rowScanner) (*entity.WorkOrder, error) {
	var w entity.WorkOrder
	err := row.Scan(&w.ID, &w.CompanyID, &w.ClaimType, &w.CorrectiveType, &w.BuildingID, &w.ElevatorID,
		&w.EquipmentID, &w.TechnicianID, &w.ContactName, &w.ContactPhone, &w.DateTime, &w.Description,
		&w.Status, &w.Priority, &w.CreatedAt, &w.StartTime, &w.FinishTime, &w.Comments, &w.PhotoURLs,
		&w.SignatureDataURL)
	return &w, err
}

// Create persiste la orden y sus repuestos.
func (r *WorkOrderRepo) Create(ctx context.Context, w *entity.WorkOrder) error {
	query := `INSERT INTO work_orders (` + workOrderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	photos := w.PhotoURLs
	if photos == nil {
		photos = []string{}
	}
	_, err := r.db.Exec(ctx, query,
		w.ID, w.CompanyID, w.ClaimType, w.CorrectiveType, w.BuildingID, w.ElevatorID, w.EquipmentID,
		w.TechnicianID, w.ContactName, w.ContactPhone, w.DateTime, w.Description, w.Status, w.Priority,
		w.CreatedAt, w.StartTime, w.FinishTime, w.Comments, photos, w.SignatureDataURL,
	)
	if err != nil {
		return fmt.Errorf("insert work order: %w", err)
	}
	if len(w.PartsUsed) > 0 {
		return r.replaceParts(ctx, w.ID, w.PartsUsed)
	}
	return nil
}

// GetByID obtiene una orden del tenant con sus repuestos.
func (r *WorkOrderRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.WorkOrder, error) {
	w, err := scanWorkOrder(r.db.QueryRow(ctx,
		`SELECT `+workOrderColumns+` FROM work_orders WHERE id = $1 AND company_id = $2`, id, tenantID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get work order: %w", err)
	}
	if err := r.loadParts(ctx, []*entity.WorkOrder{w}); err != nil {
		return nil, err
	}
	return w, nil
}

// List órdenes del tenant, más recientes primero.
func (r *WorkOrderRepo) List(ctx context.Context, tenantID string, f repository.WorkOrderFilter) ([]*entity.WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + ` FROM work_orders WHERE company_id = $1`
	args := []any{tenantID}
	for _, c := range [][2]string{
		{"building_id", f.BuildingID},
		{"elevator_id", f.ElevatorID},
		{"equipment_id", f.EquipmentID},
		{"technician_id", f.TechnicianID},
		{"status", f.Status},
		{"priority", f.Priority},
	} {
		if c[1] != "" {
			args = append(args, c[1])
			query += fmt.Sprintf(" AND %s = $%d", c[0], len(args))
		}
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list work orders: %w", err)
	}
	defer rows.Close()

	var list []*entity.WorkOrder
	for rows.Next() {
		w, err := scanWorkOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan work order: %w", err)
		}
		list = append(list, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list work orders: %w", err)
	}
	if err := r.loadParts(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// Update aplica solo los campos presentes. PartsUsed presente reemplaza la lista completa.
func (r *WorkOrderRepo) Update(ctx context.Context, tenantID, id string, p entity.WorkOrderPatch) (*entity.WorkOrder, error) {
	ub := newUpdateBuilder(id, tenantID)
	setOpt(ub, "claim_type", p.ClaimType)
	setOpt(ub, "corrective_type", p.CorrectiveType)
	setOpt(ub, "building_id", p.BuildingID)
	setOpt(ub, "elevator_id", p.ElevatorID)
	setOpt(ub, "equipment_id", p.EquipmentID)
	setOpt(ub, "technician_id", p.TechnicianID)
	setOpt(ub, "contact_name", p.ContactName)
	setOpt(ub, "contact_phone", p.ContactPhone)
	setOpt(ub, "date_time", p.DateTime)
	setOpt(ub, "description", p.Description)
	setOpt(ub, "priority", p.Priority)
	setOpt(ub, "comments", p.Comments)
	if p.PhotoURLs.Set {
		photos := p.PhotoURLs.Value
		if photos == nil {
			photos = []string{}
		}
		ub.set("photo_urls", photos)
	}
	setOpt(ub, "signature_data_url", p.SignatureDataURL)

	if ub.empty() {
		if !p.PartsUsed.Set {
			return r.GetByID(ctx, tenantID, id)
		}
		// Solo repuestos: verificar pertenencia antes de tocar la tabla hija.
		current, err := r.GetByID(ctx, tenantID, id)
		if err != nil || current == nil {
			return current, err
		}
	} else {
		w, err := scanWorkOrder(r.db.QueryRow(ctx, ub.sql("work_orders", workOrderColumns), ub.args...))
		if err != nil {
			if isNoRows(err) {
				return nil, nil
			}
			return nil, fmt.Errorf("update work order: %w", err)
		}
		if !p.PartsUsed.Set {
			if err := r.loadParts(ctx, []*entity.WorkOrder{w}); err != nil {
				return nil, err
			}
			return w, nil
		}
	}
	if err := r.replaceParts(ctx, id, p.PartsUsed.Value); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, tenantID, id)
}

// Transition cambia el estado solo si el actual es from.
func (r *WorkOrderRepo) Transition(ctx context.Context, tenantID, id, from, to string, at time.Time) (*entity.WorkOrder, error) {
	query := `
		UPDATE work_orders
		   SET status = $4,
		       start_time  = CASE WHEN $4 = 'In Progress' THEN COALESCE(start_time, $5) ELSE start_time END,
		       finish_time = CASE WHEN $4 = 'Completed'   THEN COALESCE(finish_time, $5) ELSE finish_time END
		 WHERE id = $1 AND company_id = $2 AND status = $3
		RETURNING ` + workOrderColumns
	w, err := scanWorkOrder(r.db.QueryRow(ctx, query, id, tenantID, from, to, at))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("transition work order: %w", err)
	}
	if err := r.loadParts(ctx, []*entity.WorkOrder{w}); err != nil {
		return nil, err
	}
	return w, nil
}

// Complete cierra la orden en una sola sentencia, solo si no estaba completada.
// Los repuestos se reemplazan a continuación (misma transacción cuando se llama desde TxRunner).
func (r *WorkOrderRepo) Complete(ctx context.Context, tenantID, id string, c entity.Completion) (*entity.WorkOrder, error) {
	photos := c.PhotoURLs
	if photos == nil {
		photos = []string{}
	}
	query := `
		UPDATE work_orders
		   SET status = 'Completed', finish_time = $3, comments = $4, photo_urls = $5, signature_data_url = $6
		 WHERE id = $1 AND company_id = $2 AND status <> 'Completed'
		RETURNING ` + workOrderColumns
	w, err := scanWorkOrder(r.db.QueryRow(ctx, query, id, tenantID, c.FinishTime, c.Comments, photos, c.SignatureDataURL))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("complete work order: %w", err)
	}
	if err := r.replaceParts(ctx, id, c.PartsUsed); err != nil {
		return nil, err
	}
	w.PartsUsed = c.PartsUsed
	return w, nil
}

// replaceParts borra e inserta la lista de repuestos en una sola sentencia.
func (r *WorkOrderRepo) replaceParts(ctx context.Context, workOrderID string, parts []entity.PartUsed) error {
	names := make([]string, len(parts))
	quantities := make([]string, len(parts))
	for i, p := range parts {
		names[i] = p.Name
		quantities[i] = p.Quantity.String()
	}
	query := `
		WITH removed AS (
			DELETE FROM work_order_parts WHERE work_order_id = $1
		)
		INSERT INTO work_order_parts (work_order_id, position, name, quantity)
		SELECT $1, p.ord, p.name, p.qty::numeric
		  FROM unnest($2::text[], $3::text[]) WITH ORDINALITY AS p(name, qty, ord)`
	if _, err := r.db.Exec(ctx, query, workOrderID, names, quantities); err != nil {
		return fmt.Errorf("replace work order parts: %w", err)
	}
	return nil
}

// loadParts completa PartsUsed de todas las órdenes con una sola consulta.
func (r *WorkOrderRepo) loadParts(ctx context.Context, orders []*entity.WorkOrder) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	byID := make(map[string]*entity.WorkOrder, len(orders))
	for i, w := range orders {
		ids[i] = w.ID
		byID[w.ID] = w
	}
	rows, err := r.db.Query(ctx, `
		SELECT work_order_id, name, quantity
		  FROM work_order_parts
		 WHERE work_order_id = ANY($1)
		 ORDER BY work_order_id, position`, ids)
	if err != nil {
		return fmt.Errorf("list work order parts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID string
		var p entity.PartUsed
		if err := rows.Scan(&orderID, &p.Name, &p.Quantity); err != nil {
			return fmt.Errorf("scan work order part: %w", err)
		}
		if w := byID[orderID]; w != nil {
			w.PartsUsed = append(w.PartsUsed, p)
		}
	}
	return rows.Err()
}
