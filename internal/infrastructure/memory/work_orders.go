package memory

import (
	"context"
	"time"

	"github.com/jhoicas/ascensores-api/internal/domain"
	"github.com/jhoicas/ascensores-api/internal/domain/entity"
	"github.com/jhoicas/ascensores-api/internal/domain/repository"
)

// ── Órdenes de trabajo ───────────────────────────────────────────────────────

type workOrderRepo struct{ s *Store }

func (r *workOrderRepo) Create(_ context.Context, w *entity.WorkOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	put(r.s, r.s.db.workOrders, w.ID, w.Clone())
	return nil
}

func (r *workOrderRepo) GetByID(_ context.Context, tenantID, id string) (*entity.WorkOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	w, ok := r.s.db.workOrders.rows[id]
	if !ok || w.CompanyID != tenantID {
		return nil, nil
	}
	return w.Clone(), nil
}

func (r *workOrderRepo) List(_ context.Context, tenantID string, f repository.WorkOrderFilter) ([]*entity.WorkOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := selectRows(r.s.db.workOrders, func(w *entity.WorkOrder) bool {
		return w.CompanyID == tenantID &&
			(f.BuildingID == "" || w.BuildingID == f.BuildingID) &&
			(f.ElevatorID == "" || eq(w.ElevatorID, f.ElevatorID)) &&
			(f.EquipmentID == "" || eq(w.EquipmentID, f.EquipmentID)) &&
			(f.TechnicianID == "" || eq(w.TechnicianID, f.TechnicianID)) &&
			(f.Status == "" || w.Status == f.Status) &&
			(f.Priority == "" || w.Priority == f.Priority)
	}, func(w *entity.WorkOrder) time.Time { return w.CreatedAt })
	out := make([]*entity.WorkOrder, 0, len(rows))
	for _, w := range rows {
		out = append(out, w.Clone())
	}
	return out, nil
}

func (r *workOrderRepo) Update(_ context.Context, tenantID, id string, p entity.WorkOrderPatch) (*entity.WorkOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.db.workOrders.rows[id]
	if !ok || w.CompanyID != tenantID {
		return nil, nil
	}
	c := w.Clone()
	p.Apply(c)
	put(r.s, r.s.db.workOrders, id, c)
	return c.Clone(), nil
}

func (r *workOrderRepo) Transition(_ context.Context, tenantID, id, from, to string, at time.Time) (*entity.WorkOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.db.workOrders.rows[id]
	if !ok || w.CompanyID != tenantID || w.Status != from {
		return nil, nil
	}
	c := w.Clone()
	c.Status = to
	if to == entity.StatusInProgress && c.StartTime == nil {
		c.StartTime = &at
	}
	if to == entity.StatusCompleted && c.FinishTime == nil {
		c.FinishTime = &at
	}
	put(r.s, r.s.db.workOrders, id, c)
	return c.Clone(), nil
}

func (r *workOrderRepo) Complete(_ context.Context, tenantID, id string, done entity.Completion) (*entity.WorkOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.db.workOrders.rows[id]
	if !ok || w.CompanyID != tenantID || w.Status == entity.StatusCompleted {
		return nil, nil
	}
	c := w.Clone()
	done.Apply(c)
	put(r.s, r.s.db.workOrders, id, c)
	return c.Clone(), nil
}

func eq(p *string, v string) bool { return p != nil && *p == v }

// ── Remitos ──────────────────────────────────────────────────────────────────

type remitoRepo struct{ s *Store }

func (r *remitoRepo) NextNumber(ctx context.Context, tenantID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.db.sequences[tenantID]++
	return r.s.db.sequences[tenantID], nil
}

func (r *remitoRepo) Upsert(_ context.Context, rem *entity.Remito) error {
	if rem.WorkOrderID == "" {
		return domain.ErrInvalidInput
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *rem
	if prev, ok := r.s.db.remitos.rows[rem.WorkOrderID]; ok {
		c.CreatedAt = prev.CreatedAt
	}
	put(r.s, r.s.db.remitos, c.WorkOrderID, &c)
	return nil
}

func (r *remitoRepo) GetByWorkOrder(_ context.Context, tenantID, workOrderID string) (*entity.Remito, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rem, ok := r.s.db.remitos.rows[workOrderID]
	if !ok || rem.CompanyID != tenantID {
		return nil, nil
	}
	c := *rem
	return &c, nil
}

// ── Informes de ingenieros ───────────────────────────────────────────────────

type engineerReportRepo struct{ s *Store }

func (r *engineerReportRepo) Create(_ context.Context, rep *entity.EngineerReport) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *rep
	c.EngineerName = ""
	put(r.s, r.s.db.reports, c.ID, &c)
	return nil
}

func (r *engineerReportRepo) withName(rep *entity.EngineerReport) *entity.EngineerReport {
	c := *rep
	if e, ok := r.s.db.engineers.rows[c.EngineerID]; ok {
		c.EngineerName = e.Name
	}
	return &c
}

func (r *engineerReportRepo) GetByID(_ context.Context, tenantID, id string) (*entity.EngineerReport, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rep, ok := r.s.db.reports.rows[id]
	if !ok || rep.CompanyID != tenantID {
		return nil, nil
	}
	return r.withName(rep), nil
}

func (r *engineerReportRepo) List(_ context.Context, tenantID string, f repository.EngineerReportFilter) ([]*entity.EngineerReport, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := selectRows(r.s.db.reports, func(rep *entity.EngineerReport) bool {
		return rep.CompanyID == tenantID &&
			(f.EngineerID == "" || rep.EngineerID == f.EngineerID) &&
			(f.IsRead == nil || rep.IsRead == *f.IsRead)
	}, func(rep *entity.EngineerReport) time.Time { return rep.CreatedAt })
	out := make([]*entity.EngineerReport, 0, len(rows))
	for _, rep := range rows {
		out = append(out, r.withName(rep))
	}
	return out, nil
}

func (r *engineerReportRepo) SetRead(_ context.Context, tenantID, id string, read bool) (*entity.EngineerReport, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rep, ok := r.s.db.reports.rows[id]
	if !ok || rep.CompanyID != tenantID {
		return nil, nil
	}
	c := *rep
	c.IsRead = read
	put(r.s, r.s.db.reports, id, &c)
	return r.withName(&c), nil
}
