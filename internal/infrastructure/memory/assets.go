package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/ascensores-api/internal/domain"
	"github.com/jhoicas/ascensores-api/internal/domain/entity"
	"github.com/jhoicas/ascensores-api/internal/domain/repository"
)

// ── Edificios ────────────────────────────────────────────────────────────────

type buildingRepo struct{ s *Store }

func (r *buildingRepo) Create(_ context.Context, b *entity.Building) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *b
	put(r.s, r.s.db.buildings, c.ID, &c)
	return nil
}

func (r *buildingRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Building, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.db.buildings.rows[id]
	if !ok || b.CompanyID != tenantID {
		return nil, nil
	}
	c := *b
	return &c, nil
}

func (r *buildingRepo) List(_ context.Context, tenantID string, f repository.BuildingFilter) ([]*entity.Building, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := selectRows(r.s.db.buildings, func(b *entity.Building) bool {
		return b.CompanyID == tenantID &&
			(f.Neighborhood == "" || b.Neighborhood == f.Neighborhood) &&
			(f.ClientName == "" || b.ClientName == f.ClientName)
	}, func(b *entity.Building) time.Time { return b.CreatedAt })
	return copyAll(rows), nil
}

func (r *buildingRepo) Update(_ context.Context, tenantID, id string, p entity.BuildingPatch) (*entity.Building, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.db.buildings.rows[id]
	if !ok || b.CompanyID != tenantID {
		return nil, nil
	}
	c := *b
	p.Apply(&c)
	put(r.s, r.s.db.buildings, id, &c)
	out := c
	return &out, nil
}

// ── Ascensores ───────────────────────────────────────────────────────────────

type elevatorRepo struct{ s *Store }

func (r *elevatorRepo) Create(_ context.Context, e *entity.Elevator) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *e
	put(r.s, r.s.db.elevators, c.ID, &c)
	return nil
}

func (r *elevatorRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Elevator, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.db.elevators.rows[id]
	if !ok || e.CompanyID != tenantID {
		return nil, nil
	}
	c := *e
	return &c, nil
}

func (r *elevatorRepo) List(_ context.Context, tenantID string, f repository.ElevatorFilter) ([]*entity.Elevator, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := selectRows(r.s.db.elevators, func(e *entity.Elevator) bool {
		return e.CompanyID == tenantID &&
			(f.BuildingID == "" || e.BuildingID == f.BuildingID) &&
			(f.Status == "" || e.Status == f.Status)
	}, func(e *entity.Elevator) time.Time { return e.CreatedAt })
	return copyAll(rows), nil
}

func (r *elevatorRepo) Update(_ context.Context, tenantID, id string, p entity.ElevatorPatch) (*entity.Elevator, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.db.elevators.rows[id]
	if !ok || e.CompanyID != tenantID {
		return nil, nil
	}
	c := *e
	p.Apply(&c)
	put(r.s, r.s.db.elevators, id, &c)
	out := c
	return &out, nil
}

// ── Equipos ──────────────────────────────────────────────────────────────────

type equipmentRepo struct{ s *Store }

func (r *equipmentRepo) Create(_ context.Context, e *entity.Equipment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *e
	put(r.s, r.s.db.equipment, c.ID, &c)
	return nil
}

func (r *equipmentRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Equipment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.db.equipment.rows[id]
	if !ok || e.CompanyID != tenantID {
		return nil, nil
	}
	c := *e
	return &c, nil
}

func (r *equipmentRepo) List(_ context.Context, tenantID string, f repository.EquipmentFilter) ([]*entity.Equipment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := selectRows(r.s.db.equipment, func(e *entity.Equipment) bool {
		return e.CompanyID == tenantID &&
			(f.BuildingID == "" || e.BuildingID == f.BuildingID) &&
			(f.Type == "" || e.Type == f.Type) &&
			(f.Status == "" || e.Status == f.Status)
	}, func(e *entity.Equipment) time.Time { return e.CreatedAt })
	return copyAll(rows), nil
}

func (r *equipmentRepo) Update(_ context.Context, tenantID, id string, p entity.EquipmentPatch) (*entity.Equipment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.db.equipment.rows[id]
	if !ok || e.CompanyID != tenantID {
		return nil, nil
	}
	c := *e
	p.Apply(&c)
	put(r.s, r.s.db.equipment, id, &c)
	out := c
	return &out, nil
}

func (r *equipmentRepo) Delete(_ context.Context, tenantID, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.db.equipment.rows[id]
	if !ok || e.CompanyID != tenantID {
		return false, nil
	}
	for _, w := range r.s.db.workOrders.rows {
		if w.EquipmentID != nil && *w.EquipmentID == id {
			return false, fmt.Errorf("%w: el equipo tiene órdenes de trabajo", domain.ErrConflict)
		}
	}
	delete(r.s.db.equipment.rows, id)
	delete(r.s.db.equipment.seq, id)
	return true, nil
}

// ── Libro de servicio ────────────────────────────────────────────────────────

type historyRepo struct{ s *Store }

func (r *historyRepo) Create(_ context.Context, h *entity.ElevatorHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *h
	put(r.s, r.s.db.history, c.ID, &c)
	return nil
}

func (r *historyRepo) ListByElevator(_ context.Context, tenantID, elevatorID string) ([]*entity.ElevatorHistory, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := selectRows(r.s.db.history, func(h *entity.ElevatorHistory) bool {
		return h.CompanyID == tenantID && h.ElevatorID == elevatorID
	}, func(h *entity.ElevatorHistory) time.Time { return h.Date })
	return copyAll(rows), nil
}

// ── Técnicos ─────────────────────────────────────────────────────────────────

type technicianRepo struct{ s *Store }

func (r *technicianRepo) Create(_ context.Context, t *entity.Technician) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *t
	put(r.s, r.s.db.technicians, c.ID, &c)
	return nil
}

func (r *technicianRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Technician, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.db.technicians.rows[id]
	if !ok || t.CompanyID != tenantID {
		return nil, nil
	}
	c := *t
	return &c, nil
}

func (r *technicianRepo) GetByUserID(_ context.Context, tenantID, userID string) (*entity.Technician, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, t := range r.s.db.technicians.rows {
		if t.CompanyID == tenantID && t.LinkedTo(userID) {
			c := *t
			return &c, nil
		}
	}
	return nil, nil
}

func (r *technicianRepo) List(_ context.Context, tenantID string, f repository.TechnicianFilter) ([]*entity.Technician, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := selectRows(r.s.db.technicians, func(t *entity.Technician) bool {
		return t.CompanyID == tenantID && (f.Role == "" || t.Role == f.Role)
	}, func(t *entity.Technician) time.Time { return t.CreatedAt })
	return copyAll(rows), nil
}

func (r *technicianRepo) Update(_ context.Context, tenantID, id string, p entity.TechnicianPatch) (*entity.Technician, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.db.technicians.rows[id]
	if !ok || t.CompanyID != tenantID {
		return nil, nil
	}
	c := *t
	p.Apply(&c)
	put(r.s, r.s.db.technicians, id, &c)
	out := c
	return &out, nil
}

// copyAll copia superficial de cada fila (las filas guardadas no se comparten).
func copyAll[T any](rows []*T) []*T {
	out := make([]*T, 0, len(rows))
	for _, v := range rows {
		c := *v
		out = append(out, &c)
	}
	return out
}
