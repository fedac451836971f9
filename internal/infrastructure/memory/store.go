// Package memory implementa los puertos de repositorio en memoria (DB_DRIVER=memory y pruebas).
// Respeta las mismas reglas que PostgreSQL: filtro por tenant, nil, nil en "no encontrado",
// orden descendente por creación y transacciones con rollback.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/ascensores-api/internal/domain/entity"
	"github.com/jhoicas/ascensores-api/internal/domain/repository"
)

// table mapa id → fila con número de inserción para desempatar el orden.
type table[T any] struct {
	rows map[string]T
	seq  map[string]int64
}

func newTable[T any]() table[T] {
	return table[T]{rows: make(map[string]T), seq: make(map[string]int64)}
}

func (t table[T]) clone() table[T] {
	c := newTable[T]()
	for k, v := range t.rows {
		c.rows[k] = v
		c.seq[k] = t.seq[k]
	}
	return c
}

// data estado completo. Las filas son inmutables: toda escritura reemplaza el puntero,
// así una copia superficial de los mapas alcanza como instantánea.
type data struct {
	users       table[*entity.User]
	companies   table[*entity.Company]
	memberships table[*entity.CompanyMembership]
	joinCodes   table[*entity.JoinCode]
	engineers   table[*entity.Engineer]
	engCompany  table[*entity.EngineerCompanyMembership] // clave engineerID|companyID
	reports     table[*entity.EngineerReport]
	buildings   table[*entity.Building]
	elevators   table[*entity.Elevator]
	equipment   table[*entity.Equipment]
	history     table[*entity.ElevatorHistory]
	technicians table[*entity.Technician]
	workOrders  table[*entity.WorkOrder]
	remitos     table[*entity.Remito] // clave workOrderID
	sequences   map[string]int64
}

func newData() data {
	return data{
		users:       newTable[*entity.User](),
		companies:   newTable[*entity.Company](),
		memberships: newTable[*entity.CompanyMembership](),
		joinCodes:   newTable[*entity.JoinCode](),
		engineers:   newTable[*entity.Engineer](),
		engCompany:  newTable[*entity.EngineerCompanyMembership](),
		reports:     newTable[*entity.EngineerReport](),
		buildings:   newTable[*entity.Building](),
		elevators:   newTable[*entity.Elevator](),
		equipment:   newTable[*entity.Equipment](),
		history:     newTable[*entity.ElevatorHistory](),
		technicians: newTable[*entity.Technician](),
		workOrders:  newTable[*entity.WorkOrder](),
		remitos:     newTable[*entity.Remito](),
		sequences:   make(map[string]int64),
	}
}

func (d data) clone() data {
	seqs := make(map[string]int64, len(d.sequences))
	for k, v := range d.sequences {
		seqs[k] = v
	}
	return data{
		users:       d.users.clone(),
		companies:   d.companies.clone(),
		memberships: d.memberships.clone(),
		joinCodes:   d.joinCodes.clone(),
		engineers:   d.engineers.clone(),
		engCompany:  d.engCompany.clone(),
		reports:     d.reports.clone(),
		buildings:   d.buildings.clone(),
		elevators:   d.elevators.clone(),
		equipment:   d.equipment.clone(),
		history:     d.history.clone(),
		technicians: d.technicians.clone(),
		workOrders:  d.workOrders.clone(),
		remitos:     d.remitos.clone(),
		sequences:   seqs,
	}
}

// Store almacenamiento en memoria seguro para uso concurrente.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	db   data
	next int64
	now  func() time.Time
}

// Asegura que Store implementa repository.TxRunner.
var _ repository.TxRunner = (*Store)(nil)

// NewStore crea un almacenamiento vacío.
func NewStore() *Store {
	return &Store{db: newData(), now: time.Now}
}

// Repositories devuelve los repositorios atados a este almacenamiento.
func (s *Store) Repositories() repository.Store {
	return repository.Store{
		Users:           &userRepo{s},
		Companies:       &companyRepo{s},
		Memberships:     &membershipRepo{s},
		JoinCodes:       &joinCodeRepo{s},
		Engineers:       &engineerRepo{s},
		EngineerReports: &engineerReportRepo{s},
		Buildings:       &buildingRepo{s},
		Elevators:       &elevatorRepo{s},
		Equipment:       &equipmentRepo{s},
		History:         &historyRepo{s},
		Technicians:     &technicianRepo{s},
		WorkOrders:      &workOrderRepo{s},
		Remitos:         &remitoRepo{s},
	}
}

// Run serializa las transacciones y restaura la instantánea previa si fn falla.
// Las escrituras fuera de transacción concurrentes con una que falla se pierden con el rollback.
func (s *Store) Run(ctx context.Context, fn func(tx repository.Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.db.clone()
	s.mu.RUnlock()

	if err := fn(s.Repositories()); err != nil {
		s.mu.Lock()
		s.db = snapshot
		s.mu.Unlock()
		return err
	}
	return ctx.Err()
}

// put inserta o reemplaza una fila conservando su número de inserción original.
// Debe llamarse con s.mu tomado en escritura.
func put[T any](s *Store, t table[T], id string, v T) {
	if _, ok := t.seq[id]; !ok {
		s.next++
		t.seq[id] = s.next
	}
	t.rows[id] = v
}

// newestFirst ordena por fecha descendente y, a igual fecha, por inserción descendente.
func newestFirst[T any](t table[T], ids []string, at func(T) time.Time) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := at(t.rows[ids[i]]), at(t.rows[ids[j]])
		if !a.Equal(b) {
			return a.After(b)
		}
		return t.seq[ids[i]] > t.seq[ids[j]]
	})
}

// selectRows devuelve las filas que cumplen keep, de la más nueva a la más vieja.
func selectRows[T any](t table[T], keep func(T) bool, at func(T) time.Time) []T {
	ids := make([]string, 0, len(t.rows))
	for id, v := range t.rows {
		if keep(v) {
			ids = append(ids, id)
		}
	}
	newestFirst(t, ids, at)
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.rows[id])
	}
	return out
}
