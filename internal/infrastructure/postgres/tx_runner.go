package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/ascensores-api/internal/domain/repository"
)

// Asegura que TxRunner implementa repository.TxRunner.
var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(tx repository.Store) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStore(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewStore construye todos los repositorios sobre q (pool o tx).
func NewStore(q Querier) repository.Store {
	return repository.Store{
		Users:           NewUserRepository(q),
		Companies:       NewCompanyRepository(q),
		Memberships:     NewMembershipRepository(q),
		JoinCodes:       NewJoinCodeRepository(q),
		Engineers:       NewEngineerRepository(q),
		EngineerReports: NewEngineerReportRepository(q),
		Buildings:       NewBuildingRepository(q),
		Elevators:       NewElevatorRepository(q),
		Equipment:       NewEquipmentRepository(q),
		History:         NewElevatorHistoryRepository(q),
		Technicians:     NewTechnicianRepository(q),
		WorkOrders:      NewWorkOrderRepository(q),
		Remitos:         NewRemitoRepository(q),
	}
}
