package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ascensores-api/internal/domain/entity"
	"github.com/jhoicas/ascensores-api/internal/domain/repository"
	"github.com/jhoicas/ascensores-api/internal/infrastructure/memory"
)

func TestBuildings_AislamientoPorTenant(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repositories()
	b := &entity.Building{ID: "b1", CompanyID: "t1", Address: "Av. Corrientes 1234", CreatedAt: time.Now()}
	require.NoError(t, repos.Buildings.Create(ctx, b))

	got, err := repos.Buildings.GetByID(ctx, "t2", "b1")
	require.NoError(t, err)
	assert.Nil(t, got, "otra empresa no debe ver el edificio")

	updated, err := repos.Buildings.Update(ctx, "t2", "b1", entity.BuildingPatch{Address: entity.Some("robado")})
	require.NoError(t, err)
	assert.Nil(t, updated)

	got, err = repos.Buildings.GetByID(ctx, "t1", "b1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Av. Corrientes 1234", got.Address)
}

func TestList_MasNuevoPrimero(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repositories()
	at := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repos.Technicians.Create(ctx, &entity.Technician{ID: "viejo", CompanyID: "t1", CreatedAt: at}))
	require.NoError(t, repos.Technicians.Create(ctx, &entity.Technician{ID: "nuevo", CompanyID: "t1", CreatedAt: at.Add(time.Hour)}))
	require.NoError(t, repos.Technicians.Create(ctx, &entity.Technician{ID: "empate", CompanyID: "t1", CreatedAt: at.Add(time.Hour)}))

	list, err := repos.Technicians.List(ctx, "t1", repository.TechnicianFilter{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"empate", "nuevo", "viejo"}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestHistory_OrdenadoPorFechaDelServicio(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repositories()
	day := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	// Cargada hoy pero con fecha de servicio anterior.
	require.NoError(t, repos.History.Create(ctx, &entity.ElevatorHistory{ID: "h1", CompanyID: "t1", ElevatorID: "e1", Date: day.AddDate(0, 0, 5), CreatedAt: day}))
	require.NoError(t, repos.History.Create(ctx, &entity.ElevatorHistory{ID: "h2", CompanyID: "t1", ElevatorID: "e1", Date: day, CreatedAt: day.AddDate(0, 0, 10)}))

	list, err := repos.History.ListByElevator(ctx, "t1", "e1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "h1", list[0].ID)
}

func TestRun_RollbackRestauraElEstado(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	boom := errors.New("falla a mitad de camino")

	err := store.Run(ctx, func(tx repository.Store) error {
		if err := tx.Buildings.Create(ctx, &entity.Building{ID: "b1", CompanyID: "t1"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := store.Repositories().Buildings.GetByID(ctx, "t1", "b1")
	require.NoError(t, err)
	assert.Nil(t, got, "el edificio no debe sobrevivir al rollback")
}

func TestRemitos_NumeracionConcurrenteSinDuplicados(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repositories()
	const n = 50

	var wg sync.WaitGroup
	results := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := repos.Remitos.NextNumber(ctx, "t1")
			assert.NoError(t, err)
			results <- v
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]bool, n)
	for v := range results {
		assert.False(t, seen[v], "número repetido %d", v)
		seen[v] = true
	}
	assert.Len(t, seen, n)

	other, err := repos.Remitos.NextNumber(ctx, "t2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), other, "cada empresa tiene su propio contador")
}

func TestWorkOrders_CompleteNoPisaUnaOrdenYaCompletada(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repositories()
	require.NoError(t, repos.WorkOrders.Create(ctx, &entity.WorkOrder{ID: "w1", CompanyID: "t1", Status: entity.StatusPending}))

	done := entity.Completion{FinishTime: time.Now(), SignatureDataURL: "firma"}
	first, err := repos.WorkOrders.Complete(ctx, "t1", "w1", done)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, entity.StatusCompleted, first.Status)

	second, err := repos.WorkOrders.Complete(ctx, "t1", "w1", done)
	require.NoError(t, err)
	assert.Nil(t, second)
}
