package lifecycle_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ascensores-api/internal/application/dto"
	"github.com/jhoicas/ascensores-api/internal/application/lifecycle"
	"github.com/jhoicas/ascensores-api/internal/application/snapshot"
	"github.com/jhoicas/ascensores-api/internal/domain"
	"github.com/jhoicas/ascensores-api/internal/domain/entity"
	"github.com/jhoicas/ascensores-api/internal/domain/repository"
	"github.com/jhoicas/ascensores-api/internal/domain/workorder"
	"github.com/jhoicas/ascensores-api/internal/infrastructure/cache"
	"github.com/jhoicas/ascensores-api/internal/infrastructure/memory"
	"github.com/jhoicas/ascensores-api/pkg/logger"
)

var now = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

type fakeQueue struct {
	mu  sync.Mutex
	ids []string
}

func (q *fakeQueue) EnqueueRemito(_ context.Context, _, workOrderID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.ids = append(q.ids, workOrderID)
	return nil
}

type fixture struct {
	mem   *memory.Store
	repos repository.Store
	cache *cache.CollectionCache
	queue *fakeQueue
	svc   *lifecycle.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := memory.NewStore()
	f := &fixture{
		mem:   mem,
		repos: mem.Repositories(),
		cache: cache.NewCollectionCache(nil, time.Minute, logger.Nop()),
		queue: &fakeQueue{},
	}
	f.svc = lifecycle.NewService(f.repos, mem, f.cache, f.queue, logger.Nop()).WithClock(func() time.Time { return now })
	return f
}

// seedOrder orden sobre un ascensor, asignada a un técnico vinculado a "u-tec".
func (f *fixture) seedOrder(t *testing.T, status string, signature *string) *entity.WorkOrder {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.repos.Technicians.Create(ctx, &entity.Technician{
		ID: "tec-1", CompanyID: "t1", UserID: strPtr("u-tec"), Name: "Ana", Role: entity.TechnicianReclamista, CreatedAt: now,
	}))
	w := &entity.WorkOrder{
		ID:               "wo-1",
		CompanyID:        "t1",
		ClaimType:        entity.ClaimCorrective,
		BuildingID:       "b1",
		ElevatorID:       strPtr("e1"),
		TechnicianID:     strPtr("tec-1"),
		Description:      "No nivela en PB",
		Status:           status,
		Priority:         entity.PriorityHigh,
		SignatureDataURL: signature,
		CreatedAt:        now.Add(-time.Hour),
	}
	require.NoError(t, f.repos.WorkOrders.Create(ctx, w))
	return w
}

func TestStart_PendienteAEnProgreso(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedOrder(t, entity.StatusPending, nil)

	_, err := f.svc.Start(ctx, "t1", "wo-1", "u-otro", entity.RoleTechnician)
	assert.ErrorIs(t, err, domain.ErrNotAssignedTechnician)

	w, err := f.svc.Start(ctx, "t1", "wo-1", "u-tec", entity.RoleTechnician)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusInProgress, w.Status)
	require.NotNil(t, w.StartTime)
	assert.True(t, now.Equal(*w.StartTime))

	_, err = f.svc.Start(ctx, "t1", "wo-1", "u-tec", entity.RoleTechnician)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	missing, err := f.svc.Start(ctx, "t2", "wo-1", "u-tec", entity.RoleOffice)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAuthorize_TecnicoAcotadoASusOrdenes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedOrder(t, entity.StatusPending, nil)

	assert.NoError(t, f.svc.Authorize(ctx, "t1", "wo-1", "u-tec", entity.RoleTechnician))
	assert.ErrorIs(t, f.svc.Authorize(ctx, "t1", "wo-1", "u-otro", entity.RoleTechnician), domain.ErrNotAssignedTechnician)
	assert.NoError(t, f.svc.Authorize(ctx, "t1", "wo-1", "u-otro", entity.RoleOffice))
	// inexistente: lo resuelve el 404 del llamador
	assert.NoError(t, f.svc.Authorize(ctx, "t2", "wo-1", "u-otro", entity.RoleTechnician))

	require.NoError(t, f.repos.WorkOrders.Create(ctx, &entity.WorkOrder{
		ID: "wo-libre", CompanyID: "t1", ClaimType: entity.ClaimCorrective, BuildingID: "b1", ElevatorID: strPtr("e1"),
		Description: "Sin asignar", Status: entity.StatusPending, Priority: entity.PriorityLow, CreatedAt: now,
	}))
	assert.NoError(t, f.svc.Authorize(ctx, "t1", "wo-libre", "u-otro", entity.RoleTechnician))
}

func TestChangeStatus_SoloHaciaAdelante(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedOrder(t, entity.StatusInProgress, nil)

	_, err := f.svc.ChangeStatus(ctx, "t1", "wo-1", "u-tec", "Pendiente")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	same, err := f.svc.ChangeStatus(ctx, "t1", "wo-1", "u-tec", "en progreso")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusInProgress, same.Status)

	_, err = f.svc.ChangeStatus(ctx, "t1", "wo-1", "u-tec", "archivada")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.ChangeStatus(ctx, "t1", "wo-1", "u-tec", "Completed")
	assert.ErrorIs(t, err, domain.ErrSignatureRequired)
}

func TestEscenario_CompletarSinFirmaQuedaEnProgreso(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedOrder(t, entity.StatusInProgress, nil)

	_, err := f.svc.Complete(ctx, "t1", "wo-1", "u-tec", dto.CompleteWorkOrderRequest{SignatureDataURL: strPtr("  ")})
	assert.ErrorIs(t, err, domain.ErrSignatureRequired)

	w, err := f.repos.WorkOrders.GetByID(ctx, "t1", "wo-1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusInProgress, w.Status)
	assert.Nil(t, w.FinishTime)
	assert.Empty(t, f.queue.ids)
}

func TestComplete_TecnicoAsignadoConFirma(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedOrder(t, entity.StatusInProgress, nil)

	_, err := f.svc.Complete(ctx, "t1", "wo-1", "u-otro", dto.CompleteWorkOrderRequest{SignatureDataURL: strPtr("data:image/png;base64,AA==")})
	assert.ErrorIs(t, err, domain.ErrNotAssignedTechnician)

	w, err := f.svc.Complete(ctx, "t1", "wo-1", "u-tec", dto.CompleteWorkOrderRequest{
		Comments:         strPtr("Se ajustó el freno"),
		SignatureDataURL: strPtr("data:image/png;base64,AA=="),
		PhotoURLs:        []string{"https://files.test/a.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, w.Status)
	require.NotNil(t, w.FinishTime)
	assert.True(t, now.Equal(*w.FinishTime))
	assert.Equal(t, []string{"https://files.test/a.jpg"}, w.PhotoURLs)
	assert.Equal(t, []string{"wo-1"}, f.queue.ids)

	history, err := f.repos.History.ListByElevator(ctx, "t1", "e1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Se ajustó el freno", history[0].Description)
	assert.Equal(t, "Ana", history[0].TechnicianName)
	assert.Equal(t, "wo-1", *history[0].WorkOrderID)

	_, err = f.svc.Complete(ctx, "t1", "wo-1", "u-tec", dto.CompleteWorkOrderRequest{SignatureDataURL: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrAlreadyCompleted)
}

func TestComplete_UsaLaFirmaGuardada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedOrder(t, entity.StatusPending, strPtr("https://files.test/t1/wo-1/signature.png"))

	w, err := f.svc.ChangeStatus(ctx, "t1", "wo-1", "u-tec", "Completada")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, w.Status)
	assert.Equal(t, "https://files.test/t1/wo-1/signature.png", *w.SignatureDataURL)
}

func TestComplete_FirmaConURLExterna_Rechazada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedOrder(t, entity.StatusInProgress, nil)
	f.svc.WithSignatureSource(workorder.NewSignatureSource("https://files.test"))

	_, err := f.svc.Complete(ctx, "t1", "wo-1", "u-tec", dto.CompleteWorkOrderRequest{SignatureDataURL: strPtr("http://169.254.169.254/latest/meta-data")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	w, err := f.repos.WorkOrders.GetByID(ctx, "t1", "wo-1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusInProgress, w.Status)
	assert.Nil(t, w.SignatureDataURL)

	done, err := f.svc.Complete(ctx, "t1", "wo-1", "u-tec", dto.CompleteWorkOrderRequest{SignatureDataURL: strPtr("https://files.test/t1/wo-1/signature.png")})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, done.Status)
}

type failingTx struct{}

func (failingTx) Run(context.Context, func(tx repository.Store) error) error {
	return errors.New("conexión perdida")
}

func TestComplete_RevierteLaInstantaneaSiFalla(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedOrder(t, entity.StatusInProgress, nil)

	// Carga la instantánea compartida sin filtros.
	_, _, err := snapshot.List(ctx, f.cache, "t1", snapshot.WorkOrders, "", func(ctx context.Context) ([]dto.WorkOrderResponse, error) {
		list, err := f.repos.WorkOrders.List(ctx, "t1", repository.WorkOrderFilter{})
		return dto.FromWorkOrders(list), err
	})
	require.NoError(t, err)

	svc := lifecycle.NewService(f.repos, failingTx{}, f.cache, f.queue, logger.Nop())
	_, err = svc.Complete(ctx, "t1", "wo-1", "u-tec", dto.CompleteWorkOrderRequest{SignatureDataURL: strPtr("firma")})
	require.Error(t, err)

	data, ok, err := f.cache.Peek(ctx, "t1", snapshot.WorkOrders)
	require.NoError(t, err)
	require.True(t, ok)
	var items []dto.WorkOrderResponse
	require.NoError(t, json.Unmarshal(data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, entity.StatusInProgress, items[0].Status)
	assert.Empty(t, f.queue.ids)
}
