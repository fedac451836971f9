// Package jobs cola de trabajos en segundo plano sobre asynq (Redis).
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/ascensores-api/internal/application/dto"
	"github.com/jhoicas/ascensores-api/internal/application/ports"
	"github.com/jhoicas/ascensores-api/internal/domain"
	"github.com/jhoicas/ascensores-api/pkg/logger"
)

const (
	// QueueDefault cola por defecto.
	QueueDefault = "default"
	// TaskRemitoGenerate emite el remito de una orden completada.
	TaskRemitoGenerate = "remito:generate"
)

// RemitoPayload identifica la orden a remitar.
type RemitoPayload struct {
	TenantID    string `json:"tenantId"`
	WorkOrderID string `json:"workOrderId"`
}

// NewRemitoTask construye la tarea de asynq.
func NewRemitoTask(tenantID, workOrderID string) (*asynq.Task, error) {
	body, err := json.Marshal(RemitoPayload{TenantID: tenantID, WorkOrderID: workOrderID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRemitoGenerate, body, asynq.Queue(QueueDefault), asynq.MaxRetry(5)), nil
}

// ── Cliente ──────────────────────────────────────────────────────────────────

var _ ports.RemitoQueue = (*Client)(nil)

// Client encola trabajos.
type Client struct {
	client *asynq.Client
}

// NewClient construye el cliente de asynq.
func NewClient(opts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(opts)}
}

// EnqueueRemito encola la emisión del remito de la orden.
func (c *Client) EnqueueRemito(ctx context.Context, tenantID, workOrderID string) error {
	task, err := NewRemitoTask(tenantID, workOrderID)
	if err != nil {
		return err
	}
	if _, err := c.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("jobs: encolar remito: %w", err)
	}
	return nil
}

// Close libera la conexión.
func (c *Client) Close() error {
	return c.client.Close()
}

// ── Handler ──────────────────────────────────────────────────────────────────

// RemitoGenerator emite remitos (remito.Service).
type RemitoGenerator interface {
	Generate(ctx context.Context, tenantID, workOrderID string) (*dto.RemitoResponse, error)
}

// RemitoJob procesa TaskRemitoGenerate.
type RemitoJob struct {
	generator RemitoGenerator
	log       *logger.Logger
}

// NewRemitoJob construye el handler.
func NewRemitoJob(generator RemitoGenerator, log *logger.Logger) *RemitoJob {
	if log == nil {
		log = logger.Nop()
	}
	return &RemitoJob{generator: generator, log: log.Component("jobs")}
}

// Handle emite el remito. Los errores de precondición no se reintentan.
func (j *RemitoJob) Handle(ctx context.Context, t *asynq.Task) error {
	var p RemitoPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil || p.TenantID == "" || p.WorkOrderID == "" {
		j.log.Warn().Str("task", t.Type()).Msg("payload de remito inválido")
		return fmt.Errorf("payload inválido: %w", asynq.SkipRetry)
	}

	res, err := j.generator.Generate(ctx, p.TenantID, p.WorkOrderID)
	switch {
	case err == nil && res == nil:
		j.log.WithCompany(p.TenantID).Warn().Str("work_order_id", p.WorkOrderID).Msg("orden inexistente, remito descartado")
		return nil
	case err == nil:
		j.log.WithCompany(p.TenantID).Info().
			Str("work_order_id", p.WorkOrderID).
			Str("number", res.Display).
			Msg("remito emitido")
		return nil
	case permanent(err):
		j.log.WithCompany(p.TenantID).Warn().Err(err).Str("work_order_id", p.WorkOrderID).Msg("remito no emitible")
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	default:
		return err
	}
}

func permanent(err error) bool {
	return errors.Is(err, domain.ErrRemitoNotReady) ||
		errors.Is(err, domain.ErrMissingFinishTime) ||
		errors.Is(err, domain.ErrMissingAddress)
}

// ── Servidor ─────────────────────────────────────────────────────────────────

// Worker envuelve el servidor de asynq.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewWorker registra los handlers. concurrency <= 0 usa 4.
func NewWorker(opts asynq.RedisClientOpt, concurrency int, remitos *RemitoJob) *Worker {
	if concurrency <= 0 {
		concurrency = 4
	}
	srv := asynq.NewServer(opts, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{QueueDefault: 1},
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskRemitoGenerate, remitos.Handle)
	return &Worker{server: srv, mux: mux}
}

// Run procesa tareas hasta que se cancela el contexto.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.server.Start(w.mux); err != nil {
		return fmt.Errorf("jobs: iniciar worker: %w", err)
	}
	<-ctx.Done()
	w.server.Shutdown()
	return nil
}
