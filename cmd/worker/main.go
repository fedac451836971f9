package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/ascensores-api/internal/application/remito"
	"github.com/jhoicas/ascensores-api/internal/domain/workorder"
	"github.com/jhoicas/ascensores-api/internal/infrastructure/jobs"
	infrapdf "github.com/jhoicas/ascensores-api/internal/infrastructure/pdf"
	"github.com/jhoicas/ascensores-api/internal/infrastructure/postgres"
	"github.com/jhoicas/ascensores-api/internal/infrastructure/storage"
	"github.com/jhoicas/ascensores-api/pkg/config"
	"github.com/jhoicas/ascensores-api/pkg/daykey"
	"github.com/jhoicas/ascensores-api/pkg/logger"
)

// El worker emite los remitos encolados al completar órdenes.
// Necesita la misma base y el mismo Redis que la API.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("worker")
	if !cfg.Redis.Enabled() {
		log.Fatal().Msg("REDIS_ADDR es obligatorio para el worker")
	}
	if cfg.DB.Driver == "memory" {
		log.Fatal().Msg("el worker no comparte el almacenamiento en memoria de la API; use DB_DRIVER=postgres")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	blobs, err := storage.New(cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("almacenamiento de archivos")
	}

	signatures := workorder.NewSignatureSource(blobs.PublicURL(""))
	remitos := remito.NewService(
		postgres.NewStore(pool),
		infrapdf.NewRemitoGenerator(cfg.Remito.TemplatePath, cfg.Remito.MaxDescLines, signatures),
		blobs,
		daykey.Location(cfg.App.TimeZone),
		log,
	)

	opts := asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
	worker := jobs.NewWorker(opts, cfg.Remito.Concurrency, jobs.NewRemitoJob(remitos, log))

	log.Info().Int("concurrency", cfg.Remito.Concurrency).Msg("worker iniciado")
	if err := worker.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("worker")
	}
	log.Info().Msg("worker detenido")
}
