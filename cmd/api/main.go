package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/ascensores-api/internal/application/auth"
	"github.com/jhoicas/ascensores-api/internal/application/lifecycle"
	"github.com/jhoicas/ascensores-api/internal/application/ports"
	"github.com/jhoicas/ascensores-api/internal/application/remito"
	"github.com/jhoicas/ascensores-api/internal/application/report"
	"github.com/jhoicas/ascensores-api/internal/application/session"
	"github.com/jhoicas/ascensores-api/internal/application/usecase"
	"github.com/jhoicas/ascensores-api/internal/domain/repository"
	"github.com/jhoicas/ascensores-api/internal/domain/workorder"
	"github.com/jhoicas/ascensores-api/internal/infrastructure/cache"
	"github.com/jhoicas/ascensores-api/internal/infrastructure/export"
	"github.com/jhoicas/ascensores-api/internal/infrastructure/jobs"
	"github.com/jhoicas/ascensores-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/ascensores-api/internal/infrastructure/pdf"
	"github.com/jhoicas/ascensores-api/internal/infrastructure/postgres"
	"github.com/jhoicas/ascensores-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/ascensores-api/internal/interfaces/http"
	"github.com/jhoicas/ascensores-api/pkg/config"
	"github.com/jhoicas/ascensores-api/pkg/daykey"
	"github.com/jhoicas/ascensores-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// ── Persistencia ─────────────────────────────────────────────────────────
	var (
		store    repository.Store
		txRunner repository.TxRunner
	)
	if cfg.DB.Driver == "memory" {
		mem := memory.NewStore()
		store, txRunner = mem.Repositories(), mem
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		store, txRunner = postgres.NewStore(pool), postgres.NewTxRunner(pool)
	}

	// ── Redis: instantáneas compartidas, empresa activa por cliente y cola ───
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisClient.Close()
	}
	collections := cache.NewCollectionCache(redisClient, time.Duration(cfg.Redis.CacheTTL)*time.Second, log)

	var prefs session.PreferenceStore = session.NewMemoryPreferences()
	if redisClient != nil {
		prefs = cache.NewRedisPreferences(redisClient)
	}

	var queue ports.RemitoQueue
	if cfg.Remito.AutoGenerate {
		if !cfg.Redis.Enabled() {
			log.Warn().Msg("REMITO_AUTO_GENERATE requiere REDIS_ADDR; los remitos se emiten a pedido")
		} else {
			client := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
			defer client.Close()
			queue = client
		}
	}

	// ── Archivos y documentos ────────────────────────────────────────────────
	blobs, err := storage.New(cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("almacenamiento de archivos")
	}
	loc := daykey.Location(cfg.App.TimeZone)
	signatures := workorder.NewSignatureSource(blobs.PublicURL(""))

	// ── Casos de uso ─────────────────────────────────────────────────────────
	sessions := session.NewService(store, prefs, log)
	if redisClient != nil {
		sessions.UseRevocations(cache.NewRedisRevocations(redisClient))
	}
	notifier := auth.NewNotifier()
	authLog := log.Component("auth")
	notifier.Subscribe(func(e auth.Event) {
		authLog.Info().Str("event", e.Type).Str("user_id", e.UserID).Str("company_id", e.CompanyID).Msg("evento de sesión")
	})
	authUC := auth.NewAuthUseCase(store, txRunner, sessions, notifier, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)
	facade := usecase.NewFacade(usecase.Deps{
		Store:    store,
		Tx:       txRunner,
		Cache:    collections,
		Storage:  blobs,
		Images:   storage.NewImageProcessor(cfg.Storage.MaxImageWidth),
		Exporter: export.NewXLSXExporter(),
		Location: loc,
		Log:      log,
	})
	lifecycleSvc := lifecycle.NewService(store, txRunner, collections, queue, log).WithSignatureSource(signatures)
	remitoSvc := remito.NewService(store, infrapdf.NewRemitoGenerator(cfg.Remito.TemplatePath, cfg.Remito.MaxDescLines, signatures), blobs, loc, log)
	reportSvc := report.NewService(store, infrapdf.NewServiceReportGenerator(), loc)

	// ── HTTP ─────────────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    12 * 1024 * 1024,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerPath); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerPath,
			Path:     "docs",
			Title:    "Ascensores API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	if cfg.Storage.Driver == "local" {
		app.Static("/files", cfg.Storage.LocalDir)
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		Facade:        facade,
		Lifecycle:     lifecycleSvc,
		Remitos:       remitoSvc,
		Reports:       reportSvc,
		Sessions:      sessions,
		JWTSecret:     cfg.JWT.Secret,
		AuthRateLimit: 20,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
