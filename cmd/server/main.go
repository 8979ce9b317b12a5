package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/loftplanner/api/handler"
	"github.com/fastygo/loftplanner/internal/config"
	"github.com/fastygo/loftplanner/internal/infrastructure/buffer"
	"github.com/fastygo/loftplanner/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/loftplanner/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/loftplanner/internal/infrastructure/redis"
	"github.com/fastygo/loftplanner/internal/middleware"
	"github.com/fastygo/loftplanner/internal/router"
	"github.com/fastygo/loftplanner/internal/services"
	"github.com/fastygo/loftplanner/internal/services/lifecycle"
	"github.com/fastygo/loftplanner/pkg/httpcontext"
	"github.com/fastygo/loftplanner/pkg/logger"
	"github.com/fastygo/loftplanner/repository/postgres"
	redisRepo "github.com/fastygo/loftplanner/repository/redis"
	"github.com/fastygo/loftplanner/usecase/schedule"
	templateUC "github.com/fastygo/loftplanner/usecase/template"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger = zapLogger.With(zap.String("app", cfg.AppName), zap.String("env", cfg.Environment))

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	appCtx, cancel := manager.Listen(context.Background())
	defer cancel()

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.RegisterStop("postgres", func() { pgInfra.Close(pool, zapLogger) })

	// redis only fronts loft names, so the service boots without it
	redisClient, err := redisInfra.NewClient(appCtx, cfg.Redis, zapLogger)
	if err != nil {
		zapLogger.Warn("redis unavailable, loft cache disabled", zap.Error(err))
		redisClient = nil
	} else {
		manager.Register("redis", func(ctx context.Context) error {
			return redisClient.Close()
		})
	}

	bufferStore, err := buffer.Open(cfg.Buffer.Path, "buffer")
	if err != nil {
		zapLogger.Fatal("failed to open buffer store", zap.Error(err))
	}
	manager.Register("buffer", func(ctx context.Context) error {
		return bufferStore.Close()
	})

	mon := monitor.New(pool, monitor.RedisPinger(redisClient), bufferStore, cfg.Schedule.MonitorEvery, zapLogger)
	mon.Refresh()
	mon.Start()
	manager.RegisterStop("monitor", mon.Stop)

	templateRepo := postgres.NewTemplateRepository(pool)
	completionRepo := postgres.NewCompletionRepository(pool)
	loftResolver := redisRepo.NewLoftCache(redisClient, postgres.NewLoftRepository(pool), cfg.Schedule.LoftCacheTTL)

	bufferProcessor := services.NewBufferProcessor(
		bufferStore,
		mon,
		templateRepo,
		completionRepo,
		zapLogger,
		services.ProcessorConfig{
			Interval:   cfg.Buffer.SyncInterval,
			BatchSize:  cfg.Buffer.BatchSize,
			MaxRetries: cfg.Buffer.MaxRetry,
			Retention:  cfg.Buffer.Retention(),
		},
	)
	bufferProcessor.Start()
	manager.Register("buffer_processor", func(ctx context.Context) error {
		bufferProcessor.Stop(ctx)
		return nil
	})

	bufferBridge := services.NewBufferBridge(bufferProcessor)

	scheduleUseCase := schedule.New(
		templateRepo,
		completionRepo,
		loftResolver,
		bufferBridge,
		zapLogger,
		schedule.Config{MaxRangeDays: cfg.Schedule.MaxRangeDays},
	)
	templateUseCase := templateUC.New(templateRepo, bufferBridge, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Task:   apiHandler.NewTaskHandler(scheduleUseCase, templateUseCase, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, scheduleUseCase, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, cfg.JWT.Issuer, zapLogger)
	r := router.New(handlers, authMiddleware, zapLogger)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
