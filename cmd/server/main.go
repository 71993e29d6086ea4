// Command server runs the back-office HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	financeapp "github.com/erp/backoffice/internal/application/finance"
	notificationapp "github.com/erp/backoffice/internal/application/notification"
	reportapp "github.com/erp/backoffice/internal/application/report"
	tradeapp "github.com/erp/backoffice/internal/application/trade"
	"github.com/erp/backoffice/internal/infrastructure/auth"
	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/erp/backoffice/internal/infrastructure/event"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/infrastructure/migration"
	"github.com/erp/backoffice/internal/infrastructure/notification"
	"github.com/erp/backoffice/internal/infrastructure/persistence"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"github.com/erp/backoffice/internal/interfaces/http/handler"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/erp/backoffice/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// version is stamped at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Back Office API
//	@version		1.0
//	@description	Purchase orders, sales, stock ledger, finance and reports.

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token. Format: "Bearer {token}"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Bootstrap logger until the OTLP log core is available.
	logCfg := logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output}
	log, err := logger.New(logCfg)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}

	telCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}
	logsCfg := telCfg
	logsCfg.Enabled = telCfg.Enabled && cfg.Telemetry.LogsEnabled
	logProvider, err := telemetry.NewLoggerProvider(ctx, logsCfg, log)
	if err != nil {
		return err
	}
	if logProvider.IsEnabled() {
		log, err = logger.New(logCfg, logProvider.ZapCore(logger.ParseLevel(cfg.Log.Level)))
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting back office",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telCfg, log)
	if err != nil {
		return err
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telCfg, cfg.Telemetry.MetricsInterval, log)
	if err != nil {
		return err
	}
	defer shutdownTelemetry(log, logProvider, meterProvider, tracerProvider)

	profCfg := cfg.Telemetry.Profiling
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           profCfg.Enabled,
		ServerAddress:     profCfg.ServerAddress,
		ApplicationName:   profCfg.ApplicationName,
		ServiceVersion:    version,
		BasicAuthUser:     profCfg.BasicAuthUser,
		BasicAuthPassword: profCfg.BasicAuthPassword,
		ProfileTypes:      profCfg.ProfileTypes,
		MutexProfileRate:  profCfg.MutexProfileRate,
		BlockProfileRate:  profCfg.BlockProfileRate,
	}, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Warn("Profiler shutdown failed", zap.Error(err))
		}
	}()
	if profCfg.SpanProfiles && profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	err = telemetry.InstrumentDB(db.DB, telemetry.DBTracingConfig{
		Enabled:          cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBName:           cfg.Database.DBName,
		IncludeQueryArgs: cfg.Telemetry.DBLogQueryArgs,
		SlowQueryThresh:  cfg.Telemetry.DBSlowQueryThresh,
	}, log)
	if err != nil {
		return fmt.Errorf("instrument database: %w", err)
	}
	if err := prepareSchema(ctx, cfg, db, log); err != nil {
		return err
	}
	log.Info("Database ready")

	bus, err := newEventBus(ctx, cfg, log)
	if err != nil {
		return err
	}
	bus.Subscribe(notificationapp.NewOrderNotificationHandler(
		notification.NewLogMailer(log),
		cfg.Notification.Recipients,
		log,
	))
	if err := bus.Start(ctx); err != nil {
		return fmt.Errorf("start event bus: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := bus.Stop(stopCtx); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
		log.Info("Event bus stopped", zap.Int64("dropped_events", bus.Dropped()))
	}()

	metrics, err := telemetry.NewLedgerMetrics(meterProvider.Meter("backoffice/ledger"))
	if err != nil {
		return fmt.Errorf("create ledger metrics: %w", err)
	}

	scope := persistence.NewGormTransactionScope(db.DB)
	orderService := tradeapp.NewPurchaseOrderService(scope, persistence.NewGormPurchaseOrderRepository(db.DB), log)
	orderService.SetEventPublisher(bus)
	orderService.SetMetrics(metrics)
	saleService := tradeapp.NewSaleService(scope, persistence.NewGormSaleRepository(db.DB), log)
	saleService.SetEventPublisher(bus)
	saleService.SetMetrics(metrics)
	saleService.SetLowStockThreshold(cfg.Notification.LowStockThreshold)
	productService := tradeapp.NewProductService(persistence.NewGormProductRepository(db.DB))
	financeService := financeapp.NewFinanceService(persistence.NewGormFinanceQueryRepository(db.DB))
	reportService := reportapp.NewReportService(persistence.NewGormReportRepository(db.DB))

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}
	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		}),
		middleware.SpanErrorMarker(),
		logger.GinMiddleware(log),
		middleware.CORS(cfg.HTTP),
	)
	handler.NewHealthHandler(db, version).RegisterRoutes(engine)

	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithMiddleware(
			middleware.JWTAuth(middleware.JWTMiddlewareConfig{
				Authenticator: auth.NewTokenValidator(cfg.JWT),
				Logger:        log,
			}),
			middleware.TracingAttributeInjector(),
		),
	)
	r.Register(handler.NewPurchaseOrderHandler(orderService).Routes()).
		Register(handler.NewSaleHandler(saleService).Routes()).
		Register(handler.NewProductHandler(productService).Routes()).
		Register(handler.NewFinanceHandler(financeService).Routes()).
		Register(handler.NewReportHandler(reportService).Routes())
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("Server exited gracefully")
	return nil
}

// prepareSchema applies the SQL migrations, or the gorm schema when
// database.auto_migrate is set for local development.
func prepareSchema(ctx context.Context, cfg *config.Config, db *persistence.Database, log *zap.Logger) error {
	if cfg.Database.AutoMigrate {
		log.Warn("Using gorm auto-migration")
		return db.AutoMigrate()
	}

	m, err := migration.NewFromURL(cfg.Database.DSN(), cfg.Database.MigrationsPath, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Closing migrator", zap.Error(err))
		}
	}()
	return m.Up(ctx)
}

func newEventBus(ctx context.Context, cfg *config.Config, log *zap.Logger) (*event.AsyncEventBus, error) {
	serializer := event.NewEventSerializer()
	event.RegisterAllEvents(serializer)

	var queue event.Queue
	switch cfg.Notification.QueueBackend {
	case config.QueueBackendRedis:
		client, err := event.NewRedisClient(ctx, cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		queue = event.NewRedisQueue(client, cfg.Notification.QueueKey)
	default:
		queue = event.NewChannelQueue(cfg.Notification.BufferSize)
	}
	log.Info("Event bus configured",
		zap.String("backend", cfg.Notification.QueueBackend),
		zap.Int("workers", cfg.Notification.Workers),
	)
	return event.NewAsyncEventBus(queue, serializer, log, event.WithWorkers(cfg.Notification.Workers)), nil
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

func shutdownTelemetry(log *zap.Logger, providers ...shutdowner) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, p := range providers {
		if err := p.Shutdown(ctx); err != nil {
			log.Warn("Telemetry shutdown failed", zap.Error(err))
		}
	}
}
