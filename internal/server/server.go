// Package server provides the service lifecycle runner. cmd/trackerd
// delegates to server.Run for signal handling, config loading,
// observability init, snapshot store wiring, health checks, and graceful
// shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okolari/tracktimer/internal/config"
	"github.com/okolari/tracktimer/internal/domain"
	"github.com/okolari/tracktimer/internal/dynamo"
	"github.com/okolari/tracktimer/internal/observability"
	"github.com/okolari/tracktimer/internal/redis"
	"github.com/okolari/tracktimer/internal/tracker/adapter"
	"github.com/okolari/tracktimer/internal/tracker/app"
	"github.com/okolari/tracktimer/internal/tracker/port"
)

// Params configures the service lifecycle runner.
type Params struct {
	// Name identifies the service (e.g. "trackerd").
	Name string
}

// Run executes the full service lifecycle: signal handling, config loading,
// observability initialization, snapshot store selection, HTTP server with
// health checks, and graceful shutdown. If ln is non-nil, it is used instead
// of creating a new listener from config (enables port-0 testing).
func Run(ctx context.Context, p Params, ln net.Listener) error {
	// Signal-based cancellation: ctx.Done() closes on SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Load configuration
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Initialize structured logging with secret redaction
	logger := observability.InitLogger(observability.LogConfig{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: p.Name,
		Environment: cfg.Environment,
	})

	// --- Startup order: tracer -> metrics -> store -> timer -> HTTP server ---

	// Initialize OpenTelemetry tracer
	tracerProvider, err := observability.InitTracer(ctx, observability.TracerConfig{
		ServiceName:    p.Name,
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTEL.Endpoint,
	})
	if err != nil {
		return fmt.Errorf("initialize tracer: %w", err)
	}

	// Initialize OpenTelemetry metrics
	metricsProvider, err := observability.InitMetrics(ctx, observability.MetricsConfig{
		ServiceName:    p.Name,
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTEL.Endpoint,
	})
	if err != nil {
		return fmt.Errorf("initialize metrics: %w", err)
	}

	// Wire the snapshot store for the configured backend.
	store, closeStore, err := newSnapshotStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize snapshot store: %w", err)
	}

	// The timer restores any persisted snapshot during construction.
	timer := app.NewTimer(ctx, app.Options{
		Store:          store,
		Display:        newDisplay(cfg, logger),
		Callbacks:      loggingCallbacks(logger),
		Logger:         logger,
		TickInterval:   cfg.Tracker.TickInterval,
		SnapshotMaxAge: cfg.Tracker.SnapshotMaxAge,
	})

	// Health check shutdown coordination via atomic flag.
	var shuttingDown atomic.Bool

	// Setup HTTP server with health check and timer control endpoints
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if shuttingDown.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, `{"status":"shutting_down","service":%q}`, p.Name)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","service":%q}`, p.Name)
	})
	port.NewTimerHandler(timer).Register(mux)

	// Bind listener (use injected listener or create from config).
	if ln == nil {
		ln, err = (&net.ListenConfig{}).Listen(ctx, "tcp", fmt.Sprintf(":%d", cfg.Tracker.HTTPPort))
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	}

	server := &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Structured concurrency via errgroup ---
	g, ctx := errgroup.WithContext(ctx)

	// Goroutine 1: Serve HTTP
	g.Go(func() error {
		logger.Info("starting HTTP server",
			slog.String("addr", ln.Addr().String()),
			slog.String("backend", cfg.Tracker.Backend),
			slog.String("environment", cfg.Environment),
		)
		if serveErr := server.Serve(ln); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			return serveErr
		}
		return nil
	})

	// Goroutine 2: Shutdown trigger — waits for context cancellation, then drains.
	// Shutdown order is explicit reverse of startup: timer -> HTTP server ->
	// metrics -> tracer -> store.
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("received shutdown signal, starting graceful shutdown")

		// 1. Mark shutting down — health checks return 503
		shuttingDown.Store(true)

		// 2. Drain delay — let load balancer propagate endpoint removal
		time.Sleep(domain.ShutdownDrainDelay)

		// 3. Stop the tick loop. The last written snapshot stays in the
		// store so a restart within the restore window resumes the session.
		timer.Close()

		// 4. Drain HTTP server (reverse of startup: HTTP started last, stops first)
		httpCtx, httpCancel := context.WithTimeout(context.Background(), domain.ShutdownHTTPTimeout)
		defer httpCancel()
		if shutdownErr := server.Shutdown(httpCtx); shutdownErr != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", shutdownErr.Error()))
		}

		// 5. Flush OTEL (reverse: metrics first, then tracer)
		otelCtx, otelCancel := context.WithTimeout(context.Background(), domain.ShutdownOTELTimeout)
		defer otelCancel()
		if shutdownErr := metricsProvider.Shutdown(otelCtx); shutdownErr != nil {
			logger.Error("failed to shutdown metrics", slog.String("error", shutdownErr.Error()))
		}
		if shutdownErr := tracerProvider.Shutdown(otelCtx); shutdownErr != nil {
			logger.Error("failed to shutdown tracer", slog.String("error", shutdownErr.Error()))
		}

		// 6. Release store connections
		if closeStore != nil {
			if closeErr := closeStore(); closeErr != nil {
				logger.Error("failed to close snapshot store", slog.String("error", closeErr.Error()))
			}
		}

		logger.Info("shutdown complete")
		return nil
	})

	return g.Wait()
}

// newSnapshotStore builds the snapshot store named by cfg.Tracker.Backend.
// The returned close function releases backend connections and may be nil.
func newSnapshotStore(ctx context.Context, cfg *config.Config) (app.SnapshotStore, func() error, error) {
	switch cfg.Tracker.Backend {
	case "redis":
		client := redis.NewClient(redis.Config{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			ReadTimeout:  cfg.Redis.Timeout,
			WriteTimeout: cfg.Redis.Timeout,
		})
		if err := client.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		store := adapter.NewRedisSnapshotStore(client.RDB, cfg.Tracker.SnapshotKey, cfg.Tracker.SnapshotMaxAge)
		return store, client.Close, nil

	case "dynamodb":
		client, err := dynamo.NewClient(ctx, dynamo.Config{
			Endpoint: cfg.DynamoDB.Endpoint,
			Region:   cfg.AWS.Region,
			Timeout:  cfg.DynamoDB.Timeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create dynamodb client: %w", err)
		}
		store := adapter.NewDynamoSnapshotStore(client.DB, cfg.DynamoDB.Table, cfg.Tracker.SnapshotKey, cfg.Tracker.SnapshotMaxAge)
		return store, nil, nil

	case "memory":
		return adapter.NewMemorySnapshotStore(), nil, nil

	default:
		return nil, nil, fmt.Errorf("%w: unknown backend %q", domain.ErrInvalidInput, cfg.Tracker.Backend)
	}
}

// newDisplay selects the tick display. Local development renders the
// running clock to stdout; elsewhere ticks are observable through logs
// and the status endpoint only.
func newDisplay(cfg *config.Config, logger *slog.Logger) app.Display {
	if cfg.IsLocal() {
		return adapter.NewWriterDisplay(os.Stdout)
	}
	return displayFunc(func(formatted string) {
		logger.Debug("tick", slog.String("elapsed", formatted))
	})
}

type displayFunc func(formatted string)

func (f displayFunc) Render(formatted string) { f(formatted) }

// loggingCallbacks reports timer transitions to the service log.
func loggingCallbacks(logger *slog.Logger) app.Callbacks {
	return app.Callbacks{
		OnStart: func(taskID domain.TaskID) {
			logger.Info("timer started", slog.String("task_id", taskID.String()))
		},
		OnPause: func(taskID domain.TaskID, elapsedMs int64) {
			logger.Info("timer paused",
				slog.String("task_id", taskID.String()),
				slog.Int64("elapsed_ms", elapsedMs),
			)
		},
		OnStop: func(taskID domain.TaskID, totalElapsedMs int64) {
			logger.Info("timer stopped",
				slog.String("task_id", taskID.String()),
				slog.Int64("total_elapsed_ms", totalElapsedMs),
			)
		},
	}
}
