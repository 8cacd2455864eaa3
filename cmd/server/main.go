package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"inkwell/internal/audit"
	contenthandler "inkwell/internal/content/handler"
	contentservice "inkwell/internal/content/service"
	identityhandler "inkwell/internal/identity/handler"
	identityservice "inkwell/internal/identity/service"
	identitystore "inkwell/internal/identity/store"
	"inkwell/internal/platform/config"
	"inkwell/internal/platform/logger"
	"inkwell/internal/platform/metrics"
	"inkwell/internal/ratelimit"
	"inkwell/internal/seeder"
	"inkwell/internal/session"
	"inkwell/internal/tracer"
	transport "inkwell/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	m := metrics.New()

	var tr tracer.Tracer = tracer.NewNoop()
	if cfg.TracingEnabled {
		tr = tracer.NewOtel("inkwell")
	}

	sessions := session.NewService(cfg.JWTSigningKey, "inkwell", cfg.SessionTTL)
	limiter := ratelimit.New(cfg.RateLimitWindow, cfg.RateLimitMaxAttempts,
		ratelimit.WithLogger(log),
		ratelimit.WithMetrics(m),
	)
	sweeper := ratelimit.NewSweeper(limiter,
		ratelimit.WithSweeperLogger(log),
		ratelimit.WithSweeperInterval(cfg.SweepInterval),
		ratelimit.WithSweeperMetrics(m),
	)

	auditStore := audit.NewInMemoryStore()
	recorder := audit.NewRecorder(auditStore,
		audit.WithRecorderLogger(log),
		audit.WithRecorderMetrics(m),
	)
	exporter := audit.NewExporter(recorder,
		audit.WithExportLimit(cfg.AuditExportLimit),
		audit.WithExporterLogger(log),
		audit.WithExporterMetrics(m),
		audit.WithExporterTracer(tr),
	)

	users := identitystore.NewInMemoryUserStore()
	idService := identityservice.New(users, limiter, sessions, recorder,
		identityservice.WithLogger(log),
		identityservice.WithMetrics(m),
		identityservice.WithTracer(tr),
	)

	stores := contentservice.NewMemoryStores()
	ctService := contentservice.New(stores, recorder,
		contentservice.WithLogger(log),
		contentservice.WithMetrics(m),
		contentservice.WithTracer(tr),
	)

	if cfg.SeedDemoData {
		seed := seeder.New(users, stores.Pages, stores.Menus, stores.Topics, log)
		if err := seed.Run(context.Background()); err != nil {
			log.Error("seeding failed", "error", err)
			os.Exit(1)
		}
	}

	router := transport.NewRouter(transport.Deps{
		Identity:  identityhandler.NewHandler(idService, log),
		Content:   contenthandler.NewHandler(ctService, log),
		Audit:     audit.NewHandler(recorder, exporter, log),
		Sessions:  sessions,
		Logger:    log,
		Metrics:   transport.NewMetricsHandler(),
		RequestTO: 30 * time.Second,
	})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		err := sweeper.Start(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("server shutting down")
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
