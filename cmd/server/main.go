// Package main serves the analysis API over one configured source:
// - loads and normalizes the source once at startup
// - recomputes passes on request, memoized per source and request
// - optionally reloads the source on an interval
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"trade-kpi-lab/internal/api"
	"trade-kpi-lab/internal/config"
	"trade-kpi-lab/internal/ingestion"
	"trade-kpi-lab/internal/logger"
	"trade-kpi-lab/internal/pipeline"
	"trade-kpi-lab/internal/storage"
)

// Server holds the running components.
type Server struct {
	cfg            *config.Config
	engine         *pipeline.Engine
	source         storage.RecordSource
	http           *http.Server
	reloadInterval time.Duration
	log            zerolog.Logger
}

func main() {
	// Parse flags (config file and env vars as defaults)
	configPath := flag.String("config", os.Getenv("TRADEKPI_CONFIG"), "YAML config file")
	addr := flag.String("addr", "", "HTTP listen address (overrides server.addr)")
	reloadInterval := flag.Duration("reload-interval", 0, "Reload the source on this interval (0 disables)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLog := logger.New("error", "console")
		bootLog.Fatal().Err(err).Msg("load config")
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(logger.WithContext(context.Background(), log))

	src, closeSrc, err := ingestion.Open(ctx, cfg.SourceSpec())
	if err != nil {
		log.Fatal().Err(err).Str("kind", cfg.Source.Kind).Msg("open source")
	}
	defer closeSrc()

	engine := pipeline.NewEngine(cfg.PipelineOptions()).WithLogger(log)
	handler := api.NewHandler(engine, src, cfg.Request()).
		WithLogger(log).
		WithPageSize(cfg.Analysis.DefaultPageSize).
		WithTimeout(cfg.Server.WriteTimeout)

	server := &Server{
		cfg:    cfg,
		engine: engine,
		source: src,
		http: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      handler.Routes(),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		reloadInterval: *reloadInterval,
		log:            log,
	}

	// Channel to signal completion
	done := make(chan error, 1)

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("initiating graceful shutdown")
		cancel()

		// Wait for second signal for immediate shutdown
		select {
		case sig := <-sigCh:
			log.Warn().Str("signal", sig.String()).Msg("second signal, forcing immediate shutdown")
			os.Exit(1)
		case <-time.After(cfg.Server.ShutdownTimeout + 5*time.Second):
			log.Error().Msg("graceful shutdown timed out, forcing exit")
			os.Exit(1)
		case <-done:
		}
	}()

	err = server.Run(ctx)
	done <- err
	cancel()

	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("server error")
	}
	log.Info().Msg("shutdown complete")
}

// Run loads the source, serves HTTP and blocks until ctx is cancelled or
// the listener fails.
func (s *Server) Run(ctx context.Context) error {
	ds, err := s.engine.Load(ctx, s.source)
	if err != nil {
		return err
	}
	s.log.Info().
		Str("source", ds.SourceID()).
		Int("records", ds.Len()).
		Int("dropped", ds.Dropped()).
		Msg("dataset loaded")

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.http.Addr).Msg("starting HTTP server")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if s.reloadInterval > 0 {
		go s.runReloadScheduler(ctx)
	}

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}

// runReloadScheduler reloads the source on an interval. Reload failures
// keep the previous dataset.
func (s *Server) runReloadScheduler(ctx context.Context) {
	ticker := time.NewTicker(s.reloadInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ds, err := s.engine.Load(ctx, s.source)
			if err != nil {
				s.log.Error().Err(err).Msg("scheduled reload failed")
				continue
			}
			s.log.Debug().Str("source", ds.SourceID()).Int("records", ds.Len()).Msg("scheduled reload")
		}
	}
}
