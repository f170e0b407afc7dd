package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/meshdb/meshdb-go/cmd/meshdb/commands"
	"github.com/meshdb/meshdb-go/cmd/meshdb/shell"
	"github.com/meshdb/meshdb-go/internal/config"
	"github.com/meshdb/meshdb-go/pkg/clock"
	"github.com/meshdb/meshdb-go/pkg/log"
	"github.com/meshdb/meshdb-go/pkg/metrics"
	"github.com/meshdb/meshdb-go/pkg/nodedb"
	"github.com/meshdb/meshdb-go/pkg/storage"
)

// SQLiteFile is the database file name used by the sqlite backend.
const SQLiteFile = "meshdb.sqlite"

// logOutput lets the operational log move to the shell once it exists.
var logOutput = &switchWriter{w: os.Stderr}

type switchWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *switchWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *switchWriter) Set(w io.Writer) {
	s.mu.Lock()
	s.w = w
	s.mu.Unlock()
}

// openStorage opens the configured backend. The returned close function is
// never nil.
func openStorage(cfg *config.Config) (storage.Storage, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return storage.NewMemoryStore(), noop, nil
	case config.BackendSQLite:
		if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
			return nil, noop, fmt.Errorf("create data dir: %w", err)
		}
		store, err := storage.NewSQLiteStore(filepath.Join(cfg.Storage.DataDir, SQLiteFile))
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil
	case config.BackendFile, "":
		store, err := storage.NewFileStore(cfg.Storage.DataDir)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// openEventLog builds the event logger chain. Events go to the configured
// CBOR file and, when verbose, to the operational log.
func openEventLog(cfg *config.Config, logger *slog.Logger, verbose bool) (*log.Session, func() error, error) {
	var (
		sinks   []log.Logger
		closeFn = func() error { return nil }
	)

	if cfg.Logging.EventLog != "" {
		fl, err := log.NewFileLogger(cfg.Logging.EventLog)
		if err != nil {
			return nil, closeFn, err
		}
		sinks = append(sinks, fl)
		closeFn = func() error {
			return errors.Join(fl.Sync(), fl.Close())
		}
	}
	if verbose {
		sinks = append(sinks, log.NewSlogAdapter(logger))
	}

	return log.NewSession(log.NewMultiLogger(sinks...)), closeFn, nil
}

// serveMetrics starts the /metrics endpoint and returns a shutdown function.
func serveMetrics(addr string, reg *prom.Registry, logger *slog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(reg))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", "addr", addr, "error", err)
		}
	}()
	logger.Info("Serving metrics", "addr", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("Metrics server shutdown", "error", err)
		}
	}
}

func runNode(cfg *config.Config, headless bool) error {
	logger := slog.Default()

	store, closeStore, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("Failed to close storage", "error", err)
		}
	}()

	session, closeEvents, err := openEventLog(cfg, logger, CLI.Verbose)
	if err != nil {
		return fmt.Errorf("open event log: %w", err)
	}
	defer func() {
		if err := closeEvents(); err != nil {
			logger.Warn("Failed to close event log", "error", err)
		}
	}()

	mac, err := cfg.MACSource()
	if err != nil {
		return err
	}

	var (
		mu       sync.Mutex
		recorder metrics.Recorder
		promReg  *prom.Registry
	)
	if cfg.Metrics.Listen != "" {
		promReg = prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(promReg)
	}

	clk := clock.System{}
	db, err := nodedb.Open(nodedb.Config{
		Storage:         store,
		MAC:             mac,
		Clock:           clk,
		OnlineThreshold: cfg.Device.OnlineThresholdSecs,
		LongName:        cfg.Device.LongName,
		ShortName:       cfg.Device.ShortName,
		HasGPS:          cfg.Device.HasGPS,
		Logger:          logger,
		EventLogger:     session,
		Recorder:        recorder,
	})
	if err != nil {
		return err
	}
	logger.Info("Session started", "session", session.ID(), "backend", cfg.Storage.Backend)

	if pr, ok := recorder.(*metrics.PrometheusRecorder); ok {
		pr.TrackNodes(
			func() int {
				mu.Lock()
				defer mu.Unlock()
				return db.Registry().Count()
			},
			func() int {
				mu.Lock()
				defer mu.Unlock()
				return db.NumOnlineNodes()
			},
		)
		stop := serveMetrics(cfg.Metrics.Listen, promReg, logger)
		defer stop()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var sh *shell.Shell
	if !headless {
		sh, err = shell.New(db, &mu, clk)
		if err != nil {
			return err
		}
		logOutput.Set(sh.Stdout())
		go sh.Run(ctx, cancel)
	}

	<-ctx.Done()
	logOutput.Set(os.Stderr)
	if sh != nil {
		// A signal leaves Run blocked in Readline with the terminal in raw mode.
		if err := sh.Close(); err != nil {
			logger.Debug("Failed to close shell", "error", err)
		}
	}
	logger.Info("Shutting down")

	mu.Lock()
	defer mu.Unlock()
	if err := db.Save(); err != nil {
		logger.Warn("Failed to save node database", "error", err)
	}
	return nil
}

// runDump prints a snapshot file, or the snapshot held by the configured
// storage when file is empty.
func runDump(cfg *config.Config, file string) error {
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("open snapshot: %w", err)
		}
		defer f.Close()
		return commands.DumpFrom(f, os.Stdout)
	}

	store, closeStore, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer closeStore() //nolint:errcheck
	return commands.RunDump(store, os.Stdout)
}
