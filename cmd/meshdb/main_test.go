package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshdb/meshdb-go/internal/config"
	"github.com/meshdb/meshdb-go/pkg/log"
	"github.com/meshdb/meshdb-go/pkg/storage"
)

func TestOpenStorage(t *testing.T) {
	tests := []struct {
		backend string
		check   func(t *testing.T, dir string, s storage.Storage)
	}{
		{
			backend: config.BackendMemory,
			check: func(t *testing.T, _ string, s storage.Storage) {
				assert.IsType(t, &storage.MemoryStore{}, s)
			},
		},
		{
			backend: config.BackendFile,
			check: func(t *testing.T, dir string, s storage.Storage) {
				assert.IsType(t, &storage.FileStore{}, s)
				assert.DirExists(t, dir)
			},
		},
		{
			backend: config.BackendSQLite,
			check: func(t *testing.T, dir string, s storage.Storage) {
				assert.IsType(t, &storage.SQLiteStore{}, s)
				assert.FileExists(t, filepath.Join(dir, SQLiteFile))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			cfg := config.Default()
			cfg.Storage.Backend = tt.backend
			cfg.Storage.DataDir = filepath.Join(t.TempDir(), "data")

			s, closeFn, err := openStorage(cfg)
			require.NoError(t, err)
			tt.check(t, cfg.Storage.DataDir, s)
			assert.NoError(t, closeFn())
		})
	}
}

func TestOpenStorageUnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Backend = "tape"

	_, closeFn, err := openStorage(cfg)
	assert.Error(t, err)
	assert.NotNil(t, closeFn)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadConfigInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meshdb.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  backend: tape\n"), 0o644))

	_, err := loadConfig(path)
	assert.Error(t, err)
}

func TestOpenEventLogWritesFile(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.EventLog = filepath.Join(t.TempDir(), "events.cbor")

	session, closeFn, err := openEventLog(cfg, slog.New(slog.DiscardHandler), true)
	require.NoError(t, err)
	session.Log(log.Event{Layer: log.LayerPersistence, Category: log.CategoryStorage})
	require.NoError(t, closeFn())

	r, err := log.NewReader(cfg.Logging.EventLog)
	require.NoError(t, err)
	defer r.Close()

	event, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, session.ID(), event.SessionID)
	assert.Equal(t, log.LayerPersistence, event.Layer)
}

func TestOpenEventLogDisabled(t *testing.T) {
	session, closeFn, err := openEventLog(config.Default(), slog.New(slog.DiscardHandler), false)
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID())
	assert.NoError(t, closeFn())
}
