package persistence

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/meshdb/meshdb-go/pkg/log"
	"github.com/meshdb/meshdb-go/pkg/metrics"
	"github.com/meshdb/meshdb-go/pkg/storage"
)

// Blob names of the durable snapshot.
const (
	PrimaryBlob = "/db.proto"
	TempBlob    = "/db.proto.tmp"
)

// LoadResult describes the outcome of Manager.Load.
type LoadResult uint8

const (
	// LoadNotFound means no snapshot exists; defaults are kept.
	LoadNotFound LoadResult = iota
	// LoadAdopted means the snapshot replaced the in-memory state.
	LoadAdopted
	// LoadStale means the snapshot was older than VersionMinimum and ignored.
	LoadStale
	// LoadCorrupt means the snapshot could not be decoded and was ignored.
	LoadCorrupt
	// LoadFailed means the snapshot could not be read.
	LoadFailed
)

// String returns the result name used in logs and metrics.
func (r LoadResult) String() string {
	switch r {
	case LoadNotFound:
		return "not_found"
	case LoadAdopted:
		return "adopted"
	case LoadStale:
		return "stale"
	case LoadCorrupt:
		return "corrupt"
	case LoadFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Manager loads and saves a DeviceState against named-blob storage.
//
// Manager is not safe for concurrent use; callers serialize access to it
// together with the state it owns.
type Manager struct {
	store    storage.Storage
	state    *DeviceState
	logger   *slog.Logger
	events   log.Logger
	recorder metrics.Recorder
}

// NewManager creates a manager for state backed by store.
func NewManager(store storage.Storage, state *DeviceState) *Manager {
	return &Manager{
		store:    store,
		state:    state,
		logger:   slog.New(slog.DiscardHandler),
		events:   log.NoopLogger{},
		recorder: metrics.NoopRecorder{},
	}
}

// SetLogger sets the operational logger. Nil disables logging.
func (m *Manager) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	m.logger = logger
}

// SetEventLogger sets the event trace logger.
func (m *Manager) SetEventLogger(l log.Logger) {
	m.events = log.OrNoop(l)
}

// SetRecorder sets the metrics recorder.
func (m *Manager) SetRecorder(r metrics.Recorder) {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	m.recorder = r
}

// State returns the managed state.
func (m *Manager) State() *DeviceState {
	return m.state
}

// Load reads the primary snapshot and, if it decodes and its version is
// supported, replaces the managed state with it wholesale. In every other
// case the in-memory state is left untouched. Only LoadCorrupt and
// LoadFailed return an error; callers log it and carry on with defaults.
func (m *Manager) Load() (LoadResult, error) {
	r, err := m.store.Open(PrimaryBlob)
	if errors.Is(err, storage.ErrNotFound) {
		m.logger.Info("No saved device state found", "blob", PrimaryBlob)
		m.loaded(LoadNotFound, 0, nil)
		return LoadNotFound, nil
	}
	if err != nil {
		err = fmt.Errorf("open %s: %w", PrimaryBlob, err)
		m.failed(log.StorageOpLoad, LoadFailed.String(), err)
		return LoadFailed, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		err = fmt.Errorf("read %s: %w", PrimaryBlob, err)
		m.failed(log.StorageOpLoad, LoadFailed.String(), err)
		return LoadFailed, err
	}

	scratch, err := Decode(data)
	if err != nil {
		m.failed(log.StorageOpLoad, LoadCorrupt.String(), err)
		return LoadCorrupt, err
	}

	if !Supported(scratch) {
		m.logger.Warn("Saved device state is too old, discarding",
			"version", scratch.Version, "minimum", VersionMinimum)
		m.loaded(LoadStale, len(data), scratch)
		return LoadStale, nil
	}

	*m.state = *scratch
	m.logger.Info("Loaded saved device state",
		"version", scratch.Version, "nodes", scratch.NodeDBCount(), "bytes", len(data))
	m.loaded(LoadAdopted, len(data), scratch)
	return LoadAdopted, nil
}

// Save writes the state to TempBlob, removes PrimaryBlob and renames the
// temporary into its place. The sequence is not atomic: a crash after the
// remove leaves no primary snapshot until the next successful save.
//
// Failures are returned and logged but never change the in-memory state.
func (m *Manager) Save() error {
	w, err := m.store.Create(TempBlob)
	if err != nil {
		err = fmt.Errorf("open %s: %w", TempBlob, err)
		m.failed(log.StorageOpSave, "open_failed", err)
		return err
	}

	cw := &countingWriter{w: w}
	if err := EncodeTo(cw, m.state); err != nil {
		_ = w.Close()
		_ = m.store.Remove(TempBlob)
		m.failed(log.StorageOpSave, "encode_failed", err)
		return err
	}
	if err := w.Close(); err != nil {
		err = fmt.Errorf("write %s: %w", TempBlob, err)
		m.failed(log.StorageOpSave, "write_failed", err)
		return err
	}

	var removeErr error
	if err := m.store.Remove(PrimaryBlob); err != nil && !errors.Is(err, storage.ErrNotFound) {
		removeErr = fmt.Errorf("remove %s: %w", PrimaryBlob, err)
		m.logger.Warn("Can't remove old device state", "error", removeErr)
	}

	if err := m.store.Rename(TempBlob, PrimaryBlob); err != nil {
		err = errors.Join(removeErr, fmt.Errorf("rename %s to %s: %w", TempBlob, PrimaryBlob, err))
		m.failed(log.StorageOpSave, "rename_failed", err)
		return err
	}

	m.logger.Debug("Saved device state", "bytes", cw.n, "nodes", m.state.NodeDBCount())
	m.recorder.IncSave(metrics.ResultSuccess)
	m.events.Log(log.Event{
		Layer:    log.LayerPersistence,
		Category: log.CategoryStorage,
		Storage: &log.StorageEvent{
			Op:      log.StorageOpSave,
			Blob:    PrimaryBlob,
			Result:  "ok",
			Size:    cw.n,
			Version: m.state.Version,
			Nodes:   m.state.NodeDBCount(),
		},
	})
	return nil
}

func (m *Manager) loaded(result LoadResult, size int, snapshot *DeviceState) {
	m.recorder.IncLoad(result.String())
	ev := &log.StorageEvent{
		Op:     log.StorageOpLoad,
		Blob:   PrimaryBlob,
		Result: result.String(),
		Size:   size,
	}
	if snapshot != nil {
		ev.Version = snapshot.Version
		ev.Nodes = snapshot.NodeDBCount()
	}
	m.events.Log(log.Event{
		Layer:    log.LayerPersistence,
		Category: log.CategoryStorage,
		Storage:  ev,
	})
}

func (m *Manager) failed(op log.StorageOp, result string, err error) {
	if op == log.StorageOpLoad {
		m.logger.Error("Can't load device state", "result", result, "error", err)
		m.recorder.IncLoad(result)
	} else {
		m.logger.Error("Can't save device state", "result", result, "error", err)
		m.recorder.IncSave(result)
	}
	m.events.Log(log.Event{
		Layer:    log.LayerPersistence,
		Category: log.CategoryError,
		Error: &log.ErrorEventData{
			Layer:   log.LayerPersistence,
			Message: err.Error(),
			Context: op.String() + ":" + result,
		},
	})
}

type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
