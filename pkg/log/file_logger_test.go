package log

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshdb/meshdb-go/pkg/mesh"
)

func createTestLogFile(t *testing.T, events []Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.mlog")

	logger, err := NewFileLogger(path)
	require.NoError(t, err)
	for _, e := range events {
		logger.Log(e)
	}
	require.NoError(t, logger.Close())

	return path
}

func readAll(t *testing.T, r *Reader) []Event {
	t.Helper()
	var read []Event
	for {
		event, err := r.Next()
		if err == io.EOF {
			return read
		}
		require.NoError(t, err)
		read = append(read, event)
	}
}

func TestFileLoggerAppends(t *testing.T) {
	path := createTestLogFile(t, []Event{{SessionID: "a", Timestamp: time.Now()}})

	logger, err := NewFileLogger(path)
	require.NoError(t, err)
	logger.Log(Event{SessionID: "b", Timestamp: time.Now()})
	require.NoError(t, logger.Close())

	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	events := readAll(t, r)
	require.Len(t, events, 2)
	assert.Equal(t, "a", events[0].SessionID)
	assert.Equal(t, "b", events[1].SessionID)
}

func TestFileLoggerCloseTwice(t *testing.T) {
	logger, err := NewFileLogger(filepath.Join(t.TempDir(), "x.mlog"))
	require.NoError(t, err)

	require.NoError(t, logger.Close())
	assert.NoError(t, logger.Close())

	// Logging after close is ignored, not a panic.
	logger.Log(Event{})
}

func TestFileLoggerSync(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sync.mlog")
	logger, err := NewFileLogger(path)
	require.NoError(t, err)

	logger.Log(Event{SessionID: "s", Timestamp: time.Now()})
	require.NoError(t, logger.Sync())

	// Synced events are readable while the logger is still open.
	r, err := NewReader(path)
	require.NoError(t, err)
	events := readAll(t, r)
	require.NoError(t, r.Close())
	require.Len(t, events, 1)
	assert.Equal(t, "s", events[0].SessionID)

	require.NoError(t, logger.Close())
	assert.NoError(t, logger.Sync())
}

func TestFileLoggerConcurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concurrent.mlog")
	logger, err := NewFileLogger(path)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			logger.Log(Event{Timestamp: time.Now(), NodeNum: mesh.NodeNum(n + 4)})
		}(i)
	}
	wg.Wait()
	require.NoError(t, logger.Close())

	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()
	assert.Len(t, readAll(t, r), 10)
}

func TestReaderFilter(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	events := []Event{
		{Timestamp: base, SessionID: "s1", Layer: LayerReconciler, Category: CategoryPacket, NodeNum: 5},
		{Timestamp: base.Add(time.Minute), SessionID: "s1", Layer: LayerRegistry, Category: CategoryNode, NodeNum: 5},
		{Timestamp: base.Add(2 * time.Minute), SessionID: "s2", Layer: LayerPersistence, Category: CategoryStorage},
		{Timestamp: base.Add(3 * time.Minute), SessionID: "s2", Layer: LayerReconciler, Category: CategoryPacket, NodeNum: 6},
	}
	path := createTestLogFile(t, events)

	layer := LayerReconciler
	cat := CategoryStorage
	node := mesh.NodeNum(5)
	start := base.Add(time.Minute)
	end := base.Add(3 * time.Minute)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"All", Filter{}, 4},
		{"Session", Filter{SessionID: "s2"}, 2},
		{"Layer", Filter{Layer: &layer}, 2},
		{"Category", Filter{Category: &cat}, 1},
		{"Node", Filter{NodeNum: &node}, 2},
		{"TimeRange", Filter{TimeStart: &start, TimeEnd: &end}, 2},
		{"Combined", Filter{SessionID: "s1", Layer: &layer}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewFilteredReader(path, tt.filter)
			require.NoError(t, err)
			defer r.Close()
			assert.Len(t, readAll(t, r), tt.want)
		})
	}
}

func TestReaderMissingFile(t *testing.T) {
	_, err := NewReader(filepath.Join(t.TempDir(), "missing.mlog"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReaderTruncatedFile(t *testing.T) {
	path := createTestLogFile(t, []Event{{SessionID: "whole", Timestamp: time.Now()}})
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, append(data, data[:len(data)/2]...), 0644))

	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Next()
	require.NoError(t, err)
	_, err = r.Next()
	assert.Error(t, err)
	assert.NotEqual(t, io.EOF, err)
}
