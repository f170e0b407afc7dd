package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/meshdb/meshdb-go/pkg/mesh"
)

type recordingLogger struct {
	events []Event
}

func (r *recordingLogger) Log(e Event) { r.events = append(r.events, e) }

func TestNoopLogger(t *testing.T) {
	var l NoopLogger
	l.Log(Event{}) // must not panic

	assert.Equal(t, NoopLogger{}, OrNoop(nil))
	rec := &recordingLogger{}
	assert.Same(t, rec, OrNoop(rec))
}

func TestMultiLogger(t *testing.T) {
	a, b := &recordingLogger{}, &recordingLogger{}
	m := NewMultiLogger(a, nil, b)

	m.Log(Event{SessionID: "x"})

	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)
}

func TestSession(t *testing.T) {
	rec := &recordingLogger{}
	s := NewSession(rec)
	assert.Len(t, s.ID(), 36, "uuid string")

	fixed := time.Date(2026, 5, 5, 5, 5, 5, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	s.Log(Event{Layer: LayerRegistry})
	s.Log(Event{SessionID: "other", Timestamp: fixed.Add(time.Hour)})

	assert.Equal(t, s.ID(), rec.events[0].SessionID)
	assert.Equal(t, fixed, rec.events[0].Timestamp)
	assert.Equal(t, "other", rec.events[1].SessionID, "explicit session id is kept")
	assert.Equal(t, fixed.Add(time.Hour), rec.events[1].Timestamp)

	assert.NotEqual(t, s.ID(), NewSession(nil).ID())
}

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	adapter := NewSlogAdapter(logger)

	adapter.Log(Event{
		Layer:    LayerReconciler,
		Category: CategoryPacket,
		NodeNum:  0x12,
		Packet:   &PacketEvent{From: 0x12, Variant: mesh.VariantPosition, RxTime: 99},
	})
	adapter.Log(Event{
		Layer:    LayerPersistence,
		Category: CategoryStorage,
		Storage:  &StorageEvent{Op: StorageOpSave, Blob: "/db.proto", Result: "ok"},
	})
	adapter.Log(Event{
		Layer:    LayerPersistence,
		Category: CategoryError,
		Error:    &ErrorEventData{Layer: LayerPersistence, Message: "disk full"},
	})

	out := buf.String()
	assert.Equal(t, 3, strings.Count(out, "msg=nodedb"))
	assert.Contains(t, out, "variant=POSITION")
	assert.Contains(t, out, "node=0x12")
	assert.Contains(t, out, "op=SAVE")
	assert.Contains(t, out, `error_msg="disk full"`)
}

func TestSlogAdapterLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	NewSlogAdapter(logger).Log(Event{})
	assert.Empty(t, buf.String(), "debug events are filtered at info level")

	NewSlogAdapter(logger).WithLevel(slog.LevelInfo).Log(Event{})
	assert.Contains(t, buf.String(), "level=INFO")
}
