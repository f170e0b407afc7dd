package commands

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshdb/meshdb-go/pkg/log"
	"github.com/meshdb/meshdb-go/pkg/mesh"
)

func TestCollectStats(t *testing.T) {
	events := sampleEvents()
	second := events[0]
	second.SessionID = "zzzzzzzz-second"
	second.Timestamp = second.Timestamp.Add(10 * time.Second)
	second.Storage = &log.StorageEvent{Op: log.StorageOpSave, Blob: "/db.proto", Result: "success"}
	events = append(events, second)

	stats, err := CollectStats(createTestLogFile(t, events), log.Filter{})
	require.NoError(t, err)

	assert.Equal(t, 5, stats.TotalEvents)
	assert.Equal(t, 2, stats.EventsByLayer[log.LayerPersistence])
	assert.Equal(t, 1, stats.PacketsByVariant[mesh.VariantData])
	assert.Equal(t, 1, stats.NodeChanges[log.NodeCreated])
	assert.Equal(t, 1, stats.Loads["not_found"])
	assert.Equal(t, 1, stats.Saves["success"])
	assert.Equal(t, 1, stats.Errors)
	require.Len(t, stats.Sessions, 2)
	assert.Len(t, stats.Sessions["abcdef0123456789"].Nodes, 1)
}

func TestRunStats(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RunStats(createTestLogFile(t, sampleEvents()), log.Filter{}, &buf))
	out := buf.String()

	assert.Contains(t, out, "Total Events: 4")
	assert.Contains(t, out, "RECONCILER:")
	assert.Contains(t, out, "PACKET:")
	assert.Contains(t, out, "DATA:")
	assert.Contains(t, out, "CREATED:")
	assert.Contains(t, out, "Snapshot Loads:")
	assert.Contains(t, out, "Sessions: 1")
	assert.Contains(t, out, "[abcdef01] 4 events, 1 nodes")
	assert.Contains(t, out, "Errors: 1")
}

func TestRunStatsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RunStats(createTestLogFile(t, nil), log.Filter{}, &buf))

	assert.Contains(t, buf.String(), "Total Events: 0")
	assert.NotContains(t, buf.String(), "Time Range")
}
