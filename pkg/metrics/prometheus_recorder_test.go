package metrics

import (
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.IncPacket("POSITION")
	pr.IncPacket("POSITION")
	pr.IncPacket("USER")
	pr.IncNodeCreated()
	pr.IncSave(ResultSuccess)
	pr.IncSave("rename_failed")
	pr.IncLoad("adopted")

	assert.Equal(t, 2.0, testutil.ToFloat64(pr.packets.WithLabelValues("POSITION")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.packets.WithLabelValues("USER")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.nodesCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.saves.WithLabelValues("rename_failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.loads.WithLabelValues("adopted")))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, mfs, 4)
}

func TestPrometheusRecorderTrackNodes(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	known, online := 5, 2
	pr.TrackNodes(func() int { return known }, func() int { return online })
	pr.TrackNodes(func() int { return 0 }, func() int { return 0 }) // ignored

	count, err := testutil.GatherAndCount(reg, "meshdb_nodes_known", "meshdb_nodes_online")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, mf := range mfs {
		if len(mf.GetMetric()) == 1 && mf.GetMetric()[0].GetGauge() != nil {
			values[mf.GetName()] = mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	assert.Equal(t, 5.0, values["meshdb_nodes_known"])
	assert.Equal(t, 2.0, values["meshdb_nodes_online"])
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.IncPacket("x")
	r.IncNodeCreated()
	r.IncSave("x")
	r.IncLoad("x")
}
