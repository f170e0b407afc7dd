package metrics

import (
	"sync"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "meshdb"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg          prom.Registerer
	packets      *prom.CounterVec
	nodesCreated prom.Counter
	saves        *prom.CounterVec
	loads        *prom.CounterVec

	gaugeOnce sync.Once
}

// NewPrometheusRecorder constructs the metrics and registers them with reg.
// A nil reg uses a fresh private registry.
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		packets: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "packets_total",
			Help:      "Inbound packets reconciled, by payload variant",
		}, []string{"variant"}),
		nodesCreated: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_created_total",
			Help:      "Node records created since start",
		}),
		saves: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_saves_total",
			Help:      "Device state saves, by result",
		}, []string{"result"}),
		loads: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_loads_total",
			Help:      "Device state loads, by result",
		}, []string{"result"}),
	}
	reg.MustRegister(pr.packets, pr.nodesCreated, pr.saves, pr.loads)
	return pr
}

// TrackNodes registers gauges that read the known and online node counts at
// scrape time. Only the first call has an effect.
func (p *PrometheusRecorder) TrackNodes(known, online func() int) {
	p.gaugeOnce.Do(func() {
		p.reg.MustRegister(
			prom.NewGaugeFunc(prom.GaugeOpts{
				Namespace: namespace,
				Name:      "nodes_known",
				Help:      "Node records in the table",
			}, func() float64 { return float64(known()) }),
			prom.NewGaugeFunc(prom.GaugeOpts{
				Namespace: namespace,
				Name:      "nodes_online",
				Help:      "Nodes heard from within the online threshold",
			}, func() float64 { return float64(online()) }),
		)
	})
}

func (p *PrometheusRecorder) IncPacket(variant string) {
	p.packets.WithLabelValues(variant).Inc()
}

func (p *PrometheusRecorder) IncNodeCreated() {
	p.nodesCreated.Inc()
}

func (p *PrometheusRecorder) IncSave(result string) {
	p.saves.WithLabelValues(result).Inc()
}

func (p *PrometheusRecorder) IncLoad(result string) {
	p.loads.WithLabelValues(result).Inc()
}

var _ Recorder = (*PrometheusRecorder)(nil)
