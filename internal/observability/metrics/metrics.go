package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/fx"
)

// Metrics carries the prometheus instruments for the reconciliation engine.
type Metrics struct {
	SyncRuns  *prometheus.CounterVec
	SyncItems *prometheus.CounterVec
	Movements *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		SyncRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "boletim",
			Name:      "sync_runs_total",
			Help:      "Sync flow executions by flow and result.",
		}, []string{"flow", "result"}),
		SyncItems: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "boletim",
			Name:      "sync_items_total",
			Help:      "Documents walked by sync flows, by flow and outcome.",
		}, []string{"flow", "outcome"}),
		Movements: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "boletim",
			Name:      "movements_recorded_total",
			Help:      "Ledger movements recorded by the sync engine, by type.",
		}, []string{"type"}),
	}
}

var Module = fx.Module("observability.metrics",
	fx.Provide(New),
)
