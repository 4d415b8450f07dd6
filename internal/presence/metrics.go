package presence

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type presenceMetrics struct {
	heartbeats   prometheus.Counter
	scans        prometheus.Counter
	storeErrors  *prometheus.CounterVec
	scanDuration prometheus.Observer
	online       prometheus.Gauge
}

var (
	presenceMetricsOnce sync.Once
	presenceMetricsInst *presenceMetrics
)

// globalPresenceMetrics registers collectors once per process; Service
// instances created in tests share them.
func globalPresenceMetrics() *presenceMetrics {
	presenceMetricsOnce.Do(func() {
		presenceMetricsInst = newPresenceMetrics()
	})
	return presenceMetricsInst
}

func newPresenceMetrics() *presenceMetrics {
	return &presenceMetrics{
		heartbeats: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "pixeltool",
			Subsystem: "presence",
			Name:      "heartbeats_total",
			Help:      "Session heartbeat markers written",
		}),
		scans: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "pixeltool",
			Subsystem: "presence",
			Name:      "scans_total",
			Help:      "Keyspace scans performed for online counting",
		}),
		storeErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pixeltool",
			Subsystem: "presence",
			Name:      "store_errors_total",
			Help:      "Marker store failures, labeled by operation",
		}, []string{"op"}),
		scanDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pixeltool",
			Subsystem: "presence",
			Name:      "scan_duration_seconds",
			Help:      "Duration of full keyspace scans",
			Buckets:   prometheus.DefBuckets,
		}),
		online: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "pixeltool",
			Subsystem: "presence",
			Name:      "online_sessions",
			Help:      "Last observed count of online sessions",
		}),
	}
}
