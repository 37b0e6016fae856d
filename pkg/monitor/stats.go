package monitor

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"kvbind/pkg/common"
)

const namespace = "kvbind"

// Operation names used as metric labels.
const (
	OpRead   = "read"
	OpScan   = "scan"
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

var Operations = []string{OpRead, OpScan, OpInsert, OpUpdate, OpDelete}

func opIndex(op string) int {
	for i, o := range Operations {
		if o == op {
			return i
		}
	}
	return -1
}

// WorkloadStats counts operations by outcome and feeds a private Prometheus
// registry.
type WorkloadStats struct {
	ReadCount  uint64
	WriteCount uint64
	HitCount   uint64

	counts [5][4]uint64 // [op][status]

	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
}

func NewWorkloadStats() *WorkloadStats {
	ws := &WorkloadStats{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Benchmark operations by type and status",
		}, []string{"op", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_latency_seconds",
			Help:      "Benchmark operation latency",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 16), // 50µs .. ~1.6s
		}, []string{"op"}),
	}
	ws.registry.MustRegister(ws.operations, ws.latency)
	return ws
}

// Registry exposes the collectors for scraping.
func (ws *WorkloadStats) Registry() *prometheus.Registry {
	return ws.registry
}

// Observe records one finished operation.
func (ws *WorkloadStats) Observe(op string, status common.Status, elapsed time.Duration) {
	switch op {
	case OpRead, OpScan:
		ws.RecordRead()
		if status == common.StatusOK {
			ws.RecordHit()
		}
	case OpInsert, OpUpdate, OpDelete:
		ws.RecordWrite()
	}
	if i := opIndex(op); i >= 0 && int(status) >= 0 && int(status) < len(common.Statuses) {
		atomic.AddUint64(&ws.counts[i][status], 1)
	}
	ws.operations.WithLabelValues(op, status.String()).Inc()
	ws.latency.WithLabelValues(op).Observe(elapsed.Seconds())
}

func (ws *WorkloadStats) RecordRead() {
	atomic.AddUint64(&ws.ReadCount, 1)
}

func (ws *WorkloadStats) RecordWrite() {
	atomic.AddUint64(&ws.WriteCount, 1)
}

func (ws *WorkloadStats) RecordHit() {
	atomic.AddUint64(&ws.HitCount, 1)
}

func (ws *WorkloadStats) GetReadWriteRatio() float64 {
	reads := atomic.LoadUint64(&ws.ReadCount)
	writes := atomic.LoadUint64(&ws.WriteCount)

	if writes == 0 {
		if reads > 0 {
			return 100.0
		}
		return 0.0
	}
	return float64(reads) / float64(writes)
}

// Count returns how many op calls ended with status.
func (ws *WorkloadStats) Count(op string, status common.Status) uint64 {
	i := opIndex(op)
	if i < 0 || int(status) < 0 || int(status) >= len(common.Statuses) {
		return 0
	}
	return atomic.LoadUint64(&ws.counts[i][status])
}

// Snapshot returns counters in a JSON friendly shape.
func (ws *WorkloadStats) Snapshot() map[string]interface{} {
	ops := map[string]map[string]uint64{}
	for _, op := range Operations {
		byStatus := map[string]uint64{}
		for _, st := range common.Statuses {
			if n := ws.Count(op, st); n > 0 {
				byStatus[st.String()] = n
			}
		}
		if len(byStatus) > 0 {
			ops[op] = byStatus
		}
	}
	return map[string]interface{}{
		"reads":      atomic.LoadUint64(&ws.ReadCount),
		"writes":     atomic.LoadUint64(&ws.WriteCount),
		"hits":       atomic.LoadUint64(&ws.HitCount),
		"rw_ratio":   ws.GetReadWriteRatio(),
		"operations": ops,
	}
}
