package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorageMetrics tracks raw store traffic and linked map bookkeeping.
type StorageMetrics struct {
	storeOps          *prometheus.CounterVec
	storeErrors       *prometheus.CounterVec
	linkedMapOps      *prometheus.CounterVec
	consistencyFaults *prometheus.CounterVec
	replayDuration    prometheus.Histogram
}

var (
	storageOnce     sync.Once
	storageRegistry *StorageMetrics
)

// Storage returns the lazily-initialised storage metrics registry.
func Storage() *StorageMetrics {
	storageOnce.Do(func() {
		storageRegistry = &StorageMetrics{
			storeOps: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "framestore",
				Subsystem: "store",
				Name:      "ops_total",
				Help:      "Raw store operations segmented by backend and operation.",
			}, []string{"backend", "op"}),
			storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "framestore",
				Subsystem: "store",
				Name:      "errors_total",
				Help:      "Raw store operations that returned an error.",
			}, []string{"backend", "op"}),
			linkedMapOps: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "framestore",
				Subsystem: "linked_map",
				Name:      "ops_total",
				Help:      "Linked map list surgery segmented by item and operation.",
			}, []string{"item", "op"}),
			consistencyFaults: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "framestore",
				Name:      "consistency_faults_total",
				Help:      "Linked list invariant violations detected per item.",
			}, []string{"item"}),
			replayDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
				Namespace: "framestore",
				Subsystem: "replay",
				Name:      "duration_seconds",
				Help:      "Wall-clock time spent replaying a block against state.",
				Buckets:   prometheus.DefBuckets,
			}),
		}
		prometheus.MustRegister(
			storageRegistry.storeOps,
			storageRegistry.storeErrors,
			storageRegistry.linkedMapOps,
			storageRegistry.consistencyFaults,
			storageRegistry.replayDuration,
		)
	})
	return storageRegistry
}

func (m *StorageMetrics) ObserveStoreOp(backend, op string, err error) {
	if m == nil {
		return
	}
	if backend == "" {
		backend = "unknown"
	}
	m.storeOps.WithLabelValues(backend, op).Inc()
	if err != nil {
		m.storeErrors.WithLabelValues(backend, op).Inc()
	}
}

func (m *StorageMetrics) ObserveLinkedMapOp(item, op string) {
	if m == nil {
		return
	}
	m.linkedMapOps.WithLabelValues(item, op).Inc()
}

func (m *StorageMetrics) ObserveConsistencyFault(item string) {
	if m == nil {
		return
	}
	m.consistencyFaults.WithLabelValues(item).Inc()
}

func (m *StorageMetrics) ObserveReplay(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.replayDuration.Observe(elapsed.Seconds())
}

// StoreOpsVec exposes the store operation counter for tests.
func (m *StorageMetrics) StoreOpsVec() *prometheus.CounterVec {
	if m == nil {
		return nil
	}
	return m.storeOps
}

// LinkedMapOpsVec exposes the linked map counter for tests.
func (m *StorageMetrics) LinkedMapOpsVec() *prometheus.CounterVec {
	if m == nil {
		return nil
	}
	return m.linkedMapOps
}

// ConsistencyFaultsVec exposes the fault counter for tests.
func (m *StorageMetrics) ConsistencyFaultsVec() *prometheus.CounterVec {
	if m == nil {
		return nil
	}
	return m.consistencyFaults
}
