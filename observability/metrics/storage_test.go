package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestStorageIsSingleton(t *testing.T) {
	require.Same(t, Storage(), Storage())
}

func TestObserveStoreOpCountsErrors(t *testing.T) {
	m := Storage()
	m.ObserveStoreOp("metrics-test", "set", nil)
	m.ObserveStoreOp("metrics-test", "set", errors.New("disk full"))
	m.ObserveStoreOp("", "get", nil)

	require.Equal(t, float64(2), testutil.ToFloat64(m.storeOps.WithLabelValues("metrics-test", "set")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.storeErrors.WithLabelValues("metrics-test", "set")))
	require.GreaterOrEqual(t, testutil.ToFloat64(m.storeOps.WithLabelValues("unknown", "get")), float64(1))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *StorageMetrics
	m.ObserveStoreOp("b", "get", nil)
	m.ObserveLinkedMapOp("item", "insert")
	m.ObserveConsistencyFault("item")
	m.ObserveReplay(time.Millisecond)
	require.Nil(t, m.StoreOpsVec())
}
