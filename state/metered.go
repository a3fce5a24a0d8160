package state

import "framestore/observability/metrics"

// Metered counts every operation issued against the wrapped Store.
type Metered struct {
	inner   Store
	backend string
	metrics *metrics.StorageMetrics
}

// NewMetered instruments inner under the given backend label.
func NewMetered(inner Store, backend string) *Metered {
	return &Metered{inner: inner, backend: backend, metrics: metrics.Storage()}
}

func (m *Metered) Get(key []byte) ([]byte, error) {
	value, err := m.inner.Get(key)
	m.metrics.ObserveStoreOp(m.backend, "get", err)
	return value, err
}

func (m *Metered) Set(key, value []byte) error {
	err := m.inner.Set(key, value)
	m.metrics.ObserveStoreOp(m.backend, "set", err)
	return err
}

func (m *Metered) Remove(key []byte) error {
	err := m.inner.Remove(key)
	m.metrics.ObserveStoreOp(m.backend, "remove", err)
	return err
}

func (m *Metered) RemovePrefix(prefix []byte) error {
	err := m.inner.RemovePrefix(prefix)
	m.metrics.ObserveStoreOp(m.backend, "remove_prefix", err)
	return err
}
