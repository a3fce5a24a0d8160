package generator

import (
	"bytes"
	"fmt"

	"framestore/hashing"
	"framestore/observability/metrics"
	"framestore/runtime/storage/top"
	"framestore/state"
)

// linkedNode is the envelope stored for every linked map entry. The logical
// key travels with the payload so enumeration can recover it from a hashed
// key space. Empty Previous/Next mean "none"; final keys are never empty.
type linkedNode[K, V any] struct {
	Value    V
	Key      K
	Previous []byte
	Next     []byte
}

// LinkedMap is a Map that threads its entries on a doubly-linked list so they
// can be enumerated without relying on store key order.
//
// The head pointer lives at the bare item prefix and holds the final key of
// the most recently inserted entry. Enumeration follows Next pointers from
// there, so entries come out newest first.
//
// Concurrent mutation of one LinkedMap by two state transitions is undefined;
// the runtime serialises transitions.
type LinkedMap[K, V any] struct {
	prefix  hashing.Prefix
	hasher  hashing.Hasher
	opts    options
	metrics *metrics.StorageMetrics
}

// NewLinkedMap declares an enumerable storage map.
func NewLinkedMap[K, V any](prefix hashing.Prefix, hasher hashing.Hasher, opts ...Option) LinkedMap[K, V] {
	return LinkedMap[K, V]{
		prefix:  prefix,
		hasher:  hasher,
		opts:    buildOptions(opts),
		metrics: metrics.Storage(),
	}
}

func (m LinkedMap[K, V]) Prefix() hashing.Prefix { return m.prefix }

// HeadKey is the final key of the head pointer.
func (m LinkedMap[K, V]) HeadKey() []byte {
	return hashing.DeriveKey(m.prefix)
}

// Key derives the final key of k's node.
func (m LinkedMap[K, V]) Key(k K) ([]byte, error) {
	encoded, err := encodeKey(m.opts.codec, k)
	if err != nil {
		return nil, err
	}
	material := m.hasher.Hash(encoded)
	if len(material) == 0 {
		return nil, ErrEmptyKey
	}
	return hashing.DeriveKey(m.prefix, material), nil
}

// Head returns the final key of the first node, or nil for an empty map.
func (m LinkedMap[K, V]) Head(s state.Store) ([]byte, error) {
	head, ok, err := top.Get[[]byte](s, m.opts.codec, m.HeadKey())
	if err != nil || !ok || len(head) == 0 {
		return nil, err
	}
	return head, nil
}

func (m LinkedMap[K, V]) setHead(s state.Store, head []byte) error {
	if len(head) == 0 {
		return top.Kill(s, m.HeadKey())
	}
	return top.Put(s, m.opts.codec, m.HeadKey(), head)
}

func (m LinkedMap[K, V]) readNode(s state.Store, key []byte) (linkedNode[K, V], bool, error) {
	return top.Get[linkedNode[K, V]](s, m.opts.codec, key)
}

func (m LinkedMap[K, V]) writeNode(s state.Store, key []byte, node linkedNode[K, V]) error {
	return top.Put(s, m.opts.codec, key, node)
}

// fault records and logs a consistency fault before handing it back.
func (m LinkedMap[K, V]) fault(key []byte, reason string) error {
	item := m.prefix.String()
	m.metrics.ObserveConsistencyFault(item)
	m.opts.log().Error("linked map consistency fault",
		"component", "linked_map",
		"item", item,
		"node", fmt.Sprintf("%x", key),
		"reason", reason)
	return &ConsistencyFault{Item: item, Key: append([]byte(nil), key...), Reason: reason}
}

func (m LinkedMap[K, V]) Get(s state.Store, k K) (V, bool, error) {
	var zero V
	key, err := m.Key(k)
	if err != nil {
		return zero, false, err
	}
	node, ok, err := m.readNode(s, key)
	if err != nil || !ok {
		return zero, false, err
	}
	return node.Value, true, nil
}

// Inspect reads the entry of k without failing on undecodable bytes.
func (m LinkedMap[K, V]) Inspect(s state.Store, k K) (Probe[V], error) {
	key, err := m.Key(k)
	if err != nil {
		return Probe[V]{}, err
	}
	node, err := top.Inspect[linkedNode[K, V]](s, m.opts.codec, key)
	if err != nil {
		return Probe[V]{}, err
	}
	return Probe[V]{
		Key:       node.Key,
		Raw:       node.Raw,
		Present:   node.Present,
		Value:     node.Value.Value,
		DecodeErr: node.DecodeErr,
	}, nil
}

func (m LinkedMap[K, V]) ContainsKey(s state.Store, k K) (bool, error) {
	key, err := m.Key(k)
	if err != nil {
		return false, err
	}
	return top.Exists(s, key)
}

// Insert stores v under k. An existing entry keeps its list position; a new
// entry becomes the head.
func (m LinkedMap[K, V]) Insert(s state.Store, k K, v V) error {
	key, err := m.Key(k)
	if err != nil {
		return err
	}
	node, ok, err := m.readNode(s, key)
	if err != nil {
		return err
	}
	if ok {
		node.Value = v
		m.metrics.ObserveLinkedMapOp(m.prefix.String(), "update")
		return m.writeNode(s, key, node)
	}

	head, err := m.Head(s)
	if err != nil {
		return err
	}
	if head != nil {
		old, ok, err := m.readNode(s, head)
		if err != nil {
			return err
		}
		if !ok {
			return m.fault(head, "head pointer references a missing node")
		}
		if len(old.Previous) != 0 {
			return m.fault(head, "head node has a predecessor")
		}
		old.Previous = key
		if err := m.writeNode(s, head, old); err != nil {
			return err
		}
	}
	node = linkedNode[K, V]{Value: v, Key: k, Next: head}
	if err := m.writeNode(s, key, node); err != nil {
		return err
	}
	m.metrics.ObserveLinkedMapOp(m.prefix.String(), "insert")
	return m.setHead(s, key)
}

// Remove unlinks and deletes the entry of k. Absent keys are a no-op.
func (m LinkedMap[K, V]) Remove(s state.Store, k K) error {
	_, _, err := m.Take(s, k)
	return err
}

// Take returns the entry of k and removes it, relinking its neighbours.
func (m LinkedMap[K, V]) Take(s state.Store, k K) (V, bool, error) {
	var zero V
	key, err := m.Key(k)
	if err != nil {
		return zero, false, err
	}
	node, ok, err := m.readNode(s, key)
	if err != nil || !ok {
		return zero, false, err
	}
	if err := m.unlink(s, key, node); err != nil {
		return zero, false, err
	}
	if err := s.Remove(key); err != nil {
		return zero, false, err
	}
	m.metrics.ObserveLinkedMapOp(m.prefix.String(), "remove")
	return node.Value, true, nil
}

// unlink detaches node from its neighbours. Every neighbour is read and
// checked before the first write, so a broken list is reported without
// being modified further.
func (m LinkedMap[K, V]) unlink(s state.Store, key []byte, node linkedNode[K, V]) error {
	var (
		prev, next       linkedNode[K, V]
		hasPrev, hasNext bool
	)
	if len(node.Previous) == 0 {
		head, err := m.Head(s)
		if err != nil {
			return err
		}
		if !bytes.Equal(head, key) {
			return m.fault(key, "node without predecessor is not the head")
		}
	} else {
		var err error
		prev, hasPrev, err = m.readNode(s, node.Previous)
		if err != nil {
			return err
		}
		if !hasPrev {
			return m.fault(node.Previous, "predecessor is missing")
		}
		if !bytes.Equal(prev.Next, key) {
			return m.fault(node.Previous, "predecessor does not point back to the node")
		}
	}
	if len(node.Next) != 0 {
		var err error
		next, hasNext, err = m.readNode(s, node.Next)
		if err != nil {
			return err
		}
		if !hasNext {
			return m.fault(node.Next, "successor is missing")
		}
		if !bytes.Equal(next.Previous, key) {
			return m.fault(node.Next, "successor does not point back to the node")
		}
	}

	if hasPrev {
		prev.Next = node.Next
		if err := m.writeNode(s, node.Previous, prev); err != nil {
			return err
		}
	} else if err := m.setHead(s, node.Next); err != nil {
		return err
	}
	if hasNext {
		next.Previous = node.Previous
		if err := m.writeNode(s, node.Next, next); err != nil {
			return err
		}
	}
	return nil
}

// Mutate applies f to the value of k, or to the zero value when absent.
func (m LinkedMap[K, V]) Mutate(s state.Store, k K, f func(V) V) error {
	return m.TryMutate(s, k, func(v V) (V, error) {
		return f(v), nil
	})
}

// TryMutate is Mutate with a fallible f. Nothing is written when f fails.
func (m LinkedMap[K, V]) TryMutate(s state.Store, k K, f func(V) (V, error)) error {
	current, _, err := m.Get(s, k)
	if err != nil {
		return err
	}
	next, err := f(current)
	if err != nil {
		return err
	}
	return m.Insert(s, k, next)
}

// MutateExists hands f the current value and whether it exists. Returning
// false removes the entry with the same relinking as Remove.
func (m LinkedMap[K, V]) MutateExists(s state.Store, k K, f func(V, bool) (V, bool)) error {
	current, ok, err := m.Get(s, k)
	if err != nil {
		return err
	}
	next, keep := f(current, ok)
	if !keep {
		if !ok {
			return nil
		}
		return m.Remove(s, k)
	}
	return m.Insert(s, k, next)
}

// Enumerate returns a lazy iterator over the entries, newest first. The
// iterator reads the store as it advances; mutating the map while iterating
// is undefined.
func (m LinkedMap[K, V]) Enumerate(s state.Store) *Iterator[K, V] {
	return &Iterator[K, V]{m: m, s: s, seen: make(map[string]struct{})}
}

// Entry is a key/value pair produced by enumeration.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// Entries collects every entry in enumeration order.
func (m LinkedMap[K, V]) Entries(s state.Store) ([]Entry[K, V], error) {
	var out []Entry[K, V]
	it := m.Enumerate(s)
	for it.Next() {
		out = append(out, Entry[K, V]{Key: it.Key(), Value: it.Value()})
	}
	return out, it.Err()
}

// Keys collects every key in enumeration order.
func (m LinkedMap[K, V]) Keys(s state.Store) ([]K, error) {
	var out []K
	it := m.Enumerate(s)
	for it.Next() {
		out = append(out, it.Key())
	}
	return out, it.Err()
}

// Len counts the entries by walking the list.
func (m LinkedMap[K, V]) Len(s state.Store) (int, error) {
	n := 0
	it := m.Enumerate(s)
	for it.Next() {
		n++
	}
	return n, it.Err()
}

// Verify walks the whole list and checks that every Previous pointer mirrors
// the Next pointer leading to it, that every node sits at the key derived
// from its logical key, and that the list has no cycle.
func (m LinkedMap[K, V]) Verify(s state.Store) error {
	head, err := m.Head(s)
	if err != nil {
		return err
	}
	var previous []byte
	seen := make(map[string]struct{})
	for cursor := head; len(cursor) != 0; {
		if _, dup := seen[string(cursor)]; dup {
			return m.fault(cursor, "cycle in list")
		}
		seen[string(cursor)] = struct{}{}
		node, ok, err := m.readNode(s, cursor)
		if err != nil {
			return err
		}
		if !ok {
			return m.fault(cursor, "pointer references a missing node")
		}
		if !bytes.Equal(node.Previous, previous) {
			return m.fault(cursor, "previous pointer does not match list order")
		}
		derived, err := m.Key(node.Key)
		if err != nil {
			return err
		}
		if !bytes.Equal(derived, cursor) {
			return m.fault(cursor, "node stored under a key not derived from its logical key")
		}
		previous, cursor = cursor, node.Next
	}
	return nil
}

// Iterator walks a LinkedMap from its head pointer.
type Iterator[K, V any] struct {
	m       LinkedMap[K, V]
	s       state.Store
	next    []byte
	started bool
	done    bool
	seen    map[string]struct{}
	key     K
	value   V
	err     error
}

// Next advances to the following entry. It returns false at the end of the
// list or on error; check Err afterwards.
func (it *Iterator[K, V]) Next() bool {
	if it.done {
		return false
	}
	if !it.started {
		it.started = true
		head, err := it.m.Head(it.s)
		if err != nil {
			return it.fail(err)
		}
		it.next = head
	}
	if len(it.next) == 0 {
		it.done = true
		return false
	}
	if _, dup := it.seen[string(it.next)]; dup {
		return it.fail(it.m.fault(it.next, "cycle in list"))
	}
	it.seen[string(it.next)] = struct{}{}

	node, ok, err := it.m.readNode(it.s, it.next)
	if err != nil {
		return it.fail(err)
	}
	if !ok {
		return it.fail(it.m.fault(it.next, "pointer references a missing node"))
	}
	it.key, it.value = node.Key, node.Value
	it.next = node.Next
	return true
}

func (it *Iterator[K, V]) fail(err error) bool {
	it.err = err
	it.done = true
	return false
}

// Key returns the current entry's key.
func (it *Iterator[K, V]) Key() K { return it.key }

// Value returns the current entry's value.
func (it *Iterator[K, V]) Value() V { return it.value }

// Err returns the error that stopped the iteration, if any.
func (it *Iterator[K, V]) Err() error { return it.err }
