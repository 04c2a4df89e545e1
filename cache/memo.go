package cache

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// Memo is a compute-if-absent store. Concurrent GetOrCompute calls for the same
// key run compute at most once; every caller receives the stored value.
// Failed computations are not stored.
type Memo[K comparable, V any] struct {
	store store[K, V]
	group singleflight.Group
	keyOf func(K) string
}

// NewMemo returns an unbounded Memo. keyOf maps a key to the string used to
// collapse concurrent computations; distinct keys must map to distinct strings.
func NewMemo[K comparable, V any](keyOf func(K) string) *Memo[K, V] {
	return &Memo[K, V]{
		store: &mapStore[K, V]{data: make(map[K]V, 64)},
		keyOf: keyOf,
	}
}

// NewBoundedMemo returns a Memo holding at most size values, evicting the least
// recently used. onEvict may be nil.
func NewBoundedMemo[K comparable, V any](size int, keyOf func(K) string, onEvict func(K, V)) (*Memo[K, V], error) {
	var (
		c   *lru.Cache[K, V]
		err error
	)
	if onEvict != nil {
		c, err = lru.NewWithEvict(size, onEvict)
	} else {
		c, err = lru.New[K, V](size)
	}
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	return &Memo[K, V]{store: &lruStore[K, V]{cache: c}, keyOf: keyOf}, nil
}

// Get returns the value stored for key without computing it.
func (m *Memo[K, V]) Get(key K) (V, bool) {
	return m.store.get(key)
}

// GetOrCompute returns the value stored for key, computing and storing it first
// if absent.
func (m *Memo[K, V]) GetOrCompute(key K, compute func() (V, error)) (V, error) {
	// Fast path
	if v, ok := m.store.get(key); ok {
		return v, nil
	}

	res, err, _ := m.group.Do(m.keyOf(key), func() (any, error) {
		// A computation for key may have completed since the fast path.
		if v, ok := m.store.get(key); ok {
			return v, nil
		}
		v, err := compute()
		if err != nil {
			return nil, err
		}
		m.store.add(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

// Add stores value for key, replacing any previous value.
func (m *Memo[K, V]) Add(key K, value V) {
	m.store.add(key, value)
}

// Remove drops key and reports whether it was present.
func (m *Memo[K, V]) Remove(key K) bool {
	return m.store.remove(key)
}

// Len returns the number of stored values.
func (m *Memo[K, V]) Len() int {
	return m.store.len()
}

// Purge drops every value. Bounded memos report each one to their eviction
// callback.
func (m *Memo[K, V]) Purge() {
	m.store.purge()
}

type store[K comparable, V any] interface {
	get(K) (V, bool)
	add(K, V)
	remove(K) bool
	len() int
	purge()
}

type mapStore[K comparable, V any] struct {
	mu   sync.RWMutex
	data map[K]V
}

func (s *mapStore[K, V]) get(key K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *mapStore[K, V]) add(key K, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

func (s *mapStore[K, V]) remove(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	delete(s.data, key)
	return ok
}

func (s *mapStore[K, V]) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *mapStore[K, V]) purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.data)
}

// lruStore relies on the locking of lru.Cache.
type lruStore[K comparable, V any] struct {
	cache *lru.Cache[K, V]
}

func (s *lruStore[K, V]) get(key K) (V, bool) { return s.cache.Get(key) }
func (s *lruStore[K, V]) add(key K, value V) { s.cache.Add(key, value) }
func (s *lruStore[K, V]) remove(key K) bool { return s.cache.Remove(key) }
func (s *lruStore[K, V]) len() int { return s.cache.Len() }
func (s *lruStore[K, V]) purge() { s.cache.Purge() }
