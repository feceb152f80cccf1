package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Store is a typed TTL cache. A zero TTL store keeps nothing.
type Store[V any] struct {
	c   *gocache.Cache
	ttl time.Duration
}

func New[V any](ttl time.Duration) *Store[V] {
	cleanup := ttl / 4
	if cleanup < time.Second {
		cleanup = time.Second
	}
	return &Store[V]{
		c:   gocache.New(ttl, cleanup),
		ttl: ttl,
	}
}

func (s *Store[V]) Enabled() bool {
	return s != nil && s.ttl > 0
}

func (s *Store[V]) Get(key string) (V, bool) {
	var zero V
	if !s.Enabled() {
		return zero, false
	}
	v, ok := s.c.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(V)
	return typed, ok
}

func (s *Store[V]) Set(key string, value V) {
	if !s.Enabled() {
		return
	}
	s.c.Set(key, value, gocache.DefaultExpiration)
}

func (s *Store[V]) Len() int {
	if !s.Enabled() {
		return 0
	}
	return s.c.ItemCount()
}
