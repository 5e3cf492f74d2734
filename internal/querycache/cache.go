package querycache

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fikertekiflu/hospital/pkg/logger"
	"github.com/fikertekiflu/hospital/pkg/monitoring"
)

// Key identifies one cached fetch result: the resource name plus the
// canonical encoding of its filter parameters. Distinct filters are distinct
// keys and coexist in the cache.
type Key string

// NewKey builds a cache key from a resource name and filter parameters.
// url.Values.Encode sorts parameters, so equal filters always produce the
// same key.
func NewKey(resource string, params url.Values) Key {
	if len(params) == 0 {
		return Key(resource)
	}
	return Key(resource + "?" + params.Encode())
}

// Resource returns the resource portion of the key
func (k Key) Resource() string {
	if i := strings.IndexByte(string(k), '?'); i >= 0 {
		return string(k)[:i]
	}
	return string(k)
}

// Policy controls when a cached entry is served without revalidation
type Policy struct {
	// TTL is the fixed freshness window; zero means the entry stays fresh
	// until invalidated or explicitly revalidated
	TTL time.Duration

	// RevalidateOnFocus marks entries that a client refocus refetches even
	// when otherwise fresh
	RevalidateOnFocus bool
}

// FetchFunc performs the upstream fetch for a key
type FetchFunc func(ctx context.Context) (interface{}, error)

type entry struct {
	value     interface{}
	fetchedAt time.Time
	policy    Policy
}

func (e *entry) fresh(now time.Time) bool {
	if e.policy.TTL <= 0 {
		return true
	}
	return now.Sub(e.fetchedAt) < e.policy.TTL
}

type inflight struct {
	done  chan struct{}
	value interface{}
	err   error
}

// Cache is the query/cache layer: cached reads keyed by (resource, filters),
// deduplicated concurrent fetches, and mutation-driven invalidation
type Cache struct {
	mu       sync.Mutex
	entries  map[Key]*entry
	inflight map[Key]*inflight
	subs     []*subscription
	logger   *logger.Logger
	now      func() time.Time
}

type subscription struct {
	prefix string

	mu     sync.Mutex
	ch     chan Key
	closed bool
}

func (s *subscription) deliver(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- key:
	default:
		// slow subscriber, drop rather than block the cache
	}
}

func (s *subscription) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}

// New creates an empty cache
func New(log *logger.Logger) *Cache {
	return &Cache{
		entries:  make(map[Key]*entry),
		inflight: make(map[Key]*inflight),
		logger:   log,
		now:      time.Now,
	}
}

// Fetch returns the cached value for key when fresh, otherwise performs the
// fetch and stores the result under exactly that key. Concurrent calls for
// the same key share a single upstream fetch. Set revalidate for
// focus-driven refetches of RevalidateOnFocus entries.
func (c *Cache) Fetch(ctx context.Context, key Key, policy Policy, revalidate bool, fn FetchFunc) (interface{}, error) {
	c.mu.Lock()

	if e, ok := c.entries[key]; ok && e.fresh(c.now()) {
		if !revalidate || !e.policy.RevalidateOnFocus {
			value := e.value
			c.mu.Unlock()
			monitoring.RecordCacheHit(key.Resource())
			return value, nil
		}
	}
	monitoring.RecordCacheMiss(key.Resource())

	if fl, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		select {
		case <-fl.done:
			return fl.value, fl.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	fl := &inflight{done: make(chan struct{})}
	c.inflight[key] = fl
	c.mu.Unlock()

	value, err := fn(ctx)

	c.mu.Lock()
	delete(c.inflight, key)
	if err == nil {
		// A late response for an abandoned key lands under its own key and
		// never clobbers any other key's data
		c.entries[key] = &entry{value: value, fetchedAt: c.now(), policy: policy}
	}
	c.mu.Unlock()

	fl.value = value
	fl.err = err
	close(fl.done)

	if err == nil {
		c.notify(key)
	}

	return value, err
}

// Refresh performs the fetch regardless of freshness and replaces the entry
// on success. On failure the previous entry stays in place, so a polled
// board keeps its last successful data across a failed tick.
func (c *Cache) Refresh(ctx context.Context, key Key, policy Policy, fn FetchFunc) (interface{}, error) {
	c.mu.Lock()
	if fl, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		select {
		case <-fl.done:
			return fl.value, fl.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	fl := &inflight{done: make(chan struct{})}
	c.inflight[key] = fl
	c.mu.Unlock()

	value, err := fn(ctx)

	c.mu.Lock()
	delete(c.inflight, key)
	if err == nil {
		c.entries[key] = &entry{value: value, fetchedAt: c.now(), policy: policy}
	}
	c.mu.Unlock()

	fl.value = value
	fl.err = err
	close(fl.done)

	if err == nil {
		c.notify(key)
	}

	return value, err
}

// Peek returns the cached value for key without fetching
func (c *Cache) Peek(key Key) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok && e.fresh(c.now()) {
		return e.value, true
	}
	return nil, false
}

// Mutate runs a write against the API server. On success it invalidates
// exactly the named resource prefixes; on failure no cache entry changes and
// the upstream error is returned untouched.
func (c *Cache) Mutate(ctx context.Context, fn FetchFunc, invalidates ...string) (interface{}, error) {
	value, err := fn(ctx)
	if err != nil {
		return nil, err
	}

	for _, prefix := range invalidates {
		c.InvalidatePrefix(prefix)
	}

	return value, nil
}

// Invalidate drops specific keys and notifies their subscribers
func (c *Cache) Invalidate(keys ...Key) {
	c.mu.Lock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	c.mu.Unlock()

	for _, key := range keys {
		c.notify(key)
	}
}

// InvalidatePrefix drops every key under a resource prefix
func (c *Cache) InvalidatePrefix(prefix string) {
	var dropped []Key

	c.mu.Lock()
	for key := range c.entries {
		if strings.HasPrefix(string(key), prefix) {
			delete(c.entries, key)
			dropped = append(dropped, key)
		}
	}
	c.mu.Unlock()

	if len(dropped) > 0 && c.logger != nil {
		c.logger.WithComponent("querycache").WithFields(map[string]interface{}{
			"prefix": prefix,
			"keys":   len(dropped),
		}).Debug("Cache invalidated")
	}

	for _, key := range dropped {
		c.notify(key)
	}
}

// Subscribe delivers a notification for every stored or invalidated key
// under the prefix. The returned cancel function releases the subscription.
func (c *Cache) Subscribe(prefix string) (<-chan Key, func()) {
	sub := &subscription{prefix: prefix, ch: make(chan Key, 16)}

	c.mu.Lock()
	c.subs = append(c.subs, sub)
	c.mu.Unlock()

	cancel := func() {
		c.mu.Lock()
		for i, s := range c.subs {
			if s == sub {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				break
			}
		}
		c.mu.Unlock()

		sub.close()
	}

	return sub.ch, cancel
}

func (c *Cache) notify(key Key) {
	c.mu.Lock()
	subs := make([]*subscription, len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, sub := range subs {
		if strings.HasPrefix(string(key), sub.prefix) {
			sub.deliver(key)
		}
	}
}

// Len returns the number of cached entries
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
