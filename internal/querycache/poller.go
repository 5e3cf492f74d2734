package querycache

import (
	"context"
	"sync"
	"time"

	"github.com/fikertekiflu/hospital/pkg/logger"
)

// Poller refetches registered board keys on a fixed interval to approximate
// real-time task and appointment boards; there is no push channel to the
// API server
type Poller struct {
	cache    *Cache
	interval time.Duration
	maxIdle  time.Duration
	logger   *logger.Logger

	mu      sync.Mutex
	targets map[Key]*pollTarget
	now     func() time.Time
	cancel  context.CancelFunc
	done    chan struct{}
}

type pollTarget struct {
	policy   Policy
	fetch    FetchFunc
	lastSeen time.Time
}

// idleTicks is how many poll intervals a board key survives without a
// fresh Register before it is evicted from the polling set
const idleTicks = 3

// NewPoller creates a poller over the cache
func NewPoller(cache *Cache, interval time.Duration, log *logger.Logger) *Poller {
	return &Poller{
		cache:    cache,
		interval: interval,
		maxIdle:  idleTicks * interval,
		logger:   log,
		targets:  make(map[Key]*pollTarget),
		now:      time.Now,
	}
}

// Register adds a key to the polling set, or refreshes its idle clock when
// the key is already registered. Board handlers register on every request,
// so a key stays on the set only while someone keeps viewing the board.
func (p *Poller) Register(key Key, policy Policy, fetch FetchFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.targets[key] = &pollTarget{policy: policy, fetch: fetch, lastSeen: p.now()}
}

// Unregister removes a key from the polling set
func (p *Poller) Unregister(key Key) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.targets, key)
}

// Start begins the polling loop
func (p *Poller) Start() {
	ctx, cancel := context.WithCancel(context.Background())

	p.mu.Lock()
	p.cancel = cancel
	p.done = make(chan struct{})
	done := p.done
	p.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				p.refetchAll(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the polling loop and waits for it to exit
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	done := p.done
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (p *Poller) refetchAll(ctx context.Context) {
	cutoff := p.now().Add(-p.maxIdle)

	p.mu.Lock()
	targets := make(map[Key]*pollTarget, len(p.targets))
	for key, target := range p.targets {
		if target.lastSeen.Before(cutoff) {
			delete(p.targets, key)
			p.logger.WithComponent("poller").WithField("key", string(key)).Debug("Idle board key evicted")
			continue
		}
		targets[key] = target
	}
	p.mu.Unlock()

	for key, target := range targets {
		if _, err := p.cache.Refresh(ctx, key, target.policy, target.fetch); err != nil {
			// board keeps its last successful data; the next tick retries
			p.logger.WithComponent("poller").WithError(err).WithField("key", string(key)).Warn("Board poll failed")
		}
	}
}
