package querycache

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid-fire triggers per id into a single callback once
// the input settles; free-text search uses it so typing "Jane" then "Jane D"
// inside the window issues one fetch for "Jane D"
type Debouncer struct {
	mu     sync.Mutex
	delay  time.Duration
	timers map[string]*time.Timer
}

// NewDebouncer creates a debouncer with a fixed settle delay
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:  delay,
		timers: make(map[string]*time.Timer),
	}
}

// Trigger schedules fn after the settle delay, replacing any pending
// callback for the same id
func (d *Debouncer) Trigger(id string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if timer, ok := d.timers[id]; ok {
		timer.Stop()
	}

	d.timers[id] = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		delete(d.timers, id)
		d.mu.Unlock()
		fn()
	})
}

// Cancel drops the pending callback for id, if any
func (d *Debouncer) Cancel(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if timer, ok := d.timers[id]; ok {
		timer.Stop()
		delete(d.timers, id)
	}
}

// Stop cancels every pending callback
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for id, timer := range d.timers {
		timer.Stop()
		delete(d.timers, id)
	}
}
