package theme

import (
	"sort"
	"sync"
	"time"
)

type pending struct {
	gen   uint64
	fn    func()
	timer *time.Timer
}

// Debouncer coalesces calls per key: each key owns one cancellable timer, a
// new call for the same key restarts it, and only the last fn runs.
// Different keys never interfere.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	gen     uint64
	pending map[string]*pending
	stopped bool
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:   delay,
		pending: make(map[string]*pending),
	}
}

// Do schedules fn for key after the debounce delay, replacing anything
// already scheduled for key. Calls after Stop are ignored.
func (d *Debouncer) Do(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if p, ok := d.pending[key]; ok {
		p.timer.Stop()
	}
	d.gen++
	gen := d.gen
	p := &pending{gen: gen, fn: fn}
	p.timer = time.AfterFunc(d.delay, func() { d.fire(key, gen) })
	d.pending[key] = p
}

func (d *Debouncer) fire(key string, gen uint64) {
	d.mu.Lock()
	p, ok := d.pending[key]
	// A timer that lost the race with Do, Cancel, Flush or Stop must not run.
	if !ok || p.gen != gen {
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	d.mu.Unlock()
	p.fn()
}

// Cancel drops the pending call for key, if any.
func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.pending[key]; ok {
		p.timer.Stop()
		delete(d.pending, key)
	}
}

// Flush runs every pending call now, in key order, on the caller's goroutine.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	keys := make([]string, 0, len(d.pending))
	for key := range d.pending {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	fns := make([]func(), 0, len(keys))
	for _, key := range keys {
		p := d.pending[key]
		p.timer.Stop()
		fns = append(fns, p.fn)
		delete(d.pending, key)
	}
	d.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Pending returns the number of keys with a scheduled call.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Stop cancels every pending call and disables the debouncer.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	for key, p := range d.pending {
		p.timer.Stop()
		delete(d.pending, key)
	}
}
