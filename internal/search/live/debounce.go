package live

import (
	"sync"
	"time"
)

// DefaultWindow is the debounce window used when none is configured
const DefaultWindow = 300 * time.Millisecond

// Request is one search submission from a client
type Request struct {
	Seq    int64
	Params string
}

// Debouncer coalesces requests so at most one fires per window. The window
// opens at the first request after a quiet period and the last request
// accepted before it closes is the one that fires. Requests whose sequence
// number is not newer than the newest accepted one are rejected.
type Debouncer struct {
	window   time.Duration
	fire     func(Request)
	schedule func(time.Duration, func())

	mu      sync.Mutex
	newest  int64
	pending *Request
	open    bool
	stopped bool
}

// NewDebouncer creates a debouncer calling fire once per window
func NewDebouncer(window time.Duration, fire func(Request)) *Debouncer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Debouncer{
		window: window,
		fire:   fire,
		schedule: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
}

// Submit queues req. It reports false when req is stale.
func (d *Debouncer) Submit(req Request) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped || req.Seq <= d.newest {
		return false
	}
	d.newest = req.Seq
	d.pending = &req

	if !d.open {
		d.open = true
		d.schedule(d.window, d.flush)
	}
	return true
}

// Current reports whether seq is still the newest accepted request. Results
// of superseded requests are discarded by the caller.
func (d *Debouncer) Current(seq int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.stopped && seq == d.newest
}

// Stop drops any pending request and rejects later ones
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.pending = nil
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	req := d.pending
	d.pending = nil
	d.open = false
	stopped := d.stopped
	d.mu.Unlock()

	if req != nil && !stopped {
		d.fire(*req)
	}
}
