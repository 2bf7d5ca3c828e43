package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultTick is the clock period used when none is configured.
const DefaultTick = time.Second

// Clock counts whole elapsed seconds while running. One tick advances the
// count by one regardless of the configured period, so tests can run it
// fast.
type Clock struct {
	period  time.Duration
	seconds atomic.Int64

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewClock returns a stopped clock that ticks every period.
func NewClock(period time.Duration) *Clock {
	if period <= 0 {
		period = DefaultTick
	}
	return &Clock{period: period}
}

// Start zeroes the count and begins ticking. A run already in progress is
// stopped first.
func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
	c.seconds.Store(0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	c.cancel = cancel
	c.done = done

	go c.run(ctx, done)
}

func (c *Clock) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(c.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.seconds.Add(1)
		}
	}
}

// Stop halts the clock and waits for its goroutine to exit. The count is
// kept. Stopping a stopped clock does nothing.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Clock) stopLocked() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	<-c.done
	c.cancel = nil
	c.done = nil
}

// Reset stops the clock and zeroes the count.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
	c.seconds.Store(0)
}

// Running reports whether the clock is ticking.
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}

// Elapsed returns the counted seconds.
func (c *Clock) Elapsed() int {
	return int(c.seconds.Load())
}
