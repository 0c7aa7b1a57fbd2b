// Package notify polls the backend's notification counters for the home badge.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/matheus3301/frigo/internal/api"
	"github.com/matheus3301/frigo/internal/bus"
	"go.uber.org/zap"
)

// Source returns both counters. *api.Client satisfies it.
type Source interface {
	Counts(ctx context.Context) (api.Counts, error)
}

// Counter keeps the latest notification counts. Results of overlapping polls
// are applied only if they belong to the newest poll.
type Counter struct {
	src      Source
	bus      *bus.Bus
	logger   *zap.Logger
	interval time.Duration

	mu      sync.Mutex
	seq     uint64
	counts  api.Counts
	lastErr error

	cancel context.CancelFunc
	done   chan struct{}
}

// NewCounter creates a counter polling src every interval.
func NewCounter(src Source, interval time.Duration, b *bus.Bus, logger *zap.Logger) *Counter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Counter{
		src:      src,
		bus:      b,
		logger:   logger.Named("notify"),
		interval: interval,
	}
}

// Start begins polling in the background.
func (c *Counter) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)
	c.done = make(chan struct{})
	go c.loop(ctx)
}

// Stop stops polling and waits for the loop to exit.
func (c *Counter) Stop() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	<-c.done
}

func (c *Counter) loop(ctx context.Context) {
	defer close(c.done)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		_ = c.Refresh(ctx)
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

// Refresh fetches both counters once and publishes notify.count when the
// result is the newest one.
func (c *Counter) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.seq++
	token := c.seq
	c.mu.Unlock()

	counts, err := c.src.Counts(ctx)

	c.mu.Lock()
	if token != c.seq {
		c.mu.Unlock()
		return nil
	}
	if err != nil {
		c.lastErr = err
		c.mu.Unlock()
		if ctx.Err() == nil {
			c.logger.Debug("count poll failed", zap.Error(err))
		}
		return err
	}
	changed := counts != c.counts
	c.counts = counts
	c.lastErr = nil
	c.mu.Unlock()

	if changed {
		c.logger.Debug("counts changed", zap.Int("interest", counts.Interest), zap.Int("reminders", counts.Reminders))
	}
	c.bus.Emit(bus.NotifyCount, counts)
	return nil
}

// Counts returns the latest counts and the error of the latest poll, if any.
func (c *Counter) Counts() (api.Counts, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts, c.lastErr
}
