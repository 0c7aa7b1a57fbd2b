// Package sync keeps one list view's collection in step with the backend.
//
// A Coordinator owns the collection for a single view. Every refresh takes a
// sequence token; a fetch result is applied only while its token is still the
// newest issued, so a slow response can never overwrite a newer one. After
// Close, late results are dropped.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/matheus3301/frigo/internal/bus"
	"github.com/matheus3301/frigo/internal/collection"
	"github.com/matheus3301/frigo/internal/status"
	"github.com/matheus3301/frigo/internal/store"
	"go.uber.org/zap"
)

var (
	// ErrStale is returned by Refresh when a newer refresh was issued while
	// this one was in flight. Its result was discarded.
	ErrStale = errors.New("stale fetch result discarded")
	// ErrClosed is returned once the coordinator has been closed.
	ErrClosed = errors.New("coordinator closed")
)

// Fetcher retrieves the full collection from the backend.
type Fetcher[T any] func(ctx context.Context) ([]T, error)

// Cache persists the last successful fetch. *store.DB satisfies it.
type Cache interface {
	SaveCollection(key string, payload []byte) error
	LoadCollection(key string) (*store.CachedCollection, error)
}

// Result is the payload of list.loaded and list.failed events.
type Result struct {
	Entity string
	Key    string
	Count  int
	Err    error
}

// Options configures a Coordinator. Entity is required; the rest may be nil.
type Options struct {
	Entity string
	// CacheKey defaults to Entity. Views scoped to one client or date range
	// use a narrower key.
	CacheKey string
	Cache    Cache
	Bus      *bus.Bus
	Logger   *zap.Logger
}

// Coordinator holds the collection of one list view.
type Coordinator[T collection.Record] struct {
	entity  string
	key     string
	fetch   Fetcher[T]
	cache   Cache
	bus     *bus.Bus
	machine *status.Machine
	logger  *zap.Logger

	life context.Context
	stop context.CancelFunc

	mu        sync.Mutex
	seq       uint64
	items     []T
	landed    bool
	fromCache bool
	fetchedAt time.Time
	lastErr   error
	closed    bool
}

// New creates a coordinator in the Idle state with an empty collection.
func New[T collection.Record](fetch Fetcher[T], opts Options) *Coordinator[T] {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	key := opts.CacheKey
	if key == "" {
		key = opts.Entity
	}
	life, stop := context.WithCancel(context.Background())
	return &Coordinator[T]{
		entity:  opts.Entity,
		key:     key,
		fetch:   fetch,
		cache:   opts.Cache,
		bus:     opts.Bus,
		machine: status.NewMachine(opts.Entity, opts.Bus),
		logger:  logger.With(zap.String("entity", opts.Entity)),
		life:    life,
		stop:    stop,
	}
}

// Entity returns the entity name this coordinator serves.
func (c *Coordinator[T]) Entity() string { return c.entity }

// State returns the current load state.
func (c *Coordinator[T]) State() status.State { return c.machine.Current() }

// Restore fills the collection from the local cache so the view can render
// before the network answers. It does nothing once a fetch has landed and
// reports whether cached data was applied. The load state is unchanged.
func (c *Coordinator[T]) Restore() (bool, error) {
	if c.cache == nil {
		return false, nil
	}
	c.mu.Lock()
	skip := c.landed || c.closed
	c.mu.Unlock()
	if skip {
		return false, nil
	}

	cached, err := c.cache.LoadCollection(c.key)
	if err != nil || cached == nil {
		return false, err
	}
	var items []T
	if err := json.Unmarshal(cached.Payload, &items); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", c.key, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.landed || c.closed {
		return false, nil
	}
	c.items = items
	c.fromCache = true
	c.fetchedAt = cached.FetchedAt
	return true, nil
}

// Refresh fetches the full collection and replaces the current one on
// success. On failure the previous collection is kept and the error recorded.
// It returns ErrStale if a newer refresh superseded this one and ErrClosed if
// the coordinator was closed before the result arrived.
func (c *Coordinator[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.seq++
	token := c.seq
	c.machine.Begin()
	c.mu.Unlock()

	fctx, cancel := context.WithCancel(ctx)
	defer cancel()
	unhook := context.AfterFunc(c.life, cancel)
	defer unhook()

	items, err := c.fetch(fctx)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if token != c.seq {
		c.mu.Unlock()
		c.logger.Debug("discarding stale fetch", zap.Uint64("token", token))
		return ErrStale
	}
	if err != nil {
		c.lastErr = err
		c.transition(status.Error)
		c.mu.Unlock()
		c.logger.Warn("fetch failed", zap.Error(err))
		c.bus.Emit(bus.ListFailed, Result{Entity: c.entity, Key: c.key, Err: err})
		return err
	}
	c.items = items
	c.landed = true
	c.fromCache = false
	c.fetchedAt = time.Now()
	c.lastErr = nil
	c.transition(status.Loaded)
	c.mu.Unlock()

	c.save(items)
	c.bus.Emit(bus.ListLoaded, Result{Entity: c.entity, Key: c.key, Count: len(items)})
	return nil
}

// transition must be called with mu held.
func (c *Coordinator[T]) transition(to status.State) {
	if err := c.machine.Transition(to); err != nil {
		c.logger.Error("state transition", zap.Error(err))
	}
}

func (c *Coordinator[T]) save(items []T) {
	if c.cache == nil {
		return
	}
	payload, err := json.Marshal(items)
	if err == nil {
		err = c.cache.SaveCollection(c.key, payload)
	}
	if err != nil {
		c.logger.Warn("cache write failed", zap.Error(err))
	}
}

// Poll refreshes immediately and then every interval until ctx is cancelled
// or the coordinator is closed. Fetch errors are recorded, not returned.
func (c *Coordinator[T]) Poll(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		_ = c.Refresh(ctx)
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := c.Refresh(ctx); errors.Is(err, ErrClosed) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-c.life.Done():
			return
		case <-ticker.C:
		}
	}
}

// Close tears the coordinator down. In-flight fetches are cancelled and any
// result arriving afterwards is ignored.
func (c *Coordinator[T]) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.stop()
}

// Items returns the current collection.
func (c *Coordinator[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items
}

// View filters the current collection by query and totals field over the result.
func (c *Coordinator[T]) View(query string, field collection.Field[T]) collection.View[T] {
	return collection.Project(c.Items(), query, field)
}

// Snapshot describes the coordinator for status lines.
type Snapshot struct {
	State     status.State
	Err       error
	FetchedAt time.Time
	FromCache bool
	Size      int
}

// Snapshot returns the current load state, last error and freshness.
func (c *Coordinator[T]) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		State:     c.machine.Current(),
		Err:       c.lastErr,
		FetchedAt: c.fetchedAt,
		FromCache: c.fromCache,
		Size:      len(c.items),
	}
}
