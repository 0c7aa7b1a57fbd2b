// Package outbox queues create, update and delete requests and sends them to
// the backend in order.
package outbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/matheus3301/frigo/internal/api"
	"github.com/matheus3301/frigo/internal/bus"
	"github.com/matheus3301/frigo/internal/store"
	"go.uber.org/zap"
)

const (
	drainInterval = 500 * time.Millisecond
	// retention is how long sent mutations stay in the outbox.
	retention = 7 * 24 * time.Hour
)

// Transport sends one prepared request. *api.Client satisfies it.
type Transport interface {
	Send(ctx context.Context, r api.Request) error
}

// Mutation is the payload of mutation.* events.
type Mutation struct {
	ID     string
	Entity string
	Method string
	Path   string
	// Err is the user-facing failure message; empty on success.
	Err string
}

// Queue stores r in the outbox under a fresh mutation id and announces it.
func Queue(db *store.DB, b *bus.Bus, r api.Request) (string, error) {
	if r.Method == "" || r.Path == "" {
		return "", errors.New("queue mutation: method and path are required")
	}
	id := uuid.NewString()
	if err := db.QueueOutbox(id, r.Entity, r.Method, r.Path, r.Body); err != nil {
		return "", fmt.Errorf("queue mutation: %w", err)
	}
	b.Emit(bus.MutationQueued, Mutation{ID: id, Entity: r.Entity, Method: r.Method, Path: r.Path})
	return id, nil
}

// Sender drains the outbox and sends each mutation through the API client.
type Sender struct {
	db        *store.DB
	transport Transport
	bus       *bus.Bus
	logger    *zap.Logger
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewSender creates a new outbox sender.
func NewSender(db *store.DB, transport Transport, b *bus.Bus, logger *zap.Logger) *Sender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sender{
		db:        db,
		transport: transport,
		bus:       b,
		logger:    logger.Named("outbox"),
	}
}

// Start requeues anything a previous run left mid-send and begins polling.
func (s *Sender) Start(ctx context.Context) {
	if n, err := s.db.RequeueSending(); err != nil {
		s.logger.Error("failed to requeue interrupted mutations", zap.Error(err))
	} else if n > 0 {
		s.logger.Info("requeued interrupted mutations", zap.Int64("count", n))
	}
	if n, err := s.db.PruneOutbox(time.Now().Add(-retention)); err != nil {
		s.logger.Warn("failed to prune outbox", zap.Error(err))
	} else if n > 0 {
		s.logger.Debug("pruned sent mutations", zap.Int64("count", n))
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	go s.loop(ctx)
}

// Stop stops the sender loop and waits for it to exit.
func (s *Sender) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

func (s *Sender) loop(ctx context.Context) {
	defer close(s.done)
	ticker := time.NewTicker(drainInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.processPending(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Sender) processPending(ctx context.Context) {
	pending, err := s.db.PendingOutbox()
	if err != nil {
		s.logger.Error("failed to read outbox", zap.Error(err))
		return
	}

	for _, entry := range pending {
		if ctx.Err() != nil {
			return
		}
		log := s.logger.With(zap.String("mutation_id", entry.MutationID), zap.String("entity", entry.Entity))
		if err := s.db.MarkOutboxSending(entry.MutationID); err != nil {
			log.Error("failed to mark sending", zap.Error(err))
			continue
		}

		m := Mutation{ID: entry.MutationID, Entity: entry.Entity, Method: entry.Method, Path: entry.Path}
		err := s.transport.Send(ctx, api.Request{
			Entity: entry.Entity,
			Method: entry.Method,
			Path:   entry.Path,
			Body:   entry.Body,
		})
		if err != nil {
			if ctx.Err() != nil {
				// Shutting down; leave it for the next run.
				return
			}
			log.Error("mutation failed", zap.Error(err), zap.String("method", entry.Method), zap.String("path", entry.Path))
			m.Err = api.UserMessage(err)
			if err := s.db.MarkOutboxFailed(entry.MutationID, m.Err); err != nil {
				log.Error("failed to mark failed", zap.Error(err))
			}
			s.bus.Emit(bus.MutationFailed, m)
			continue
		}

		if err := s.db.MarkOutboxSent(entry.MutationID); err != nil {
			log.Error("failed to mark sent", zap.Error(err))
		}
		log.Info("mutation applied", zap.String("method", entry.Method), zap.String("path", entry.Path))
		s.bus.Emit(bus.MutationApplied, m)
	}
}
