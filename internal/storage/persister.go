package storage

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ecoshot/ecoshot/internal/model"
)

const (
	persistQueueSize = 256
	persistTimeout   = 5 * time.Second
	pingInterval     = 30 * time.Second
)

type persistJob struct {
	op   string
	call func(ctx context.Context) error
}

// Persister mirrors gameplay state to a Gateway without blocking the
// game loop. Writes are queued and applied by a single worker in order;
// when the queue is full the write is dropped with a warning, because
// in-memory state is authoritative and the mirror is best-effort.
type Persister struct {
	gw     Gateway
	logger *slog.Logger

	jobs chan persistJob
	done chan struct{}
	wg   sync.WaitGroup

	mu        sync.RWMutex
	available bool
}

// NewPersister creates a persister and starts its worker
func NewPersister(gw Gateway, logger *slog.Logger) *Persister {
	p := &Persister{
		gw:        gw,
		logger:    logger.With(slog.String("component", "persister")),
		jobs:      make(chan persistJob, persistQueueSize),
		done:      make(chan struct{}),
		available: true,
	}
	p.wg.Add(1)
	go p.run()
	return p
}

// SaveMatch queues a full-aggregate write
func (p *Persister) SaveMatch(match *model.Match) {
	p.enqueue("save_match", func(ctx context.Context) error {
		return p.gw.SaveMatch(ctx, match)
	})
}

// SavePlayer queues a player record write
func (p *Persister) SavePlayer(matchID model.MatchID, player *model.Player) {
	p.enqueue("save_player", func(ctx context.Context) error {
		return p.gw.SavePlayer(ctx, matchID, player)
	})
}

// AppendInventory queues a ledger append
func (p *Persister) AppendInventory(matchID model.MatchID, playerID model.PlayerID, items ...model.Item) {
	p.enqueue("append_inventory", func(ctx context.Context) error {
		return p.gw.AppendInventory(ctx, matchID, playerID, items...)
	})
}

// ClearInventory queues the mirror of a ledger pop
func (p *Persister) ClearInventory(matchID model.MatchID, playerID model.PlayerID) {
	p.enqueue("clear_inventory", func(ctx context.Context) error {
		_, err := p.gw.PopInventory(ctx, matchID, playerID)
		return err
	})
}

// DeleteMatch queues removal of a swept match
func (p *Persister) DeleteMatch(matchID model.MatchID) {
	p.enqueue("delete_match", func(ctx context.Context) error {
		return p.gw.DeleteMatch(ctx, matchID)
	})
}

// Available reports whether the backend accepted the most recent
// operation. The health endpoint uses it to report degraded storage.
func (p *Persister) Available() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.available
}

// Close stops the worker after draining queued writes
func (p *Persister) Close() {
	close(p.done)
	p.wg.Wait()
}

func (p *Persister) enqueue(op string, call func(ctx context.Context) error) {
	select {
	case p.jobs <- persistJob{op: op, call: call}:
	default:
		p.logger.Warn("persist queue full, dropping write", slog.String("op", op))
	}
}

func (p *Persister) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case job := <-p.jobs:
			p.apply(job)
		case <-ticker.C:
			p.observe("ping", p.withTimeout(p.gw.Ping))
		case <-p.done:
			// Drain whatever is already queued, then stop
			for {
				select {
				case job := <-p.jobs:
					p.apply(job)
				default:
					return
				}
			}
		}
	}
}

func (p *Persister) apply(job persistJob) {
	p.observe(job.op, p.withTimeout(job.call))
}

func (p *Persister) withTimeout(call func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	return call(ctx)
}

func (p *Persister) observe(op string, err error) {
	p.mu.Lock()
	wasAvailable := p.available
	p.available = err == nil
	p.mu.Unlock()

	if err != nil {
		p.logger.Warn("persist operation failed",
			slog.String("op", op),
			slog.Any("error", err))
		return
	}
	if !wasAvailable {
		p.logger.Info("storage backend recovered", slog.String("op", op))
	}
}
