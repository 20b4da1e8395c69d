package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"devninja-chat/internal/models"
)

const writeTimeout = 5 * time.Second

var (
	ErrQueueFull   = errors.New("reply event queue is full")
	ErrPoolStopped = errors.New("reply event pool is stopped")
)

type eventStore interface {
	Create(ctx context.Context, event *models.ReplyEvent) error
	CountBySource(ctx context.Context, since time.Time) (map[string]int64, error)
}

// Pool writes reply events in the background so a slow database never delays
// a chat reply. It satisfies services.ReplyRecorder.
type Pool struct {
	store       eventStore
	events      chan *models.ReplyEvent
	workerCount int
	log         zerolog.Logger
	stopChan    chan struct{}
	wg          sync.WaitGroup

	// mu orders Create against Stop so nothing is queued after the drain.
	mu      sync.RWMutex
	stopped bool
}

func NewPool(store eventStore, workerCount, queueSize int, log zerolog.Logger) *Pool {
	if workerCount <= 0 {
		workerCount = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	return &Pool{
		store:       store,
		events:      make(chan *models.ReplyEvent, queueSize),
		workerCount: workerCount,
		log:         log,
		stopChan:    make(chan struct{}),
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	p.log.Info().Int("workers", p.workerCount).Msg("reply event workers started")
}

// Stop waits for the workers to flush what is already queued.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.stopped {
		p.stopped = true
		close(p.stopChan)
	}
	p.mu.Unlock()
	p.wg.Wait()
}

// Create queues the event without blocking.
func (p *Pool) Create(_ context.Context, event *models.ReplyEvent) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return ErrPoolStopped
	}

	select {
	case p.events <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

func (p *Pool) CountBySource(ctx context.Context, since time.Time) (map[string]int64, error) {
	return p.store.CountBySource(ctx, since)
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			p.drain(id)
			p.log.Debug().Int("worker", id).Msg("reply event worker shutting down")
			return
		case event := <-p.events:
			p.write(id, event)
		}
	}
}

func (p *Pool) drain(id int) {
	for {
		select {
		case event := <-p.events:
			p.write(id, event)
		default:
			return
		}
	}
}

func (p *Pool) write(id int, event *models.ReplyEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := p.store.Create(ctx, event); err != nil {
		p.log.Error().Err(err).
			Int("worker", id).
			Str("session_id", event.SessionID.String()).
			Msg("failed to write reply event")
	}
}
