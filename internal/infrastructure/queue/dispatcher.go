package queue

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/legaltech/case-management/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	deleteTimeout  = 30 * time.Second
)

// Cleanup outcomes reported to the observer.
const (
	OutcomeDeleted = "deleted"
	OutcomeFailed  = "failed"
	OutcomeDropped = "dropped"
)

var _ ports.FileCleaner = (*Dispatcher)(nil)

// Dispatcher deletes stored files in the background. Locators are routed to
// a fixed set of workers by hashing, so repeated requests for the same file
// are handled in order by one worker.
type Dispatcher struct {
	workers []chan string
	storage ports.FileStorage
	log     zerolog.Logger
	observe func(outcome string)

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// Option customises a Dispatcher.
type Option func(*Dispatcher)

// WithObserver registers a callback invoked once per locator with its
// outcome.
func WithObserver(fn func(outcome string)) Option {
	return func(d *Dispatcher) { d.observe = fn }
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, storage ports.FileStorage, log zerolog.Logger, opts ...Option) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan string, numWorkers),
		storage: storage,
		log:     log,
		observe: func(string) {},
	}
	for i := range d.workers {
		d.workers[i] = make(chan string, channelBuffer)
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start launches all worker goroutines. Workers run until Close has drained
// their queue. Cancelling ctx does not stop them or abort a running delete.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Schedule queues locator for deletion without blocking. Locators that find
// the owning worker's buffer full, or arrive after Close, are dropped and
// reported.
func (d *Dispatcher) Schedule(locator string) {
	if locator == "" {
		return
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.drop(locator, "file cleanup dropped after shutdown")
		return
	}
	select {
	case d.workers[d.shardIndex(locator)] <- locator:
	default:
		d.drop(locator, "file cleanup dropped, worker queue full")
	}
}

func (d *Dispatcher) drop(locator, msg string) {
	d.log.Warn().Str("locator", locator).Msg(msg)
	d.observe(OutcomeDropped)
}

// Close stops accepting work and waits for queued deletions to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// shardIndex maps a locator deterministically to a worker index.
func (d *Dispatcher) shardIndex(locator string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(locator))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan string) {
	defer d.wg.Done()
	for locator := range ch {
		d.delete(ctx, id, locator)
	}
}

func (d *Dispatcher) delete(ctx context.Context, id int, locator string) {
	deleteCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deleteTimeout)
	defer cancel()

	if err := d.storage.Delete(deleteCtx, locator); err != nil {
		d.log.Error().Err(err).
			Str("locator", locator).
			Int("worker_id", id).
			Msg("file cleanup failed")
		d.observe(OutcomeFailed)
		return
	}
	d.log.Debug().Str("locator", locator).Int("worker_id", id).Msg("stored file removed")
	d.observe(OutcomeDeleted)
}
