package boards

import (
	"context"
	"errors"
	"net/http"
	"sync"

	apierrors "github.com/flow-hydraulics/sticker-board/errors"
	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
)

var ErrWriterStopped = errors.New("writer stopped")

// ErrWriterFull is returned when the mutation queue has no room left.
var ErrWriterFull = apierrors.NewRequestError(http.StatusServiceUnavailable, "max capacity reached, try again later")

// Mutation changes doc in place. Returning an error discards the change.
type Mutation func(doc Document) error

type mutation struct {
	fn   Mutation
	done chan error
}

// Writer serializes every document mutation through a single goroutine.
// Each mutation loads the current document, applies itself and saves the
// result before the next one starts.
type Writer struct {
	wg        *sync.WaitGroup
	queue     chan *mutation
	startOnce sync.Once

	mu      sync.RWMutex
	stopped bool

	store    Store
	capacity uint
	limiter  ratelimit.Limiter
	logger   *log.Logger
}

type WriterStatus struct {
	QueueSize int `json:"queueSize"`
	Capacity  int `json:"queueCapacity"`
}

func NewWriter(store Store, capacity uint, opts ...WriterOption) *Writer {
	if capacity == 0 {
		capacity = 1
	}

	w := &Writer{
		wg:       &sync.WaitGroup{},
		queue:    make(chan *mutation, capacity),
		store:    store,
		capacity: capacity,
		limiter:  ratelimit.NewUnlimited(),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.logger == nil {
		w.logger = log.StandardLogger()
	}

	return w
}

func (w *Writer) Start() {
	w.startOnce.Do(func() {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			for m := range w.queue {
				m.done <- w.apply(m.fn)
			}
		}()
	})
}

// Stop rejects new mutations, waits for queued ones to finish and then
// returns.
func (w *Writer) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	close(w.queue)
	w.mu.Unlock()

	// Drain in case Start was never called
	w.Start()
	w.wg.Wait()
}

// Do queues fn and waits for it to be applied. If ctx ends first Do returns
// ctx.Err() while fn may still be applied later.
func (w *Writer) Do(ctx context.Context, fn Mutation) error {
	m := &mutation{fn: fn, done: make(chan error, 1)}

	if err := w.enqueue(m); err != nil {
		return err
	}

	select {
	case err := <-m.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Writer) Status() WriterStatus {
	return WriterStatus{
		QueueSize: len(w.queue),
		Capacity:  int(w.capacity),
	}
}

func (w *Writer) enqueue(m *mutation) error {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.stopped {
		return ErrWriterStopped
	}

	select {
	case w.queue <- m:
		return nil
	default:
		w.logger.
			WithFields(log.Fields{"capacity": w.capacity}).
			Warn("Writer queue full, rejecting mutation")
		return ErrWriterFull
	}
}

func (w *Writer) apply(fn Mutation) error {
	w.limiter.Take()

	doc, err := w.store.Load()
	if err != nil {
		return err
	}

	if err := fn(doc); err != nil {
		return err
	}

	if err := w.store.Save(doc); err != nil {
		w.logger.
			WithFields(log.Fields{"error": err}).
			Warn("Could not save document")
		return err
	}

	return nil
}
