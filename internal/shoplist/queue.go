package shoplist

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
)

// ErrQueueClosed is returned by Submit and Do once the queue has stopped.
var ErrQueueClosed = errors.New("mutation queue closed")

// Queue runs store mutations one at a time on a single goroutine, so work
// that finishes elsewhere (a resolved drop payload, a file read) never
// touches the lists concurrently with anything else.
type Queue struct {
	store *Store
	jobs  chan func(*Store)
	quit  chan struct{}
	once  sync.Once
	log   *log.Logger
}

func NewQueue(s *Store, logger *log.Logger) *Queue {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Queue{
		store: s,
		jobs:  make(chan func(*Store), 64),
		quit:  make(chan struct{}),
		log:   logger,
	}
}

// Run executes jobs in submission order until ctx is done or Close is called.
func (q *Queue) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			q.Close()
			return ctx.Err()
		case <-q.quit:
			return nil
		case fn := <-q.jobs:
			q.exec(fn)
		}
	}
}

func (q *Queue) exec(fn func(*Store)) {
	defer func() {
		if r := recover(); r != nil {
			q.log.Printf("QUEUE_PANIC | recovered=%v", r)
		}
	}()
	fn(q.store)
}

// Submit enqueues fn without waiting for it to run.
func (q *Queue) Submit(fn func(*Store)) error {
	select {
	case <-q.quit:
		return ErrQueueClosed
	default:
	}
	select {
	case q.jobs <- fn:
		return nil
	case <-q.quit:
		return ErrQueueClosed
	}
}

// Do enqueues fn and waits until it has run.
func (q *Queue) Do(ctx context.Context, fn func(*Store)) error {
	done := make(chan struct{})
	err := q.Submit(func(s *Store) {
		defer close(done)
		fn(s)
	})
	if err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-q.quit:
		return ErrQueueClosed
	}
}

// Close stops Run. Jobs still buffered are dropped.
func (q *Queue) Close() {
	q.once.Do(func() { close(q.quit) })
}
