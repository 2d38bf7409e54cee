package shoplist

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/idilsaglam/shop/internal/model"
)

// PayloadProvider resolves the text carried by a drag. Resolution may be slow
// and runs off the mutation goroutine.
type PayloadProvider interface {
	LoadText(ctx context.Context) (string, error)
}

// ProviderFunc adapts a function to PayloadProvider.
type ProviderFunc func(ctx context.Context) (string, error)

func (f ProviderFunc) LoadText(ctx context.Context) (string, error) { return f(ctx) }

// TextPayload is a provider that already holds its text.
type TextPayload string

func (t TextPayload) LoadText(context.Context) (string, error) { return string(t), nil }

const (
	dropPending int32 = iota
	dropApplied
	dropAbandoned
)

// DropTask is an in-flight drop of one payload onto a list.
type DropTask struct {
	ID     uuid.UUID
	Target model.ListKind

	cancel  context.CancelFunc
	done    chan struct{}
	err     error
	payload string
	changed atomic.Bool
}

// Drop resolves p in the background and then submits the transfer to q.
// Cancelling the task before the transfer runs leaves the store untouched.
func Drop(ctx context.Context, q *Queue, p PayloadProvider, target model.ListKind) *DropTask {
	ctx, cancel := context.WithCancel(ctx)
	t := &DropTask{
		ID:     uuid.New(),
		Target: target,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go t.run(ctx, q, p)
	return t
}

func (t *DropTask) run(ctx context.Context, q *Queue, p PayloadProvider) {
	defer close(t.done)
	defer t.cancel()

	text, err := p.LoadText(ctx)
	if err != nil {
		q.log.Printf("DROP_FAILED | id=%s target=%s err=%v", t.ID, t.Target, err)
		t.err = err
		return
	}
	if err := ctx.Err(); err != nil {
		t.err = err
		return
	}
	t.payload = text

	var state atomic.Int32
	applied := make(chan struct{})
	err = q.Do(ctx, func(s *Store) {
		// checked again on the mutation goroutine: Cancel may have raced the enqueue
		if ctx.Err() != nil || !state.CompareAndSwap(dropPending, dropApplied) {
			return
		}
		defer close(applied)
		t.changed.Store(s.Transfer(text, t.Target))
	})
	if err != nil && !state.CompareAndSwap(dropPending, dropAbandoned) {
		// the transfer started before we gave up on it
		<-applied
		err = nil
	}
	t.err = err
	if t.err != nil {
		q.log.Printf("DROP_FAILED | id=%s target=%s err=%v", t.ID, t.Target, t.err)
	}
}

// Cancel abandons the drop. Safe to call more than once and after completion.
func (t *DropTask) Cancel() { t.cancel() }

// Wait blocks until the task has finished and returns its error, if any.
func (t *DropTask) Wait() error {
	<-t.done
	return t.err
}

// Done is closed when the task finishes.
func (t *DropTask) Done() <-chan struct{} { return t.done }

// Payload is the resolved text; empty until resolution succeeds.
func (t *DropTask) Payload() string {
	<-t.done
	return t.payload
}

// Changed reports whether the transfer modified either list.
func (t *DropTask) Changed() bool { return t.changed.Load() }
