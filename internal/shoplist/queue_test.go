package shoplist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/shop/internal/model"
)

func startQueue(t *testing.T, s *Store) *Queue {
	t.Helper()
	q := NewQueue(s, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = q.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return q
}

func TestQueue_RunsInOrder(t *testing.T) {
	s, _ := newStore()
	q := startQueue(t, s)

	for _, name := range []string{"a", "b", "c"} {
		name := name
		require.NoError(t, q.Submit(func(s *Store) { s.AddItem(name) }))
	}
	var items []string
	require.NoError(t, q.Do(context.Background(), func(s *Store) { items = s.Items() }))
	assert.Equal(t, []string{"a", "b", "c"}, items)
}

func TestQueue_SurvivesPanic(t *testing.T) {
	s, _ := newStore()
	q := startQueue(t, s)

	require.NoError(t, q.Do(context.Background(), func(*Store) { panic("boom") }))
	require.NoError(t, q.Do(context.Background(), func(s *Store) { s.AddItem("milk") }))
}

func TestQueue_Closed(t *testing.T) {
	s, _ := newStore()
	q := NewQueue(s, nil)
	q.Close()
	q.Close()

	require.ErrorIs(t, q.Submit(func(*Store) {}), ErrQueueClosed)
	require.ErrorIs(t, q.Do(context.Background(), func(*Store) {}), ErrQueueClosed)
	require.NoError(t, q.Run(context.Background()))
}

func TestDrop_TransfersOnQueue(t *testing.T) {
	s, _ := newStore()
	s.Hydrate(model.State{SuggestedItems: []string{"bread"}})
	q := startQueue(t, s)

	task := Drop(context.Background(), q, TextPayload("bread"), model.Shopping)
	require.NoError(t, task.Wait())
	assert.True(t, task.Changed())
	assert.Equal(t, "bread", task.Payload())
	assert.NotEqual(t, [16]byte{}, [16]byte(task.ID))

	var items []string
	require.NoError(t, q.Do(context.Background(), func(s *Store) { items = s.Items() }))
	assert.Equal(t, []string{"bread"}, items)
}

func TestDrop_ProviderError(t *testing.T) {
	s, _ := newStore()
	q := startQueue(t, s)
	boom := errors.New("unreadable payload")

	task := Drop(context.Background(), q, ProviderFunc(func(context.Context) (string, error) {
		return "", boom
	}), model.Shopping)
	require.ErrorIs(t, task.Wait(), boom)
	assert.False(t, task.Changed())
}

func TestDrop_CancelBeforeResolve(t *testing.T) {
	s, r := newStore()
	q := startQueue(t, s)
	release := make(chan struct{})

	task := Drop(context.Background(), q, ProviderFunc(func(ctx context.Context) (string, error) {
		select {
		case <-release:
			return "milk", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}), model.Shopping)
	task.Cancel()

	select {
	case <-task.Done():
	case <-time.After(time.Second):
		t.Fatal("cancelled drop did not finish")
	}
	require.ErrorIs(t, task.Wait(), context.Canceled)
	close(release)

	var items []string
	require.NoError(t, q.Do(context.Background(), func(s *Store) { items = s.Items() }))
	assert.Empty(t, items)
	assert.Zero(t, r.calls)
}

func TestDrop_CancelDuringTransferReportsSuccess(t *testing.T) {
	s, _ := newStore()
	q := startQueue(t, s)

	var task *DropTask
	ready := make(chan struct{})
	// cancel from inside the mutation, after the transfer has started
	s.Subscribe(func(model.State) { task.Cancel() })

	task = Drop(context.Background(), q, ProviderFunc(func(context.Context) (string, error) {
		<-ready
		return "milk", nil
	}), model.Shopping)
	close(ready)

	require.NoError(t, task.Wait())
	assert.True(t, task.Changed())

	var items []string
	require.NoError(t, q.Do(context.Background(), func(s *Store) { items = s.Items() }))
	assert.Equal(t, []string{"milk"}, items)
}
