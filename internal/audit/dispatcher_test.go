package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memWriter struct {
	mu     sync.Mutex
	events []Event
	fail   bool
	block  chan struct{}
}

func (w *memWriter) Write(ctx context.Context, ev Event) error {
	if w.block != nil {
		<-w.block
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fail {
		return errors.New("db down")
	}
	w.events = append(w.events, ev)
	return nil
}

func TestDispatcherDrainsOnClose(t *testing.T) {
	w := &memWriter{}
	d := NewDispatcher(w, zap.NewNop())

	for i := 0; i < 10; i++ {
		d.Dispatch(Event{Action: "booking_committed"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))

	assert.Len(t, w.events, 10)
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	w := &memWriter{block: make(chan struct{})}
	d := NewDispatcher(w, zap.NewNop())

	// one event held by the worker, queueSize buffered, the rest dropped
	for i := 0; i < queueSize+20; i++ {
		d.Dispatch(Event{Action: "appointment_cancelled"})
	}
	close(w.block)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))

	assert.LessOrEqual(t, len(w.events), queueSize+1)
	assert.GreaterOrEqual(t, len(w.events), queueSize)
}

func TestDispatcherSurvivesWriteErrors(t *testing.T) {
	w := &memWriter{fail: true}
	d := NewDispatcher(w, zap.NewNop())

	d.Dispatch(Event{Action: "appointment_started"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, d.Close(ctx))
	assert.Empty(t, w.events)
}

func TestToEntry(t *testing.T) {
	id := uint(4)
	entry, err := toEntry(Event{
		UserID:   &id,
		Action:   "booking_committed",
		Entity:   "appointment",
		EntityID: &id,
		Metadata: map[string]any{"group_id": "g-1", "count": 2},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"group_id":"g-1","count":2}`, entry.Metadata)

	_, err = toEntry(Event{Action: "x", Metadata: func() {}})
	assert.Error(t, err)
}
