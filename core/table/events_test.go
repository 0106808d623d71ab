package table

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/asaidimu/go-datatable/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recorder struct {
	mu     sync.Mutex
	events []TableEvent
}

func (r *recorder) callback(_ context.Context, event TableEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recorder) last() (TableEvent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return TableEvent{}, false
	}
	return r.events[len(r.events)-1], true
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestSubscribePageChanged(t *testing.T) {
	s := newState(t, makeRows(23), 10)
	rec := &recorder{}
	label := "pager"

	id := s.Subscribe(SubscriptionOptions{Event: PageChanged, Label: &label, Callback: rec.callback})
	require.NotEmpty(t, id)

	s.Paginator().GoTo(2)

	assert.Eventually(t, func() bool { return rec.count() > 0 }, time.Second, 10*time.Millisecond)
	event, ok := rec.last()
	require.True(t, ok)
	assert.Equal(t, PageChanged, event.Type)
	assert.Equal(t, s.ID(), event.Table)
	assert.Equal(t, 2, event.Page)
	assert.Equal(t, 23, event.Total)
	assert.NotZero(t, event.Timestamp)
}

func TestSubscribeSelectionAndSearch(t *testing.T) {
	s := newState(t, makeRows(10), 5)
	selection := &recorder{}
	search := &recorder{}
	s.Subscribe(SubscriptionOptions{Event: SelectionChanged, Callback: selection.callback})
	s.Subscribe(SubscriptionOptions{Event: SearchChanged, Callback: search.callback})

	s.SelectAll()
	assert.Eventually(t, func() bool {
		event, ok := selection.last()
		return ok && event.Selected == 10
	}, time.Second, 10*time.Millisecond)

	s.Search("oslo")
	assert.Eventually(t, func() bool {
		event, ok := search.last()
		return ok && event.Total == 2
	}, time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool {
		event, ok := selection.last()
		return ok && event.Selected == 0
	}, time.Second, 10*time.Millisecond, "search clears the selection")
}

func TestSubscribeRowsChanged(t *testing.T) {
	s := newState(t, makeRows(10), 5)
	rec := &recorder{}
	s.Subscribe(SubscriptionOptions{Event: RowsChanged, Callback: rec.callback})

	before := s.ChangeCounter.Get()
	s.Filter(Filter[core.Document]{Identifier: "name", Value: "user-0"})

	assert.Eventually(t, func() bool {
		event, ok := rec.last()
		return ok && event.Counter > before
	}, time.Second, 10*time.Millisecond)
}

func TestUnsubscribe(t *testing.T) {
	s := newState(t, makeRows(23), 10)
	rec := &recorder{}
	id := s.Subscribe(SubscriptionOptions{Event: PageChanged, Callback: rec.callback})
	other := s.Subscribe(SubscriptionOptions{Event: FiltersChanged, Callback: rec.callback})

	subs := s.Subscriptions()
	require.Len(t, subs, 2)

	s.Unsubscribe(id)
	s.Unsubscribe("unknown")
	subs = s.Subscriptions()
	require.Len(t, subs, 1)
	assert.Equal(t, FiltersChanged, subs[0].Event)

	s.Paginator().GoTo(2)
	assert.Never(t, func() bool { return rec.count() > 0 }, 100*time.Millisecond, 10*time.Millisecond)

	s.Unsubscribe(other)
	assert.Empty(t, s.Subscriptions())
}

func TestFailingCallbackDoesNotStallMutations(t *testing.T) {
	logCore, logs := observer.New(zap.DebugLevel)
	s, err := New(makeRows(23), Params[core.Document]{RowsPerPage: 10, Logger: zap.New(logCore)})
	require.NoError(t, err)

	calls := 0
	var mu sync.Mutex
	s.Subscribe(SubscriptionOptions{Event: PageChanged, Callback: func(context.Context, TableEvent) error {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return errors.New("renderer busy")
	}})

	start := time.Now()
	s.Paginator().GoTo(2)
	elapsed := time.Since(start)

	assert.Equal(t, 2, s.PageNumber.Get())
	assert.Less(t, elapsed, 100*time.Millisecond, "callback errors are not retried")

	mu.Lock()
	assert.Equal(t, 1, calls)
	mu.Unlock()

	assert.Eventually(t, func() bool {
		return logs.FilterMessage("Table event handler failed").Len() == 1 &&
			logs.FilterMessage("Table event dropped").Len() == 1
	}, time.Second, 10*time.Millisecond)

	failed := logs.FilterMessage("Table event dropped").All()[0]
	assert.Equal(t, string(PageChanged), failed.ContextMap()["event"])
}
