package table

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/asaidimu/go-events"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TableEventType names an event emitted by a TableState.
type TableEventType string

// Event types. Each is emitted once per propagation pass that changes the
// corresponding value.
const (
	RowsChanged      TableEventType = "rows:changed"
	PageChanged      TableEventType = "page:changed"
	SelectionChanged TableEventType = "selection:changed"
	SearchChanged    TableEventType = "search:changed"
	FiltersChanged   TableEventType = "filters:changed"
)

// TableEvent is a snapshot of the table taken after a change settled.
type TableEvent struct {
	Type      TableEventType `json:"type"`
	Timestamp int64          `json:"timestamp"` // Unix milliseconds.
	Table     string         `json:"table"`
	Counter   int            `json:"counter"`
	Page      int            `json:"page"`
	Total     int            `json:"total"`
	Selected  int            `json:"selected"`
}

// EventCallback receives table events.
type EventCallback func(ctx context.Context, event TableEvent) error

// SubscriptionInfo describes a registered subscription.
type SubscriptionInfo struct {
	Event       TableEventType `json:"event"`
	Label       *string        `json:"label,omitempty"`
	Unsubscribe func()         `json:"-"`
}

// SubscriptionOptions configures Subscribe.
type SubscriptionOptions struct {
	Event    TableEventType
	Label    *string
	Callback EventCallback
}

// newEventBus creates the bus a TableState publishes on. Delivery is
// synchronous and a failing callback is not retried, so a mutation never
// waits on retry backoff. Bus diagnostics go to logger.
func newEventBus(logger *zap.Logger) (*events.TypedEventBus[TableEvent], error) {
	config := events.DefaultConfig()
	config.Async = false
	config.MaxRetries = 0
	config.EnableExponentialBackoff = false
	config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	config.ErrorHandler = func(err *events.EventError) {
		logger.Error("Table event handler failed",
			zap.String("event", err.EventName),
			zap.Error(err.Err),
		)
	}
	config.DeadLetterHandler = func(ctx context.Context, event events.Event, finalErr error) {
		logger.Warn("Table event dropped",
			zap.String("event", event.Name),
			zap.Error(finalErr),
		)
	}
	config.TypeAssertionErrorHandler = func(eventName string, expected, got any) {
		logger.Debug("Table event payload type mismatch",
			zap.String("event", eventName),
			zap.String("expected", fmt.Sprintf("%T", expected)),
			zap.String("got", fmt.Sprintf("%T", got)),
		)
	}
	return events.NewTypedEventBus[TableEvent](config)
}

// Subscribe registers a callback for an event type and returns an id for
// Unsubscribe. Callbacks run before the mutation that triggered them returns;
// an error from a callback is logged and otherwise ignored.
func (s *TableState[T]) Subscribe(options SubscriptionOptions) string {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	callback := options.Callback
	unsubscribe := s.bus.Subscribe(string(options.Event), func(ctx context.Context, event TableEvent) error {
		return callback(ctx, event)
	})
	id := uuid.New().String()
	s.subscriptions[id] = &SubscriptionInfo{
		Event:       options.Event,
		Label:       options.Label,
		Unsubscribe: unsubscribe,
	}
	s.logger.Info("Registered table subscription",
		zap.String("table", s.id),
		zap.String("event", string(options.Event)),
		zap.String("subscription_id", id),
	)
	return id
}

// Unsubscribe removes the subscription registered under id.
func (s *TableState[T]) Unsubscribe(id string) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	info := s.subscriptions[id]
	if info != nil {
		info.Unsubscribe()
		delete(s.subscriptions, id)
	}
}

// Subscriptions lists the registered subscriptions.
func (s *TableState[T]) Subscriptions() []SubscriptionInfo {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	out := make([]SubscriptionInfo, 0, len(s.subscriptions))
	for _, info := range s.subscriptions {
		out = append(out, *info)
	}
	return out
}

// watch forwards settled changes of the primitive state to the event bus.
func (s *TableState[T]) watch() {
	s.ChangeCounter.Watch(func(int) { s.emit(RowsChanged) })
	s.PageNumber.Watch(func(int) { s.emit(PageChanged) })
	s.Selected.Watch(func([]T) { s.emit(SelectionChanged) })
	s.GlobalSearch.Watch(func(GlobalSearch) { s.emit(SearchChanged) })
	s.Filters.Watch(func([]Filter[T]) { s.emit(FiltersChanged) })
}

func (s *TableState[T]) emit(eventType TableEventType) {
	if s.bus == nil {
		return
	}
	event := s.createEvent(eventType)
	s.bus.Emit(string(event.Type), event)
}

func (s *TableState[T]) createEvent(eventType TableEventType) TableEvent {
	return TableEvent{
		Type:      eventType,
		Timestamp: time.Now().UnixMilli(),
		Table:     s.id,
		Counter:   s.ChangeCounter.Get(),
		Page:      s.PageNumber.Get(),
		Total:     len(s.FilteredRows.Get()),
		Selected:  len(s.Selected.Get()),
	}
}
