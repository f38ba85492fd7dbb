package inMemory

import (
	"context"
	"slices"
	"sync"

	"github.com/paulvitic/hotel-booking/ddd"
)

// EventLog keeps events per aggregate type and id, in append order.
type EventLog struct {
	mu     sync.RWMutex
	events map[string]map[string][]ddd.Event
}

func NewEventLog() *EventLog {
	return &EventLog{
		events: make(map[string]map[string][]ddd.Event),
	}
}

func (l *EventLog) Append(_ context.Context, event ddd.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	aggregateEvents, ok := l.events[event.AggregateType()]
	if !ok {
		aggregateEvents = make(map[string][]ddd.Event)
		l.events[event.AggregateType()] = aggregateEvents
	}
	aggregateEvents[event.AggregateID()] = append(aggregateEvents[event.AggregateID()], event)
	return nil
}

func (l *EventLog) EventsOf(_ context.Context, aggregateType string, aggregateID string) ([]ddd.Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	aggregateEvents, ok := l.events[aggregateType]
	if !ok {
		return []ddd.Event{}, nil
	}
	return slices.Clone(aggregateEvents[aggregateID]), nil
}

func (l *EventLog) Close() error {
	return nil
}
