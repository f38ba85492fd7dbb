package ddd

import "context"

type EventLog interface {
	// Append adds a single event to the log
	Append(ctx context.Context, event Event) error
	// EventsOf retrieves all events for an aggregate in append order
	EventsOf(ctx context.Context, aggregateType string, aggregateID string) ([]Event, error)
	// Close cleans up resources
	Close() error
}

// NoopEventLog keeps nothing.
type NoopEventLog struct{}

func (NoopEventLog) Append(context.Context, Event) error { return nil }

func (NoopEventLog) EventsOf(context.Context, string, string) ([]Event, error) {
	return []Event{}, nil
}

func (NoopEventLog) Close() error { return nil }
