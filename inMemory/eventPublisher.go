package inMemory

import (
	"context"
	"errors"
	"sync"

	"github.com/paulvitic/hotel-booking/ddd"
)

var ErrQueueFull = errors.New("event queue is full")

type EventPublisherConfiguration struct {
	BufferSize int `mapstructure:"bufferSize" json:"bufferSize"`
}

// EventPublisher queues events as JSON strings on a buffered channel.
type EventPublisher struct {
	mu     sync.RWMutex
	queue  chan string
	closed bool
}

func NewEventPublisher(config EventPublisherConfiguration) *EventPublisher {
	size := config.BufferSize
	if size <= 0 {
		size = 256
	}
	return &EventPublisher{
		queue: make(chan string, size),
	}
}

func (p *EventPublisher) Publish(_ context.Context, event ddd.Event) error {
	jsonString, err := event.ToJsonString()
	if err != nil {
		return err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return errors.New("event publisher is closed")
	}
	select {
	case p.queue <- jsonString:
		return nil
	default:
		return ErrQueueFull
	}
}

// Queue is closed when the publisher is closed.
func (p *EventPublisher) Queue() <-chan string {
	return p.queue
}

// Drain hands every queued event to consume until the publisher is closed.
func (p *EventPublisher) Drain(consume func(string)) {
	for msg := range p.queue {
		consume(msg)
	}
}

func (p *EventPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	return nil
}
