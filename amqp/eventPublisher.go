package amqp

import (
	"context"
	"fmt"
	"time"

	"github.com/paulvitic/hotel-booking/ddd"
	amqp "github.com/rabbitmq/amqp091-go"
)

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// EventPublisher sends booking events to a topic exchange, routed by <aggregate type>.<event type>.
type EventPublisher struct {
	conn     *amqp.Connection
	channel  channel
	exchange string
	logger   *ddd.Logger
}

func NewEventPublisher(config Configuration, logger *ddd.Logger) (*EventPublisher, error) {
	conn, err := amqp.Dial(connectionUrl(config))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	exchange := exchangeName(config)
	if err = declareExchange(ch, exchange); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	if config.Queue != "" {
		if _, err = declareQueue(ch, config.Queue); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to declare queue %s: %w", config.Queue, err)
		}
		if err = bindQueue(ch, exchange, config.Queue); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to bind queue %s: %w", config.Queue, err)
		}
	}

	logger.Info("publishing events to exchange %s on %s:%d", exchange, config.Host, config.Port)
	return &EventPublisher{conn: conn, channel: ch, exchange: exchange, logger: logger}, nil
}

func routingKey(event ddd.Event) string {
	return event.AggregateType() + "." + event.Type()
}

func (p *EventPublisher) Publish(ctx context.Context, event ddd.Event) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	body, err := event.ToJsonString()
	if err != nil {
		return err
	}
	if err = p.channel.PublishWithContext(ctx,
		p.exchange,        // exchange
		routingKey(event), // routing key
		false,             // mandatory
		false,             // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.ID(),
			Timestamp:    event.TimeStamp(),
			Type:         event.Type(),
			Body:         []byte(body),
		}); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type(), err)
	}
	p.logger.Debug("sent %s for %s %s", event.Type(), event.AggregateType(), event.AggregateID())
	return nil
}

func (p *EventPublisher) Close() error {
	if err := p.channel.Close(); err != nil {
		return fmt.Errorf("failed to close channel: %w", err)
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("failed to close connection: %w", err)
		}
	}
	return nil
}
