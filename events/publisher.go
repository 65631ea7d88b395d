package events

import (
	"context"
	"fmt"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/streadway/amqp"

	"github.com/mreimer702/Rettnar/logger"
)

// AMQPPublisher publica en un exchange "topic" de RabbitMQ
type AMQPPublisher struct {
	mu         sync.Mutex
	connection *amqp.Connection
	channel    *amqp.Channel
	exchange   string
}

// NewAMQPPublisher conecta y declara el exchange
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-delete
		false,    // internal
		false,    // no-wait
		nil,      // args
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	return &AMQPPublisher{connection: conn, channel: ch, exchange: exchange}, nil
}

// Publish serializa el evento y lo publica en el exchange
func (p *AMQPPublisher) Publish(ctx context.Context, ev Event) error {
	if ev.RequestID == "" {
		ev.RequestID = logger.RequestIDFromContext(ctx)
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// Un canal de streadway no admite publicaciones concurrentes
	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.channel.Publish(p.exchange, ev.Type, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID,
		Timestamp:    ev.OccurredAt,
		Type:         ev.Type,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", ev.Type, err)
	}
	logger.FromContext(ctx).Debugf("Event published: type=%s id=%s", ev.Type, ev.ID)
	return nil
}

// Close cierra el canal y la conexión con RabbitMQ
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		p.channel.Close()
	}
	if p.connection != nil {
		return p.connection.Close()
	}
	return nil
}
