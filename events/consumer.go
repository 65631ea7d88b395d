package events

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/streadway/amqp"

	"github.com/mreimer702/Rettnar/logger"
)

// Consumer consume la cola de notificaciones y le pasa cada evento al Handler
type Consumer struct {
	connection *amqp.Connection
	channel    *amqp.Channel
	queueName  string
	handler    Handler
	done       chan struct{}
}

// NewConsumer declara la cola, la enlaza al exchange y configura QoS
func NewConsumer(url, exchange, queueName string, handler Handler) (*Consumer, error) {
	log := logger.Default()
	log.Infof("Connecting to RabbitMQ consumer queue '%s'", queueName)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	closeAll := func() {
		ch.Close()
		conn.Close()
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		closeAll()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	q, err := ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // borrar si no se usa
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}
	for _, pattern := range RoutingPatterns {
		if err := ch.QueueBind(q.Name, pattern, exchange, false, nil); err != nil {
			closeAll()
			return nil, fmt.Errorf("failed to bind %s: %w", pattern, err)
		}
	}

	// Procesar un mensaje a la vez
	if err := ch.Qos(1, 0, false); err != nil {
		closeAll()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	return &Consumer{
		connection: conn,
		channel:    ch,
		queueName:  q.Name,
		handler:    handler,
		done:       make(chan struct{}),
	}, nil
}

// Start registra el consumidor y procesa mensajes en una goroutine hasta que ctx termine
func (c *Consumer) Start(ctx context.Context) error {
	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack (manejamos manualmente)
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}
	logger.Default().Infof("Consumer registered on '%s', waiting for events...", c.queueName)

	go func() {
		defer close(c.done)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				c.processMessage(ctx, msg)
			}
		}
	}()
	return nil
}

// processMessage hace ack si el handler terminó bien.
// Un mensaje malformado se descarta; un error se reintenta una sola vez.
func (c *Consumer) processMessage(parent context.Context, msg amqp.Delivery) {
	var ev Event
	if err := json.Unmarshal(msg.Body, &ev); err != nil || ev.Type == "" {
		logger.Default().Warnf("Discarding malformed event: %s", string(msg.Body))
		msg.Nack(false, false)
		return
	}

	ctx, log := logger.ContextWithLogger(parent, ev.RequestID)
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := c.handler.HandleEvent(ctx, ev); err != nil {
		requeue := !msg.Redelivered
		log.Errorf("Error processing event %s (%s), requeue=%v: %v", ev.ID, ev.Type, requeue, err)
		msg.Nack(false, requeue)
		return
	}
	if err := msg.Ack(false); err != nil {
		log.Errorf("Error acknowledging event %s: %v", ev.ID, err)
	}
}

// Close cierra el canal y la conexión y espera al loop de consumo
func (c *Consumer) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing channel: %w", err))
		}
	}
	if c.connection != nil {
		if err := c.connection.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing connection: %w", err))
		}
	}
	select {
	case <-c.done:
	case <-time.After(5 * time.Second):
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing RabbitMQ consumer: %v", errs)
	}
	return nil
}
