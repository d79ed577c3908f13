package rabbitmq

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"inventory/internal/logger"

	amqp "github.com/streadway/amqp"
)

// DefaultQueue is the queue product events are published to when Config.Queue is empty.
const DefaultQueue = "product_events"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL   string
	Queue string
}

// NewClient connects to RabbitMQ, opens a channel and declares the event queue.
func NewClient(cfg Config) (*Client, error) {
	queue := cfg.Queue
	if queue == "" {
		queue = DefaultQueue
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := declareQueue(ch, queue); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", queue, err)
	}

	logger.Info("RabbitMQ client connected", slog.String("queue", queue))

	return &Client{
		conn:    conn,
		channel: ch,
		queue:   queue,
	}, nil
}

func declareQueue(ch *amqp.Channel, name string) (amqp.Queue, error) {
	return ch.QueueDeclare(
		name,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// NewPublishing marshals payload into a persistent JSON message.
func NewPublishing(payload any, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal event to JSON: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    now,
	}, nil
}

// PublishJSON publishes payload as JSON to the client's queue through the default exchange.
func (c *Client) PublishJSON(payload any) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	msg, err := NewPublishing(payload, time.Now())
	if err != nil {
		return err
	}

	if err := c.channel.Publish("", c.queue, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	logger.Debug("published event", slog.String("queue", c.queue), slog.String("body", string(msg.Body)))
	return nil
}

// Consume delivers messages from the client's queue to handler in a goroutine.
// Messages are acked when handler returns nil and requeued otherwise.
func (c *Client) Consume(handler func(msg amqp.Delivery) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	queue, err := declareQueue(c.channel, c.queue)
	if err != nil {
		return fmt.Errorf("failed to declare queue for consuming: %w", err)
	}

	msgs, err := c.channel.Consume(
		queue.Name,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			HandleDelivery(msg, handler)
		}
	}()

	return nil
}

// HandleDelivery runs handler on msg, acking on success and requeueing on failure.
func HandleDelivery(msg amqp.Delivery, handler func(msg amqp.Delivery) error) {
	if err := handler(msg); err != nil {
		logger.Error("failed to process message", slog.Uint64("delivery_tag", msg.DeliveryTag), slog.String("error", err.Error()))
		if nackErr := msg.Nack(false, true); nackErr != nil {
			logger.Error("failed to nack message", slog.Uint64("delivery_tag", msg.DeliveryTag), slog.String("error", nackErr.Error()))
		}
		return
	}
	if ackErr := msg.Ack(false); ackErr != nil {
		logger.Error("failed to ack message", slog.Uint64("delivery_tag", msg.DeliveryTag), slog.String("error", ackErr.Error()))
	}
}
