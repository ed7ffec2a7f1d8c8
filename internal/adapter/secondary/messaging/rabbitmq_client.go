package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/payfuse/payment-gateway/internal/port/output"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	ExchangeName  = "webhooks"
	QueueName     = "webhook_delivery"
	RoutingKey    = "payment.event"
	PrefetchCount = 1 // Deliver one job at a time per worker
)

// RabbitMQClient is a secondary adapter that implements the WebhookMessaging
// output port. The queue carries delivery jobs from the webhook processor to
// the delivery worker.
type RabbitMQClient struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *zap.Logger
}

// NewRabbitMQClient creates a new RabbitMQ client (returns interface for ports)
func NewRabbitMQClient(amqpURL string, logger *zap.Logger) (output.WebhookMessaging, error) {
	return NewRabbitMQClientConcrete(amqpURL, logger)
}

// NewRabbitMQClientConcrete creates a new RabbitMQ client (returns concrete type for workers)
func NewRabbitMQClientConcrete(amqpURL string, logger *zap.Logger) (*RabbitMQClient, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// Declare exchange
	err = channel.ExchangeDeclare(
		ExchangeName,
		"direct",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	// Declare queue
	_, err = channel.QueueDeclare(
		QueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	// Bind queue to exchange
	err = channel.QueueBind(
		QueueName,
		RoutingKey,
		ExchangeName,
		false,
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	return &RabbitMQClient{
		conn:    conn,
		channel: channel,
		logger:  logger,
	}, nil
}

// PublishDelivery enqueues a webhook delivery job
func (c *RabbitMQClient) PublishDelivery(ctx context.Context, job output.DeliveryJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal delivery job: %w", err)
	}

	err = c.channel.PublishWithContext(
		ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent, // Survive broker restarts
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish delivery job: %w", err)
	}

	c.logger.Info("published delivery job",
		zap.String("payment_id", job.PaymentID.String()),
		zap.String("event", job.Event.Event))
	return nil
}

// ConsumeDeliveries starts consuming delivery jobs
func (c *RabbitMQClient) ConsumeDeliveries(handler func(output.DeliveryJob) error) error {
	// Set QoS to process one job at a time
	err := c.channel.Qos(
		PrefetchCount,
		0,     // prefetch size
		false, // global
	)
	if err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := c.channel.Consume(
		QueueName,
		"",    // consumer tag
		false, // auto-ack (we ack after processing)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("started consuming delivery jobs")

	go func() {
		for msg := range msgs {
			var job output.DeliveryJob
			if err := json.Unmarshal(msg.Body, &job); err != nil {
				c.logger.Error("failed to unmarshal delivery job", zap.Error(err))
				// A job that never parses will never parse; drop it.
				msg.Ack(false)
				continue
			}

			if err := handler(job); err != nil {
				c.logger.Error("failed to process delivery job",
					zap.String("payment_id", job.PaymentID.String()),
					zap.Error(err))
				msg.Nack(false, true) // Requeue for retry
				continue
			}

			msg.Ack(false)
			c.logger.Info("delivery job processed",
				zap.String("payment_id", job.PaymentID.String()))
		}
	}()

	return nil
}

// Close closes the RabbitMQ connection
func (c *RabbitMQClient) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
