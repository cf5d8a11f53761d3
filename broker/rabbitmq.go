package broker

import (
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Broker wraps one AMQP connection with a single channel shared,
// subscribe-only, by every queue consumer.
type Broker struct {
	conn    *amqp.Connection
	Channel *amqp.Channel
}

// Connect dials the broker, retrying while it comes up.
func Connect(logger *zap.Logger, amqpURL string) (*Broker, error) {
	var conn *amqp.Connection
	var err error

	for i := 0; i < 10; i++ {
		conn, err = amqp.Dial(amqpURL)
		if err == nil {
			break
		}
		logger.Warn("AMQP connection failed, retrying",
			zap.Int("attempt", i+1),
			zap.Error(err),
		)
		time.Sleep(time.Duration(i+1) * 2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to AMQP broker after retries: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open AMQP channel: %w", err)
	}

	logger.Info("Connected to AMQP broker")
	return &Broker{conn: conn, Channel: ch}, nil
}

// DeclareQueues asserts each queue as durable.
func (b *Broker) DeclareQueues(names ...string) error {
	for _, name := range names {
		if _, err := b.Channel.QueueDeclare(
			name,
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			nil,
		); err != nil {
			return fmt.Errorf("declare queue %s: %w", name, err)
		}
	}
	return nil
}

func (b *Broker) Close() error {
	if b.Channel != nil {
		if err := b.Channel.Close(); err != nil {
			return fmt.Errorf("close AMQP channel: %w", err)
		}
	}
	if b.conn != nil {
		if err := b.conn.Close(); err != nil {
			return fmt.Errorf("close AMQP connection: %w", err)
		}
	}
	return nil
}
