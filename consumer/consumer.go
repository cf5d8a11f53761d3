package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/Airlectric/E-commerce-notifications-microservice/models"
	"github.com/Airlectric/E-commerce-notifications-microservice/services"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ErrDecode reports a malformed message body. The message is rejected
// without requeue, like any other handler failure.
var ErrDecode = errors.New("malformed event payload")

// Subscriber is the part of *amqp.Channel the consumer uses; it keeps
// the delivery plumbing testable.
type Subscriber interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// Consumer runs one consume loop per queue over a shared channel. Each
// delivery is processed in its own goroutine: messages on the same
// queue are not serialized and acknowledgments complete in any order.
type Consumer struct {
	ch     Subscriber
	router *services.Router
	logger *zap.Logger

	// sem bounds in-flight deliveries across all queues; nil means
	// unbounded, matching the original broker-driven behavior.
	sem chan struct{}
	wg  sync.WaitGroup
}

func New(ch Subscriber, router *services.Router, logger *zap.Logger, maxInFlight int) *Consumer {
	c := &Consumer{
		ch:     ch,
		router: router,
		logger: logger,
	}
	if maxInFlight > 0 {
		c.sem = make(chan struct{}, maxInFlight)
	}
	return c
}

// Start subscribes to every routed queue. It returns once all
// subscriptions are registered; processing continues until ctx is
// cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	for _, queue := range c.router.Queues() {
		deliveries, err := c.ch.Consume(queue, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("consume %s: %w", queue, err)
		}
		c.logger.Info("consumer started", zap.String("queue", queue))

		c.wg.Add(1)
		go c.consumeLoop(ctx, queue, deliveries)
	}
	return nil
}

// Wait blocks until every loop and in-flight delivery has finished.
func (c *Consumer) Wait() {
	c.wg.Wait()
}

func (c *Consumer) consumeLoop(ctx context.Context, queue string, deliveries <-chan amqp.Delivery) {
	defer c.wg.Done()
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("consumer shutting down", zap.String("queue", queue))
			return
		case delivery, ok := <-deliveries:
			if !ok {
				c.logger.Warn("delivery channel closed", zap.String("queue", queue))
				return
			}
			if c.sem != nil {
				c.sem <- struct{}{}
			}
			c.wg.Add(1)
			go func() {
				defer c.wg.Done()
				if c.sem != nil {
					defer func() { <-c.sem }()
				}
				c.handleDelivery(ctx, queue, delivery)
			}()
		}
	}
}

// handleDelivery owns the per-message ack/nack envelope: ack on handler
// success, reject without requeue on any failure. A failed message is
// logged and dropped, never retried.
func (c *Consumer) handleDelivery(ctx context.Context, queue string, delivery amqp.Delivery) {
	deliveryID := uuid.NewString()
	c.logger.Info("message received",
		zap.String("queue", queue),
		zap.String("delivery_id", deliveryID),
	)

	if err := c.process(ctx, queue, delivery.Body); err != nil {
		c.logger.Error("event processing failed, dropping message",
			zap.String("queue", queue),
			zap.String("delivery_id", deliveryID),
			zap.Error(err),
		)
		if nackErr := delivery.Nack(false, false); nackErr != nil {
			c.logger.Error("nack failed", zap.String("queue", queue), zap.Error(nackErr))
		}
		return
	}

	if ackErr := delivery.Ack(false); ackErr != nil {
		c.logger.Error("ack failed", zap.String("queue", queue), zap.Error(ackErr))
	}
}

func (c *Consumer) process(ctx context.Context, queue string, body []byte) (err error) {
	// A panicking handler must not take down the other loops.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()

	var event models.Event
	if jsonErr := json.Unmarshal(body, &event); jsonErr != nil {
		return fmt.Errorf("%w: %v", ErrDecode, jsonErr)
	}
	return c.router.Dispatch(ctx, queue, &event)
}
