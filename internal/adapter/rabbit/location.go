package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fieldworks/fleet-tracking/internal/domain/models"
	"github.com/fieldworks/fleet-tracking/internal/domain/types"
	wrap "github.com/fieldworks/fleet-tracking/pkg/logger/wrapper"
	"github.com/fieldworks/fleet-tracking/pkg/rabbit"
	"github.com/rabbitmq/amqp091-go"
)

// LocationExchange is the fanout exchange carrying newly ingested GPS fixes
// for live dispatch consumers.
const LocationExchange = "location_fanout"

type LocationBroker struct {
	client *rabbit.RabbitMQ
}

func NewLocationBroker(client *rabbit.RabbitMQ) (*LocationBroker, error) {
	if err := client.Channel.ExchangeDeclare(
		LocationExchange,
		"fanout",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("failed to declare exchange %s: %w", LocationExchange, err)
	}

	return &LocationBroker{client: client}, nil
}

// PublishLocation fans out a live location update. Callers treat failures as
// best-effort: a fix that was persisted but not broadcast is still correct.
func (b *LocationBroker) PublishLocation(ctx context.Context, msg models.LiveLocationUpdate) error {
	const op = "LocationBroker.PublishLocation"

	body, err := json.Marshal(msg)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: failed to marshal message: %w", op, err))
	}

	if err := b.client.Channel.PublishWithContext(
		ctx,
		LocationExchange,
		"",    // routing key ignored by fanout
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now(),
		},
	); err != nil {
		ctx = wrap.WithAction(ctx, types.ActionLocationPublished)
		return wrap.Error(ctx, fmt.Errorf("%s: failed to publish: %w", op, err))
	}

	return nil
}

// ConsumeLocations binds an exclusive queue to the fanout exchange and feeds
// every update to handler until the delivery channel closes.
func (b *LocationBroker) ConsumeLocations(ctx context.Context, handler func(context.Context, models.LiveLocationUpdate)) error {
	const op = "LocationBroker.ConsumeLocations"

	q, err := b.client.Channel.QueueDeclare(
		"",    // server-named
		false, // durable
		true,  // auto-delete
		true,  // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: failed to declare queue: %w", op, err))
	}

	if err := b.client.Channel.QueueBind(q.Name, "", LocationExchange, false, nil); err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: failed to bind queue: %w", op, err))
	}

	msgs, err := b.client.Channel.Consume(
		q.Name,
		"",
		true,  // auto-ack
		false, // exclusive
		false,
		false,
		nil,
	)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: failed to register consumer: %w", op, err))
	}

	go func() {
		ctx := wrap.WithAction(ctx, types.ActionLocationConsumed)
		for d := range msgs {
			var msg models.LiveLocationUpdate
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				continue
			}
			handler(ctx, msg)
		}
	}()

	return nil
}
