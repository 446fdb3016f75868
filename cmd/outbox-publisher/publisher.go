package main

import (
	"context"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"

	"github.com/distributeaid/shipment-tracker/pkg/db/models"
)

const publishTimeout = 15 * time.Second

type pubSubClient interface {
	Ping(context.Context) error
	Publisher(name string) *gcppubsub.Publisher
}

type publisher interface {
	Publish(context.Context, *gcppubsub.Message) publishResult
}

type publishResult interface {
	Get(context.Context) (string, error)
}

type publisherFactory func(topic string) publisher

// pubsubPublishers hands out the client's cached per-topic publishers.
func pubsubPublishers(client pubSubClient) publisherFactory {
	return func(topic string) publisher {
		p := client.Publisher(topic)
		if p == nil {
			return nil
		}
		return topicPublisher{p}
	}
}

type topicPublisher struct {
	*gcppubsub.Publisher
}

func (p topicPublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	return p.Publisher.Publish(ctx, msg)
}

// messageFor carries the stored envelope as-is. Attributes let subscribers
// filter without decoding the body.
func messageFor(row models.OutboxEvent, eventID string) *gcppubsub.Message {
	return &gcppubsub.Message{
		Data: row.Payload,
		Attributes: map[string]string{
			"event_id":       eventID,
			"event_type":     string(row.EventType),
			"aggregate_type": string(row.AggregateType),
			"aggregate_id":   row.AggregateID.String(),
		},
	}
}

// send waits for the server ack so a row is only marked once Pub/Sub has it.
func send(ctx context.Context, pub publisher, msg *gcppubsub.Message) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	_, err := pub.Publish(ctx, msg).Get(ctx)
	return err
}
