// Package service holds outbound collaborators the handlers publish to.
// The notification sink is modelled as a single-method interface so the
// core logic is testable without a live broker.
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/railway-reservation/internal/queue"
)

// Publisher delivers one event to the notification sink. Implementations
// must not panic; publish failures are side effects the request flow may
// ignore.
type Publisher interface {
	Publish(ctx context.Context, event any) error
}

// AMQPPublisher publishes events to the train.events queue on RabbitMQ.
// A connection is dialed per publish: event volume here is a trickle
// (admin position updates and alerts) and a short-lived connection keeps
// the publisher free of reconnect state.
type AMQPPublisher struct {
	URL string
}

func NewAMQPPublisher(url string) *AMQPPublisher { return &AMQPPublisher{URL: url} }

// Publish marshals the event and sends it as a persistent message. Errors
// are logged and returned so callers can choose to ignore them.
func (p *AMQPPublisher) Publish(ctx context.Context, event any) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so events survive broker restarts.
	if _, err := ch.QueueDeclare(queue.TrainEventsQueue, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.TrainEventsQueue, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}

// NopPublisher discards events. Used when no broker is configured so the
// API keeps working without the live-update side channel.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, any) error { return nil }
