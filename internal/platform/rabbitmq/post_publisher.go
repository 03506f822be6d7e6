package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"codesearch/internal/model"
)

const PostCreatedRoutingKey = "post.created"

// PostEvent is the message body published for every stored post.
type PostEvent struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	OccurredAt time.Time  `json:"occurred_at"`
	Post       model.Post `json:"post"`
}

type PostPublisher struct {
	conn     *amqp.Connection
	exchange string
}

func NewPostPublisher(conn *amqp.Connection, exchange string) *PostPublisher {
	return &PostPublisher{conn: conn, exchange: exchange}
}

func (p *PostPublisher) PublishPostCreated(ctx context.Context, post model.Post) error {
	payload, err := encodePostEvent(PostCreatedRoutingKey, post, time.Now())
	if err != nil {
		return err
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	if err := ch.PublishWithContext(
		ctx,
		p.exchange,
		PostCreatedRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	); err != nil {
		return fmt.Errorf("publish post event failed: %w", err)
	}
	return nil
}

func encodePostEvent(eventType string, post model.Post, at time.Time) ([]byte, error) {
	payload, err := json.Marshal(PostEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: at.UTC(),
		Post:       post,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal post event failed: %w", err)
	}
	return payload, nil
}
