// Package kafka carries post.created events from publishers to the feed
// fan-out consumer.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"instaclone-backend/internal/model"

	kgo "github.com/segmentio/kafka-go"
)

// PostEvent is the payload published when a post is created.
type PostEvent struct {
	Post *model.Post `json:"post"`
}

// Publisher sends post events.
type Publisher interface {
	PublishPost(ctx context.Context, post *model.Post) error
	Close() error
}

type writer struct {
	w *kgo.Writer
}

// NewPublisher returns a publisher writing to topic on brokers, or a no-op
// publisher when no broker is configured.
func NewPublisher(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		return NopPublisher{}
	}
	return &writer{w: &kgo.Writer{
		Addr:         kgo.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kgo.Hash{},
		RequiredAcks: kgo.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}}
}

func (wr *writer) PublishPost(ctx context.Context, post *model.Post) error {
	b, err := json.Marshal(PostEvent{Post: post})
	if err != nil {
		return err
	}
	// Keyed by author so one author's posts stay ordered within a partition.
	return wr.w.WriteMessages(ctx, kgo.Message{
		Key:   []byte(post.UserID),
		Value: b,
		Time:  time.Now(),
	})
}

func (wr *writer) Close() error { return wr.w.Close() }

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) PublishPost(context.Context, *model.Post) error { return nil }
func (NopPublisher) Close() error                                   { return nil }
