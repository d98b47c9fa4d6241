package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"instaclone-backend/internal/model"
	"instaclone-backend/internal/util"

	kgo "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// PostHandler handles one decoded post event.
type PostHandler func(ctx context.Context, post *model.Post) error

// StartConsumer reads post events until ctx is cancelled. A cancelled
// context ends the loop with a nil error.
func StartConsumer(ctx context.Context, brokers []string, topic, groupID string, handle PostHandler) error {
	r := kgo.NewReader(kgo.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  2 * time.Second,
	})
	defer r.Close()

	util.Logger.Info("kafka consumer started", zap.String("group", groupID), zap.String("topic", topic))

	for {
		m, err := r.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			return err
		}
		post, err := decodePostEvent(m.Value)
		if err != nil {
			util.Logger.Warn("kafka: bad payload", zap.Error(err), zap.Int64("offset", m.Offset))
			continue
		}
		if err := handle(ctx, post); err != nil {
			util.Logger.Error("handle post event", zap.Error(err), zap.String("post_id", post.ID))
		}
	}
}

func decodePostEvent(b []byte) (*model.Post, error) {
	var ev PostEvent
	if err := json.Unmarshal(b, &ev); err != nil {
		return nil, err
	}
	if ev.Post == nil || ev.Post.ID == "" {
		return nil, errors.New("post event without post")
	}
	return ev.Post, nil
}
