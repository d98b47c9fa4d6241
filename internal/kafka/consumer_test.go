package kafka

import (
	"context"
	"encoding/json"
	"testing"

	"instaclone-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePostEvent(t *testing.T) {
	b, err := json.Marshal(PostEvent{Post: &model.Post{ID: "p1", UserID: "u1", Time: 42}})
	require.NoError(t, err)

	post, err := decodePostEvent(b)
	require.NoError(t, err)
	assert.Equal(t, "p1", post.ID)
	assert.Equal(t, int64(42), post.Time)
}

func TestDecodePostEvent_Invalid(t *testing.T) {
	_, err := decodePostEvent([]byte(`{"post":null}`))
	assert.Error(t, err)

	_, err = decodePostEvent([]byte(`not json`))
	assert.Error(t, err)
}

func TestNewPublisher_NoBrokers(t *testing.T) {
	p := NewPublisher(nil, "post.created")
	assert.IsType(t, NopPublisher{}, p)
	assert.NoError(t, p.PublishPost(context.Background(), &model.Post{ID: "p1"}))
	assert.NoError(t, p.Close())
}
