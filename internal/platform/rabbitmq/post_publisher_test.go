package rabbitmq

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codesearch/internal/model"
)

func TestEncodePostEvent(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	payload, err := encodePostEvent(PostCreatedRoutingKey, model.Post{"title": "hello", "views": 3}, at)
	require.NoError(t, err)

	var event PostEvent
	require.NoError(t, json.Unmarshal(payload, &event))
	_, err = uuid.Parse(event.ID)
	assert.NoError(t, err)
	assert.Equal(t, "post.created", event.Type)
	assert.True(t, event.OccurredAt.Equal(at))
	assert.Equal(t, "hello", event.Post["title"])
	assert.Equal(t, float64(3), event.Post["views"])
}

func TestEncodePostEventRejectsUnencodableValues(t *testing.T) {
	_, err := encodePostEvent(PostCreatedRoutingKey, model.Post{"ch": make(chan int)}, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "marshal post event failed")
}
