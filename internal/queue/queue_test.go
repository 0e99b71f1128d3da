package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/attributely-go/internal/models"
)

func TestNewWithoutURL(t *testing.T) {
	p, err := New("")
	require.NoError(t, err)
	assert.IsType(t, NopPublisher{}, p)
	assert.NoError(t, p.Publish(context.Background(), models.TrackingEvent{}))
	assert.NoError(t, p.Close())
}

func TestNewBadURL(t *testing.T) {
	_, err := New("http://not-redis")
	assert.Error(t, err)
}

func TestPublishUnreachable(t *testing.T) {
	p, err := NewRedisPublisher("redis://127.0.0.1:1/0")
	require.NoError(t, err)
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err = p.Publish(ctx, models.TrackingEvent{EventID: "e-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "e-1")
}

// requiere un Redis local; se salta si no hay conexión.
func TestPublishIntegration(t *testing.T) {
	p, err := NewRedisPublisher("redis://localhost:6379/15")
	require.NoError(t, err)
	defer p.Close()
	ctx := context.Background()
	if err := p.Ping(ctx); err != nil {
		t.Skip("Skipping Redis integration test: redis not available")
	}
	p.key = "events_queue_test"
	defer p.rdb.Del(ctx, p.key)

	require.NoError(t, p.Publish(ctx, models.TrackingEvent{EventID: "e-2", EventType: "click"}))

	raw, err := p.rdb.LIndex(ctx, p.key, 0).Result()
	require.NoError(t, err)
	var got models.TrackingEvent
	require.NoError(t, json.Unmarshal([]byte(raw), &got))
	assert.Equal(t, "e-2", got.EventID)

	ttl, err := p.rdb.TTL(ctx, p.key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 23*time.Hour)
}
