package outbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEvent struct {
	Name string    `json:"name"`
	At   time.Time `json:"at"`
}

func (e *stubEvent) EventType() string     { return "inventory.stock.reserved" }
func (e *stubEvent) OccurredAt() time.Time { return e.At }

func TestNewOutboxEvent(t *testing.T) {
	occurred := time.Now().UTC().Add(-time.Minute)
	event, err := NewOutboxEvent("agg-1", "InventoryRecord", "inventory.events", &stubEvent{Name: "x", At: occurred})
	require.NoError(t, err)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "agg-1", event.AggregateID)
	assert.Equal(t, "InventoryRecord", event.AggregateType)
	assert.Equal(t, "inventory.stock.reserved", event.EventType)
	assert.Equal(t, "inventory.events", event.Topic)
	assert.JSONEq(t, `{"name":"x","at":"`+occurred.Format(time.RFC3339Nano)+`"}`, string(event.Payload))
	assert.True(t, event.OccurredAt.Equal(occurred))
	assert.Equal(t, DefaultMaxRetries, event.MaxRetries)
	assert.False(t, event.IsPublished())
	assert.True(t, event.ShouldRetry())
}

func TestOutboxEventRetryLifecycle(t *testing.T) {
	event, err := NewOutboxEvent("agg-1", "InventoryRecord", "inventory.events", &stubEvent{At: time.Now()})
	require.NoError(t, err)

	event.RetryCount = event.MaxRetries
	assert.False(t, event.ShouldRetry())

	event.RetryCount = 0
	now := time.Now()
	event.PublishedAt = &now
	assert.True(t, event.IsPublished())
	assert.False(t, event.ShouldRetry())
}
