package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"ozon-orders/internal/features/orders/domain"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWriter records written messages.
type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	pub := &KafkaPublisher{writer: w}
	order := testOrder(t)

	require.NoError(t, pub.Publish(context.Background(), order))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, "05708065-0029-1", string(msg.Key))
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "profile_id", msg.Headers[0].Key)
	assert.Equal(t, testProfile, string(msg.Headers[0].Value))

	var event map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, testProfile, event["profile_id"])
	assert.Equal(t, "05708065-0029-1", event["posting_number"])
	assert.Equal(t, "awaiting_packaging", event["status"])
	assert.Equal(t, "2024-06-01T09:51:13Z", event["in_process_at"])
	assert.Equal(t, float64(680420041), event["order_id"])

	posting, err := json.Marshal(event["posting"])
	require.NoError(t, err)
	assert.JSONEq(t, string(order.Posting.Raw), string(posting))

	require.NoError(t, pub.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_PublishError(t *testing.T) {
	pub := &KafkaPublisher{writer: &fakeWriter{err: errors.New("leader not available")}}

	err := pub.Publish(context.Background(), testOrder(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish posting 05708065-0029-1")
}

func TestBuildMessage_Minimal(t *testing.T) {
	p, err := domain.ParsePosting(json.RawMessage(`{"posting_number":"1-1"}`))
	require.NoError(t, err)

	msg, err := buildMessage(domain.NewOrder{Posting: p, Profile: testProfile})
	require.NoError(t, err)

	var event map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.NotContains(t, event, "in_process_at")
	assert.NotContains(t, event, "order_id")
}

func TestNewKafkaPublisher(t *testing.T) {
	pub := NewKafkaPublisher([]string{"localhost:9092"}, "ozon.orders.new")

	w, ok := pub.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "ozon.orders.new", w.Topic)
	assert.NotNil(t, w.Addr)
}
