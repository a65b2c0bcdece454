package kafka

import (
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducer(t *testing.T) {
	p := NewProducer(Config{Brokers: []string{"localhost:9092", "localhost:9093"}})
	require.NotNil(t, p)

	assert.Equal(t, []string{"localhost:9092", "localhost:9093"}, p.brokers)
	assert.Empty(t, p.writers, "writers are created lazily")
}

func TestProducerWriter(t *testing.T) {
	p := NewProducer(Config{Brokers: []string{"localhost:9092"}})

	w1 := p.writer("lms.loans")
	require.NotNil(t, w1)
	assert.Same(t, w1, p.writer("lms.loans"), "one writer per topic")

	w2 := p.writer("lms.portfolio")
	require.NotNil(t, w2)
	assert.NotSame(t, w1, w2)
	assert.Len(t, p.writers, 2)

	assert.Equal(t, kafkago.RequireAll, w1.RequiredAcks)
	assert.Equal(t, kafkago.Snappy, w1.Compression)
}

func TestProducerClose(t *testing.T) {
	p := NewProducer(Config{Brokers: []string{"localhost:9092"}})
	_ = p.writer("lms.loans")
	_ = p.writer("lms.portfolio")

	require.NoError(t, p.Close())
	assert.Empty(t, p.writers)
}

func TestMessageConstruction(t *testing.T) {
	msg := Message{
		Key:   []byte("loan-123"),
		Value: []byte(`{"amount":100}`),
		Headers: map[string]string{
			"event_type": "lms.loan.payment_processed",
			"tenant_id":  "org-1",
		},
	}

	assert.Equal(t, "loan-123", string(msg.Key))
	assert.Len(t, msg.Headers, 2)
	assert.Equal(t, "org-1", msg.Headers["tenant_id"])
}
