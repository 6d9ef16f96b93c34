package kafka

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/FastTargetPred/internal/testutil"
	"github.com/turtacn/FastTargetPred/pkg/errors"
)

// mockKafkaWriter records written messages.
type mockKafkaWriter struct {
	mu        sync.Mutex
	written   []kafka.Message
	writeErr  error
	closeErr  error
	closeCall int
}

func (m *mockKafkaWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.written = append(m.written, msgs...)
	return nil
}

func (m *mockKafkaWriter) Close() error {
	m.closeCall++
	return m.closeErr
}

func newTestProducerConfig() ProducerConfig {
	return ProducerConfig{
		Brokers: []string{"localhost:9092"},
		Topic:   "t",
	}
}

func newTestProducer(w WriterInterface) *Producer {
	return NewProducerWithWriter(w, newTestProducerConfig(), testutil.NewMockLogger())
}

func TestValidateProducerConfig(t *testing.T) {
	assert.NoError(t, ValidateProducerConfig(newTestProducerConfig()))

	cfg := newTestProducerConfig()
	cfg.Brokers = nil
	assert.True(t, errors.IsCode(ValidateProducerConfig(cfg), errors.CodeConfigInvalid))

	cfg = newTestProducerConfig()
	cfg.Topic = ""
	assert.Error(t, ValidateProducerConfig(cfg))

	cfg = newTestProducerConfig()
	cfg.MaxRetries = -1
	assert.Error(t, ValidateProducerConfig(cfg))
}

func TestNewProducer_RejectsUnknownSASL(t *testing.T) {
	cfg := newTestProducerConfig()
	cfg.SASLEnabled = true
	cfg.SASLMechanism = "GSSAPI"
	_, err := NewProducer(cfg, testutil.NewMockLogger())
	assert.True(t, errors.IsCode(err, errors.CodeConfigInvalid))
}

func TestPublish_Success(t *testing.T) {
	w := &mockKafkaWriter{}
	p := newTestProducer(w)

	err := p.Publish(context.Background(), &Message{
		Topic:   "t",
		Key:     []byte("k"),
		Value:   []byte("v"),
		Headers: map[string]string{"h": "1"},
	})
	require.NoError(t, err)
	require.Len(t, w.written, 1)
	assert.Equal(t, "t", w.written[0].Topic)
	assert.Equal(t, []byte("k"), w.written[0].Key)
	assert.Equal(t, []kafka.Header{{Key: "h", Value: []byte("1")}}, w.written[0].Headers)
	assert.False(t, w.written[0].Time.IsZero())
	assert.Equal(t, int64(1), p.Sent())
}

func TestPublish_Validation(t *testing.T) {
	p := newTestProducer(&mockKafkaWriter{})
	ctx := context.Background()

	assert.Error(t, p.Publish(ctx, &Message{Value: []byte("v")}))
	assert.Error(t, p.Publish(ctx, &Message{Topic: "t"}))
	big := []byte(strings.Repeat("x", 1024*1024+1))
	assert.Error(t, p.Publish(ctx, &Message{Topic: "t", Value: big}))
}

func TestPublish_WriterError(t *testing.T) {
	w := &mockKafkaWriter{writeErr: assert.AnError}
	p := newTestProducer(w)

	err := p.Publish(context.Background(), &Message{Topic: "t", Value: []byte("v")})
	assert.ErrorIs(t, err, ErrPublishFailed)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Zero(t, p.Sent())
}

func TestClose_Idempotent(t *testing.T) {
	w := &mockKafkaWriter{}
	p := newTestProducer(w)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.Equal(t, 1, w.closeCall)
	assert.ErrorIs(t, p.Publish(context.Background(), &Message{Topic: "t", Value: []byte("v")}), ErrProducerClosed)
}

//Personal.AI order the ending
