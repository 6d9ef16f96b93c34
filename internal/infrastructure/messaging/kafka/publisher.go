package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/FastTargetPred/internal/domain/target"
	"github.com/turtacn/FastTargetPred/pkg/errors"
)

// DefaultTopic receives one event per scored molecule.
const DefaultTopic = "ftpred.predictions"

// Event types.
const (
	EventPredictionCompleted = "prediction.completed"
	EventPredictionFailed    = "prediction.failed"
)

const eventSource = "ftpred"

// EventEnvelope standardizes event messages.
type EventEnvelope struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	Source        string            `json:"source"`
	Timestamp     time.Time         `json:"timestamp"`
	SchemaVersion string            `json:"schema_version"`
	Payload       json.RawMessage   `json:"payload"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// NewEventEnvelope marshals payload into a fresh envelope.
func NewEventEnvelope(eventType, source string, payload interface{}) (*EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodePublishFailed, "failed to marshal payload")
	}
	return &EventEnvelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: "v1",
		Payload:       data,
	}, nil
}

// DecodePayload unmarshals the payload into dest.
func (e *EventEnvelope) DecodePayload(dest interface{}) error {
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return nil
	}
	return json.Unmarshal(e.Payload, dest)
}

// ToMessage wraps the envelope into a message for topic.
func (e *EventEnvelope) ToMessage(topic string, key []byte) (*Message, error) {
	val, err := json.Marshal(e)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodePublishFailed, "failed to marshal envelope")
	}
	headers := map[string]string{
		"event_type":     e.EventType,
		"source_service": e.Source,
		"schema_version": e.SchemaVersion,
	}
	for k, v := range e.Metadata {
		headers[k] = v
	}
	return &Message{Topic: topic, Key: key, Value: val, Headers: headers, Timestamp: e.Timestamp}, nil
}

// messagePublisher is the part of Producer used by PredictionPublisher.
type messagePublisher interface {
	Publish(ctx context.Context, msg *Message) error
}

// PredictionPublisher sends every prediction as an event keyed by molecule
// name.
type PredictionPublisher struct {
	producer messagePublisher
	topic    string
}

// NewPredictionPublisher publishes through producer to topic, or to
// DefaultTopic when topic is empty.
func NewPredictionPublisher(producer messagePublisher, topic string) *PredictionPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &PredictionPublisher{producer: producer, topic: topic}
}

// Publish implements prediction.Publisher.
func (p *PredictionPublisher) Publish(ctx context.Context, pred *target.Prediction) error {
	eventType := EventPredictionCompleted
	if pred.Failed() {
		eventType = EventPredictionFailed
	}
	env, err := NewEventEnvelope(eventType, eventSource, pred)
	if err != nil {
		return err
	}
	if pred.RunID != "" {
		env.Metadata = map[string]string{"run_id": pred.RunID}
	}
	msg, err := env.ToMessage(p.topic, []byte(pred.Molecule))
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, msg)
}

//Personal.AI order the ending
