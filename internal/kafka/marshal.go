package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ariefcatur/go-kasir/internal/events"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// NewEnvelope wraps payload in a v1 envelope.
func NewEnvelope(eventType, producer, correlationID, traceID string, payload any) (events.Envelope, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return events.Envelope{}, fmt.Errorf("encode payload: %w", err)
	}
	return events.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		TraceID:       traceID,
		CorrelationID: correlationID,
		Payload:       b,
	}, nil
}

// PublishEnvelope encodes env and queues it keyed by its correlation id.
func (p *Producer) PublishEnvelope(env events.Envelope) error {
	b, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	p.Publish(events.PartitionKey(env.CorrelationID), b,
		kafka.Header{Key: "x-event-type", Value: []byte(env.EventType)},
		kafka.Header{Key: "x-event-version", Value: []byte(fmt.Sprint(env.EventVersion))},
	)
	return nil
}

// UnwrapPayload memudahkan decode payload spesifik
func UnwrapPayload[T any](payload json.RawMessage) (T, error) {
	var t T
	if err := json.Unmarshal(payload, &t); err != nil {
		return t, fmt.Errorf("decode payload: %w", err)
	}
	return t, nil
}
