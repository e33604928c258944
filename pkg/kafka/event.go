package kafka

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Header keys set on every published message.
const (
	HeaderEventType     = "event_type"
	HeaderSource        = "source"
	HeaderCorrelationID = "correlation_id"
)

// schemaVersion is bumped when the envelope layout changes.
const schemaVersion = 1

// Aggregate identifies the entity an event describes. Its ID is the message
// key, so all events of one aggregate land on the same partition in order.
type Aggregate struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Event is the envelope every storefront message is published in.
type Event struct {
	ID            string          `json:"event_id"`
	Type          string          `json:"event_type"`
	Aggregate     Aggregate       `json:"aggregate"`
	Version       int             `json:"version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Source        string          `json:"source"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent wraps data in an envelope with a fresh ID and the current UTC time.
func NewEvent(eventType string, agg Aggregate, source string, data any) (*Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	e := &Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		Aggregate:  agg,
		Version:    schemaVersion,
		OccurredAt: time.Now().UTC(),
		Source:     source,
		Data:       raw,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// WithCorrelationID sets the correlation ID and returns e.
func (e *Event) WithCorrelationID(id string) *Event {
	e.CorrelationID = id
	return e
}

// Validate reports a missing type, aggregate or source.
func (e *Event) Validate() error {
	var errs []error
	if e.Type == "" {
		errs = append(errs, errors.New("event type is empty"))
	}
	if e.Aggregate.ID == "" || e.Aggregate.Type == "" {
		errs = append(errs, errors.New("aggregate is incomplete"))
	}
	if e.Source == "" {
		errs = append(errs, errors.New("source is empty"))
	}
	return errors.Join(errs...)
}

// Message builds the Kafka message for topic.
func (e *Event) Message(topic string) (kafka.Message, error) {
	value, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode event %s: %w", e.ID, err)
	}
	headers := []kafka.Header{
		{Key: HeaderEventType, Value: []byte(e.Type)},
		{Key: HeaderSource, Value: []byte(e.Source)},
	}
	if e.CorrelationID != "" {
		headers = append(headers, kafka.Header{Key: HeaderCorrelationID, Value: []byte(e.CorrelationID)})
	}
	return kafka.Message{
		Topic:   topic,
		Key:     []byte(e.Aggregate.ID),
		Value:   value,
		Headers: headers,
		Time:    e.OccurredAt,
	}, nil
}

// DecodeEvent parses a message value back into an envelope.
func DecodeEvent(value []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(value, &e); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	return &e, nil
}

// DecodeData parses the payload into target.
func (e *Event) DecodeData(target any) error {
	return json.Unmarshal(e.Data, target)
}
