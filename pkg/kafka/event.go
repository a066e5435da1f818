package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SchemaVersion is stamped on every envelope. Bump it when a payload changes
// incompatibly.
const SchemaVersion = 1

// Event is the envelope for every message the storefront publishes. Key is
// also the partition key, so events for one session or checkout stay ordered.
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Key           string          `json:"key"`
	Source        string          `json:"source"`
	Version       int             `json:"version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent wraps data in an envelope with a fresh ID and the current time.
func NewEvent(eventType, key, source string, data any) (*Event, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return &Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Key:        key,
		Source:     source,
		Version:    SchemaVersion,
		OccurredAt: time.Now().UTC(),
		Data:       payload,
	}, nil
}

// DecodeEvent parses an envelope read back from a topic.
func DecodeEvent(raw []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	if e.ID == "" || e.Type == "" {
		return nil, fmt.Errorf("decode event: missing id or type")
	}
	return &e, nil
}

// DecodeData unmarshals the payload into target.
func (e *Event) DecodeData(target any) error {
	return json.Unmarshal(e.Data, target)
}
