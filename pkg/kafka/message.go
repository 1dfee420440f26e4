package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Message is a producible event with metadata headers.
type Message struct {
	Key       string            // Partition key (e.g. booking id, student id)
	Value     []byte            // JSON-encoded payload
	Headers   map[string]string // Message headers
	Timestamp time.Time
}

// Header keys carried on every event
const (
	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
	HeaderSource    = "source"
	HeaderTimestamp = "timestamp"
)

// NewEvent builds a message for the given event type with a JSON payload.
// Marshal failures surface when the message is published.
func NewEvent(eventType, key string, payload any) Message {
	value, _ := json.Marshal(payload)
	now := time.Now()
	return Message{
		Key:       key,
		Value:     value,
		Timestamp: now,
		Headers: map[string]string{
			HeaderEventID:   uuid.NewString(),
			HeaderEventType: eventType,
			HeaderTimestamp: now.Format(time.RFC3339),
		},
	}
}

// DecodeValue decodes the message value into the provided struct
func (m *Message) DecodeValue(v any) error {
	return json.Unmarshal(m.Value, v)
}

// GetHeader retrieves a header value
func (m *Message) GetHeader(key string) (string, bool) {
	value, exists := m.Headers[key]
	return value, exists
}
