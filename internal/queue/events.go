package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the mail stream
const (
	EventResetRequested = "reset_requested"
)

// Stream names
const (
	StreamMail = "stream:mail"
)

// Consumer group name for mail workers
const (
	ConsumerGroupMail = "mail_workers"
)

// MailEvent represents an event published to the mail stream. Delivery is
// best-effort: the request that produced the event has already succeeded.
type MailEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix timestamp when event occurred

	// Reset-password event
	Email      string `json:"email,omitempty"`
	ResetToken string `json:"reset_token,omitempty"`
}

// NewResetRequestedEvent creates an event for a password-reset request.
// The worker renders and sends the reset mail.
func NewResetRequestedEvent(email, resetToken string) MailEvent {
	return MailEvent{
		Type:       EventResetRequested,
		Timestamp:  time.Now().Unix(),
		Email:      email,
		ResetToken: resetToken,
	}
}

// ToMap converts the event to a map for Redis XADD.
// Redis Streams store field-value pairs, so we serialize to JSON in a "data" field.
func (e MailEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseMailEvent parses a MailEvent from Redis stream message values.
func ParseMailEvent(values map[string]interface{}) (MailEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return MailEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event MailEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return MailEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
