// Package events holds the wire shape shared by quote lifecycle publishers
// and the quote events worker.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/b2b-quotes/pkg/enums"
)

// EnvelopeVersion is the current payload envelope version.
const EnvelopeVersion = 1

// AttrEventType is the Pub/Sub attribute carrying the event type.
const AttrEventType = "event_type"

// PayloadEnvelope is the stable structure published for each quote event.
type PayloadEnvelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Account    string          `json:"account,omitempty"`
	Data       json.RawMessage `json:"data"`
}

// NewEnvelope wraps data for the given time with a fresh event id.
func NewEnvelope(data any, occurredAt time.Time) (PayloadEnvelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return PayloadEnvelope{}, err
	}
	return PayloadEnvelope{
		Version:    EnvelopeVersion,
		EventID:    uuid.NewString(),
		OccurredAt: occurredAt.UTC(),
		Data:       raw,
	}, nil
}

// Attributes returns the message attributes published alongside the envelope.
func Attributes(eventType enums.QuoteEventType) map[string]string {
	return map[string]string{AttrEventType: string(eventType)}
}
