package enums

import "fmt"

// QuoteEventType identifies quote lifecycle events carried on the quote events topic.
type QuoteEventType string

const (
	EventQuoteCreated QuoteEventType = "quote_created"
	EventQuoteUpdated QuoteEventType = "quote_updated"
)

var validQuoteEventTypes = []QuoteEventType{
	EventQuoteCreated,
	EventQuoteUpdated,
}

// IsValid reports whether the value is a known QuoteEventType.
func (e QuoteEventType) IsValid() bool {
	for _, candidate := range validQuoteEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseQuoteEventType converts raw input into a QuoteEventType.
func ParseQuoteEventType(value string) (QuoteEventType, error) {
	for _, candidate := range validQuoteEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid quote event type %q", value)
}
