package enums

import "fmt"

// QuoteStatus represents the lifecycle states a seller quote can be in.
type QuoteStatus string

const (
	QuoteStatusPending  QuoteStatus = "pending"
	QuoteStatusRevised  QuoteStatus = "revised"
	QuoteStatusReady    QuoteStatus = "ready"
	QuoteStatusPlaced   QuoteStatus = "placed"
	QuoteStatusDeclined QuoteStatus = "declined"
	QuoteStatusExpired  QuoteStatus = "expired"
)

var validQuoteStatuses = []QuoteStatus{
	QuoteStatusPending,
	QuoteStatusRevised,
	QuoteStatusReady,
	QuoteStatusPlaced,
	QuoteStatusDeclined,
	QuoteStatusExpired,
}

// String implements fmt.Stringer.
func (s QuoteStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known QuoteStatus.
func (s QuoteStatus) IsValid() bool {
	for _, candidate := range validQuoteStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseQuoteStatus converts raw input into a QuoteStatus.
func ParseQuoteStatus(value string) (QuoteStatus, error) {
	for _, candidate := range validQuoteStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid quote status %q", value)
}
