package enums

import "testing"

func TestParseQuoteStatus(t *testing.T) {
	status, err := ParseQuoteStatus("ready")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != QuoteStatusReady || !status.IsValid() {
		t.Fatalf("unexpected status %q", status)
	}
	if _, err := ParseQuoteStatus("READY"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestParseQuoteEventType(t *testing.T) {
	evt, err := ParseQuoteEventType("quote_updated")
	if err != nil || evt != EventQuoteUpdated {
		t.Fatalf("unexpected parse result %q %v", evt, err)
	}
	if QuoteEventType("quote_deleted").IsValid() {
		t.Fatal("expected unknown event type to be invalid")
	}
}
