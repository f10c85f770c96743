package metrics

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordSendCountsByOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMessageMetrics(reg)

	m.RecordSend(SendRecord{QuoteID: "q1", Account: "acme", Recipient: "a@acme.com", TemplateName: "quote-created"})
	m.RecordSend(SendRecord{QuoteID: "q1", Account: "acme", Recipient: "b@acme.com", TemplateName: "quote-created"})
	m.RecordSend(SendRecord{QuoteID: "q1", Account: "acme", Recipient: "c@acme.com", TemplateName: "quote-created", Err: errors.New("bounce")})

	if got := testutil.ToFloat64(m.sends.WithLabelValues("acme", "quote-created", StatusSent)); got != 2 {
		t.Fatalf("expected 2 sent, got %v", got)
	}
	if got := testutil.ToFloat64(m.sends.WithLabelValues("acme", "quote-created", StatusFailed)); got != 1 {
		t.Fatalf("expected 1 failed, got %v", got)
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *MessageMetrics
	m.RecordSend(SendRecord{})
	NewMessageMetrics(nil).RecordSend(SendRecord{})

	var h *HTTPMetrics
	h.Start()
	h.Observe("/x", http.MethodGet, http.StatusOK, time.Millisecond)
}

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := NewHTTPMetrics(reg)

	h.Start()
	if got := testutil.ToFloat64(h.inFlight); got != 1 {
		t.Fatalf("expected 1 in flight, got %v", got)
	}
	h.Observe("", http.MethodGet, http.StatusOK, 5*time.Millisecond)
	if got := testutil.ToFloat64(h.inFlight); got != 0 {
		t.Fatalf("expected 0 in flight, got %v", got)
	}
	if count := testutil.CollectAndCount(h.duration); count != 1 {
		t.Fatalf("expected one duration series, got %d", count)
	}
}
