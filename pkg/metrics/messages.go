package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Send statuses used as the status label.
const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// SendRecord describes one mail send attempt for a quote notification.
type SendRecord struct {
	QuoteID      string
	Account      string
	Recipient    string
	TemplateName string
	Err          error
}

// MessageMetrics records quote notification deliveries.
type MessageMetrics struct {
	sends *prometheus.CounterVec
}

// NewMessageMetrics registers the message metrics on the provided registerer.
func NewMessageMetrics(reg prometheus.Registerer) *MessageMetrics {
	if reg == nil {
		return &MessageMetrics{}
	}
	sends := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_message_sends_total",
		Help: "Quote notification mail sends by account, template and outcome.",
	}, []string{"account", "template", "status"})
	reg.MustRegister(sends)
	return &MessageMetrics{sends: sends}
}

// RecordSend counts one send. Recipients stay on the log line, not in labels.
func (m *MessageMetrics) RecordSend(rec SendRecord) {
	if m == nil || m.sends == nil {
		return
	}
	status := StatusSent
	if rec.Err != nil {
		status = StatusFailed
	}
	m.sends.WithLabelValues(normalizeLabel(rec.Account), normalizeLabel(rec.TemplateName), status).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
