package messages

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/angelmondragon/b2b-quotes/pkg/enums"
	"github.com/angelmondragon/b2b-quotes/pkg/events"
	"github.com/angelmondragon/b2b-quotes/pkg/events/idempotency"
	"github.com/angelmondragon/b2b-quotes/pkg/logger"
)

const quoteEventsConsumer = "quote-events"

// Notifier is the fan-out surface the consumer drives.
type Notifier interface {
	QuoteCreated(ctx context.Context, event CreatedEvent) Outcome
	QuoteUpdated(ctx context.Context, event UpdatedEvent) Outcome
}

// Consumer turns quote lifecycle events from Pub/Sub into notifications.
// Delivery is best effort: once an event is claimed it is acked whatever the
// outcome of the fan-out.
type Consumer struct {
	notifier     Notifier
	subscription *pubsub.Subscriber
	idempotency  *idempotency.Manager
	validate     *validator.Validate
	logg         *logger.Logger
}

// NewConsumer builds a quote events consumer.
func NewConsumer(notifier Notifier, subscription *pubsub.Subscriber, manager *idempotency.Manager, logg *logger.Logger) (*Consumer, error) {
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("quote events subscription required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		notifier:     notifier,
		subscription: subscription,
		idempotency:  manager,
		validate:     validator.New(),
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack     bool
	nack    bool
	outcome *Outcome
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	eventType := msg.Attributes[events.AttrEventType]
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"event_type": eventType,
	})

	kind, err := enums.ParseQuoteEventType(eventType)
	if err != nil {
		c.logg.Info(logCtx, "skipping non-quote event")
		return processResult{ack: true}
	}

	var envelope events.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return processResult{ack: true}
	}

	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "invalid event id", err)
		return processResult{ack: true}
	}
	logCtx = c.logg.WithField(logCtx, "event_id", eventID.String())

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, quoteEventsConsumer, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return processResult{ack: true}
	}

	outcome, err := c.handle(logCtx, kind, envelope.Data)
	if err != nil {
		// Malformed payloads never become valid on redelivery.
		c.logg.Error(logCtx, "failed to parse payload", err)
		return processResult{ack: true}
	}
	if outcome.Kind == OutcomeFailed {
		c.logg.Error(logCtx, "quote notification failed", outcome.Err)
	}
	return processResult{ack: true, outcome: &outcome}
}

func (c *Consumer) handle(ctx context.Context, kind enums.QuoteEventType, data json.RawMessage) (Outcome, error) {
	switch kind {
	case enums.EventQuoteCreated:
		var event CreatedEvent
		if err := c.decode(data, &event); err != nil {
			return Outcome{}, err
		}
		return c.notifier.QuoteCreated(ctx, event), nil
	default:
		var event UpdatedEvent
		if err := c.decode(data, &event); err != nil {
			return Outcome{}, err
		}
		return c.notifier.QuoteUpdated(ctx, event), nil
	}
}

func (c *Consumer) decode(data json.RawMessage, dest any) error {
	if err := json.Unmarshal(data, dest); err != nil {
		return err
	}
	return c.validate.Struct(dest)
}
