package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/b2b-quotes/api/middleware"
	"github.com/angelmondragon/b2b-quotes/api/responses"
	"github.com/angelmondragon/b2b-quotes/api/validators"
	"github.com/angelmondragon/b2b-quotes/internal/messages"
	pkgerrors "github.com/angelmondragon/b2b-quotes/pkg/errors"
	"github.com/angelmondragon/b2b-quotes/pkg/logger"
)

// QuoteNotifier is the notification surface behind the event hooks.
type QuoteNotifier interface {
	QuoteCreated(ctx context.Context, event messages.CreatedEvent) messages.Outcome
	QuoteUpdated(ctx context.Context, event messages.UpdatedEvent) messages.Outcome
}

type outcomeResponse struct {
	Outcome   messages.OutcomeKind `json:"outcome"`
	Sent      int                  `json:"sent"`
	Delivered int                  `json:"delivered"`
	Reason    string               `json:"reason,omitempty"`
}

// QuoteCreatedHook notifies the organization's sales admins about a new quote.
// The hook is fire-and-forget: any well-formed event gets a 202 carrying the
// outcome for observability.
func QuoteCreatedHook(svc QuoteNotifier, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notification service unavailable"))
			return
		}

		var event messages.CreatedEvent
		if err := validators.DecodeJSONBody(r, &event); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		event.RootPath = r.Header.Get(middleware.RootPathHeader)

		writeOutcome(w, svc.QuoteCreated(r.Context(), event))
	}
}

// QuoteUpdatedHook notifies the listed users about a quote change.
func QuoteUpdatedHook(svc QuoteNotifier, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notification service unavailable"))
			return
		}

		var event messages.UpdatedEvent
		if err := validators.DecodeJSONBody(r, &event); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		event.RootPath = r.Header.Get(middleware.RootPathHeader)

		writeOutcome(w, svc.QuoteUpdated(r.Context(), event))
	}
}

func writeOutcome(w http.ResponseWriter, outcome messages.Outcome) {
	responses.WriteSuccessStatus(w, http.StatusAccepted, outcomeResponse{
		Outcome:   outcome.Kind,
		Sent:      outcome.Sent,
		Delivered: outcome.Delivered,
		Reason:    outcome.Reason,
	})
}
