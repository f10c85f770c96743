package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/b2b-quotes/api/middleware"
	"github.com/angelmondragon/b2b-quotes/api/responses"
	"github.com/angelmondragon/b2b-quotes/internal/quotes"
	pkgerrors "github.com/angelmondragon/b2b-quotes/pkg/errors"
	"github.com/angelmondragon/b2b-quotes/pkg/logger"
	"github.com/angelmondragon/b2b-quotes/pkg/pagination"
	"github.com/angelmondragon/b2b-quotes/pkg/types"
)

// SellerQuotesList returns the seller's quotes, newest first, enriched with
// organization and cost-center names. Unparseable page inputs fall back to
// the defaults.
func SellerQuotesList(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quotes service unavailable"))
			return
		}

		seller := middleware.SellerIDFromContext(r.Context())
		if seller == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "seller context missing"))
			return
		}

		query := r.URL.Query()
		result, err := svc.List(r.Context(), quotes.ListParams{
			Seller: seller,
			Filter: quotes.FilterParams{
				Search: query.Get("search"),
				Status: query.Get("status"),
			},
			Page: pagination.ParseParams(query.Get("page"), query.Get("pageSize")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.PageEnvelope[quotes.EnrichedQuote, pagination.Page]{
			Data:       result.Data,
			Pagination: result.Pagination,
		})
	}
}

// SellerQuoteDetail returns one enriched quote of the seller.
func SellerQuoteDetail(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quotes service unavailable"))
			return
		}

		seller := middleware.SellerIDFromContext(r.Context())
		if seller == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "seller context missing"))
			return
		}

		quoteID := strings.TrimSpace(chi.URLParam(r, "quoteId"))
		if quoteID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "quote id required"))
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithQuoteID(ctx, quoteID)
		}
		quote, err := svc.Get(ctx, seller, quoteID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}
