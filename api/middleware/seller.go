package middleware

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/b2b-quotes/api/responses"
	pkgerrors "github.com/angelmondragon/b2b-quotes/pkg/errors"
	"github.com/angelmondragon/b2b-quotes/pkg/logger"
)

const (
	// SellerHeader carries the seller scope set by the upstream gateway.
	SellerHeader = "X-Seller-Id"
	// RootPathHeader carries the storefront root path used in quote links.
	RootPathHeader = "X-Vtex-Root-Path"
)

// SellerContext resolves the seller scope from SellerHeader and rejects
// requests without one.
func SellerContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seller := strings.TrimSpace(r.Header.Get(SellerHeader))
			if seller == "" {
				seller = SellerIDFromContext(r.Context())
			}
			if seller == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "seller context missing"))
				return
			}

			ctx := WithSellerID(r.Context(), seller)
			if logg != nil {
				ctx = logg.WithSellerID(ctx, seller)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
