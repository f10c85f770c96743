package middleware

import "context"

type contextKey string

const ctxSellerID contextKey = "seller_id"

// SellerIDFromContext returns the seller scope of the request, or "".
func SellerIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSellerID).(string); ok {
		return v
	}
	return ""
}

// WithSellerID injects the seller identifier into the context for downstream handlers.
func WithSellerID(ctx context.Context, sellerID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSellerID, sellerID)
}
