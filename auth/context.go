package auth

import "context"

type claimsKey struct{}

// NewContext returns ctx carrying claims.
func NewContext(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// FromContext returns the claims stored by NewContext. It returns false for
// a missing or nil value.
func FromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*Claims)
	if !ok || claims == nil {
		return nil, false
	}
	return claims, true
}

// AdminFromContext returns the claims only when they grant admin access.
func AdminFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := FromContext(ctx)
	if !ok || !claims.IsAdmin() {
		return nil, false
	}
	return claims, true
}
