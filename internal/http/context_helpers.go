package httpx

import (
	"context"
	"net/http"

	domainauth "github.com/lucentbi/ui-gateway/internal/domain/auth"
)

// tokensKey is an unexported context key type to avoid collisions across packages.
type tokensKey struct{}

// requestIDKey carries the request ID attached by the RequestID middleware.
type requestIDKey struct{}

// TokensFromRequest extracts the session cookies into an immutable
// request-scoped view. Cookie parse failures are treated as absence.
func TokensFromRequest(r *http.Request) domainauth.Tokens {
	var tokens domainauth.Tokens
	if c, err := r.Cookie(AccessTokenCookie); err == nil {
		tokens.Access = c.Value
	}
	if c, err := r.Cookie(RefreshTokenCookie); err == nil {
		tokens.Refresh = c.Value
	}
	return tokens
}

// SetTokensInContext returns a child context carrying the extracted tokens.
func SetTokensInContext(ctx context.Context, tokens domainauth.Tokens) context.Context {
	return context.WithValue(ctx, tokensKey{}, tokens)
}

// GetTokensFromContext returns the tokens placed by the gatekeeper and a
// boolean indicating presence.
func GetTokensFromContext(ctx context.Context) (domainauth.Tokens, bool) {
	if tokens, ok := ctx.Value(tokensKey{}).(domainauth.Tokens); ok {
		return tokens, true
	}
	return domainauth.Tokens{}, false
}

// SetRequestIDInContext returns a child context carrying the request ID.
func SetRequestIDInContext(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

// GetRequestIDFromContext returns the request ID or "" when absent.
func GetRequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}
