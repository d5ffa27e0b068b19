package auth

// Package auth contains domain-level types for the authentication gateway.
// It is pure and free of framework/adapter concerns: the gate decision is a
// function of route classification, token presence, and refresh outcome,
// so it can be unit tested without a network.

import "strings"

// RouteClass is the Public/Protected designation of an inbound path.
type RouteClass string

const (
	RoutePublic    RouteClass = "public"
	RouteProtected RouteClass = "protected"
)

// Tokens is the request-scoped immutable view of the session cookies.
// Both values are opaque and backend-owned; the gateway only checks
// presence and forwards them.
type Tokens struct {
	Access  string
	Refresh string
}

// HasAccess reports whether an access token cookie is present.
func (t Tokens) HasAccess() bool { return t.Access != "" }

// HasRefresh reports whether a refresh token cookie is present.
func (t Tokens) HasRefresh() bool { return t.Refresh != "" }

// CookieBundle carries the verbatim Set-Cookie header values returned by
// the backend. The backend may issue several entries (access + refresh);
// all of them must survive relay, so the bundle is always a slice.
// Attributes are backend-authoritative and never reconstructed locally.
type CookieBundle []string

// RefreshOutcome is the result of a single refresh attempt.
type RefreshOutcome struct {
	Succeeded bool
	Cookies   CookieBundle
}

// GateAction is the terminal outcome of one gatekeeper pass.
type GateAction string

const (
	// GateAllow lets the request through untouched.
	GateAllow GateAction = "allow"
	// GateAllowWithCookies lets the request through and attaches a fresh
	// cookie bundle so the browser adopts the renewed tokens.
	GateAllowWithCookies GateAction = "allow_with_cookies"
	// GateRedirect denies the request with a redirect to the login route.
	GateRedirect GateAction = "redirect"
)

// GateDecision is the outcome of the gate state machine for one request.
type GateDecision struct {
	Action  GateAction
	Cookies CookieBundle
}

// RefreshFunc performs at most one backend refresh attempt. Decide invokes
// it only when the request has a refresh token but no access token.
type RefreshFunc func(refreshToken string) RefreshOutcome

// Decide runs the gate state machine for one intercepted request.
//
// The checks run in a fixed order: Public routes and requests carrying an
// authorization code bypass the token gate entirely; an access token allows
// without inspection (validity is the backend's job on subsequent calls);
// otherwise a present refresh token buys exactly one refresh attempt.
// Everything else redirects to login.
func Decide(class RouteClass, hasAuthCode bool, tokens Tokens, refresh RefreshFunc) GateDecision {
	if class == RoutePublic || hasAuthCode {
		return GateDecision{Action: GateAllow}
	}

	if tokens.HasAccess() {
		return GateDecision{Action: GateAllow}
	}

	if tokens.HasRefresh() && refresh != nil {
		if outcome := refresh(tokens.Refresh); outcome.Succeeded {
			return GateDecision{Action: GateAllowWithCookies, Cookies: outcome.Cookies}
		}
	}

	return GateDecision{Action: GateRedirect}
}

// Classifier derives the RouteClass of a request path from a fixed set of
// public path prefixes. It is read-only process-wide state fixed at startup.
type Classifier struct {
	publicPrefixes []string
}

// NewClassifier builds a Classifier from public path prefixes.
// Prefixes are matched on whole path segments, so "/login" matches
// "/login" and "/login/callback" but not "/loginfoo".
func NewClassifier(publicPrefixes []string) *Classifier {
	prefixes := make([]string, 0, len(publicPrefixes))
	for _, p := range publicPrefixes {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		prefixes = append(prefixes, strings.TrimRight(p, "/"))
	}
	return &Classifier{publicPrefixes: prefixes}
}

// Classify returns the RouteClass for the given request path.
func (c *Classifier) Classify(path string) RouteClass {
	if c == nil || path == "" {
		return RouteProtected
	}
	for _, prefix := range c.publicPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return RoutePublic
		}
	}
	return RouteProtected
}
