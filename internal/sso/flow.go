// Package sso implements the client-visible SSO code exchange flow: the
// callback page state machine that posts the inbound authorization code to
// the gateway and navigates on the outcome.
package sso

import (
	"context"
	"net/url"
)

// State is the UI state of the exchange flow.
type State string

const (
	StatePending   State = "pending"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// ExchangeFunc posts {authorization_code, signature?} through the
// sso-callback gateway endpoint. On success the endpoint has relayed the
// backend's session cookies to the browser already; the flow only needs to
// navigate.
type ExchangeFunc func(ctx context.Context, code, signature string) error

// FlowOptions groups dependencies for NewFlow.
type FlowOptions struct {
	Exchange ExchangeFunc
	// HomePath is where a successful exchange navigates. The gatekeeper
	// honors the authorization_code bypass so this navigation is not
	// blocked before the cookies have propagated.
	HomePath string
	// LoginPath is the manual retry target on failure.
	LoginPath string
}

// Result is the terminal outcome of one flow run.
type Result struct {
	State      State
	Message    string
	RedirectTo string
	RetryTo    string
}

// Flow drives the callback page. It runs on a single cooperative execution
// context; a Flow is used for one page load and not shared.
type Flow struct {
	exchange  ExchangeFunc
	homePath  string
	loginPath string
	state     State
}

// NewFlow constructs a Flow in the Pending state.
func NewFlow(opts FlowOptions) *Flow {
	homePath := opts.HomePath
	if homePath == "" {
		homePath = "/"
	}
	loginPath := opts.LoginPath
	if loginPath == "" {
		loginPath = "/login"
	}
	return &Flow{
		exchange:  opts.Exchange,
		homePath:  homePath,
		loginPath: loginPath,
		state:     StatePending,
	}
}

// State returns the flow's current state.
func (f *Flow) State() State { return f.state }

// Run consumes the callback page's query parameters and resolves the flow.
// A missing authorization code fails without any exchange call.
func (f *Flow) Run(ctx context.Context, query url.Values) Result {
	code := query.Get("authorization_code")
	if code == "" {
		return f.fail("missing authorization code")
	}

	if err := f.exchange(ctx, code, query.Get("signature")); err != nil {
		return f.fail(err.Error())
	}

	f.state = StateSucceeded
	return Result{State: StateSucceeded, RedirectTo: f.homePath}
}

func (f *Flow) fail(message string) Result {
	f.state = StateFailed
	if message == "" {
		message = "sso exchange failed"
	}
	return Result{State: StateFailed, Message: message, RetryTo: f.loginPath}
}
