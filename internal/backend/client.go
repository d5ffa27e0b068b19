// Package backend implements the deadline-bounded outbound-call primitive
// shared by every proxied gateway operation.
package backend

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Outcome classifies the result of one backend call.
type Outcome string

const (
	// OutcomeOK means the backend responded before the deadline,
	// regardless of status code.
	OutcomeOK Outcome = "ok"
	// OutcomeTimeout means the deadline elapsed and the in-flight call
	// was aborted; the caller must not wait further.
	OutcomeTimeout Outcome = "timeout"
	// OutcomeTransport means a network-level failure (DNS, connection
	// refused, reset), distinct from a deadline expiry.
	OutcomeTransport Outcome = "transport"
)

// CallParams describes one outbound backend call.
type CallParams struct {
	Method string
	// Path is joined onto the client's base URL. Query is appended when set.
	Path  string
	Query url.Values
	// Body and ContentType are forwarded as the outbound request body.
	Body        []byte
	ContentType string
	// Authorization, when set, is forwarded as the Authorization header.
	Authorization string
	// Cookies are forwarded verbatim on the outbound Cookie header.
	Cookies []*http.Cookie
	// Timeout bounds the whole round trip. Exceeding it cancels the
	// in-flight request rather than merely abandoning the wait.
	Timeout time.Duration
}

// Result is the normalized outcome of a backend call.
type Result struct {
	Outcome Outcome
	// Status and Body are set when Outcome is OutcomeOK.
	Status int
	Body   []byte
	// ContentType is the backend's Content-Type header, when present.
	ContentType string
	// Cookies holds every verbatim Set-Cookie header value from the
	// backend response. Multiple entries (access + refresh) all survive.
	Cookies []string
	// Err carries the underlying cause for timeout/transport outcomes.
	Err error
}

// OK reports whether the backend answered with a 2xx status.
func (r Result) OK() bool {
	return r.Outcome == OutcomeOK && r.Status >= 200 && r.Status < 300
}

// CallObserver receives the outcome of each completed backend call.
// Implementations must be safe for concurrent use.
type CallObserver interface {
	ObserveCall(path string, outcome Outcome, elapsed time.Duration)
}

// Client performs bounded calls against the backend identity/API service.
// It is read-only after construction and safe for concurrent use.
type Client struct {
	baseURL  string
	http     *http.Client
	logger   *slog.Logger
	observer CallObserver
}

// Options bundles dependencies for New.
type Options struct {
	BaseURL string
	// HTTPClient overrides the transport; a zero-timeout client is used by
	// default since per-call deadlines come from CallParams.
	HTTPClient *http.Client
	Logger     *slog.Logger
	Observer   CallObserver
}

// New creates a backend client.
func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		http:     hc,
		logger:   logger,
		observer: opts.Observer,
	}
}

// Call performs one outbound call and normalizes the outcome.
// It never returns a non-nil error through panic or a partially read body:
// every path terminates in a classified Result.
func (c *Client) Call(ctx context.Context, p CallParams) Result {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	target := c.baseURL + "/" + strings.TrimLeft(p.Path, "/")
	if len(p.Query) > 0 {
		target += "?" + p.Query.Encode()
	}

	var body io.Reader
	if len(p.Body) > 0 {
		body = bytes.NewReader(p.Body)
	}

	req, err := http.NewRequestWithContext(ctx, p.Method, target, body)
	if err != nil {
		return c.finish(p.Path, Result{Outcome: OutcomeTransport, Err: err}, time.Duration(0))
	}
	if p.ContentType != "" {
		req.Header.Set("Content-Type", p.ContentType)
	}
	if p.Authorization != "" {
		req.Header.Set("Authorization", p.Authorization)
	}
	for _, cookie := range p.Cookies {
		req.AddCookie(cookie)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		return c.finish(p.Path, Result{Outcome: classifyError(err), Err: err}, elapsed)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("close backend response body failed", "path", p.Path, "error", cerr)
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.finish(p.Path, Result{Outcome: classifyError(err), Err: err}, elapsed)
	}

	return c.finish(p.Path, Result{
		Outcome:     OutcomeOK,
		Status:      resp.StatusCode,
		Body:        data,
		ContentType: resp.Header.Get("Content-Type"),
		Cookies:     resp.Header.Values("Set-Cookie"),
	}, elapsed)
}

func (c *Client) finish(path string, res Result, elapsed time.Duration) Result {
	if c.observer != nil {
		c.observer.ObserveCall(path, res.Outcome, elapsed)
	}
	if res.Outcome != OutcomeOK {
		c.logger.Warn("backend call failed",
			slog.String("path", path),
			slog.String("outcome", string(res.Outcome)),
			slog.Duration("elapsed", elapsed),
			slog.Any("error", res.Err),
		)
	}
	return res
}

// classifyError separates deadline expiry from network-level failures.
func classifyError(err error) Outcome {
	if errors.Is(err, context.DeadlineExceeded) {
		return OutcomeTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return OutcomeTimeout
	}
	return OutcomeTransport
}
