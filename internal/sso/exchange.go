package sso

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// exchangeRequest is the payload for the gateway's sso-callback endpoint.
type exchangeRequest struct {
	AuthorizationCode string `json:"authorization_code"`
	Signature         string `json:"signature,omitempty"`
}

// NewHTTPExchange builds an ExchangeFunc that posts the authorization code
// to the gateway's /api/auth/sso/callback endpoint. The gateway relays the
// backend's session cookies on success, so callers only need the error.
func NewHTTPExchange(client *http.Client, gatewayBaseURL string) ExchangeFunc {
	if client == nil {
		client = http.DefaultClient
	}
	endpoint := strings.TrimRight(gatewayBaseURL, "/") + "/api/auth/sso/callback"

	return func(ctx context.Context, code, signature string) error {
		payload, err := json.Marshal(exchangeRequest{
			AuthorizationCode: code,
			Signature:         signature,
		})
		if err != nil {
			return fmt.Errorf("encode sso exchange: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("build sso exchange request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("sso exchange: %w", err)
		}
		defer resp.Body.Close() //nolint:errcheck // response body close failure is not actionable here

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		return fmt.Errorf("sso exchange rejected: %s", exchangeFailureMessage(resp))
	}
}

// exchangeFailureMessage extracts the gateway error envelope message, falling
// back to the HTTP status when the body is not the expected shape.
func exchangeFailureMessage(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil {
		var envelope struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if jerr := json.Unmarshal(body, &envelope); jerr == nil {
			if envelope.Message != "" {
				return envelope.Message
			}
			if envelope.Error != "" {
				return envelope.Error
			}
		}
	}
	return resp.Status
}
