package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// NewHTTPFetch builds a FetchFunc that loads the profile from the gateway's
// authenticated check endpoint. The client's cookie jar carries the session
// cookies; a non-2xx answer means the session is gone.
func NewHTTPFetch(client *http.Client, gatewayBaseURL string) FetchFunc {
	if client == nil {
		client = http.DefaultClient
	}
	endpoint := strings.TrimRight(gatewayBaseURL, "/") + "/api/auth/check"

	return func(ctx context.Context) (*Profile, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("build profile fetch: %w", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("profile fetch: %w", err)
		}
		defer resp.Body.Close() //nolint:errcheck // response body close failure is not actionable here

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("profile fetch rejected: %s", resp.Status)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return nil, fmt.Errorf("read profile: %w", err)
		}

		// The check endpoint answers either with the profile inline or
		// wrapped in a "user" envelope depending on the flavor of the check.
		var envelope struct {
			User *Profile `json:"user"`
		}
		if err := json.Unmarshal(body, &envelope); err == nil && envelope.User != nil {
			return envelope.User, nil
		}

		var profile Profile
		if err := json.Unmarshal(body, &profile); err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
		return &profile, nil
	}
}
