package ebay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxErrorBody caps how much of a failed response is kept in an APIError.
const maxErrorBody = 4 << 10

// APIError is a non-200 response from an eBay API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("eBay API error (status %d): %s", e.StatusCode, e.Message)
}

// Temporary reports whether retrying later may succeed.
func (e *APIError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

type apiErrorBody struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// newAPIError prefers the first message of eBay's error envelope and falls
// back to the raw body.
func newAPIError(status int, body []byte) *APIError {
	var env apiErrorBody
	if err := json.Unmarshal(body, &env); err == nil && len(env.Errors) > 0 && env.Errors[0].Message != "" {
		return &APIError{StatusCode: status, Message: env.Errors[0].Message}
	}
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return &APIError{StatusCode: status, Message: string(body)}
}

// invalidator is implemented by token sources that can drop a cached token
// the server has rejected.
type invalidator interface {
	Invalidate()
}

// authedGet issues a bearer-authenticated GET and decodes a 200 response
// into out. When the server answers 401 and the token source can be
// invalidated, the request is sent once more with a fresh token.
func authedGet(
	ctx context.Context,
	hc *http.Client,
	tokens TokenProvider,
	u string,
	header http.Header,
	out any,
) error {
	for attempt := 0; ; attempt++ {
		token, err := tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("getting auth token: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
		if err != nil {
			return fmt.Errorf("creating HTTP request: %w", err)
		}
		for k, v := range header {
			req.Header[k] = v
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json")

		status, body, err := roundTrip(hc, req)
		if err != nil {
			return err
		}

		if status == http.StatusUnauthorized && attempt == 0 {
			if inv, ok := tokens.(invalidator); ok {
				inv.Invalidate()
				continue
			}
		}
		if status != http.StatusOK {
			return newAPIError(status, body)
		}
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("parsing response: %w", err)
		}
		return nil
	}
}

func roundTrip(hc *http.Client, req *http.Request) (int, []byte, error) {
	resp, err := hc.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("reading response body: %w", err)
	}
	return resp.StatusCode, body, nil
}
