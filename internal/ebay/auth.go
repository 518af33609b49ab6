package ebay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	defaultTokenURL = "https://api.ebay.com/identity/v1/oauth2/token" //nolint:gosec // not a credential
	defaultScope    = "https://api.ebay.com/oauth/api_scope"

	// expirySkew renews a token this long before eBay would reject it.
	expirySkew = time.Minute
)

// TokenError is a rejected client credentials grant.
type TokenError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *TokenError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("token request failed (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("token request failed (status %d): %s: %s", e.StatusCode, e.Code, e.Description)
}

// AppTokenSource mints application access tokens with the OAuth client
// credentials grant. A token is reused until expirySkew before it expires.
// Safe for concurrent use.
type AppTokenSource struct {
	appID    string
	certID   string
	endpoint string
	scopes   []string
	hc       *http.Client
	now      func() time.Time
	log      *slog.Logger

	mu      sync.Mutex
	value   string
	expires time.Time
}

// AuthOption configures an AppTokenSource.
type AuthOption func(*AppTokenSource)

// WithTokenURL overrides the eBay token endpoint, for example to use the
// sandbox or a local mock.
func WithTokenURL(u string) AuthOption {
	return func(s *AppTokenSource) {
		if u != "" {
			s.endpoint = u
		}
	}
}

// WithScopes replaces the requested OAuth scopes.
func WithScopes(scopes ...string) AuthOption {
	return func(s *AppTokenSource) {
		if len(scopes) > 0 {
			s.scopes = scopes
		}
	}
}

// WithTokenHTTPClient overrides the HTTP client used for token requests.
func WithTokenHTTPClient(hc *http.Client) AuthOption {
	return func(s *AppTokenSource) {
		s.hc = hc
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) AuthOption {
	return func(s *AppTokenSource) {
		s.now = now
	}
}

// WithTokenLogger sets the logger.
func WithTokenLogger(l *slog.Logger) AuthOption {
	return func(s *AppTokenSource) {
		s.log = l
	}
}

// NewAppTokenSource creates a token source for the given application
// keyset.
func NewAppTokenSource(appID, certID string, opts ...AuthOption) *AppTokenSource {
	s := &AppTokenSource{
		appID:    appID,
		certID:   certID,
		endpoint: defaultTokenURL,
		scopes:   []string{defaultScope},
		hc:       &http.Client{Timeout: 10 * time.Second},
		now:      time.Now,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Token returns a cached token or mints a new one.
func (s *AppTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.value != "" && s.now().Add(expirySkew).Before(s.expires) {
		return s.value, nil
	}

	value, ttl, err := s.mint(ctx)
	if err != nil {
		return "", err
	}
	s.value = value
	s.expires = s.now().Add(ttl)
	s.log.Debug("minted ebay application token", "expires_in", ttl)
	return s.value, nil
}

// Invalidate drops the cached token so the next call mints a new one.
func (s *AppTokenSource) Invalidate() {
	s.mu.Lock()
	s.value = ""
	s.expires = time.Time{}
	s.mu.Unlock()
}

// mint performs the client credentials grant. Callers hold s.mu.
func (s *AppTokenSource) mint(ctx context.Context) (string, time.Duration, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("scope", strings.Join(s.scopes, " "))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.appID, s.certID)

	status, body, err := roundTrip(s.hc, req)
	if err != nil {
		return "", 0, fmt.Errorf("token request: %w", err)
	}

	if status != http.StatusOK {
		tokErr := &TokenError{StatusCode: status}
		var env struct {
			Error            string `json:"error"`
			ErrorDescription string `json:"error_description"`
		}
		if json.Unmarshal(body, &env) == nil {
			tokErr.Code = env.Error
			tokErr.Description = env.ErrorDescription
		}
		return "", 0, tokErr
	}

	var grant struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &grant); err != nil {
		return "", 0, fmt.Errorf("parsing token response: %w", err)
	}
	if grant.AccessToken == "" {
		return "", 0, errors.New("token response has no access_token")
	}
	return grant.AccessToken, time.Duration(grant.ExpiresIn) * time.Second, nil
}
