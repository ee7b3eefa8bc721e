// Package ssm wraps the ConnectorAgent email API (verify + find endpoints).
// The verify endpoint resolves M365/catch-all hosting internally; its status
// field is authoritative.
package ssm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.connector-os.com"

// Sentinel errors for provider-level failures callers must distinguish.
var (
	ErrUnauthorized     = errors.New("ssm: unauthorized")
	ErrRateLimited      = errors.New("ssm: rate limited")
	ErrUnexpectedStatus = errors.New("ssm: unexpected status")
)

// Client performs email verification and discovery against ConnectorAgent.
type Client interface {
	Verify(ctx context.Context, email string) (*VerifyResponse, error)
	Find(ctx context.Context, req FindRequest) (*FindResponse, error)
}

// VerifyResponse is the body of POST /api/email/v2/verify. The API has
// emitted both snake_case and camelCase spellings for the hosting fields, so
// both are accepted.
type VerifyResponse struct {
	Status             string `json:"status"`
	Verdict            string `json:"verdict"`
	HostedAt           string `json:"hosted_at"`
	HostedAtCamel      string `json:"hostedAt"`
	CatchAllUpgrade    bool   `json:"catchAllUpgrade"`
	CatchAllUpgradeAlt bool   `json:"catch_all_upgrade"`
}

// Hosting returns the hosting provider, whichever spelling the API used.
func (r *VerifyResponse) Hosting() string {
	if r.HostedAt != "" {
		return r.HostedAt
	}
	return r.HostedAtCamel
}

// CatchAll reports whether the verdict was upgraded through catch-all probing.
func (r *VerifyResponse) CatchAll() bool {
	return r.CatchAllUpgrade || r.CatchAllUpgradeAlt
}

// FindRequest is the body of POST /api/email/v2/find.
type FindRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Domain    string `json:"domain"`
}

// FindResponse is the body returned by the find endpoint.
type FindResponse struct {
	Email string `json:"email"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) { c.baseURL = url }
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) { c.http.Timeout = d }
}

// WithRateLimit overrides the default throttle (5 req/s). Zero disables it.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		} else {
			c.limiter = nil
		}
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a ConnectorAgent API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 18 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(5, 5),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Verify(ctx context.Context, email string) (*VerifyResponse, error) {
	var result VerifyResponse
	if err := c.post(ctx, "/api/email/v2/verify", map[string]string{"email": email}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *httpClient) Find(ctx context.Context, req FindRequest) (*FindResponse, error) {
	var result FindResponse
	if err := c.post(ctx, "/api/email/v2/find", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *httpClient) post(ctx context.Context, path string, payload any, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "ssm: rate limiter wait")
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrap(err, "ssm: marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "ssm: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return eris.Wrap(err, "ssm: send request")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return eris.Wrapf(ErrUnexpectedStatus, "ssm: status %d on %s", resp.StatusCode, path)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "ssm: read response")
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrap(err, "ssm: unmarshal response")
	}
	return nil
}
