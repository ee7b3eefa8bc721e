// Package anymail wraps the Anymail Finder person-search API.
package anymail

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.anymailfinder.com"

// Sentinel errors for provider-level failures callers must distinguish.
var (
	ErrUnauthorized     = errors.New("anymail: unauthorized")
	ErrRateLimited      = errors.New("anymail: rate limited")
	ErrUnexpectedStatus = errors.New("anymail: unexpected status")
)

// Client searches for a person's email address.
type Client interface {
	SearchPerson(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}

// SearchRequest holds the query parameters for GET /v5.0/search/person.json.
type SearchRequest struct {
	Domain    string
	FirstName string
	LastName  string
}

// SearchResponse is the body returned by the person search.
type SearchResponse struct {
	Email      string `json:"email"`
	Confidence int    `json:"confidence"`
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

// WithRateLimit overrides the default throttle (2 req/s). Zero disables it.
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

// NewClient creates an Anymail Finder API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(2, 2),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) SearchPerson(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "anymail: rate limiter wait")
		}
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("email_domain", req.Domain)
	params.Set("first_name", req.FirstName)
	params.Set("last_name", req.LastName)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v5.0/search/person.json?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "anymail: create request")
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "anymail: send request")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		return nil, eris.Wrapf(ErrUnexpectedStatus, "anymail: status %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "anymail: read response")
	}

	var result SearchResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "anymail: unmarshal response")
	}
	return &result, nil
}
