package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/fieldkit/internal/logging"
	"github.com/muurk/fieldkit/internal/option"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for failed requests
	DefaultMaxRetries = 2

	// DefaultRetryDelay is the default delay between retry attempts
	DefaultRetryDelay = 250 * time.Millisecond

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 5 * time.Second

	// maxBodySize caps how much of a response is read
	maxBodySize = 1 << 20
)

// Client sends form submissions and search queries to an HTTP backend
type Client struct {
	// BaseURL is prefixed to every request path (e.g., "http://localhost:8080")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// MaxRetries is the maximum number of retry attempts for failed requests
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts
	RetryDelay time.Duration

	// MaxRetryDelay is the maximum delay for exponential backoff
	MaxRetryDelay time.Duration

	// UseExponentialBackoff doubles the delay after each attempt
	UseExponentialBackoff bool

	// Logger receives one debug entry per attempt; nil uses the global logger
	Logger *zap.Logger
}

// NewClient creates a client for baseURL with default retry settings
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:               strings.TrimRight(baseURL, "/"),
		HTTPClient:            &http.Client{Timeout: DefaultTimeout},
		MaxRetries:            DefaultMaxRetries,
		RetryDelay:            DefaultRetryDelay,
		MaxRetryDelay:         DefaultMaxRetryDelay,
		UseExponentialBackoff: true,
	}
}

// SetRetry configures retry behavior
func (c *Client) SetRetry(maxRetries int, retryDelay time.Duration) {
	c.MaxRetries = maxRetries
	c.RetryDelay = retryDelay
}

// PostJSON sends body as JSON to path and decodes a 2xx response into out
// (out may be nil). Failures are *Error values.
func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return NewParseError("failed to encode request body", err)
	}
	return c.do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}, out)
}

// Search issues GET path?q=query and decodes the option records it
// returns. The response is either a JSON array of records or an object
// with an "items" array.
func (c *Client) Search(ctx context.Context, path, query string) ([]option.Record, error) {
	u := c.BaseURL + path
	if query != "" {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		u += sep + "q=" + url.QueryEscape(query)
	}

	var raw json.RawMessage
	err := c.do(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}, &raw)
	if err != nil {
		return nil, err
	}
	return decodeRecords(raw)
}

func decodeRecords(raw json.RawMessage) ([]option.Record, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil, nil
	}
	if trimmed[0] == '{' {
		var envelope struct {
			Items json.RawMessage `json:"items"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, NewParseError("failed to parse search response", err)
		}
		trimmed = envelope.Items
	}
	records, err := option.DecodeRecords(trimmed)
	if err != nil {
		return nil, NewParseError("failed to parse search response", err)
	}
	return records, nil
}

// do runs the request built by build, retrying retryable failures with
// backoff until MaxRetries is spent or ctx ends.
func (c *Client) do(ctx context.Context, build func() (*http.Request, error), out any) error {
	log := logging.OrDefault(c.Logger, "transport")
	var lastErr error
	currentDelay := c.RetryDelay

	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, currentDelay); err != nil {
				return ClassifyNetworkError(err)
			}

			if c.UseExponentialBackoff {
				currentDelay *= 2
				if c.MaxRetryDelay > 0 && currentDelay > c.MaxRetryDelay {
					currentDelay = c.MaxRetryDelay
				}
			}
		}

		err := c.attempt(build, out)
		if err == nil {
			return nil
		}
		log.Debug("Request attempt failed", zap.Int("attempt", attempt+1), zap.Error(err))

		lastErr = err
		if !IsRetryable(err) || ctx.Err() != nil {
			return err
		}
	}

	return lastErr
}

func (c *Client) attempt(build func() (*http.Request, error), out any) error {
	req, err := build()
	if err != nil {
		return &Error{Type: ErrTypeNetwork, Message: "failed to create request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return ClassifyNetworkError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return ClassifyNetworkError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return NewHTTPError(resp.StatusCode, body)
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return NewParseError(fmt.Sprintf("failed to parse response from %s", req.URL.Path), err)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Provider adapts a search endpoint to combobox.SearchProvider
type Provider struct {
	Client *Client
	Path   string
}

// Search implements combobox.SearchProvider
func (p *Provider) Search(ctx context.Context, query string) ([]option.Record, error) {
	if p.Client == nil {
		return nil, errors.New("transport: provider has no client")
	}
	return p.Client.Search(ctx, p.Path, query)
}
