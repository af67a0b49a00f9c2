package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rshade/cvdesk/internal/logging"
	"github.com/rshade/cvdesk/internal/record"
	"github.com/rshade/cvdesk/internal/view"
)

const (
	// DefaultBaseURL is the backend address used when none is configured.
	DefaultBaseURL = "http://localhost:8080"
	// DefaultTimeout bounds a single fetch.
	DefaultTimeout = 10 * time.Second
	// DefaultMaxBodyBytes caps the size of a response body.
	DefaultMaxBodyBytes int64 = 32 << 20

	cvPath = "cv"
)

// HTTPOption configures the HTTP fetchers.
type HTTPOption func(*httpClient)

// WithTimeout sets the per-request timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) HTTPOption {
	return func(c *httpClient) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithToken sends an Authorization: Bearer header with every request.
func WithToken(token string) HTTPOption {
	return func(c *httpClient) {
		c.token = strings.TrimSpace(token)
	}
}

// WithHTTPClient replaces the default client.
func WithHTTPClient(hc *http.Client) HTTPOption {
	return func(c *httpClient) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithMaxBodyBytes caps the response body. Non-positive values are ignored.
func WithMaxBodyBytes(n int64) HTTPOption {
	return func(c *httpClient) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

type httpClient struct {
	base    *url.URL
	token   string
	timeout time.Duration
	maxBody int64
	client  *http.Client
}

func newHTTPClient(baseURL string, opts []HTTPOption) (*httpClient, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parsing base URL %q: unsupported scheme %q", baseURL, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parsing base URL %q: missing host", baseURL)
	}

	c := &httpClient{
		base:    u,
		timeout: DefaultTimeout,
		maxBody: DefaultMaxBodyBytes,
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewHTTPFetcher returns a fetcher that issues GET {baseURL}/cv and decodes
// the JSON array in the response body.
func NewHTTPFetcher(baseURL string, opts ...HTTPOption) (view.Fetcher, error) {
	c, err := newHTTPClient(baseURL, opts)
	if err != nil {
		return nil, err
	}
	endpoint := c.base.JoinPath(cvPath).String()

	return func(ctx context.Context) ([]record.Record, error) {
		body, err := c.get(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		records, err := record.DecodeList(body)
		if err != nil {
			return nil, &FetchError{Op: "decode", URL: endpoint, Err: err}
		}
		return records, nil
	}, nil
}

// NewHTTPDetailFetcher returns a detail fetcher that issues GET
// {baseURL}/cv/{id}. A 404 yields an error matching ErrNotFound.
func NewHTTPDetailFetcher(baseURL string, opts ...HTTPOption) (view.DetailFetcher, error) {
	c, err := newHTTPClient(baseURL, opts)
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context, id string) (record.Details, error) {
		id = strings.TrimSpace(id)
		if id == "" || id == "." || id == ".." {
			return record.Details{}, &FetchError{Op: "lookup", Err: fmt.Errorf("invalid CV id %q", id)}
		}
		endpoint := c.base.JoinPath(cvPath, url.PathEscape(id)).String()

		body, err := c.get(ctx, endpoint)
		if err != nil {
			return record.Details{}, err
		}
		d, err := record.DecodeDetails(body)
		if err != nil {
			return record.Details{}, &FetchError{Op: "decode", URL: endpoint, Err: err}
		}
		return d, nil
	}, nil
}

// get performs one GET and returns the body of a 2xx response.
func (c *httpClient) get(ctx context.Context, endpoint string) ([]byte, error) {
	log := logging.FromContext(ctx)

	ctxWithTimeout, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctxWithTimeout, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &FetchError{Op: "http", URL: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &FetchError{Op: "http", URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	log.Debug().
		Str("component", "source").
		Str("url", endpoint).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("GET completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, c.maxBody))
		return nil, &FetchError{Op: "http", URL: endpoint, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, &FetchError{Op: "read", URL: endpoint, Err: err}
	}
	if int64(len(body)) > c.maxBody {
		return nil, &FetchError{Op: "read", URL: endpoint,
			Err: fmt.Errorf("%w (%d bytes)", ErrBodyTooLarge, c.maxBody)}
	}
	return body, nil
}
