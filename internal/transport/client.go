// Package transport provides the shared HTTP client for the Steam and HLTB
// API wrappers. All requests are synchronous blocking calls; there is no
// retry or backoff layer, failed items are simply retried on the next
// invocation.
package transport

import (
	"bytes"
	"context"
	"net/http"

	"github.com/playtrack/completionist/pkg/constants"
	"github.com/playtrack/completionist/pkg/errors"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client provides HTTP client functionality with common headers applied.
type Client struct {
	http    *http.Client
	headers map[string]string
}

// New creates a new transport client. Extra headers are applied to every
// request (HLTB requires browser-like headers).
func New(headers map[string]string) *Client {
	return &Client{
		http:    &http.Client{Timeout: DefaultHTTPTimeout},
		headers: headers,
	}
}

// Do performs an HTTP request with the client's headers applied.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Accept", "application/json")
	if req.Method == http.MethodPost || req.Method == http.MethodPut {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	return c.http.Do(req)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapIO("create", "GET "+url, err)
	}
	return c.Do(req)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.WrapIO("create", "POST "+url, err)
	}
	return c.Do(req)
}
