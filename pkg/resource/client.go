package resource

import (
	"context"
	"io"
	"net/http"
)

// Response is the raw result of a fetch: status code plus body. Status
// interpretation (what counts as failure) belongs to the Resource, not
// the Client.
type Response struct {
	StatusCode int
	Body       []byte
}

// Client is the fetch capability a Resource consumes: perform an HTTP GET
// at the given URL and report status code and body. Implementations
// return an error only for transport-level problems; a non-2xx response
// is a valid Response.
type Client interface {
	Get(ctx context.Context, url string) (*Response, error)
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, url string) (*Response, error)

func (f ClientFunc) Get(ctx context.Context, url string) (*Response, error) {
	return f(ctx, url)
}

// HTTPClient is the default Client backed by net/http.
type HTTPClient struct {
	hc *http.Client
}

// NewHTTPClient wraps the given http.Client. Pass nil to use
// http.DefaultClient.
func NewHTTPClient(hc *http.Client) *HTTPClient {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &HTTPClient{hc: hc}
}

// Get implements Client.
func (c *HTTPClient) Get(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}
