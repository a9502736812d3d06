package client

import (
	"fmt"
	"net/http"
	"time"
)

// DefaultUserAgent identifies the proxy to upstream hosts when the forwarded request names no agent.
const DefaultUserAgent = "vitistack-authproxy"

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the auth and data hosts. It never follows redirects, a redirect would
// carry the bearer credential to a host the router did not pick.
type Client struct {
	http.Client
	userAgent string
}

// NewClient creates the outbound client used for every upstream call.
// Options wrap the transport in the order they are given, the last one is outermost.
func NewClient(timeout time.Duration, opts ...clientOption) (HTTPClient, error) {
	upstream := &Client{
		Client: http.Client{
			Timeout:       timeout,
			Transport:     upstreamTransport(),
			CheckRedirect: handBackRedirect,
		},
		userAgent: DefaultUserAgent,
	}

	ctx := &optionContext{
		base:    upstream,
		wrapped: upstream,
	}

	for _, opt := range opts {
		if err := opt(ctx); err != nil {
			return nil, fmt.Errorf("could not create upstream client: %w", err)
		}
	}

	return ctx.wrapped, nil
}

// upstreamTransport pools connections for the handful of hosts the router resolves to.
func upstreamTransport() *http.Transport {
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        32,
		MaxIdleConnsPerHost: 16,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
}

func handBackRedirect(*http.Request, []*http.Request) error {
	return http.ErrUseLastResponse
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		if req.Header == nil {
			req.Header = make(http.Header)
		}
		req.Header.Set("User-Agent", c.userAgent)
	}
	return c.Client.Do(req)
}
