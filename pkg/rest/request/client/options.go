package client

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
)

type optionContext struct {
	base    *Client
	wrapped HTTPClient
}

type clientOption func(ctx *optionContext) error

// WithTransport replaces the base transport. It should be the first option given.
func WithTransport(transport http.RoundTripper) clientOption {
	return func(ctx *optionContext) error {
		if transport == nil {
			return fmt.Errorf("transport cannot be nil")
		}
		ctx.base.Transport = transport
		return nil
	}
}

// WithUserAgent replaces DefaultUserAgent. An empty agent leaves the header to the caller.
func WithUserAgent(agent string) clientOption {
	return func(ctx *optionContext) error {
		ctx.base.userAgent = agent
		return nil
	}
}

func WithRequestLogging(logger Logger) clientOption {
	return func(ctx *optionContext) error {
		base := ctx.base.Transport
		if base == nil {
			base = http.DefaultTransport
		}

		if logger == nil {
			return fmt.Errorf("cannot add request logging with a nil logger")
		}

		ctx.base.Transport = NewLogInterception(logger, base)
		return nil
	}
}

// WithMetrics records request counts and latency for every round trip on reg.
func WithMetrics(reg prometheus.Registerer, namespace string) clientOption {
	return func(ctx *optionContext) error {
		if reg == nil {
			return fmt.Errorf("cannot add metrics with a nil registerer")
		}

		base := ctx.base.Transport
		if base == nil {
			base = http.DefaultTransport
		}

		metrics := newTransportMetrics(namespace)
		if err := metrics.register(reg); err != nil {
			return fmt.Errorf("unable to register client metrics: %w", err)
		}

		ctx.base.Transport = metrics.instrument(base)
		return nil
	}
}
