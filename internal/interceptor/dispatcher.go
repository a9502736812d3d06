// Package interceptor is the single path every outbound request of the hosting
// application takes. It attaches credentials, refreshes them on 401, replays the
// request once and makes sure token material never reaches the caller.
package interceptor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/vitistack/authproxy/internal/credentials"
	"github.com/vitistack/authproxy/internal/routing"
	"github.com/vitistack/authproxy/pkg/rest/request/client"
)

type Dispatcher struct {
	rewriter    *Rewriter
	coordinator *Coordinator
	client      client.HTTPClient
	store       *credentials.Store
	logger      *slog.Logger
	metrics     *Metrics
}

// New wires a dispatcher, its rewriter and its refresh coordinator around one credential store.
func New(router *routing.Router, store *credentials.Store, httpClient client.HTTPClient, opts ...interceptorOption) *Dispatcher {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	rewriter := NewRewriter(router, store, cfg.Paths)

	return &Dispatcher{
		rewriter:    rewriter,
		coordinator: newCoordinator(store, rewriter, httpClient, cfg),
		client:      httpClient,
		store:       store,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
	}
}

func (d *Dispatcher) Coordinator() *Coordinator {
	return d.coordinator
}

func (d *Dispatcher) Rewriter() *Rewriter {
	return d.rewriter
}

// Dispatch sends intent upstream. HTTP level failures come back as responses;
// only transport failures (wrapping ErrNetwork) and unencodable bodies are errors.
func (d *Dispatcher) Dispatch(ctx context.Context, intent RouteIntent) (*Response, error) {
	logger := d.logger.With(slog.String("dispatch_id", dispatchID()), slog.String("path", intent.Path))

	out, err := d.rewriter.Rewrite(intent)
	if err != nil {
		return nil, fmt.Errorf("unable to rewrite request: %w", err)
	}

	resp, err := d.send(ctx, out)
	if err != nil {
		d.metrics.dispatched(out.exchange, 0)
		logger.Warn("dispatch failed", slog.String("reason", err.Error()))
		return nil, err
	}

	final, err := d.complete(ctx, logger, intent, out, resp)
	if err != nil {
		d.metrics.dispatched(out.exchange, 0)
		return nil, err
	}

	d.metrics.dispatched(out.exchange, final.Status)
	return final, nil
}

func (d *Dispatcher) complete(ctx context.Context, logger *slog.Logger, intent RouteIntent, out *OutboundRequest, resp *Response) (*Response, error) {
	switch out.exchange {
	case ExchangeLogin, ExchangeRefresh:
		return d.completeTokenExchange(logger, out, resp), nil
	}

	if resp.Status != http.StatusUnauthorized {
		return d.finish(out, resp), nil
	}

	decision, err := d.coordinator.Resolve(ctx, out.version)
	if err != nil && !errors.Is(err, ErrUnauthorized) {
		return nil, err
	}
	if decision != DecisionRetry {
		logger.Info("request unauthorized, session is void")
		return d.finish(out, resp), nil
	}

	retryOut, err := d.rewriter.Rewrite(intent)
	if err != nil {
		return nil, fmt.Errorf("unable to rewrite request: %w", err)
	}

	d.metrics.retried()
	retryResp, err := d.send(ctx, retryOut)
	if err != nil {
		logger.Warn("retry failed", slog.String("reason", err.Error()))
		return nil, err
	}

	if retryResp.Status == http.StatusUnauthorized {
		// a fresh credential was rejected as well, nothing left to try
		if d.store.ClearIf(retryOut.version) {
			logger.Warn("request unauthorized after refresh, session cleared")
		} else {
			logger.Info("request unauthorized after refresh, session changed meanwhile and is kept")
		}
	}

	return d.finish(retryOut, retryResp), nil
}

// completeTokenExchange stores the token pair of a successful login or refresh and strips it from the body.
func (d *Dispatcher) completeTokenExchange(logger *slog.Logger, out *OutboundRequest, resp *Response) *Response {
	if resp.OK() {
		pair, err := decodePair(resp.Body)
		if err != nil {
			logger.Warn("token exchange succeeded without a usable token pair", slog.String("exchange", out.exchange.String()), slog.String("reason", err.Error()))
		} else {
			d.store.Set(pair)
			logger.Info("session established", slog.String("exchange", out.exchange.String()))
		}
	}
	return sanitize(resp)
}

func (d *Dispatcher) finish(out *OutboundRequest, resp *Response) *Response {
	if out.exchange == ExchangeLogout {
		if resp.Status != http.StatusUnauthorized {
			d.store.Clear()
		}
		return sanitize(resp)
	}
	return &Response{
		Status:     resp.Status,
		StatusText: resp.StatusText,
		Header:     resp.Header.Clone(),
		Body:       resp.Body,
	}
}

func (d *Dispatcher) send(ctx context.Context, out *OutboundRequest) (*Response, error) {
	req, err := out.HTTPRequest(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to build request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, errors.Join(ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Join(ErrNetwork, err)
	}

	return &Response{
		Status:     resp.StatusCode,
		StatusText: statusText(resp),
		Header:     resp.Header,
		Body:       body,
	}, nil
}

func dispatchID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return "N/A"
	}
	return id.String()
}
