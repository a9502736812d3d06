package interceptor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/vitistack/authproxy/internal/credentials"
	"github.com/vitistack/authproxy/pkg/rest/request/client"
	"golang.org/x/sync/semaphore"
)

type Decision int

const (
	DecisionAbort Decision = iota // credentials are void, hand back the original 401
	DecisionRetry                 // replay the request with whatever the store now holds
)

func (d Decision) String() string {
	if d == DecisionRetry {
		return "retry"
	}
	return "abort"
}

type State int32

const (
	StateIdle State = iota
	StateRefreshing
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateRefreshing:
		return "REFRESHING"
	case StateFailed:
		return "FAILED"
	}
	return "IDLE"
}

// Coordinator decides, one caller at a time, whether a 401 calls for a refresh exchange.
//
// Callers queue on the gate in arrival order. The first caller holding a token close to
// expiry refreshes; everyone queued behind it sees the store version move and takes the
// outcome of that refresh instead of starting another one.
type Coordinator struct {
	gate     *semaphore.Weighted
	store    *credentials.Store
	rewriter *Rewriter
	client   client.HTTPClient

	threshold time.Duration
	timeout   time.Duration
	now       func() time.Time
	logger    *slog.Logger
	metrics   *Metrics

	state atomic.Int32
}

func NewCoordinator(store *credentials.Store, rewriter *Rewriter, httpClient client.HTTPClient, opts ...interceptorOption) *Coordinator {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return newCoordinator(store, rewriter, httpClient, cfg)
}

func newCoordinator(store *credentials.Store, rewriter *Rewriter, httpClient client.HTTPClient, cfg interceptorConfig) *Coordinator {
	return &Coordinator{
		gate:      semaphore.NewWeighted(1),
		store:     store,
		rewriter:  rewriter,
		client:    httpClient,
		threshold: cfg.RefreshThreshold,
		timeout:   cfg.RefreshTimeout,
		now:       cfg.Now,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
	}
}

func (c *Coordinator) State() State {
	return State(c.state.Load())
}

// Resolve is called after a non-login request built against store version sentVersion came back 401.
// It returns DecisionRetry when the request should be replayed once, DecisionAbort otherwise.
// An abort caused by void credentials carries ErrUnauthorized; a caller whose context ends
// while queued gets the context error.
func (c *Coordinator) Resolve(ctx context.Context, sentVersion uint64) (decision Decision, err error) {
	if err := c.gate.Acquire(ctx, 1); err != nil {
		return DecisionAbort, fmt.Errorf("waiting for refresh gate: %w", err)
	}
	defer c.gate.Release(1)

	snap := c.store.Snapshot()

	defer func() {
		if p := recover(); p != nil {
			c.store.ClearIf(snap.Version)
			c.transition(StateFailed)
			c.transition(StateIdle)
			c.metrics.refresh(refreshFailed)
			c.logger.Error("refresh aborted unexpectedly, session cleared", slog.Any("reason", p))
			decision, err = DecisionAbort, fmt.Errorf("%w: refresh aborted: %v", ErrUnauthorized, p)
		}
	}()

	if snap.Version != sentVersion {
		// a refresh, login or clear completed while this caller was queued; adopt its outcome
		c.metrics.refresh(refreshObserved)
		return adopt(snap)
	}

	remaining, err := credentials.Remaining(snap.Pair.AccessToken, c.now())
	if err != nil {
		c.logger.Debug("access token expiry unreadable, refreshing now", slog.String("reason", err.Error()))
		remaining = 0
	}

	if remaining >= c.threshold {
		c.metrics.refresh(refreshSkipped)
		c.logger.Debug("access token still fresh, replaying without refresh", slog.Duration("remaining", remaining))
		return DecisionRetry, nil
	}

	return c.refresh(ctx, snap)
}

func (c *Coordinator) refresh(ctx context.Context, snap credentials.Snapshot) (Decision, error) {
	c.transition(StateRefreshing)

	// the refresh outlives the caller that triggered it, everyone queued depends on its outcome
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	pair, err := c.exchange(ctx, snap.Pair.RefreshToken)
	if err != nil {
		c.transition(StateFailed)
		c.metrics.refresh(refreshFailed)
		if !c.store.ClearIf(snap.Version) {
			c.logger.Warn("refresh failed, keeping session replaced meanwhile", slog.String("reason", err.Error()))
			c.transition(StateIdle)
			return adopt(c.store.Snapshot())
		}
		c.logger.Warn("refresh failed, session cleared", slog.String("reason", err.Error()))
		c.transition(StateIdle)
		return DecisionAbort, errors.Join(ErrUnauthorized, err)
	}

	if !c.store.SetIf(snap.Version, pair) {
		// cleared or logged in again while the exchange was on the wire, the newer state wins
		c.metrics.refresh(refreshObserved)
		c.logger.Info("refreshed pair discarded, session changed meanwhile")
		c.transition(StateIdle)
		return adopt(c.store.Snapshot())
	}
	c.metrics.refresh(refreshRefreshed)
	c.logger.Info("session refreshed")
	c.transition(StateIdle)
	return DecisionRetry, nil
}

// adopt turns a store state written by someone else into a decision for the waiting request.
func adopt(snap credentials.Snapshot) (Decision, error) {
	if snap.Pair.AccessToken == "" {
		return DecisionAbort, ErrUnauthorized
	}
	return DecisionRetry, nil
}

// exchange performs POST <auth>/refresh with the refresh token as bearer credential.
func (c *Coordinator) exchange(ctx context.Context, refreshToken string) (credentials.Pair, error) {
	if refreshToken == "" {
		return credentials.Pair{}, ErrNoRefreshToken
	}

	out, err := c.rewriter.Rewrite(RouteIntent{
		Method: http.MethodPost,
		Path:   c.rewriter.paths.Refresh,
		Body:   struct{}{},
	})
	if err != nil {
		return credentials.Pair{}, err
	}

	req, err := out.HTTPRequest(ctx)
	if err != nil {
		return credentials.Pair{}, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return credentials.Pair{}, errors.Join(ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return credentials.Pair{}, errors.Join(ErrNetwork, err)
	}

	if resp.StatusCode != http.StatusCreated {
		return credentials.Pair{}, fmt.Errorf("%w: status %d", ErrRefreshRejected, resp.StatusCode)
	}

	return decodePair(body)
}

func (c *Coordinator) transition(to State) {
	from := State(c.state.Swap(int32(to)))
	if from != to {
		c.logger.Debug("refresh coordinator transition", slog.String("from", from.String()), slog.String("to", to.String()))
	}
}
