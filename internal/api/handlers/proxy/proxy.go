package proxy

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/vitistack/authproxy/internal/interceptor"
	"github.com/vitistack/authproxy/pkg/rest/middleware"
	"github.com/vitistack/authproxy/pkg/rest/response"
)

// MaxBodyBytes caps the request body accepted from the hosting application.
const MaxBodyBytes = 4 << 20

type Dispatcher interface {
	Dispatch(ctx context.Context, intent interceptor.RouteIntent) (*interceptor.Response, error)
}

type ProxyService struct {
	dispatcher Dispatcher
	logger     *slog.Logger
}

func NewProxyService(dispatcher Dispatcher, logger *slog.Logger) *ProxyService {
	return &ProxyService{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Forward turns the incoming request into an intent, dispatches it and relays the result.
// Credentials sent by the caller are ignored, the dispatcher attaches its own.
func (ps *ProxyService) Forward(w http.ResponseWriter, r *http.Request) {
	logger := ps.logger.With(slog.String("request_id", middleware.RequestID(r.Context())))

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		logger.Error("could not read request body", slog.String("reason", err.Error()))
		response.Err(w, response.ErrInvalidInput, "unable to read request body")
		return
	}

	intent := interceptor.RouteIntent{
		Method: r.Method,
		Path:   r.URL.RequestURI(),
	}
	if len(body) > 0 {
		intent.Body = body
	}

	resp, err := ps.dispatcher.Dispatch(r.Context(), intent)
	switch {
	case errors.Is(err, interceptor.ErrInvalidBody):
		response.Err(w, response.ErrInvalidInput, "request body must be JSON")
		return
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn("upstream timed out", slog.String("reason", err.Error()))
		response.Err(w, response.ErrTimeout, "upstream did not answer in time")
		return
	case err != nil:
		logger.Warn("upstream unreachable", slog.String("reason", err.Error()))
		response.Err(w, response.ErrBadGateway, "upstream unreachable")
		return
	}

	if err := response.Relay(w, resp.Status, resp.Header, resp.Body); err != nil {
		logger.Debug("could not relay response", slog.String("reason", err.Error()))
	}
}
