package handler

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vitistack/authproxy/internal/api/handlers/control"
	"github.com/vitistack/authproxy/internal/api/handlers/proxy"
	"github.com/vitistack/authproxy/internal/api/routes"
	"github.com/vitistack/authproxy/internal/interceptor"
	"github.com/vitistack/authproxy/pkg/rest/middleware"
)

type Handler struct {
	proxy    *proxy.ProxyService
	control  *control_service.ControlService
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

func NewHandler(dispatcher *interceptor.Dispatcher, channel control_service.Asker, gatherer prometheus.Gatherer, logger *slog.Logger) *Handler {
	return &Handler{
		proxy:    proxy.NewProxyService(dispatcher, logger),
		control:  control_service.NewControlService(channel, dispatcher.Coordinator(), logger),
		gatherer: gatherer,
		logger:   logger,
	}
}

// Routes builds the loopback API. Control and metrics routes are matched first,
// any other request is dispatched upstream.
func (h *Handler) Routes() http.Handler {
	chain := middleware.Chain(
		middleware.WithRequestID(),
		middleware.WithIncomingRequestLogging(h.logger),
	)

	metrics := promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})

	mux := http.NewServeMux()
	mux.HandleFunc(routes.POST_CONTROL, chain(h.control.PostControl))
	mux.HandleFunc(routes.GET_STATUS, chain(h.control.GetStatus))
	mux.Handle(routes.GET_METRICS, metrics)
	mux.HandleFunc(routes.PROXY, chain(h.proxy.Forward))
	return mux
}
