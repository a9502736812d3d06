package interceptor

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	refreshRefreshed = "refreshed"
	refreshSkipped   = "skipped"
	refreshObserved  = "observed"
	refreshFailed    = "failed"
)

// Metrics is safe to use as a nil pointer, which records nothing.
type Metrics struct {
	dispatches *prometheus.CounterVec
	refreshes  *prometheus.CounterVec
	retries    prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	m := &Metrics{
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_total",
			Help:      "Dispatched intents by exchange kind and final status class.",
		}, []string{"exchange", "status_class"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_total",
			Help:      "Refresh coordinator outcomes.",
		}, []string{"result"}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retry_total",
			Help:      "Requests replayed after a 401.",
		}),
	}

	for _, c := range []prometheus.Collector{m.dispatches, m.refreshes, m.retries} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) dispatched(exchange Exchange, status int) {
	if m == nil {
		return
	}
	class := "network_error"
	if status > 0 {
		class = strconv.Itoa(status/100) + "xx"
	}
	m.dispatches.WithLabelValues(exchange.String(), class).Inc()
}

func (m *Metrics) refresh(result string) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(result).Inc()
}

func (m *Metrics) retried() {
	if m == nil {
		return
	}
	m.retries.Inc()
}
