package client

import (
	"net/http"
	"time"
)

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// LogInterception logs every outbound round trip. Headers are never logged, they carry credentials.
type LogInterception struct {
	Transport http.RoundTripper
	logger    Logger
}

func (li *LogInterception) RoundTrip(req *http.Request) (*http.Response, error) {
	trip := li.Transport
	if trip == nil {
		trip = http.DefaultTransport
	}

	endpoint := req.URL.Scheme + "://" + req.URL.Host + req.URL.Path
	start := time.Now()

	li.logger.Debug("making request", "method", req.Method, "endpoint", endpoint)
	resp, err := trip.RoundTrip(req)
	if err != nil {
		li.logger.Error("request failed", "reason", err.Error(), "method", req.Method, "endpoint", endpoint, "elapsed", time.Since(start))
	} else {
		li.logger.Debug("request succeeded", "status_code", resp.StatusCode, "method", req.Method, "endpoint", endpoint, "elapsed", time.Since(start))
	}

	return resp, err
}

func NewLogInterception(log Logger, base http.RoundTripper) http.RoundTripper {
	return &LogInterception{
		Transport: base,
		logger:    log,
	}
}
