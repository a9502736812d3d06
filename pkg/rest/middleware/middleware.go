package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

type MiddlewareFunc func(next http.HandlerFunc) http.HandlerFunc

type requestIDKey struct{}

func Chain(mws ...MiddlewareFunc) MiddlewareFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}

// RequestID returns the id assigned by WithRequestID, or "N/A".
func RequestID(ctx context.Context) string {
	id, ok := ctx.Value(requestIDKey{}).(string)
	if !ok {
		return "N/A"
	}
	return id
}

// WithRequestID tags the request context with a fresh uuid v7.
func WithRequestID() MiddlewareFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.NewV7()
			if err == nil {
				r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id.String()))
			}
			next.ServeHTTP(w, r)
		}
	}
}

func WithIncomingRequestLogging(logger *slog.Logger) MiddlewareFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			logger.Info("incoming request",
				slog.GroupAttrs(
					"meta_data",
					slog.String("request_id", RequestID(r.Context())),
					slog.String("method", r.Method),
					slog.String("remote_host", r.RemoteAddr),
					slog.String("route", r.URL.Path),
					slog.String("query", r.URL.RawQuery),
					slog.String("user_agent", r.UserAgent()),
				),
			)

			next.ServeHTTP(w, r)
		}
	}
}
