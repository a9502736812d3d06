package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vitistack/authproxy/pkg/auth/jwt"
	"github.com/vitistack/authproxy/pkg/rest/middleware"
	"github.com/vitistack/authproxy/pkg/rest/response"
)

type claimsKey struct{}

// BearerToken extracts the credential from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer")
	if !ok {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// WithTokenValidation rejects requests that do not carry a valid bearer token of the given use.
func WithTokenValidation(issuer *jwt.TokenIssuer, use jwt.TokenUse, logger *slog.Logger) middleware.MiddlewareFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				logger.Debug("token-validation failed", slog.String("reason", "missing bearer token"), slog.String("route", r.URL.Path))
				response.JSON(w, http.StatusUnauthorized, jwt.Errors[jwt.ErrUnAuthorized])
				return
			}

			claims, err := issuer.Verify(token, use)
			if err != nil {
				logger.Debug("token-validation failed", slog.String("reason", err.Error()), slog.String("route", r.URL.Path))
				response.JSON(w, http.StatusUnauthorized, jwt.Errors[jwt.ErrUnAuthorized])
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
		}
	}
}

// ClaimsFromContext returns the claims stored by WithTokenValidation.
func ClaimsFromContext(ctx context.Context) (*jwt.SessionClaims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*jwt.SessionClaims)
	return claims, ok
}
