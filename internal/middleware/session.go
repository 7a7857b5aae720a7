package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"civicfund/internal/session"
)

// SessionResolver turns a bearer token into a request-scoped session.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*session.Context, error)
}

// Session attaches the caller's session to the request context. Requests
// without a usable token proceed anonymously; the access gate decides later
// whether that is enough.
func Session(resolver SessionResolver, l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sc, err := resolver.Resolve(r.Context(), BearerToken(r))
			if err != nil {
				l.Error().Err(err).Str("request_id", RequestIDFromContext(r.Context())).Msg("session lookup failed")
				http.Error(w, "session store unavailable", http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sc)))
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
