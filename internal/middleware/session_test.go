package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"civicfund/internal/domain"
	"civicfund/internal/session"
)

type stubResolver struct {
	tokens map[string]domain.Identity
	err    error
	seen   []string
}

func (s *stubResolver) Resolve(_ context.Context, token string) (*session.Context, error) {
	s.seen = append(s.seen, token)
	if s.err != nil {
		return nil, s.err
	}
	if id, ok := s.tokens[token]; ok {
		return session.Authenticated(id, token), nil
	}
	return session.Anonymous(), nil
}

func TestSessionMiddleware(t *testing.T) {
	resolver := &stubResolver{tokens: map[string]domain.Identity{"good": {Email: "a@example.com"}}}
	var got *domain.Identity
	handler := Session(resolver, zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = session.IdentityFromContext(r.Context())
	}))

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "bearer", header: "Bearer good", want: "a@example.com"},
		{name: "lowercase scheme", header: "bearer good", want: "a@example.com"},
		{name: "unknown token", header: "Bearer stale"},
		{name: "no header"},
		{name: "basic auth", header: "Basic Zm9vOmJhcg=="},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got = nil
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)
			if tc.want == "" {
				if got != nil {
					t.Fatalf("expected anonymous session, got %+v", got)
				}
				return
			}
			if got == nil || got.Email != tc.want {
				t.Fatalf("identity = %+v, want %s", got, tc.want)
			}
		})
	}
}

func TestSessionMiddlewareStoreFailure(t *testing.T) {
	resolver := &stubResolver{err: errors.New("redis down")}
	called := false
	handler := Session(resolver, zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer x")
	handler.ServeHTTP(rr, req)
	if called || rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, called = %v", rr.Code, called)
	}
}
