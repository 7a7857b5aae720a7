package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	tests := []struct {
		name    string
		inbound string
		keep    bool
	}{
		{name: "propagates caller id", inbound: "abc-123", keep: true},
		{name: "mints when missing"},
		{name: "replaces oversized id", inbound: strings.Repeat("x", maxRequestIDLen+1)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.inbound != "" {
				req.Header.Set("X-Request-ID", tc.inbound)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			if seen == "" || rr.Header().Get("X-Request-ID") != seen {
				t.Fatalf("context id %q, header %q", seen, rr.Header().Get("X-Request-ID"))
			}
			if tc.keep && seen != tc.inbound {
				t.Fatalf("got %q, want %q", seen, tc.inbound)
			}
			if !tc.keep && seen == tc.inbound {
				t.Fatalf("expected a fresh id")
			}
		})
	}
}
