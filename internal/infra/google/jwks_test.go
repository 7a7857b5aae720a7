package google

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestAudienceMatches(t *testing.T) {
	cases := []struct {
		name     string
		aud      any
		clientID string
		want     bool
	}{
		{name: "string match", aud: "client", clientID: "client", want: true},
		{name: "string mismatch", aud: "client", clientID: "other", want: false},
		{name: "slice any match", aud: []any{"other", "client"}, clientID: "client", want: true},
		{name: "slice any mismatch", aud: []any{"other", 1}, clientID: "client", want: false},
		{name: "slice string match", aud: []string{"client", "alt"}, clientID: "client", want: true},
		{name: "missing", aud: nil, clientID: "client", want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := audienceMatches(tc.aud, tc.clientID); got != tc.want {
				t.Fatalf("audienceMatches(%v, %q) = %v, want %v", tc.aud, tc.clientID, got, tc.want)
			}
		})
	}
}

func newIssuer(t *testing.T, key *rsa.PrivateKey) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/.well-known/openid-configuration":
			_ = json.NewEncoder(w).Encode(map[string]string{"jwks_uri": srv.URL + "/certs"})
		case "/certs":
			_ = json.NewEncoder(w).Encode(jwks{Keys: []jwk{{
				Kid: "k1",
				Kty: "RSA",
				Alg: "RS256",
				N:   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
				E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
			}}})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func signToken(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = "k1"
	signed, err := tok.SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestVerify(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	srv := newIssuer(t, key)
	v := NewVerifier(srv.URL, "client-1")

	base := jwt.MapClaims{
		"iss":            srv.URL,
		"aud":            "client-1",
		"sub":            "g-123",
		"email":          "ana@example.com",
		"email_verified": true,
		"name":           "Ana",
		"picture":        "https://img.example.com/ana.png",
		"exp":            time.Now().Add(time.Hour).Unix(),
	}

	id, err := v.Verify(context.Background(), signToken(t, key, base))
	if err != nil {
		t.Fatalf("Verify() unexpected error: %v", err)
	}
	if id.Email != "ana@example.com" || id.ID != "g-123" || id.DisplayName != "Ana" {
		t.Fatalf("Verify() = %+v", id)
	}

	tests := map[string]func(c jwt.MapClaims){
		"wrong audience": func(c jwt.MapClaims) { c["aud"] = "someone-else" },
		"wrong issuer":   func(c jwt.MapClaims) { c["iss"] = "https://evil.example.com" },
		"expired":        func(c jwt.MapClaims) { c["exp"] = time.Now().Add(-time.Hour).Unix() },
		"unverified":     func(c jwt.MapClaims) { c["email_verified"] = false },
		"no email":       func(c jwt.MapClaims) { delete(c, "email") },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			claims := jwt.MapClaims{}
			for k, val := range base {
				claims[k] = val
			}
			mutate(claims)
			if _, err := v.Verify(context.Background(), signToken(t, key, claims)); err == nil {
				t.Fatalf("Verify() expected error")
			}
		})
	}

	other, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	if _, err := v.Verify(context.Background(), signToken(t, other, base)); err == nil {
		t.Fatalf("Verify() accepted a token signed by an unknown key")
	}
}
