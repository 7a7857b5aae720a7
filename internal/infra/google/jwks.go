// Package google verifies Google ID tokens against the issuer's published
// signing keys.
package google

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"

	"civicfund/internal/domain"
)

type jwks struct {
	Keys []jwk `json:"keys"`
}

type jwk struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type openIDConfig struct {
	JWKSURI string `json:"jwks_uri"`
}

// Verifier checks ID tokens and caches the issuer's RSA keys for an hour.
type Verifier struct {
	issuer   string
	clientID string
	client   *resty.Client
	now      func() time.Time

	mu      sync.RWMutex
	keys    map[string]any
	fetched time.Time
}

func NewVerifier(issuer, clientID string) *Verifier {
	return &Verifier{
		issuer:   strings.TrimRight(issuer, "/"),
		clientID: clientID,
		client:   resty.New().SetTimeout(10 * time.Second),
		now:      time.Now,
		keys:     make(map[string]any),
	}
}

// Verify validates idToken and returns the identity it asserts.
func (v *Verifier) Verify(ctx context.Context, idToken string) (domain.Identity, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(idToken, claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		return v.key(ctx, kid)
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("verify id token: %w", err)
	}

	iss, _ := claims["iss"].(string)
	if !v.issuerMatches(iss) {
		return domain.Identity{}, errors.New("invalid issuer")
	}
	if !audienceMatches(claims["aud"], v.clientID) {
		return domain.Identity{}, errors.New("invalid audience")
	}
	if verified, ok := claims["email_verified"].(bool); ok && !verified {
		return domain.Identity{}, errors.New("email not verified")
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	picture, _ := claims["picture"].(string)
	if email == "" {
		return domain.Identity{}, errors.New("token carries no email")
	}
	return domain.Identity{ID: sub, Email: email, DisplayName: name, PhotoURL: picture}, nil
}

// Google issues tokens with and without the scheme in iss.
func (v *Verifier) issuerMatches(iss string) bool {
	if iss == v.issuer {
		return true
	}
	bare := strings.TrimPrefix(strings.TrimPrefix(v.issuer, "https://"), "http://")
	return iss == bare
}

func audienceMatches(aud any, clientID string) bool {
	switch a := aud.(type) {
	case string:
		return a == clientID
	case []string:
		for _, s := range a {
			if s == clientID {
				return true
			}
		}
	case []any:
		for _, item := range a {
			if s, ok := item.(string); ok && s == clientID {
				return true
			}
		}
	}
	return false
}

func (v *Verifier) key(ctx context.Context, kid string) (any, error) {
	v.mu.RLock()
	key, ok := v.keys[kid]
	fresh := v.now().Sub(v.fetched) < time.Hour
	v.mu.RUnlock()
	if ok && fresh {
		return key, nil
	}
	if err := v.refresh(ctx); err != nil {
		return nil, err
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	if key, ok := v.keys[kid]; ok {
		return key, nil
	}
	return nil, errors.New("unknown kid")
}

func (v *Verifier) refresh(ctx context.Context) error {
	var cfg openIDConfig
	resp, err := v.client.R().SetContext(ctx).SetResult(&cfg).
		Get(v.issuer + "/.well-known/openid-configuration")
	if err != nil {
		return fmt.Errorf("fetch openid configuration: %w", err)
	}
	if resp.IsError() || cfg.JWKSURI == "" {
		return fmt.Errorf("fetch openid configuration: status %d", resp.StatusCode())
	}

	var set jwks
	resp, err = v.client.R().SetContext(ctx).SetResult(&set).Get(cfg.JWKSURI)
	if err != nil {
		return fmt.Errorf("fetch jwks: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("fetch jwks: status %d", resp.StatusCode())
	}

	keys := make(map[string]any)
	for _, k := range set.Keys {
		if k.Kty != "RSA" {
			continue
		}
		pub, err := rsaKeyFromJWK(k)
		if err != nil {
			continue
		}
		keys[k.Kid] = pub
	}
	if len(keys) == 0 {
		return errors.New("no keys fetched")
	}
	v.mu.Lock()
	v.keys = keys
	v.fetched = v.now()
	v.mu.Unlock()
	return nil
}
