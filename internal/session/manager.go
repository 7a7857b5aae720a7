// Package session carries the signed-in identity of a request. Sessions are
// HS256 tokens whose session id must also be present in a Store, so a
// sign-out takes effect before the token expires.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"civicfund/internal/domain"
)

const issuer = "civicfund"

// Claims are the session token claims.
type Claims struct {
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// SignOutListener is notified after a session for identity has been revoked.
type SignOutListener func(ctx context.Context, identity domain.Identity)

// Manager issues, resolves and revokes sessions.
type Manager struct {
	secret []byte
	ttl    time.Duration
	store  Store
	logger zerolog.Logger
	now    func() time.Time

	mu        sync.RWMutex
	listeners []SignOutListener
}

func NewManager(secret string, ttl time.Duration, store Store, logger zerolog.Logger) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// OnSignOut registers l to run after every sign-out.
func (m *Manager) OnSignOut(l SignOutListener) {
	m.mu.Lock()
	m.listeners = append(m.listeners, l)
	m.mu.Unlock()
}

// SignIn starts a session for an identity the identity provider has already
// confirmed and returns its token.
func (m *Manager) SignIn(ctx context.Context, identity domain.Identity) (string, *Context, error) {
	identity.Email = domain.NormalizeEmail(identity.Email)
	if identity.Email == "" {
		return "", nil, fmt.Errorf("sign in: identity email: %w", domain.ErrUnauthenticated)
	}
	now := m.now()
	sid := uuid.NewString()
	claims := Claims{
		Email:   identity.Email,
		Name:    identity.DisplayName,
		Picture: identity.PhotoURL,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sid,
			Subject:   identity.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}
	if err := m.store.Save(ctx, sid, Record{Identity: identity, CreatedAt: now.UTC()}, m.ttl); err != nil {
		return "", nil, domain.Transport("save session", err)
	}
	return token, Authenticated(identity, token), nil
}

// Resolve maps a token to its session. Missing, malformed, expired and revoked
// tokens resolve to an anonymous session; only a store failure is an error.
func (m *Manager) Resolve(ctx context.Context, token string) (*Context, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Anonymous(), nil
	}
	claims, err := m.parse(token)
	if err != nil {
		m.logger.Debug().Err(err).Msg("session token rejected")
		return Anonymous(), nil
	}
	rec, err := m.store.Lookup(ctx, claims.ID)
	if errors.Is(err, ErrSessionNotFound) {
		return Anonymous(), nil
	}
	if err != nil {
		return nil, domain.Transport("lookup session", err)
	}
	return Authenticated(rec.Identity, token), nil
}

// SignOut revokes the session behind token and notifies listeners. Signing out
// an unknown or already revoked session is a no-op.
func (m *Manager) SignOut(ctx context.Context, token string) error {
	claims, err := m.parse(strings.TrimSpace(token))
	if err != nil {
		return nil
	}
	rec, err := m.store.Lookup(ctx, claims.ID)
	if errors.Is(err, ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return domain.Transport("lookup session", err)
	}
	if err := m.store.Revoke(ctx, claims.ID); err != nil {
		return domain.Transport("revoke session", err)
	}

	m.mu.RLock()
	listeners := append([]SignOutListener(nil), m.listeners...)
	m.mu.RUnlock()
	for _, l := range listeners {
		l(ctx, rec.Identity)
	}
	return nil
}

func (m *Manager) parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claims.ID == "" {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}
