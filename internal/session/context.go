package session

import (
	"context"

	"civicfund/internal/domain"
)

// Context is the session state of a single request: either one signed-in
// identity or none. It is attached to the request's context.Context and never
// shared between requests.
type Context struct {
	identity *domain.Identity
	token    string
}

// Anonymous is the session of a caller who has not signed in.
func Anonymous() *Context {
	return &Context{}
}

// Authenticated wraps identity and the session token it was resolved from.
func Authenticated(identity domain.Identity, token string) *Context {
	return &Context{identity: &identity, token: token}
}

// CurrentIdentity returns the signed-in identity or nil.
func (c *Context) CurrentIdentity() *domain.Identity {
	if c == nil || c.identity == nil {
		return nil
	}
	id := *c.identity
	return &id
}

// Token returns the session token, empty for anonymous callers.
func (c *Context) Token() string {
	if c == nil {
		return ""
	}
	return c.token
}

type contextKey struct{}

// NewContext returns a copy of parent carrying sc.
func NewContext(parent context.Context, sc *Context) context.Context {
	return context.WithValue(parent, contextKey{}, sc)
}

// FromContext returns the session attached to ctx, or an anonymous session.
func FromContext(ctx context.Context) *Context {
	if sc, ok := ctx.Value(contextKey{}).(*Context); ok && sc != nil {
		return sc
	}
	return Anonymous()
}

// IdentityFromContext is shorthand for FromContext(ctx).CurrentIdentity().
func IdentityFromContext(ctx context.Context) *domain.Identity {
	return FromContext(ctx).CurrentIdentity()
}
