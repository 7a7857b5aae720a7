// Package service implements the ledger operations. Every operation reads the
// caller from the request's session context, asks the access gate, and only
// then touches a repository.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"civicfund/internal/access"
	"civicfund/internal/domain"
	"civicfund/internal/metrics"
	"civicfund/internal/session"
	"civicfund/internal/viewcache"
)

// Clock returns the current time. Tests swap it for a fixed one.
type Clock func() time.Time

func authorize(ctx context.Context, op access.Operation, target access.Target) (*domain.Identity, error) {
	caller := session.IdentityFromContext(ctx)
	if err := access.Decide(caller, op, target); err != nil {
		metrics.AccessDenied(string(op), err)
		return nil, err
	}
	return caller, nil
}

func storeErr(op string, err error) error {
	return domain.Transport(op, err)
}

// invalidate drops cached views for every given email. Failures are logged:
// the write that triggered them has already happened.
func invalidate(ctx context.Context, views viewcache.Cache, logger zerolog.Logger, emails ...string) {
	if views == nil {
		return
	}
	seen := make(map[string]bool, len(emails))
	for _, email := range emails {
		email = domain.NormalizeEmail(email)
		if email == "" || seen[email] {
			continue
		}
		seen[email] = true
		if err := views.Invalidate(context.WithoutCancel(ctx), email); err != nil {
			logger.Error().Err(err).Str("email", email).Msg("view cache invalidate failed")
		}
	}
}

// cachedView serves view for email from the cache, or computes it with load
// and stores the result if the request is still live and no write has bumped
// the generation in the meantime.
func cachedView[T any](ctx context.Context, views viewcache.Cache, logger zerolog.Logger, email, view string, load func(context.Context) (T, error)) (T, error) {
	if views == nil {
		return load(ctx)
	}
	var cached T
	if ok, err := views.Get(ctx, email, view, &cached); err != nil {
		logger.Warn().Err(err).Str("view", view).Msg("view cache read failed")
	} else if ok {
		return cached, nil
	}

	ticket, err := views.Begin(ctx, email)
	if err != nil {
		logger.Warn().Err(err).Str("view", view).Msg("view cache begin failed")
		return load(ctx)
	}
	value, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, fmt.Errorf("%s: %w", view, err)
	}
	if err := views.Put(ctx, ticket, view, value); err != nil {
		logger.Warn().Err(err).Str("view", view).Msg("view cache write failed")
	}
	return value, nil
}
