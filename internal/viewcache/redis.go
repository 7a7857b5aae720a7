package viewcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"civicfund/internal/domain"
)

// Redis is a Cache shared by every API instance.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, prefix: "view:", ttl: ttl}
}

func (r *Redis) genKey(email string) string {
	return r.prefix + "gen:" + email
}

func (r *Redis) viewKey(email, view string) string {
	return r.prefix + view + ":" + email
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *Redis) generation(ctx context.Context, c getter, email string) (int64, error) {
	gen, err := c.Get(ctx, r.genKey(email)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (r *Redis) Begin(ctx context.Context, email string) (Ticket, error) {
	email = domain.NormalizeEmail(email)
	gen, err := r.generation(ctx, r.client, email)
	if err != nil {
		return Ticket{}, fmt.Errorf("read view generation: %w", err)
	}
	return Ticket{Email: email, Generation: gen}, nil
}

func (r *Redis) Get(ctx context.Context, email, view string, dst any) (bool, error) {
	email = domain.NormalizeEmail(email)
	raw, err := r.client.Get(ctx, r.viewKey(email, view)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read view: %w", err)
	}
	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return false, fmt.Errorf("decode view: %w", err)
	}
	gen, err := r.generation(ctx, r.client, email)
	if err != nil {
		return false, fmt.Errorf("read view generation: %w", err)
	}
	if e.Generation != gen {
		return false, nil
	}
	if err := json.Unmarshal(e.Payload, dst); err != nil {
		return false, fmt.Errorf("decode view payload: %w", err)
	}
	return true, nil
}

// Put writes inside a WATCH on the generation key, so an Invalidate that lands
// between the check and the write aborts the write.
func (r *Redis) Put(ctx context.Context, t Ticket, view string, value any) error {
	if ctx.Err() != nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode view payload: %w", err)
	}
	raw, err := json.Marshal(entry{Generation: t.Generation, Payload: payload})
	if err != nil {
		return fmt.Errorf("encode view: %w", err)
	}

	genKey := r.genKey(t.Email)
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		gen, err := r.generation(ctx, tx, t.Email)
		if err != nil {
			return err
		}
		if gen != t.Generation {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.viewKey(t.Email, view), raw, r.ttl)
			return nil
		})
		return err
	}, genKey)
	if errors.Is(err, redis.TxFailedErr) || ctx.Err() != nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("write view: %w", err)
	}
	return nil
}

func (r *Redis) Invalidate(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	keys := make([]string, 0, len(Views))
	for _, view := range Views {
		keys = append(keys, r.viewKey(email, view))
	}
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, r.genKey(email))
		pipe.Del(ctx, keys...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("invalidate views: %w", err)
	}
	return nil
}

var _ Cache = (*Redis)(nil)
