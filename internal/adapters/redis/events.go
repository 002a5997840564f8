package redisad

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"cinema_catalog/internal/adapters/observability"
	"cinema_catalog/internal/domain"
)

// maxStreamLen bounds the stream; trimming is approximate.
const maxStreamLen = 10000

// Publisher appends change events to a Redis stream.
type Publisher struct {
	c      *redis.Client
	stream string
}

func New(addr, pass string, db int, stream string) *Publisher {
	return &Publisher{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}), stream: stream}
}

func (p *Publisher) Publish(ctx context.Context, ev domain.Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	err = p.c.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: maxStreamLen,
		Approx: true,
		Values: map[string]any{
			"entity":  ev.Entity,
			"action":  string(ev.Action),
			"payload": string(b),
		},
	}).Err()
	observability.ObserveEvent("redis", err)
	return err
}

func (p *Publisher) Close() error { return p.c.Close() }
