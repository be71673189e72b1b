package preflight

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type redisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// CacheProbe sends PING to the Redis instance and expects PONG.
type CacheProbe struct {
	url       string
	newClient func(opts *redis.Options) redisPinger
}

func NewCacheProbe(url string) *CacheProbe {
	return &CacheProbe{
		url: url,
		newClient: func(opts *redis.Options) redisPinger {
			return redis.NewClient(opts)
		},
	}
}

func (p *CacheProbe) Name() string     { return "cache" }
func (p *CacheProbe) Configured() bool { return p.url != "" }

func (p *CacheProbe) Check(ctx context.Context) error {
	opts, err := redis.ParseURL(p.url)
	if err != nil {
		return fmt.Errorf("invalid redis url: %w", err)
	}
	opts.MaxRetries = -1

	client := p.newClient(opts)
	defer client.Close()

	reply, err := client.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	if reply != "PONG" {
		return fmt.Errorf("unexpected redis ping reply %q", reply)
	}
	return nil
}
