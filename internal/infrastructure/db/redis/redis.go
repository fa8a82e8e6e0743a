// Package redis holds the Redis-backed session store.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const defaultDialTimeout = 5 * time.Second

// Config selects the Redis server and logical database that hold sessions.
type Config struct {
	Addr     string
	Password string
	DB       int
	// Timeout bounds the dial and the startup ping.
	Timeout time.Duration
}

// Connect opens a client for the session store and pings it once so a
// misconfigured address fails at startup rather than on the first login.
func Connect(ctx context.Context, cfg Config, log zerolog.Logger) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: timeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis session store %s/%d: %w", cfg.Addr, cfg.DB, err)
	}

	log.Info().
		Str("addr", cfg.Addr).
		Int("db", cfg.DB).
		Dur("ping", time.Since(start)).
		Msg("session store connected")
	return client, nil
}
