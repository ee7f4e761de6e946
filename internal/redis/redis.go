package redis

import (
	"context"
	"time"

	"github.com/Vitalik1800/WeatherAppAPI/internal/config"
	redisv9 "github.com/redis/go-redis/v9"
)

const pingTimeout = 2 * time.Second

// NewClient creates the process-wide Redis client for the history store.
func NewClient(cfg config.RedisConfig) *redisv9.Client {
	return redisv9.NewClient(&redisv9.Options{
		Addr: cfg.Addr,
	})
}

// Connect creates a client and verifies the server answers. The client is closed on failure.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redisv9.Client, error) {
	client := NewClient(cfg)
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
