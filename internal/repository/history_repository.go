package repository

import (
	"context"
	"strings"

	"github.com/Vitalik1800/WeatherAppAPI/internal/config"
	redisv9 "github.com/redis/go-redis/v9"
)

// HistoryRepository keeps the most recently searched locations, newest first.
type HistoryRepository interface {
	Add(ctx context.Context, location string) error
	Recent(ctx context.Context) ([]string, error)
}

// listClient is the subset of the Redis client the history store needs.
type listClient interface {
	TxPipelined(ctx context.Context, fn func(redisv9.Pipeliner) error) ([]redisv9.Cmder, error)
	LRange(ctx context.Context, key string, start, stop int64) *redisv9.StringSliceCmd
}

type historyRepository struct {
	redisClient listClient
	key         string
	size        int64
}

// NewHistoryRepository creates a history store bounded to cfg.Size entries under cfg.Key.
func NewHistoryRepository(client *redisv9.Client, cfg config.HistoryConfig) HistoryRepository {
	size := cfg.Size
	if size <= 0 {
		size = 10
	}
	return &historyRepository{
		redisClient: client,
		key:         cfg.Key,
		size:        size,
	}
}

// Add moves location to the front of the list, dropping the overflow and older entries
// that differ from it only in case.
func (r *historyRepository) Add(ctx context.Context, location string) error {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil
	}
	stored, err := r.redisClient.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return err
	}
	_, err = r.redisClient.TxPipelined(ctx, func(pipe redisv9.Pipeliner) error {
		for _, entry := range stored {
			if strings.EqualFold(entry, location) {
				pipe.LRem(ctx, r.key, 0, entry)
			}
		}
		pipe.LRem(ctx, r.key, 0, location)
		pipe.LPush(ctx, r.key, location)
		pipe.LTrim(ctx, r.key, 0, r.size-1)
		return nil
	})
	return err
}

func (r *historyRepository) Recent(ctx context.Context) ([]string, error) {
	return r.redisClient.LRange(ctx, r.key, 0, r.size-1).Result()
}
