package repository

import (
	"context"
	"testing"

	"github.com/Vitalik1800/WeatherAppAPI/internal/config"
	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHistory(t *testing.T, size int64) (HistoryRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewHistoryRepository(client, config.HistoryConfig{Key: "weather:history", Size: size}), mr
}

func TestHistory_AddAndRecent(t *testing.T) {
	history, _ := newTestHistory(t, 10)
	ctx := context.Background()

	require.NoError(t, history.Add(ctx, "Kyiv"))
	require.NoError(t, history.Add(ctx, "Lviv"))
	require.NoError(t, history.Add(ctx, "Odesa"))

	recent, err := history.Recent(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Odesa", "Lviv", "Kyiv"}, recent)
}

func TestHistory_DuplicateMovesToFront(t *testing.T) {
	history, mr := newTestHistory(t, 10)
	ctx := context.Background()

	require.NoError(t, history.Add(ctx, "Kyiv"))
	require.NoError(t, history.Add(ctx, "Lviv"))
	require.NoError(t, history.Add(ctx, " Kyiv "))

	recent, err := history.Recent(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Kyiv", "Lviv"}, recent)

	stored, err := mr.List("weather:history")
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestHistory_DuplicateIgnoresCase(t *testing.T) {
	history, mr := newTestHistory(t, 10)
	ctx := context.Background()

	require.NoError(t, history.Add(ctx, "Kyiv"))
	require.NoError(t, history.Add(ctx, "Lviv"))
	require.NoError(t, history.Add(ctx, "KYIV"))
	require.NoError(t, history.Add(ctx, "kyiv"))

	recent, err := history.Recent(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"kyiv", "Lviv"}, recent)

	stored, err := mr.List("weather:history")
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestHistory_Bounded(t *testing.T) {
	history, _ := newTestHistory(t, 2)
	ctx := context.Background()

	for _, loc := range []string{"Kyiv", "Lviv", "Odesa"} {
		require.NoError(t, history.Add(ctx, loc))
	}

	recent, err := history.Recent(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Odesa", "Lviv"}, recent)
}

func TestHistory_BlankIgnored(t *testing.T) {
	history, _ := newTestHistory(t, 10)
	ctx := context.Background()

	require.NoError(t, history.Add(ctx, "   "))
	recent, err := history.Recent(ctx)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestHistory_RedisUnavailable(t *testing.T) {
	history, mr := newTestHistory(t, 10)
	mr.Close()

	assert.Error(t, history.Add(context.Background(), "Kyiv"))
	_, err := history.Recent(context.Background())
	assert.Error(t, err)
}
