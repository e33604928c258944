package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*OnboardingRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewOnboardingRepository(client), mr
}

func TestOnboardingRepository_UnknownDevice(t *testing.T) {
	repo, _ := setupTestRedis(t)

	done, err := repo.Completed(context.Background(), "device-1")
	require.NoError(t, err)
	assert.False(t, done)
}

func TestOnboardingRepository_MarkCompleted(t *testing.T) {
	repo, mr := setupTestRedis(t)
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	require.NoError(t, repo.MarkCompleted(context.Background(), "device-1"))

	done, err := repo.Completed(context.Background(), "device-1")
	require.NoError(t, err)
	assert.True(t, done)

	raw, err := mr.Get(keyPrefix + "device-1")
	require.NoError(t, err)
	var rec onboardingRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))
	assert.True(t, fixed.Equal(rec.CompletedAt))
	assert.Equal(t, time.Duration(0), mr.TTL(keyPrefix+"device-1"))

	other, err := repo.Completed(context.Background(), "device-2")
	require.NoError(t, err)
	assert.False(t, other)
}

func TestOnboardingRepository_MarkCompletedKeepsFirstTime(t *testing.T) {
	repo, mr := setupTestRedis(t)
	first := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return first }
	require.NoError(t, repo.MarkCompleted(context.Background(), "d"))

	repo.now = func() time.Time { return first.Add(time.Hour) }
	require.NoError(t, repo.MarkCompleted(context.Background(), "d"))

	raw, err := mr.Get(keyPrefix + "d")
	require.NoError(t, err)
	var rec onboardingRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))
	assert.True(t, first.Equal(rec.CompletedAt))
}

func TestOnboardingRepository_CorruptValue(t *testing.T) {
	repo, mr := setupTestRedis(t)
	require.NoError(t, mr.Set(keyPrefix+"d", "{not json"))

	_, err := repo.Completed(context.Background(), "d")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal onboarding")
}

func TestOnboardingRepository_RedisDown(t *testing.T) {
	repo, mr := setupTestRedis(t)
	mr.Close()

	_, err := repo.Completed(context.Background(), "d")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis get onboarding")

	err = repo.MarkCompleted(context.Background(), "d")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis set onboarding")

	assert.Error(t, repo.Ping(context.Background()))
}
