package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "storefront:onboarding:"

type onboardingRecord struct {
	CompletedAt time.Time `json:"completed_at"`
}

// OnboardingRepository implements repository.OnboardingRepository using Redis.
// Records have no expiry.
type OnboardingRepository struct {
	client *redis.Client
	now    func() time.Time
}

// NewOnboardingRepository creates a Redis-backed onboarding repository.
func NewOnboardingRepository(client *redis.Client) *OnboardingRepository {
	return &OnboardingRepository{
		client: client,
		now:    time.Now,
	}
}

// Completed reports whether a record exists for deviceID.
func (r *OnboardingRepository) Completed(ctx context.Context, deviceID string) (bool, error) {
	data, err := r.client.Get(ctx, keyPrefix+deviceID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis get onboarding: %w", err)
	}

	var rec onboardingRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return false, fmt.Errorf("unmarshal onboarding: %w", err)
	}
	return true, nil
}

// MarkCompleted writes the record for deviceID. An existing record keeps its
// original completion time.
func (r *OnboardingRepository) MarkCompleted(ctx context.Context, deviceID string) error {
	data, err := json.Marshal(onboardingRecord{CompletedAt: r.now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal onboarding: %w", err)
	}

	if err := r.client.SetNX(ctx, keyPrefix+deviceID, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set onboarding: %w", err)
	}
	return nil
}

// Ping checks the Redis connection; it backs the readiness probe.
func (r *OnboardingRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
