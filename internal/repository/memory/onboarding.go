package memory

import (
	"context"
	"sync"
)

// OnboardingRepository keeps onboarding flags in process memory. Flags are
// lost on restart.
type OnboardingRepository struct {
	mu   sync.RWMutex
	done map[string]struct{}
}

// NewOnboardingRepository creates an empty in-memory repository.
func NewOnboardingRepository() *OnboardingRepository {
	return &OnboardingRepository{done: make(map[string]struct{})}
}

func (r *OnboardingRepository) Completed(_ context.Context, deviceID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.done[deviceID]
	return ok, nil
}

func (r *OnboardingRepository) MarkCompleted(_ context.Context, deviceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.done[deviceID] = struct{}{}
	return nil
}
