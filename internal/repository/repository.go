package repository

import "context"

// OnboardingRepository persists the "onboarding completed" flag per device.
type OnboardingRepository interface {
	// Completed reports whether the device has finished onboarding. Unknown
	// devices report false.
	Completed(ctx context.Context, deviceID string) (bool, error)

	// MarkCompleted records that the device finished onboarding.
	MarkCompleted(ctx context.Context, deviceID string) error
}
