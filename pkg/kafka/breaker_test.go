package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPublisher struct {
	calls int
	err   error
}

func (p *countingPublisher) Publish(context.Context, string, *Event) error {
	p.calls++
	return p.err
}

func breakerEvent(t *testing.T) *Event {
	t.Helper()
	evt, err := NewEvent("storefront.cart.cleared", cartAggregate, "storefront", map[string]string{"device_id": "device-1"})
	require.NoError(t, err)
	return evt
}

func TestBreakerPublisher_PassesThrough(t *testing.T) {
	next := &countingPublisher{}
	b := NewBreakerPublisher(next, DefaultBreakerConfig("test-pass"), testLogger())

	require.NoError(t, b.Publish(context.Background(), "t", breakerEvent(t)))
	assert.Equal(t, 1, next.calls)
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestBreakerPublisher_OpensAfterConsecutiveFailures(t *testing.T) {
	next := &countingPublisher{err: errors.New("broker down")}
	cfg := DefaultBreakerConfig("test-open")
	cfg.ConsecutiveFailures = 3
	cfg.Timeout = time.Hour
	b := NewBreakerPublisher(next, cfg, testLogger())

	for i := 0; i < 3; i++ {
		err := b.Publish(context.Background(), "t", breakerEvent(t))
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrBreakerOpen)
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	err := b.Publish(context.Background(), "t", breakerEvent(t))
	assert.ErrorIs(t, err, ErrBreakerOpen)
	assert.Equal(t, 3, next.calls, "open breaker must not reach the writer")
}

func TestBreakerPublisher_CanceledDoesNotTrip(t *testing.T) {
	next := &countingPublisher{err: context.Canceled}
	cfg := DefaultBreakerConfig("test-cancel")
	cfg.ConsecutiveFailures = 1
	b := NewBreakerPublisher(next, cfg, testLogger())

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, b.Publish(context.Background(), "t", breakerEvent(t)), context.Canceled)
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestBreakerPublisher_HalfOpenRecovers(t *testing.T) {
	next := &countingPublisher{err: errors.New("broker down")}
	cfg := DefaultBreakerConfig("test-recover")
	cfg.ConsecutiveFailures = 1
	cfg.Timeout = 10 * time.Millisecond
	b := NewBreakerPublisher(next, cfg, testLogger())

	require.Error(t, b.Publish(context.Background(), "t", breakerEvent(t)))
	require.Equal(t, gobreaker.StateOpen, b.State())

	next.err = nil
	require.Eventually(t, func() bool {
		return b.State() == gobreaker.StateHalfOpen
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, b.Publish(context.Background(), "t", breakerEvent(t)))
	assert.Equal(t, gobreaker.StateClosed, b.State())
}
