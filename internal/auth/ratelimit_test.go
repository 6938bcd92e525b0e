package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLimiter() *RateLimiter {
	return NewRateLimiter(RateLimitConfig{
		MaxAttempts:     3,
		WindowDuration:  time.Minute,
		LockoutDuration: time.Minute,
	})
}

func TestRateLimiter_AllowsFreshAttempts(t *testing.T) {
	rl := newTestLimiter()
	defer rl.Stop()

	allowed, retryAfter := rl.Allow("10.0.0.1", "alice")
	assert.True(t, allowed)
	assert.Zero(t, retryAfter)
}

func TestRateLimiter_LocksAfterMaxFailures(t *testing.T) {
	rl := newTestLimiter()
	defer rl.Stop()

	for i := 0; i < 2; i++ {
		locked, _ := rl.RecordFailure("10.0.0.1", "alice")
		assert.False(t, locked)
	}

	locked, retryAfter := rl.RecordFailure("10.0.0.1", "alice")
	assert.True(t, locked)
	assert.Equal(t, time.Minute, retryAfter)

	allowed, retryAfter := rl.Allow("10.0.0.1", "alice")
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))
}

func TestRateLimiter_TracksPerIPAndUsername(t *testing.T) {
	rl := newTestLimiter()
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		rl.RecordFailure("10.0.0.1", "alice")
	}

	// Same user from a different address is unaffected, as is a
	// different user from the same address
	allowed, _ := rl.Allow("10.0.0.2", "alice")
	assert.True(t, allowed)
	allowed, _ = rl.Allow("10.0.0.1", "bob")
	assert.True(t, allowed)
}

func TestRateLimiter_SuccessClearsTracking(t *testing.T) {
	rl := newTestLimiter()
	defer rl.Stop()

	rl.RecordFailure("10.0.0.1", "alice")
	rl.RecordFailure("10.0.0.1", "alice")
	rl.RecordSuccess("10.0.0.1", "alice")

	// Counter starts over after a successful login
	locked, _ := rl.RecordFailure("10.0.0.1", "alice")
	assert.False(t, locked)
}
