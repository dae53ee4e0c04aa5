package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_RollingWindow(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewRateLimiter(2, time.Minute)
	r.now = func() time.Time { return now }

	assert.True(t, r.Allow())
	now = now.Add(30 * time.Second)
	assert.True(t, r.Allow())
	assert.False(t, r.Allow(), "third call inside the window")

	now = now.Add(31 * time.Second)
	assert.True(t, r.Allow(), "first event left the window")
	assert.False(t, r.Allow())
}

func TestRateLimiter_Disabled(t *testing.T) {
	r := NewRateLimiter(0, 0)
	for i := 0; i < 100; i++ {
		assert.True(t, r.Allow())
	}
	var nilLimiter *RateLimiter
	assert.True(t, nilLimiter.Allow())
}
