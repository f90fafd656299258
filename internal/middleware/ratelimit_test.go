package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterStop(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	assert.True(t, rl.Allow("caller"))
	assert.False(t, rl.Allow("caller"))

	rl.Stop()
	rl.Stop() // idempotent

	// limiting keeps working after the cleanup goroutine exits
	assert.False(t, rl.Allow("caller"))
	assert.True(t, rl.Allow("other"))
}
