package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestAllowWithinBudget(t *testing.T) {
	rl := New(Config{MaxRequestsPerMinute: 3, Logger: zap.NewNop()})
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		assert.True(t, rl.allow("client"), "request %d should pass", i+1)
	}
	assert.False(t, rl.allow("client"))
}

func TestBucketsAreIndependent(t *testing.T) {
	rl := New(Config{MaxRequestsPerMinute: 1, Logger: zap.NewNop()})
	defer rl.Stop()

	assert.True(t, rl.allow("a"))
	assert.False(t, rl.allow("a"))
	assert.True(t, rl.allow("b"))
}

func TestTokensRefill(t *testing.T) {
	rl := New(Config{
		MaxRequestsPerMinute: 2,
		WindowDuration:       40 * time.Millisecond,
		Logger:               zap.NewNop(),
	})
	defer rl.Stop()

	assert.True(t, rl.allow("client"))
	assert.True(t, rl.allow("client"))
	assert.False(t, rl.allow("client"))

	time.Sleep(50 * time.Millisecond)
	assert.True(t, rl.allow("client"))
}
