package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_CapsWithinWindow(t *testing.T) {
	r := NewInMemoryRateLimiter(3, time.Hour)
	for i := 0; i < 3; i++ {
		assert.True(t, r.Allow("1.2.3.4"))
	}
	assert.False(t, r.Allow("1.2.3.4"))
	// Other keys keep their own bucket.
	assert.True(t, r.Allow("5.6.7.8"))
}

func TestRateLimiter_WindowResets(t *testing.T) {
	r := NewInMemoryRateLimiter(1, 10*time.Millisecond)
	assert.True(t, r.Allow("k"))
	assert.False(t, r.Allow("k"))
	time.Sleep(15 * time.Millisecond)
	assert.True(t, r.Allow("k"))
}
