package handlers

import (
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	limiter := newRateLimiter()
	ip := "127.0.0.1"

	assert.True(t, limiter.Allow(ip), "allowed initially")

	for i := 0; i < maxAttempts-1; i++ {
		limiter.RecordFailure(ip)
	}
	assert.True(t, limiter.Allow(ip), "allowed below the threshold")

	limiter.RecordFailure(ip)
	assert.False(t, limiter.Allow(ip), "blocked at the threshold")

	limiter.Reset(ip)
	assert.True(t, limiter.Allow(ip), "allowed after reset")
}

func TestRateLimiterTracksIPsSeparately(t *testing.T) {
	limiter := newRateLimiter()

	for i := 0; i < maxAttempts; i++ {
		limiter.RecordFailure("10.0.0.1")
	}

	assert.False(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.2"))
}

func TestRateLimiterParallel(t *testing.T) {
	limiter := newRateLimiter()
	ip := "10.0.0.1"

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			limiter.RecordFailure(ip)
		}()
	}
	wg.Wait()

	assert.False(t, limiter.Allow(ip), "blocked after concurrent failures")
}

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.0.2.10:54321"
	assert.Equal(t, "192.0.2.10", getClientIP(r))

	r.RemoteAddr = "192.0.2.11"
	assert.Equal(t, "192.0.2.11", getClientIP(r))
}
