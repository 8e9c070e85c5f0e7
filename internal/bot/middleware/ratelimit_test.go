package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterAllowsUpToLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	defer rl.Close()

	for i := 0; i < 3; i++ {
		if !rl.Allow("user") {
			t.Fatalf("request %d must be allowed", i+1)
		}
	}
	if rl.Allow("user") {
		t.Fatal("request over the limit must be denied")
	}
}

func TestRateLimiterIsolatesUsers(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Close()

	if !rl.Allow("a") {
		t.Fatal("first request of a must be allowed")
	}
	if !rl.Allow("b") {
		t.Fatal("b has its own budget")
	}
	if rl.Allow("a") {
		t.Fatal("a is over the limit")
	}
}

func TestRateLimiterWindowSlides(t *testing.T) {
	rl := NewRateLimiter(1, 20*time.Millisecond)
	defer rl.Close()

	if !rl.Allow("user") {
		t.Fatal("first request must be allowed")
	}
	if rl.Allow("user") {
		t.Fatal("second request inside the window must be denied")
	}

	time.Sleep(30 * time.Millisecond)
	if !rl.Allow("user") {
		t.Fatal("request after the window must be allowed again")
	}
}
