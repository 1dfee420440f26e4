package middleware

import (
	"testing"
	"time"

	"studyroom/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
}

func TestRateLimiterAllow(t *testing.T) {
	limiter := NewRateLimiter(3, time.Minute, nil, testLogger())
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		if !limiter.Allow("2023123456") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if limiter.Allow("2023123456") {
		t.Errorf("request over the limit should be rejected")
	}
	if !limiter.Allow("2023999999") {
		t.Errorf("a different key should not share the allowance")
	}
}

func TestRateLimiterEmptyKeyAlwaysAllowed(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute, nil, testLogger())
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		if !limiter.Allow("") {
			t.Fatalf("empty key must never be limited")
		}
	}
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	limiter := NewRateLimiter(1, 20*time.Millisecond, nil, testLogger())
	defer limiter.Stop()

	if !limiter.Allow("2023123456") {
		t.Fatalf("first request should be allowed")
	}
	if limiter.Allow("2023123456") {
		t.Fatalf("second request inside the window should be rejected")
	}

	time.Sleep(30 * time.Millisecond)

	if !limiter.Allow("2023123456") {
		t.Errorf("request after the window expired should be allowed")
	}
}
