package middleware

import "testing"

func TestInvalidAuthRateLimiter(t *testing.T) {
	rl := NewInvalidAuthRateLimiter()
	ip := "192.0.2.1"

	if rl.IsBlocked(ip) {
		t.Fatal("fresh IP should not be blocked")
	}

	for i := 0; i < 4; i++ {
		rl.RecordFailure(ip)
	}
	if rl.IsBlocked(ip) {
		t.Fatal("IP blocked after 4 failures, limit is 5")
	}

	rl.RecordFailure(ip)
	if !rl.IsBlocked(ip) {
		t.Fatal("IP not blocked after 5 failures")
	}

	// Another IP is unaffected.
	if rl.IsBlocked("192.0.2.2") {
		t.Error("unrelated IP is blocked")
	}

	rl.Reset(ip)
	if rl.IsBlocked(ip) {
		t.Error("IP still blocked after reset")
	}
}
