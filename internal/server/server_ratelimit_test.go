package server

import (
	"net/http"
	"testing"
)

func TestRateLimitExceeded(t *testing.T) {
	ts := newTestServer(t, nil, 2)

	for i := 0; i < 2; i++ {
		resp, _ := doJSON(t, http.MethodGet, ts.URL+"/api/health", "", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, resp.StatusCode)
		}
	}

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/health", "", nil)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429, body %v", resp.StatusCode, body)
	}
	if resp.Header.Get("Retry-After") != "60" {
		t.Errorf("Retry-After = %q, want 60", resp.Header.Get("Retry-After"))
	}
}

func TestNewRequiresRedis(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("New without redis addr should fail")
	}
}
