package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"questhire/internal/app"
	"questhire/internal/questions"
	"questhire/internal/store"
)

// questionPool writes an aptitude-style pool of n questions including
// the answer keys the upstream source serves.
func questionPool(n int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, "[")
		for i := 0; i < n; i++ {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, `{"id":%d,"question":"q%d","options":["a","b","c","d"],"answer":"a","explanation":"because"}`, i+1, i+1)
		}
		fmt.Fprint(w, "]")
	})
}

func newTestServer(t *testing.T, source http.Handler, ratePerMinute int) *httptest.Server {
	t.Helper()
	if source == nil {
		source = questionPool(10)
	}
	upstream := httptest.NewServer(source)
	t.Cleanup(upstream.Close)

	mr := miniredis.RunT(t)
	tokens, err := store.NewJWTTokenStore("test-secret", 0, "")
	if err != nil {
		t.Fatalf("token store: %v", err)
	}
	core, err := app.New(app.Config{
		Store:     store.NewMemoryStore(),
		Tokens:    tokens,
		Sessions:  store.NewRedisSessionStore(mr.Addr(), ""),
		Questions: questions.NewClient(upstream.URL),
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	srv, err := New(Config{
		App:                core,
		RedisAddr:          mr.Addr(),
		RateLimitPerMinute: ratePerMinute,
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if len(raw) > 0 {
		var value any
		if err := json.Unmarshal(raw, &value); err != nil {
			t.Fatalf("decode body %q: %v", raw, err)
		}
		decoded, _ = value.(map[string]any)
	}
	return resp, decoded
}

func registerUser(t *testing.T, baseURL, email, role, companyName string) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, baseURL+"/api/auth/register", "", map[string]any{
		"email":       email,
		"password":    "Sup3rSecret!",
		"name":        "Test User",
		"role":        role,
		"companyName": companyName,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %v", email, resp.StatusCode, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("register %s: no token in %v", email, body)
	}
	return token
}
