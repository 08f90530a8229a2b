package questions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchPoolArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Age" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`[
			{"id": 1, "question": "Q1", "options": ["a","b"], "answer": "a"},
			{"id": "q-2", "question": "Q2", "options": ["c","d"], "answer": "c"}
		]`))
	}))
	defer srv.Close()

	pool, err := NewClient(srv.URL).FetchPool(context.Background(), "Age")
	if err != nil {
		t.Fatalf("fetch pool: %v", err)
	}
	if len(pool) != 2 {
		t.Fatalf("pool size = %d, want 2", len(pool))
	}
	if pool[0].ID != "1" || pool[1].ID != "q-2" {
		t.Fatalf("ids not normalized: %q, %q", pool[0].ID, pool[1].ID)
	}
	if pool[0].Question != "Q1" || len(pool[0].Options) != 2 {
		t.Fatalf("unexpected question payload: %+v", pool[0])
	}
}

func TestFetchPoolSingleObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"question": "only one", "options": ["x"], "answer": "x", "explanation": "secret"}`))
	}))
	defer srv.Close()

	pool, err := NewClient(srv.URL).FetchPool(context.Background(), "Calendar")
	if err != nil {
		t.Fatalf("fetch pool: %v", err)
	}
	if len(pool) != 1 {
		t.Fatalf("pool size = %d, want 1", len(pool))
	}
	if pool[0].Question != "only one" {
		t.Fatalf("question = %q", pool[0].Question)
	}
}

func TestFetchPoolUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).FetchPool(context.Background(), "Age")
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Fatalf("status = %d", apiErr.Status)
	}
}

func TestCatalogLookup(t *testing.T) {
	catalog := DefaultCatalog()
	names := catalog.Names()
	if len(names) != 8 {
		t.Fatalf("catalog has %d topics, want 8", len(names))
	}
	endpoint, ok := catalog.Endpoint("Calendars")
	if !ok || endpoint != "Calendar" {
		t.Fatalf("Calendars endpoint = %q, %v", endpoint, ok)
	}
	if catalog.Has("Unknown Topic") {
		t.Fatalf("unknown topic should not resolve")
	}
}

func TestNewCatalogRejectsDuplicates(t *testing.T) {
	_, err := NewCatalog([]Topic{
		{Name: "Age", Endpoint: "Age"},
		{Name: "Age", Endpoint: "Age2"},
	})
	if err == nil {
		t.Fatalf("expected duplicate topic error")
	}
}
