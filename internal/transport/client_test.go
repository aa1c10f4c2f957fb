package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/muurk/fieldkit/internal/action"
)

func newTestClient(url string) *Client {
	c := NewClient(url)
	c.SetRetry(2, time.Millisecond)
	return c
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	if client.BaseURL != "http://localhost:8080" {
		t.Errorf("BaseURL = %s, want http://localhost:8080", client.BaseURL)
	}
	if client.HTTPClient == nil {
		t.Error("HTTPClient should not be nil")
	}
	if !client.UseExponentialBackoff {
		t.Error("exponential backoff should be enabled by default")
	}
}

func TestPostJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %s, want application/json", ct)
		}
		var in map[string]string
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "42", "name": in["name"]})
	}))
	defer server.Close()

	var out map[string]string
	err := newTestClient(server.URL).PostJSON(context.Background(), "/people", map[string]string{"name": "Ana"}, &out)
	if err != nil {
		t.Fatalf("PostJSON() error = %v", err)
	}
	if out["id"] != "42" || out["name"] != "Ana" {
		t.Errorf("out = %v", out)
	}
}

func TestPostJSONBadRequestIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"errors":{"Name":["Required"]}}`)
	}))
	defer server.Close()

	err := newTestClient(server.URL).PostJSON(context.Background(), "/people", map[string]string{}, nil)
	if err == nil {
		t.Fatal("PostJSON() should fail on 400")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}

	if got := action.StatusOf(err); got != http.StatusBadRequest {
		t.Errorf("StatusOf() = %d, want 400", got)
	}
	var bodier action.JSONBodier
	if !errors.As(err, &bodier) {
		t.Fatal("error should expose its body")
	}
	body, _ := bodier.JSON()
	errs, perr := action.ParseServerErrors(body)
	if perr != nil || len(errs) != 1 || errs[0].Field != "name" {
		t.Errorf("ParseServerErrors() = %v, %v", errs, perr)
	}
}

func TestPostJSONRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	if err := newTestClient(server.URL).PostJSON(context.Background(), "/", nil, nil); err != nil {
		t.Fatalf("PostJSON() error = %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestPostJSONGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	err := newTestClient(server.URL).PostJSON(context.Background(), "/", nil, nil)
	if !IsRetryable(err) {
		t.Errorf("5xx should be retryable, got %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3 (1 + 2 retries)", calls.Load())
	}
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"array", `[{"value":"1","text":"Apple"},{"value":"2","text":"Grape"}]`, 2},
		{"items envelope", `{"items":[{"value":"1","text":"Apple"}]}`, 1},
		{"null", `null`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if q := r.URL.Query().Get("q"); q != "ap le" {
					t.Errorf("q = %q, want %q", q, "ap le")
				}
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			p := &Provider{Client: newTestClient(server.URL), Path: "/fruits"}
			records, err := p.Search(context.Background(), "ap le")
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if len(records) != tt.want {
				t.Errorf("len(records) = %d, want %d", len(records), tt.want)
			}
		})
	}
}

func TestSearchParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `"nope"`)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Search(context.Background(), "/", "x")
	var e *Error
	if !errors.As(err, &e) || e.Type != ErrTypeParse {
		t.Errorf("Search() error = %v, want parse error", err)
	}
}

func TestCanceledContextStopsRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client := newTestClient(server.URL)
	client.RetryDelay = time.Hour

	start := time.Now()
	if err := client.PostJSON(ctx, "/", nil, nil); err == nil {
		t.Fatal("PostJSON() should fail")
	}
	if time.Since(start) > time.Second {
		t.Error("canceled context should not wait for the retry delay")
	}
}
