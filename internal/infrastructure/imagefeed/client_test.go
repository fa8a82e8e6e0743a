package imagefeed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
)

func TestClient_Dogs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/breeds/image/random/2" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"message":["https://img/1.jpg","https://img/2.jpg"],"status":"success"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{DogBaseURL: srv.URL + "/", Count: 2}, srv.Client(), zerolog.Nop())
	urls, err := c.Dogs(context.Background())
	if err != nil {
		t.Fatalf("dogs: %v", err)
	}
	if len(urls) != 2 || urls[0] != "https://img/1.jpg" {
		t.Fatalf("unexpected urls: %v", urls)
	}
}

func TestClient_Cats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/images/search" || r.URL.Query().Get("limit") != "3" {
			t.Errorf("unexpected request: %s", r.URL.String())
		}
		_, _ = w.Write([]byte(`[{"id":"a","url":"https://cat/a.jpg"},{"id":"b","url":"https://cat/b.jpg"}]`))
	}))
	defer srv.Close()

	c := NewClient(Config{CatBaseURL: srv.URL, Count: 3}, srv.Client(), zerolog.Nop())
	urls, err := c.Cats(context.Background())
	if err != nil {
		t.Fatalf("cats: %v", err)
	}
	if len(urls) != 2 || urls[1] != "https://cat/b.jpg" {
		t.Fatalf("unexpected urls: %v", urls)
	}
}

func TestClient_UpstreamErrorAndBreaker(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(Config{DogBaseURL: srv.URL}, srv.Client(), zerolog.Nop())
	for i := 0; i < 5; i++ {
		if _, err := c.Dogs(context.Background()); !errors.Is(err, ErrUnavailable) {
			t.Fatalf("expected ErrUnavailable, got %v", err)
		}
	}

	// The breaker opens after three consecutive failures.
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 upstream calls before the breaker opened, got %d", got)
	}
}

func TestClient_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":`))
	}))
	defer srv.Close()

	c := NewClient(Config{DogBaseURL: srv.URL}, srv.Client(), zerolog.Nop())
	if _, err := c.Dogs(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
