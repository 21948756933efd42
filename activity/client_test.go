package activity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

const eventsJSON = `[
  {"type": "WatchEvent", "actor": {"display_login": "me"}, "repo": {"name": "me/other"}, "created_at": "2024-05-01T10:00:00Z"},
  {"type": "PushEvent", "actor": {"display_login": "me"}, "repo": {"name": "me/alpha"},
   "payload": {"commits": [{"sha": "a1", "message": "first"}, {"sha": "a2", "message": "second"}]},
   "created_at": "2024-05-02T10:00:00Z"},
  {"type": "PushEvent", "actor": {"login": "me"}, "repo": {"name": "me/beta"},
   "payload": {"commits": [{"sha": "b1", "message": "third"}]},
   "created_at": "2024-05-03T10:00:00Z"}
]`

func fastRetry() RetryConfig {
	return RetryConfig{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: 5 * time.Millisecond}
}

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	c := NewClient(Options{BaseURL: srv.URL, Token: "tok", Retry: fastRetry()})
	t.Cleanup(c.Close)
	return c, &calls
}

func TestFetchPushCommits(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/me/events/public" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("authorization = %q", got)
		}
		w.Write([]byte(eventsJSON))
	})

	commits, err := c.Fetch(context.Background(), "me", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(commits) != 3 {
		t.Fatalf("expected 3 commits, got %d", len(commits))
	}
	first := commits[0]
	if first.SHA != "a1" || first.Repository != "alpha" || first.Author != "me" {
		t.Errorf("unexpected first commit %+v", first)
	}
	if first.URL != "https://github.com/me/alpha/commit/a1" {
		t.Errorf("url = %q", first.URL)
	}
	if commits[2].Author != "me" || commits[2].Date.Day() != 3 {
		t.Errorf("unexpected last commit %+v", commits[2])
	}

	// Served from cache on the second call.
	if _, ok := c.Cached("ME", 5); !ok {
		t.Error("expected a cache hit")
	}
	if _, err := c.Fetch(context.Background(), "me", 5); err != nil {
		t.Fatal(err)
	}
	if n := atomic.LoadInt32(calls); n != 1 {
		t.Errorf("expected 1 request, got %d", n)
	}
}

func TestFetchRespectsLimit(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(eventsJSON))
	})
	commits, err := c.Fetch(context.Background(), "me", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(commits) != 2 || commits[1].SHA != "a2" {
		t.Errorf("unexpected commits %+v", commits)
	}
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var n int32
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&n, 1) < 3 {
			http.Error(w, "unavailable", http.StatusBadGateway)
			return
		}
		w.Write([]byte(eventsJSON))
	})
	if _, err := c.Fetch(context.Background(), "me", 5); err != nil {
		t.Fatalf("expected success after retries: %v", err)
	}
	if got := atomic.LoadInt32(calls); got != 3 {
		t.Errorf("expected 3 requests, got %d", got)
	}
}

func TestFetchGivesUp(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	})
	_, err := c.Fetch(context.Background(), "me", 5)
	if err == nil || !strings.Contains(err.Error(), "503") {
		t.Fatalf("expected 503 error, got %v", err)
	}
	if got := atomic.LoadInt32(calls); got != 3 {
		t.Errorf("expected 3 requests, got %d", got)
	}
	if _, ok := c.Cached("me", 5); ok {
		t.Error("failures must not be cached")
	}
}

func TestFetchDoesNotRetryClientErrors(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	if _, err := c.Fetch(context.Background(), "ghost", 5); err == nil {
		t.Fatal("expected error")
	}
	if got := atomic.LoadInt32(calls); got != 1 {
		t.Errorf("expected 1 request, got %d", got)
	}
}

func TestFetchNoPushEvents(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"type": "WatchEvent"}]`))
	})
	if _, err := c.Fetch(context.Background(), "me", 5); !errors.Is(err, ErrNoActivity) {
		t.Errorf("expected ErrNoActivity, got %v", err)
	}
}

func TestFetchMalformedBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	})
	if _, err := c.Fetch(context.Background(), "me", 5); err == nil {
		t.Error("expected parse error")
	}
}

func TestFetchCanceled(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusBadGateway)
	})
	c.retry = RetryConfig{MaxAttempts: 5, InitialWait: time.Second, MaxWait: time.Second}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := c.Fetch(ctx, "me", 5); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestFetchSharedSurvivesCallerCancel(t *testing.T) {
	hit := make(chan struct{}, 1)
	release := make(chan struct{})
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case hit <- struct{}{}:
		default:
		}
		select {
		case <-release:
		case <-r.Context().Done():
			return
		}
		w.Write([]byte(eventsJSON))
	})

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Fetch(ctx, "me", 5)
		firstErr <- err
	}()
	<-hit

	type result struct {
		commits int
		err     error
	}
	second := make(chan result, 1)
	go func() {
		commits, err := c.Fetch(context.Background(), "me", 5)
		second <- result{len(commits), err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("first caller err = %v, want canceled", err)
	}
	close(release)

	res := <-second
	if res.err != nil {
		t.Fatalf("second caller err = %v", res.err)
	}
	if res.commits != 3 {
		t.Errorf("second caller got %d commits, want 3", res.commits)
	}
	if n := atomic.LoadInt32(calls); n != 1 {
		t.Errorf("expected 1 request, got %d", n)
	}
	if _, ok := c.Cached("me", 5); !ok {
		t.Error("expected the shared result to be cached")
	}
}
