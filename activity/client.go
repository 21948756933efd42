// Package activity fetches recent public commit activity from the GitHub
// events API and caches it per identity.
package activity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/sync/singleflight"

	"github.com/safwanadnan/termfolio"
)

const (
	DefaultBaseURL = "https://api.github.com"
	DefaultTTL     = 10 * time.Minute
	DefaultTimeout = 10 * time.Second

	maxBodyBytes = 1 << 20
)

// ErrNoActivity is returned when the account has no recent push events.
var ErrNoActivity = errors.New("no recent activity")

// Options configures a Client.
type Options struct {
	BaseURL string
	Token   string
	TTL     time.Duration
	Timeout time.Duration
	Retry   RetryConfig
}

// Client fetches push activity. Successful results are cached for the
// configured TTL; concurrent fetches for the same key share one request.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	retry   RetryConfig
	// budget bounds one shared fetch, retries included.
	budget time.Duration
	cache  *ttlcache.Cache[string, []termfolio.Commit]
	group  singleflight.Group
}

// NewClient creates a client and starts its cache expiration loop.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Retry.MaxAttempts <= 0 {
		opts.Retry = DefaultRetryConfig()
	}
	c := ttlcache.New[string, []termfolio.Commit](
		ttlcache.WithTTL[string, []termfolio.Commit](opts.TTL),
		ttlcache.WithDisableTouchOnHit[string, []termfolio.Commit](),
	)
	go c.Start()
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		token:   opts.Token,
		client:  &http.Client{Timeout: opts.Timeout},
		retry:   opts.Retry,
		budget:  time.Duration(opts.Retry.MaxAttempts) * (opts.Timeout + opts.Retry.MaxWait),
		cache:   c,
	}
}

// Close stops the cache expiration loop.
func (c *Client) Close() {
	c.cache.Stop()
}

func cacheKey(identity string, limit int) string {
	return strings.ToLower(identity) + "#" + strconv.Itoa(limit)
}

// Cached returns a cached result without touching the network.
func (c *Client) Cached(identity string, limit int) ([]termfolio.Commit, bool) {
	item := c.cache.Get(cacheKey(identity, limit))
	if item == nil {
		return nil, false
	}
	return copyCommits(item.Value()), true
}

// Fetch returns up to limit recent commits pushed by identity.
func (c *Client) Fetch(ctx context.Context, identity string, limit int) ([]termfolio.Commit, error) {
	if identity == "" {
		return nil, errors.New("activity: empty identity")
	}
	if limit <= 0 {
		limit = 5
	}
	key := cacheKey(identity, limit)
	if commits, ok := c.Cached(identity, limit); ok {
		return commits, nil
	}

	// The shared fetch is detached from every caller's context; each caller
	// still returns on its own cancellation.
	ch := c.group.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.budget)
		defer cancel()
		commits, err := doWithRetry(fctx, c.retry, func() ([]termfolio.Commit, error) {
			return c.fetchOnce(fctx, identity, limit)
		})
		if err != nil {
			return nil, err
		}
		c.cache.Set(key, commits, ttlcache.DefaultTTL)
		return commits, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		commits := res.Val.([]termfolio.Commit)
		slog.Debug("fetched activity", "identity", identity, "commits", len(commits), "shared", res.Shared)
		return copyCommits(commits), nil
	}
}

type event struct {
	Type  string `json:"type"`
	Actor struct {
		Login        string `json:"login"`
		DisplayLogin string `json:"display_login"`
	} `json:"actor"`
	Repo struct {
		Name string `json:"name"`
	} `json:"repo"`
	Payload struct {
		Commits []struct {
			SHA     string `json:"sha"`
			Message string `json:"message"`
			Author  struct {
				Name string `json:"name"`
			} `json:"author"`
		} `json:"commits"`
	} `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Client) fetchOnce(ctx context.Context, identity string, limit int) ([]termfolio.Commit, error) {
	endpoint := fmt.Sprintf("%s/users/%s/events/public", c.baseURL, url.PathEscape(identity))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, retryable(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, retryable(err)
	}
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("GitHub API error (status %d)", resp.StatusCode)
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, retryable(err)
		}
		return nil, err
	}

	var events []event
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("failed to parse events response: %w", err)
	}
	commits := pushCommits(events, limit)
	if len(commits) == 0 {
		return nil, ErrNoActivity
	}
	return commits, nil
}

// pushCommits flattens the commits of PushEvents in feed order.
func pushCommits(events []event, limit int) []termfolio.Commit {
	var out []termfolio.Commit
	for _, ev := range events {
		if ev.Type != "PushEvent" {
			continue
		}
		repo := ev.Repo.Name
		if _, name, ok := strings.Cut(repo, "/"); ok {
			repo = name
		}
		author := ev.Actor.DisplayLogin
		if author == "" {
			author = ev.Actor.Login
		}
		for _, pc := range ev.Payload.Commits {
			if len(out) >= limit {
				return out
			}
			out = append(out, termfolio.Commit{
				SHA:        pc.SHA,
				URL:        fmt.Sprintf("https://github.com/%s/commit/%s", ev.Repo.Name, pc.SHA),
				Message:    pc.Message,
				Author:     author,
				Date:       ev.CreatedAt,
				Repository: repo,
			})
		}
	}
	return out
}

func copyCommits(in []termfolio.Commit) []termfolio.Commit {
	return append([]termfolio.Commit(nil), in...)
}

// RetryConfig bounds retries of transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Jitter      float64
}

// DefaultRetryConfig returns three attempts with exponential backoff.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 200 * time.Millisecond,
		MaxWait:     2 * time.Second,
		Jitter:      0.1,
	}
}

type retryableError struct{ err error }

func (e retryableError) Error() string { return e.err.Error() }
func (e retryableError) Unwrap() error { return e.err }

func retryable(err error) error { return retryableError{err: err} }

func isRetryable(err error) bool {
	var r retryableError
	return errors.As(err, &r)
}

func doWithRetry[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	wait := cfg.InitialWait
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		v, err := fn()
		if err == nil {
			return v, nil
		}
		lastErr = err
		if !isRetryable(err) || attempt == cfg.MaxAttempts {
			break
		}

		d := wait
		if cfg.Jitter > 0 {
			d += time.Duration(float64(d) * cfg.Jitter * (rand.Float64()*2 - 1))
		}
		slog.Debug("retrying activity fetch", "attempt", attempt, "wait", d, "error", err)
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(d):
		}
		wait = min(wait*2, cfg.MaxWait)
	}
	var r retryableError
	if errors.As(lastErr, &r) {
		return zero, r.err
	}
	return zero, lastErr
}
