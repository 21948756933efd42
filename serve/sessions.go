package main

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"

	"github.com/safwanadnan/termfolio"
	"github.com/safwanadnan/termfolio/shell"
	"github.com/safwanadnan/termfolio/sysinfo"
)

// maxPending bounds the asynchronous updates kept for a socket client that
// has not polled.
const maxPending = 64

// session is one hosted terminal session.
type session struct {
	id      string
	console *shell.Console

	mu      sync.Mutex
	pending []termfolio.Update
	// push forwards updates while a WebSocket is attached.
	push func(termfolio.Update)
}

func (s *session) notify(u termfolio.Update) {
	s.mu.Lock()
	push := s.push
	if push == nil {
		if len(s.pending) >= maxPending {
			s.pending = s.pending[1:]
		}
		s.pending = append(s.pending, u)
	}
	s.mu.Unlock()
	if push != nil {
		push(u)
	}
}

// drain returns and clears the queued updates.
func (s *session) drain() []termfolio.Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.pending
	s.pending = nil
	return out
}

// attach routes future updates to push until the returned func is called.
func (s *session) attach(push func(termfolio.Update)) (detach func()) {
	s.mu.Lock()
	s.push = push
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.push = nil
		s.mu.Unlock()
	}
}

// sessionStore keeps sessions alive while they are used and closes them
// once idle for the configured TTL.
type sessionStore struct {
	cache    *ttlcache.Cache[string, *session]
	unsub    func()
	interp   shell.Options
	console  shell.ConsoleOptions
	observer shell.Observer
}

func newSessionStore(ttl time.Duration, interp shell.Options, console shell.ConsoleOptions) *sessionStore {
	c := ttlcache.New[string, *session](
		ttlcache.WithTTL[string, *session](ttl),
	)
	unsub := c.OnEviction(func(_ context.Context, reason ttlcache.EvictionReason, item *ttlcache.Item[string, *session]) {
		item.Value().console.Close()
		sessionsActive.Dec()
		slog.Debug("session closed", "session", item.Key(), "reason", reason)
	})
	go c.Start()
	return &sessionStore{cache: c, unsub: unsub, interp: interp, console: console, observer: metricsObserver{}}
}

// create starts a session. client describes the browser, or is nil for
// terminal clients.
func (st *sessionStore) create(client *termfolio.ClientInfo) *session {
	now := time.Now()
	opts := st.interp
	if client != nil {
		opts.Environment = sysinfo.NewClientSource(*client, now)
	} else {
		opts.Environment = sysinfo.NewLocalSource(-1, now)
	}

	s := &session{id: uuid.NewString()}
	copts := st.console
	copts.Observer = st.observer
	copts.Notify = s.notify
	s.console = shell.NewConsole(shell.NewInterpreter(opts), copts)

	st.cache.Set(s.id, s, ttlcache.DefaultTTL)
	sessionsActive.Inc()
	slog.Debug("session created", "session", s.id, "browser", client != nil)
	return s
}

// get returns a live session and refreshes its idle timer.
func (st *sessionStore) get(id string) *session {
	if id == "" {
		return nil
	}
	item := st.cache.Get(id)
	if item == nil {
		return nil
	}
	return item.Value()
}

func (st *sessionStore) len() int {
	return st.cache.Len()
}

// close evicts every session and stops the expiration loop.
func (st *sessionStore) close() {
	st.cache.DeleteAll()
	st.cache.Stop()
	st.unsub()
}
