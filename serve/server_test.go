package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/safwanadnan/termfolio"
	"github.com/safwanadnan/termfolio/content"
	"github.com/safwanadnan/termfolio/shell"
)

// stubActivity blocks Fetch until release is closed.
type stubActivity struct {
	mu      sync.Mutex
	release chan struct{}
	commits []termfolio.Commit
}

func (s *stubActivity) Cached(string, int) ([]termfolio.Commit, bool) { return nil, false }

func (s *stubActivity) Fetch(ctx context.Context, _ string, _ int) ([]termfolio.Commit, error) {
	s.mu.Lock()
	release := s.release
	s.mu.Unlock()
	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.commits, nil
}

var testSocketCounter atomic.Int64

func testOptions(t *testing.T, src shell.ActivitySource) Options {
	t.Helper()
	bundle, err := content.Default()
	if err != nil {
		t.Fatal(err)
	}
	return Options{
		Interpreter: shell.Options{
			Content:    bundle,
			Activity:   src,
			GitHubUser: "octo",
			ResumeURL:  "/resume.pdf",
		},
		Console: shell.ConsoleOptions{ExitDelay: time.Hour},
	}
}

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	// Use /tmp directly to avoid macOS 104-char Unix socket path limit
	n := testSocketCounter.Add(1)
	sockPath := fmt.Sprintf("/tmp/termfolio-t%d.sock", n)
	srv, err := NewServer(sockPath, opts)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { srv.Close() })
	go srv.Serve()
	return srv
}

func sendRaw(t *testing.T, sockPath string, line []byte) string {
	t.Helper()
	conn, err := net.Dial("unix", sockPath)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	conn.Write(append(line, '\n'))

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	if !scanner.Scan() {
		t.Fatal("no response from server")
	}
	return scanner.Text()
}

func sendRequest(t *testing.T, sockPath string, req *termfolio.Request) *termfolio.Response {
	t.Helper()
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	var resp termfolio.Response
	if err := json.Unmarshal([]byte(sendRaw(t, sockPath, data)), &resp); err != nil {
		t.Fatal(err)
	}
	return &resp
}

func hello(t *testing.T, sockPath string) string {
	t.Helper()
	resp := sendRequest(t, sockPath, &termfolio.Request{Action: termfolio.ActionHello})
	if resp.Error != nil {
		t.Fatalf("hello failed: %s", resp.Error.Message)
	}
	return resp.SessionID
}

func TestHelloCreatesSession(t *testing.T) {
	srv := newTestServer(t, testOptions(t, nil))

	resp := sendRequest(t, srv.sockPath, &termfolio.Request{Action: termfolio.ActionHello})
	if resp.SessionID == "" {
		t.Fatal("expected a session id")
	}
	if resp.Banner == nil || resp.Banner.Prompt != "guest@portfolio:~$" || len(resp.Banner.Lines) == 0 {
		t.Errorf("unexpected banner %+v", resp.Banner)
	}
	if resp.Update == nil || resp.Update.Cwd != "/" {
		t.Errorf("unexpected update %+v", resp.Update)
	}

	again := sendRequest(t, srv.sockPath, &termfolio.Request{Action: termfolio.ActionHello, SessionID: resp.SessionID})
	if again.SessionID != resp.SessionID {
		t.Errorf("hello with a live session id must resume it, got %q", again.SessionID)
	}
	if n := srv.sessions.len(); n != 1 {
		t.Errorf("expected 1 session, got %d", n)
	}
}

func TestSubmitKeepsSessionState(t *testing.T) {
	srv := newTestServer(t, testOptions(t, nil))
	sid := hello(t, srv.sockPath)

	resp := sendRequest(t, srv.sockPath, &termfolio.Request{SessionID: sid, Action: termfolio.ActionSubmit, Input: "cd projects"})
	if resp.Update == nil || resp.Update.Cwd != "/projects" {
		t.Fatalf("unexpected update %+v", resp.Update)
	}

	resp = sendRequest(t, srv.sockPath, &termfolio.Request{SessionID: sid, Action: termfolio.ActionSubmit, Input: "ls"})
	recs := resp.Update.Records
	if len(recs) != 1 || recs[0].Output.Kind != termfolio.KindListing || len(recs[0].Output.Entries) != 3 {
		t.Errorf("unexpected records %+v", recs)
	}
}

func TestCompleteAndRecall(t *testing.T) {
	srv := newTestServer(t, testOptions(t, nil))
	sid := hello(t, srv.sockPath)

	resp := sendRequest(t, srv.sockPath, &termfolio.Request{SessionID: sid, Action: termfolio.ActionComplete, Input: "neo"})
	if resp.Update.Buffer == nil || *resp.Update.Buffer != "neofetch" {
		t.Errorf("expected auto-fill, got %+v", resp.Update)
	}

	sendRequest(t, srv.sockPath, &termfolio.Request{SessionID: sid, Action: termfolio.ActionSubmit, Input: "about"})
	resp = sendRequest(t, srv.sockPath, &termfolio.Request{SessionID: sid, Action: termfolio.ActionRecallOlder})
	if resp.Update.Buffer == nil || *resp.Update.Buffer != "about" {
		t.Errorf("expected recalled input, got %+v", resp.Update)
	}
	resp = sendRequest(t, srv.sockPath, &termfolio.Request{SessionID: sid, Action: termfolio.ActionRecallNewer})
	if resp.Update.Buffer == nil || *resp.Update.Buffer != "" {
		t.Errorf("expected cleared buffer, got %+v", resp.Update)
	}
	resp = sendRequest(t, srv.sockPath, &termfolio.Request{SessionID: sid, Action: termfolio.ActionEdit})
	if resp.Error != nil {
		t.Errorf("edit failed: %s", resp.Error.Message)
	}
}

func TestRequestErrors(t *testing.T) {
	srv := newTestServer(t, testOptions(t, nil))
	sid := hello(t, srv.sockPath)

	tests := []struct {
		name string
		req  *termfolio.Request
		code string
	}{
		{"unknown session", &termfolio.Request{SessionID: "nope", Action: termfolio.ActionSubmit, Input: "help"}, "unknown_session"},
		{"missing action", &termfolio.Request{SessionID: sid}, "invalid_request"},
		{"unknown action", &termfolio.Request{SessionID: sid, Action: "dance"}, "unknown_action"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := sendRequest(t, srv.sockPath, tt.req)
			if resp.Error == nil || resp.Error.Code != tt.code {
				t.Errorf("expected %s error, got %+v", tt.code, resp.Error)
			}
		})
	}

	raw := sendRaw(t, srv.sockPath, []byte("{not json"))
	if !strings.Contains(raw, `"invalid_request"`) {
		t.Errorf("expected invalid_request for malformed JSON, got %s", raw)
	}
}

func TestPendingActivityDelivered(t *testing.T) {
	src := &stubActivity{
		release: make(chan struct{}),
		commits: []termfolio.Commit{{SHA: "abc", Repository: "repo", Message: "hi"}},
	}
	srv := newTestServer(t, testOptions(t, src))
	sid := hello(t, srv.sockPath)

	resp := sendRequest(t, srv.sockPath, &termfolio.Request{SessionID: sid, Action: termfolio.ActionSubmit, Input: "github"})
	rec := resp.Update.Records[0]
	if rec.Output.Activity.Status != termfolio.FeedLoading {
		t.Fatalf("expected loading feed, got %+v", rec.Output.Activity)
	}
	close(src.release)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp := sendRequest(t, srv.sockPath, &termfolio.Request{SessionID: sid, Action: termfolio.ActionEdit})
		for _, u := range resp.Pending {
			if u.Replace && len(u.Records) == 1 && u.Records[0].ID == rec.ID {
				if u.Records[0].Output.Activity.Status != termfolio.FeedReady {
					t.Errorf("unexpected feed %+v", u.Records[0].Output.Activity)
				}
				return
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("resolved activity was never delivered")
}

func TestSessionsExpire(t *testing.T) {
	opts := testOptions(t, nil)
	opts.SessionTTL = 50 * time.Millisecond
	srv := newTestServer(t, opts)
	sid := hello(t, srv.sockPath)

	deadline := time.Now().Add(3 * time.Second)
	for srv.sessions.cache.Has(sid) {
		if time.Now().After(deadline) {
			t.Fatal("idle session was never evicted")
		}
		time.Sleep(20 * time.Millisecond)
	}
	resp := sendRequest(t, srv.sockPath, &termfolio.Request{SessionID: sid, Action: termfolio.ActionSubmit, Input: "help"})
	if resp.Error == nil || resp.Error.Code != "unknown_session" {
		t.Errorf("expected unknown_session, got %+v", resp)
	}
}
