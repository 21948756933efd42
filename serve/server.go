package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/websocket"

	"github.com/safwanadnan/termfolio"
	"github.com/safwanadnan/termfolio/shell"
)

const (
	transportSocket    = "socket"
	transportWebSocket = "websocket"
)

// Options configures a Server.
type Options struct {
	Interpreter shell.Options
	Console     shell.ConsoleOptions
	SessionTTL  time.Duration
}

// Server hosts terminal sessions over a Unix domain socket and, when
// serving HTTP, over WebSocket.
type Server struct {
	listener net.Listener
	sockPath string
	sessions *sessionStore

	mu   sync.Mutex
	http *http.Server
}

// NewServer creates a server bound to the given socket path.
func NewServer(sockPath string, opts Options) (*Server, error) {
	// Remove stale socket file if it exists
	if err := os.Remove(sockPath); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	listener, err := net.Listen("unix", sockPath)
	if err != nil {
		return nil, err
	}

	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Server{
		listener: listener,
		sockPath: sockPath,
		sessions: newSessionStore(ttl, opts.Interpreter, opts.Console),
	}, nil
}

// Serve accepts socket connections and handles requests.
func (s *Server) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return err
		}
		go s.handleConn(conn)
	}
}

// Handler returns the HTTP handler serving /ws, /metrics and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", websocket.Server{Handler: s.handleWebSocket})
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})
	return mux
}

// ListenAndServeHTTP serves Handler on addr until Close.
func (s *Server) ListenAndServeHTTP(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.http = srv
	s.mu.Unlock()

	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Close shuts down the listeners, closes every session and removes the
// socket file.
func (s *Server) Close() {
	s.mu.Lock()
	srv := s.http
	s.mu.Unlock()
	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		srv.Shutdown(ctx)
		cancel()
	}
	s.listener.Close()
	s.sessions.close()
	os.Remove(s.sockPath)
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	if !scanner.Scan() {
		return
	}

	raw := scanner.Bytes()
	slog.Debug("request", "data", string(raw))

	var resp *termfolio.Response
	var req termfolio.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		slog.Warn("invalid request", "error", err)
		resp = errorResponse("", "invalid_request", err.Error())
	} else {
		resp = s.handle(&req, transportSocket)
		if sess := s.sessions.get(resp.SessionID); sess != nil {
			resp.Pending = sess.drain()
		}
	}

	data, err := json.Marshal(resp)
	if err != nil {
		slog.Error("failed to marshal response", "error", err)
		return
	}

	slog.Debug("response", "data", string(data))

	conn.Write(append(data, '\n'))
}

func (s *Server) handleWebSocket(ws *websocket.Conn) {
	defer ws.Close()

	var writeMu sync.Mutex
	send := func(resp *termfolio.Response) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return websocket.JSON.Send(ws, resp)
	}

	var detach func()
	defer func() {
		if detach != nil {
			detach()
		}
	}()

	for {
		var req termfolio.Request
		if err := websocket.JSON.Receive(ws, &req); err != nil {
			var syntaxErr *json.SyntaxError
			if errors.As(err, &syntaxErr) {
				if send(errorResponse("", "invalid_request", err.Error())) != nil {
					return
				}
				continue
			}
			slog.Debug("websocket closed", "error", err)
			return
		}

		resp := s.handle(&req, transportWebSocket)
		if sess := s.sessions.get(resp.SessionID); sess != nil && resp.Error == nil && req.Action == termfolio.ActionHello {
			if detach != nil {
				detach()
			}
			id := sess.id
			resp.Pending = sess.drain()
			detach = sess.attach(func(u termfolio.Update) {
				if err := send(&termfolio.Response{SessionID: id, Pending: []termfolio.Update{u}}); err != nil {
					slog.Debug("websocket push failed", "session", id, "error", err)
				}
			})
		}
		if err := send(resp); err != nil {
			slog.Debug("websocket write failed", "error", err)
			return
		}
	}
}

// handle applies one request to its session.
func (s *Server) handle(req *termfolio.Request, transport string) *termfolio.Response {
	requestsTotal.WithLabelValues(transport, actionLabel(req.Action)).Inc()

	if req.Action == termfolio.ActionHello {
		sess := s.sessions.get(req.SessionID)
		if sess == nil {
			sess = s.sessions.create(req.Client)
		}
		u := sess.console.State()
		banner := sess.console.Banner()
		return &termfolio.Response{SessionID: sess.id, Update: &u, Banner: &banner}
	}

	if req.Action == "" {
		return errorResponse(req.SessionID, "invalid_request", "action is required")
	}
	sess := s.sessions.get(req.SessionID)
	if sess == nil {
		return errorResponse(req.SessionID, "unknown_session", "unknown or expired session: "+req.SessionID)
	}

	var u termfolio.Update
	switch req.Action {
	case termfolio.ActionSubmit:
		u = sess.console.Submit(req.Input)
	case termfolio.ActionComplete:
		u = sess.console.Complete(req.Input)
	case termfolio.ActionRecallOlder:
		u = sess.console.RecallOlder()
	case termfolio.ActionRecallNewer:
		u = sess.console.RecallNewer()
	case termfolio.ActionEdit:
		u = sess.console.Edit()
	default:
		return errorResponse(sess.id, "unknown_action", "unknown action: "+req.Action)
	}
	return &termfolio.Response{SessionID: sess.id, Update: &u}
}

func errorResponse(sessionID, code, msg string) *termfolio.Response {
	return &termfolio.Response{
		SessionID: sessionID,
		Error:     &termfolio.Error{Code: code, Message: msg},
	}
}

func actionLabel(action string) string {
	switch action {
	case termfolio.ActionHello, termfolio.ActionSubmit, termfolio.ActionComplete,
		termfolio.ActionRecallOlder, termfolio.ActionRecallNewer, termfolio.ActionEdit:
		return action
	}
	return "other"
}
