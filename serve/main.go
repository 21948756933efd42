// Command termfoliod hosts portfolio shell sessions.
// It listens on a Unix domain socket for JSON-line requests from terminal
// clients and, when an HTTP address is configured, serves the same protocol
// over WebSocket at /ws together with Prometheus metrics at /metrics.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/safwanadnan/termfolio"
	"github.com/safwanadnan/termfolio/activity"
	"github.com/safwanadnan/termfolio/content"
	"github.com/safwanadnan/termfolio/shell"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	verbose := flag.Bool("verbose", false, "log every request and response")
	listen := flag.String("listen", "", "HTTP address for /ws and /metrics (overrides config; \"off\" disables)")
	flag.Parse()

	if *showVersion {
		fmt.Println("termfoliod", Version)
		os.Exit(0)
	}

	cfg, err := termfolio.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "termfoliod: failed to load config: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger, logCloser, err := newLogger(level, cfg.Server.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "termfoliod: failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	for _, w := range termfolio.ValidateConfig(cfg) {
		slog.Warn("config", "warning", w)
	}

	bundle, err := content.Default()
	if err != nil {
		slog.Error("failed to load content", "error", err)
		os.Exit(1)
	}

	feed := activity.NewClient(activity.Options{
		BaseURL: termfolio.ResolveGitHubAPI(cfg),
		Token:   termfolio.ResolveGitHubToken(cfg),
		TTL:     termfolio.ActivityTTL(cfg),
		Timeout: termfolio.ActivityTimeout(cfg),
	})
	defer feed.Close()

	socketPath := resolveSocketPath(cfg)
	addr := termfolio.ResolveListenAddr(cfg)
	if *listen != "" {
		addr = *listen
	}

	slog.Info("starting", "socket", socketPath, "listen", addr)

	srv, err := NewServer(socketPath, Options{
		Interpreter: shell.Options{
			Content:       bundle,
			Activity:      feed,
			GitHubUser:    termfolio.ResolveGitHubUser(cfg),
			ActivityLimit: cfg.Activity.Limit,
			ResumeURL:     cfg.Resume.URL,
		},
		Console: shell.ConsoleOptions{
			ExitDelay:    termfolio.ExitDelay(cfg),
			FetchTimeout: termfolio.ActivityTimeout(cfg),
			Host:         cfg.Identity.Host,
		},
		SessionTTL: termfolio.SessionTTL(cfg),
	})
	if err != nil {
		slog.Error("failed to start server", "error", err)
		os.Exit(1)
	}
	defer srv.Close()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		slog.Info("shutting down")
		srv.Close()
		feed.Close()
		os.Exit(0)
	}()

	if addr != "" && addr != "off" {
		go func() {
			if err := srv.ListenAndServeHTTP(addr); err != nil {
				slog.Error("http server error", "error", err)
			}
		}()
	}

	slog.Info("ready")
	if err := srv.Serve(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func resolveSocketPath(cfg *termfolio.Config) string {
	if path := os.Getenv("TERMFOLIO_SOCKET"); path != "" {
		return path
	}
	if cfg != nil && cfg.Server.Socket != "" {
		return cfg.Server.Socket
	}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir + "/termfolio.sock"
	}
	return fmt.Sprintf("/tmp/termfolio-%d.sock", os.Getuid())
}
