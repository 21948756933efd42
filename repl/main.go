// Command termfolio runs the portfolio shell in the local terminal.
// It uses raw terminal input for completion and history keys and, when
// stdout is redirected, writes a structured TOML transcript to it.
//
// Usage:
//
//	./termfolio                  # interactive
//	./termfolio > session.toml   # interactive, transcript to file
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/safwanadnan/termfolio"
	"github.com/safwanadnan/termfolio/activity"
	"github.com/safwanadnan/termfolio/content"
	"github.com/safwanadnan/termfolio/render"
	"github.com/safwanadnan/termfolio/shell"
	"github.com/safwanadnan/termfolio/sysinfo"
)

// bellCues rings the terminal bell for error cues.
type bellCues struct {
	w io.Writer
}

func (b bellCues) Play(cue termfolio.Cue) {
	if cue == termfolio.CueError {
		io.WriteString(b.w, "\a")
	}
}

// view prints updates to the terminal and the transcript log.
type view struct {
	r       *render.Renderer
	console *shell.Console
	log     *transcriptLog
}

func (v *view) show(w io.Writer, u termfolio.Update) {
	if u.Cleared {
		fmt.Fprint(w, "\x1b[2J\x1b[H")
	}
	if u.Reloaded {
		v.r.Banner(w, v.console.Banner())
	}
	for _, rec := range u.Records {
		if rec.Output != nil && rec.Output.Kind == termfolio.KindMatches {
			v.r.Record(w, v.console.Prompt(), rec)
		} else {
			v.r.Output(w, rec.Output)
		}
		if v.log != nil {
			if err := v.log.write(u.Cwd, rec, u.Replace); err != nil {
				slog.Warn("failed to write transcript", "error", err)
			}
		}
	}
	if u.Download != "" {
		fmt.Fprintf(w, "Download: %s\n", u.Download)
	}
}

func main() {
	noColor := flag.Bool("no-color", false, "disable colored output")
	verbose := flag.Bool("verbose", false, "log debug messages")
	flag.Parse()

	cfg, err := termfolio.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	bundle, err := content.Default()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	editor, err := NewEditor()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer editor.Close()

	tty := &crlfWriter{w: editor.Out()}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(tty, &slog.HandlerOptions{Level: level})))
	for _, w := range termfolio.ValidateConfig(cfg) {
		slog.Warn("config", "warning", w)
	}

	feed := activity.NewClient(activity.Options{
		BaseURL: termfolio.ResolveGitHubAPI(cfg),
		Token:   termfolio.ResolveGitHubToken(cfg),
		TTL:     termfolio.ActivityTTL(cfg),
		Timeout: termfolio.ActivityTimeout(cfg),
	})
	defer feed.Close()

	v := &view{r: render.New(*noColor)}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		v.log = newTranscriptLog(os.Stdout)
	}

	interp := shell.NewInterpreter(shell.Options{
		Content:       bundle,
		Activity:      feed,
		Environment:   sysinfo.NewLocalSource(editor.Fd(), time.Now()),
		GitHubUser:    termfolio.ResolveGitHubUser(cfg),
		ActivityLimit: cfg.Activity.Limit,
		ResumeURL:     cfg.Resume.URL,
	})
	console := shell.NewConsole(interp, shell.ConsoleOptions{
		Cues: bellCues{w: tty},
		Notify: func(u termfolio.Update) {
			editor.Print(func(w io.Writer) { v.show(&crlfWriter{w: w}, u) })
		},
		ExitDelay:    termfolio.ExitDelay(cfg),
		FetchTimeout: termfolio.ActivityTimeout(cfg),
		Host:         cfg.Identity.Host,
	})
	defer console.Close()
	v.console = console
	editor.OnEdit = func() { console.Edit() }

	fmt.Fprint(tty, "\x1b[2J\x1b[H") // clear screen
	v.r.Banner(tty, console.Banner())

	for {
		text, key, err := editor.ReadLine(v.r.Prompt(console.Prompt()))
		if err == io.EOF || err == ErrInterrupt {
			break
		}
		if err != nil {
			fmt.Fprintf(tty, "read error: %v\n", err)
			break
		}

		switch key {
		case KeyEnter:
			u := console.Submit(text)
			editor.Print(func(w io.Writer) { v.show(&crlfWriter{w: w}, u) })
		case KeyTab:
			u := console.Complete(text)
			if u.Buffer != nil {
				editor.SetBuffer(*u.Buffer)
			}
			if len(u.Records) > 0 {
				editor.Print(func(w io.Writer) { v.show(&crlfWriter{w: w}, u) })
			}
		case KeyUp, KeyDown:
			var u termfolio.Update
			if key == KeyUp {
				u = console.RecallOlder()
			} else {
				u = console.RecallNewer()
			}
			if u.Buffer != nil {
				editor.SetBuffer(*u.Buffer)
			}
		}
	}
}
