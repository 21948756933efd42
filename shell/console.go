package shell

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/safwanadnan/termfolio"
	"github.com/safwanadnan/termfolio/vfs"
)

// DefaultFetchTimeout bounds one asynchronous activity fetch.
const DefaultFetchTimeout = 10 * time.Second

// ConsoleOptions configures a Console. Zero values select no-op
// collaborators.
type ConsoleOptions struct {
	Cues      CuePlayer
	Downloads Downloader
	Observer  Observer
	// Notify receives updates produced outside a direct call: resolved
	// activity feeds and session resets. It must not call back into the
	// Console.
	Notify       func(termfolio.Update)
	ExitDelay    time.Duration
	FetchTimeout time.Duration
	User         string
	Host         string
}

// Console hosts one session. All methods are safe for concurrent use and
// are applied one at a time.
type Console struct {
	mu     sync.Mutex
	interp *Interpreter
	sess   *Session
	opts   ConsoleOptions
	reload *reloadTimer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewConsole creates a console with a fresh session.
func NewConsole(interp *Interpreter, opts ConsoleOptions) *Console {
	if opts.Cues == nil {
		opts.Cues = nopCues{}
	}
	if opts.Downloads == nil {
		opts.Downloads = nopDownloads{}
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	if opts.Notify == nil {
		opts.Notify = func(termfolio.Update) {}
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.User == "" {
		opts.User = "guest"
	}
	if opts.Host == "" {
		opts.Host = "portfolio"
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &Console{
		interp: interp,
		sess:   NewSession(),
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
	}
	c.reload = newReloadTimer(c.reset)
	return c
}

// Close stops a pending reload and cancels in-flight fetches.
func (c *Console) Close() {
	c.reload.stop()
	c.cancel()
	c.wg.Wait()
}

// Banner returns the welcome banner for the current prompt.
func (c *Console) Banner() termfolio.Banner {
	return c.interp.Banner(c.Prompt())
}

// Prompt renders the shell prompt for the working directory.
func (c *Console) Prompt() string {
	c.mu.Lock()
	cwd := c.sess.cwd
	c.mu.Unlock()
	return FormatPrompt(c.opts.User, c.opts.Host, cwd)
}

// FormatPrompt renders "user@host:~/dir$" with the root shown as "~".
func FormatPrompt(user, host, cwd string) string {
	dir := "~"
	if cwd != vfs.Root {
		dir += cwd
	}
	return fmt.Sprintf("%s@%s:%s$", user, host, dir)
}

// Transcript returns a copy of the session transcript.
func (c *Console) Transcript() []termfolio.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess.Transcript()
}

// Muted reports the session mute flag.
func (c *Console) Muted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess.muted
}

// State returns an update carrying only the working directory and mute flag.
func (c *Console) State() termfolio.Update {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.update()
}

// ReloadPending reports whether an exit is waiting to reset the session.
func (c *Console) ReloadPending() bool {
	return c.reload.pending()
}

// Submit interprets one input line.
func (c *Console) Submit(line string) termfolio.Update {
	c.mu.Lock()
	defer c.mu.Unlock()

	res := c.interp.Interpret(line, c.sess)
	u := c.update()
	if res.Record != nil {
		u.Records = []termfolio.Record{*res.Record}
		c.opts.Observer.CommandDone(res.Command, res.Record.Output)
	} else if res.Command != "" {
		c.opts.Observer.CommandDone(res.Command, nil)
	}

	for _, e := range res.Effects {
		switch e.Kind {
		case EffectCue:
			c.play(&u, e.Cue)
		case EffectClear:
			u.Cleared = true
		case EffectDownload:
			c.opts.Downloads.Download(e.Resource)
			u.Download = e.Resource
		case EffectReload:
			if c.reload.arm(c.opts.ExitDelay) {
				slog.Debug("reload scheduled", "delay", c.opts.ExitDelay)
			}
			u.ReloadIn = int(c.opts.ExitDelay / time.Millisecond)
		case EffectFetchActivity:
			c.fetch(e)
		}
	}
	// Mute may have changed while the command ran.
	u.Muted = c.sess.muted
	return u
}

// Complete runs tab completion on the current input buffer.
func (c *Console) Complete(buffer string) termfolio.Update {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sess.cursor = -1
	comp := Complete(buffer, c.interp.Names())
	c.opts.Observer.CompletionDone(comp.Action)

	u := c.update()
	switch comp.Action {
	case CompleteFill:
		fill := comp.Fill
		u.Buffer = &fill
		c.play(&u, termfolio.CueKeystroke)
	case CompleteList:
		rec := c.sess.appendRecord(strings.TrimSpace(buffer), &termfolio.Output{
			Kind:  termfolio.KindMatches,
			Items: comp.Matches,
		})
		u.Records = []termfolio.Record{rec}
		c.play(&u, termfolio.CueExecution)
	}
	return u
}

// RecallOlder moves to an earlier history entry.
func (c *Console) RecallOlder() termfolio.Update {
	return c.recall(Older)
}

// RecallNewer moves to a later history entry.
func (c *Console) RecallNewer() termfolio.Update {
	return c.recall(Newer)
}

func (c *Console) recall(dir Direction) termfolio.Update {
	c.mu.Lock()
	defer c.mu.Unlock()
	u := c.update()
	if buffer, ok := c.sess.Recall(dir); ok {
		u.Buffer = &buffer
	}
	return u
}

// Edit records a keystroke that changed the input buffer.
func (c *Console) Edit() termfolio.Update {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sess.Edit()
	u := c.update()
	c.play(&u, termfolio.CueKeystroke)
	return u
}

func (c *Console) update() termfolio.Update {
	return termfolio.Update{Cwd: c.sess.cwd, Muted: c.sess.muted}
}

// play forwards a cue unless the session is muted.
func (c *Console) play(u *termfolio.Update, cue termfolio.Cue) {
	if c.sess.muted {
		return
	}
	c.opts.Cues.Play(cue)
	u.Cues = append(u.Cues, cue)
}

// fetch resolves a loading activity record in the background.
func (c *Console) fetch(e Effect) {
	src := c.interp.opts.Activity
	if src == nil {
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ctx, cancel := context.WithTimeout(c.ctx, c.opts.FetchTimeout)
		defer cancel()

		commits, err := src.Fetch(ctx, e.Identity, e.Limit)
		if c.ctx.Err() != nil {
			return
		}

		c.mu.Lock()
		rec := c.sess.record(e.RecordID)
		if rec == nil || rec.Output == nil || rec.Output.Activity == nil {
			c.mu.Unlock()
			slog.Debug("activity record gone", "id", e.RecordID)
			return
		}
		feed := *rec.Output.Activity
		if err != nil {
			slog.Warn("activity fetch failed", "identity", e.Identity, "error", err)
			feed.Status = termfolio.FeedFailed
			feed.Error = err.Error()
		} else {
			feed.Status = termfolio.FeedReady
			feed.Commits = commits
		}
		out := *rec.Output
		out.Activity = &feed
		rec.Output = &out
		u := c.update()
		u.Records = []termfolio.Record{*rec}
		u.Replace = true
		c.mu.Unlock()

		c.opts.Notify(u)
	}()
}

// reset reloads the session after exit.
func (c *Console) reset() {
	c.mu.Lock()
	c.sess.Reset()
	u := c.update()
	c.mu.Unlock()

	u.Cleared = true
	u.Reloaded = true
	slog.Debug("session reset")
	c.opts.Notify(u)
}
