package shell

import (
	"context"

	"github.com/safwanadnan/termfolio"
)

// CuePlayer plays audio cues. Play must not block and never fails from the
// caller's point of view.
type CuePlayer interface {
	Play(cue termfolio.Cue)
}

// Downloader starts a download of a named resource. It is fire-and-forget.
type Downloader interface {
	Download(resource string)
}

// ActivitySource supplies recent repository activity. Cached answers
// without blocking; Fetch may take as long as ctx allows and returns an
// error instead of panicking on any failure.
type ActivitySource interface {
	Cached(identity string, limit int) ([]termfolio.Commit, bool)
	Fetch(ctx context.Context, identity string, limit int) ([]termfolio.Commit, error)
}

// EnvironmentSource captures a snapshot of the host environment.
type EnvironmentSource interface {
	Capture() termfolio.Environment
}

// Observer is told about every dispatched command and completion.
type Observer interface {
	CommandDone(command string, out *termfolio.Output)
	CompletionDone(action CompletionAction)
}

// CueFunc adapts a function to CuePlayer.
type CueFunc func(termfolio.Cue)

func (f CueFunc) Play(cue termfolio.Cue) { f(cue) }

// DownloadFunc adapts a function to Downloader.
type DownloadFunc func(string)

func (f DownloadFunc) Download(resource string) { f(resource) }

// EnvironmentFunc adapts a function to EnvironmentSource.
type EnvironmentFunc func() termfolio.Environment

func (f EnvironmentFunc) Capture() termfolio.Environment { return f() }

type nopCues struct{}

func (nopCues) Play(termfolio.Cue) {}

type nopDownloads struct{}

func (nopDownloads) Download(string) {}

type nopObserver struct{}

func (nopObserver) CommandDone(string, *termfolio.Output) {}
func (nopObserver) CompletionDone(CompletionAction)       {}
