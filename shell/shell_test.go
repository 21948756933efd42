package shell

import (
	"context"
	"sync"
	"testing"

	"github.com/safwanadnan/termfolio"
	"github.com/safwanadnan/termfolio/content"
)

const testContent = `
[banner]
art = "ART"
lines = ["hi"]

[pages.about]
title = "About Me"
[[pages.about.sections]]
lines = ["about line"]
[pages.skills]
title = "Skills"
[pages.projects]
title = "Projects"
[pages.contact]
title = "Contact"

[[dir]]
path = "/"
entries = [
  { name = "about", kind = "directory" },
  { name = "projects", kind = "directory" },
  { name = "README.md", kind = "file" },
  { name = "resume.pdf", kind = "file" },
]

[[dir]]
path = "/about"
entries = [{ name = "bio.txt", kind = "file" }]

[[dir]]
path = "/projects"
entries = [
  { name = "alpha.md", kind = "file" },
  { name = "beta.md", kind = "file" },
  { name = "gamma.md", kind = "file" },
]

[[file]]
path = "/README.md"
body = "# Welcome"

[[file]]
path = "/about/bio.txt"
body = "bio"

[[file]]
path = "/projects/alpha.md"
body = "alpha"

[[file]]
path = "/projects/beta.md"
body = "beta"

[[file]]
path = "/projects/gamma.md"
body = "gamma"
`

func testBundle(t *testing.T) *content.Bundle {
	t.Helper()
	b, err := content.Load([]byte(testContent))
	if err != nil {
		t.Fatalf("load test content: %v", err)
	}
	return b
}

func newTestInterpreter(t *testing.T, opts Options) *Interpreter {
	t.Helper()
	if opts.Content == nil {
		opts.Content = testBundle(t)
	}
	if opts.ResumeURL == "" {
		opts.ResumeURL = "/resume.pdf"
	}
	return NewInterpreter(opts)
}

// fakeActivity serves commits from memory. Fetch blocks until release is
// closed when release is non-nil.
type fakeActivity struct {
	mu      sync.Mutex
	cached  map[string][]termfolio.Commit
	commits []termfolio.Commit
	err     error
	release chan struct{}
	calls   int
}

func (f *fakeActivity) Cached(identity string, limit int) ([]termfolio.Commit, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cached[identity]
	return c, ok
}

func (f *fakeActivity) Fetch(ctx context.Context, identity string, limit int) ([]termfolio.Commit, error) {
	f.mu.Lock()
	f.calls++
	release := f.release
	f.mu.Unlock()
	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.commits, f.err
}

func cues(effects []Effect) []termfolio.Cue {
	var out []termfolio.Cue
	for _, e := range effects {
		if e.Kind == EffectCue {
			out = append(out, e.Cue)
		}
	}
	return out
}

func hasEffect(effects []Effect, kind EffectKind) bool {
	for _, e := range effects {
		if e.Kind == kind {
			return true
		}
	}
	return false
}
