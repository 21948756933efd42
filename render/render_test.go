package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/safwanadnan/termfolio"
)

func renderPlain(out *termfolio.Output) string {
	var buf bytes.Buffer
	New(true).Output(&buf, out)
	return buf.String()
}

func TestRenderVariants(t *testing.T) {
	tests := []struct {
		name string
		out  *termfolio.Output
		want []string
	}{
		{"info", &termfolio.Output{Kind: termfolio.KindInfo, Body: "Changed directory to /projects"},
			[]string{"Changed directory to /projects\n"}},
		{"error with suggestion", &termfolio.Output{Kind: termfolio.KindError, Body: "Command not found: hlep.", Suggestion: "help"},
			[]string{"Command not found: hlep.\n", "Did you mean 'help'?"}},
		{"listing", &termfolio.Output{Kind: termfolio.KindListing, Entries: []termfolio.Entry{
			{Name: "projects", Kind: termfolio.EntryDirectory},
			{Name: "README.md", Kind: termfolio.EntryFile},
		}}, []string{"projects/  README.md\n"}},
		{"matches", &termfolio.Output{Kind: termfolio.KindMatches, Items: []string{"cat", "cd"}},
			[]string{"cat  cd\n"}},
		{"history", &termfolio.Output{Kind: termfolio.KindHistory, Items: []string{"ls", "pwd"}},
			[]string{"   1  ls\n", "   2  pwd\n"}},
		{"file", &termfolio.Output{Kind: termfolio.KindFile, Body: "# Hello\n\n"},
			[]string{"# Hello\n"}},
		{"help", &termfolio.Output{Kind: termfolio.KindHelp, Commands: []termfolio.HelpEntry{
			{Name: "help", Summary: "Show available commands"},
			{Name: "sound", Aliases: []string{"mute"}, Summary: "Toggle sound effects"},
		}}, []string{"Available commands:", "help          Show available commands", "sound (mute)  Toggle sound effects"}},
		{"text sections", &termfolio.Output{Kind: termfolio.KindText, Title: "Skills", Sections: []termfolio.Section{
			{Heading: "Backend", Lines: []string{"Go"}},
		}}, []string{"Skills\n\nBackend\n  - Go\n"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderPlain(tt.out)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("output %q does not contain %q", got, want)
				}
			}
		})
	}
}

func TestRenderActivity(t *testing.T) {
	long := strings.Repeat("x", 90)
	feed := &termfolio.ActivityFeed{
		Identity: "me",
		Status:   termfolio.FeedReady,
		Commits: []termfolio.Commit{{
			SHA:        "0123456789abcdef",
			URL:        "https://github.com/me/repo/commit/0123456789abcdef",
			Message:    long + "\nbody",
			Date:       time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC),
			Repository: "repo",
		}},
	}
	got := renderPlain(&termfolio.Output{Kind: termfolio.KindActivity, Activity: feed})
	for _, want := range []string{"Recent GitHub Activity", "repo 0123456 " + strings.Repeat("x", 80) + "...\n", "May 2, 2024"} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q does not contain %q", got, want)
		}
	}
	if strings.Contains(got, "body") {
		t.Error("only the first message line is shown")
	}

	feed.Status = termfolio.FeedLoading
	if got := renderPlain(&termfolio.Output{Kind: termfolio.KindActivity, Activity: feed}); !strings.Contains(got, "Loading") {
		t.Errorf("loading output %q", got)
	}
	feed.Status = termfolio.FeedFailed
	if got := renderPlain(&termfolio.Output{Kind: termfolio.KindActivity, Activity: feed}); !strings.Contains(got, "No GitHub activity found for me") {
		t.Errorf("failed output %q", got)
	}
}

func TestRenderEnvironment(t *testing.T) {
	env := &termfolio.Environment{OS: "Linux", Browser: "Firefox", BrowserVersion: "125.0", CPUThreads: 8, DarkMode: true, Logo: "\nLOGO\n"}
	got := renderPlain(&termfolio.Output{Kind: termfolio.KindEnvironment, Environment: env})
	for _, want := range []string{"LOGO\n", "OS:          Linux", "Browser:     Firefox 125.0", "CPU Threads: 8", "Dark Mode:   Enabled"} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q does not contain %q", got, want)
		}
	}
	if strings.Contains(got, "Memory") {
		t.Error("empty fields are skipped")
	}
}

func TestRecordEchoesPrompt(t *testing.T) {
	var buf bytes.Buffer
	New(true).Record(&buf, "guest@portfolio:~$", termfolio.Record{Input: "pwd", Output: &termfolio.Output{Kind: termfolio.KindInfo, Body: "/"}})
	if buf.String() != "guest@portfolio:~$ pwd\n/\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 80); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := Truncate("héllo wörld", 5); got != "héllo..." {
		t.Errorf("got %q", got)
	}
}
