package shell

import (
	"errors"

	"github.com/safwanadnan/termfolio"
	"github.com/safwanadnan/termfolio/vfs"
)

func builtins() []*Command {
	return []*Command{
		{Name: "help", Summary: "Show available commands", Run: runHelp},
		{Name: "about", Summary: "Learn about me", Run: runPage},
		{Name: "skills", Summary: "View my technical skills", Run: runPage},
		{Name: "projects", Summary: "Browse my projects", Run: runPage},
		{Name: "contact", Summary: "Get my contact information", Run: runPage},
		{Name: "github", Summary: "Show recent GitHub activity", Run: runGitHub},
		{Name: "neofetch", Summary: "Display system information", Run: runNeofetch},
		{Name: "ls", Summary: "List directory contents", Run: runLs},
		{Name: "cd", Summary: "Change directory", Run: runCd},
		{Name: "cat", Summary: "Display file contents", Run: runCat},
		{Name: "pwd", Summary: "Print working directory", Run: runPwd},
		{Name: "history", Summary: "Show command history", Run: runHistory},
		{Name: "resume", Summary: "Download my resume", Run: runResume},
		{Name: "sound", Aliases: []string{"sounds", "mute", "unmute"}, Summary: "Toggle sound effects", Run: runSound},
		{Name: "clear", Summary: "Clear the terminal", NoRecord: true},
		{Name: "exit", Summary: "Exit the terminal", Run: runExit},
	}
}

func runHelp(inv *Invocation) *termfolio.Output {
	return &termfolio.Output{Kind: termfolio.KindHelp, Commands: inv.interp.registry.Help()}
}

func runPage(inv *Invocation) *termfolio.Output {
	if inv.interp.opts.Content == nil {
		return errorOutput(termfolio.ReasonUnreadable, "%s: content unavailable", inv.Name)
	}
	page, ok := inv.interp.opts.Content.Page(inv.Name)
	if !ok {
		return errorOutput(termfolio.ReasonUnreadable, "%s: content unavailable", inv.Name)
	}
	return &page
}

func runLs(inv *Invocation) *termfolio.Output {
	fs := inv.interp.fs()
	path := inv.Session.cwd
	target := ""
	if len(inv.Args) > 0 {
		target = inv.Args[0]
		path, _ = vfs.Resolve(inv.Session.cwd, target)
	}
	if fs == nil {
		return errorOutput(termfolio.ReasonNotFound, "ls: cannot access '%s': No such file or directory", target)
	}
	entries, ok := fs.List(path)
	if !ok {
		if target == "" {
			target = path
		}
		return errorOutput(termfolio.ReasonNotFound, "ls: cannot access '%s': No such file or directory", target)
	}
	return &termfolio.Output{Kind: termfolio.KindListing, Path: path, Entries: entries}
}

func runCd(inv *Invocation) *termfolio.Output {
	target := ""
	if len(inv.Args) > 0 {
		target = inv.Args[0]
	}
	path, atRoot := vfs.Resolve(inv.Session.cwd, target)
	if atRoot {
		return infoOutput("Already at root directory")
	}

	fs := inv.interp.fs()
	err := vfs.ErrNotFound
	if fs != nil {
		err = fs.CheckDir(path)
	}
	switch {
	case err == nil:
		inv.Session.cwd = path
		out := infoOutput("Changed directory to %s", path)
		out.Path = path
		return out
	case errors.Is(err, vfs.ErrNotDir):
		return errorOutput(termfolio.ReasonNotDirectory, "cd: not a directory: %s", target)
	default:
		return errorOutput(termfolio.ReasonNotFound, "cd: no such directory: %s", target)
	}
}

func runCat(inv *Invocation) *termfolio.Output {
	if len(inv.Args) != 1 {
		return errorOutput(termfolio.ReasonUsage, "Usage: cat <file>")
	}
	target := inv.Args[0]
	path := vfs.Join(inv.Session.cwd, target)

	fs := inv.interp.fs()
	if fs == nil {
		return errorOutput(termfolio.ReasonNotFound, "cat: %s: No such file", target)
	}
	body, err := fs.ReadFile(path)
	switch {
	case err == nil:
		return &termfolio.Output{Kind: termfolio.KindFile, Path: path, Title: vfs.Base(path), Body: body}
	case errors.Is(err, vfs.ErrIsDir):
		return errorOutput(termfolio.ReasonIsDirectory, "cat: %s: Is a directory, not a file", target)
	case errors.Is(err, vfs.ErrUnreadable):
		return errorOutput(termfolio.ReasonUnreadable, "cat: %s: Cannot read file", target)
	default:
		return errorOutput(termfolio.ReasonNotFound, "cat: %s: No such file", target)
	}
}

func runPwd(inv *Invocation) *termfolio.Output {
	out := infoOutput("%s", inv.Session.cwd)
	out.Path = inv.Session.cwd
	return out
}

func runHistory(inv *Invocation) *termfolio.Output {
	h := inv.Session.history
	items := make([]string, len(h))
	for i, line := range h {
		items[len(h)-1-i] = line
	}
	return &termfolio.Output{Kind: termfolio.KindHistory, Items: items}
}

func runResume(inv *Invocation) *termfolio.Output {
	url := inv.interp.opts.ResumeURL
	if url == "" {
		return errorOutput(termfolio.ReasonUnreadable, "resume: no resume available")
	}
	inv.emit(Effect{Kind: EffectDownload, Resource: url})
	inv.cue(termfolio.CueSuccess)
	return &termfolio.Output{Kind: termfolio.KindText, Body: "Resume download started!"}
}

func runSound(inv *Invocation) *termfolio.Output {
	muted := !inv.Session.muted
	inv.Session.muted = muted
	if muted {
		return infoOutput("Sound effects disabled")
	}
	return infoOutput("Sound effects enabled")
}

func runExit(inv *Invocation) *termfolio.Output {
	inv.cue(termfolio.CueError)
	inv.emit(Effect{Kind: EffectReload})
	return infoOutput("Goodbye! Refreshing terminal...")
}

func runGitHub(inv *Invocation) *termfolio.Output {
	opts := inv.interp.opts
	feed := &termfolio.ActivityFeed{Identity: opts.GitHubUser, Status: termfolio.FeedFailed}
	out := &termfolio.Output{Kind: termfolio.KindActivity, Activity: feed}

	switch {
	case opts.GitHubUser == "":
		feed.Error = "no GitHub user configured"
	case opts.Activity == nil:
		feed.Error = "activity feed unavailable"
	default:
		if commits, ok := opts.Activity.Cached(opts.GitHubUser, opts.ActivityLimit); ok {
			feed.Status = termfolio.FeedReady
			feed.Commits = commits
			return out
		}
		feed.Status = termfolio.FeedLoading
		inv.emit(Effect{
			Kind:     EffectFetchActivity,
			RecordID: inv.recordID,
			Identity: opts.GitHubUser,
			Limit:    opts.ActivityLimit,
		})
	}
	return out
}

func runNeofetch(inv *Invocation) *termfolio.Output {
	src := inv.interp.opts.Environment
	if src == nil {
		return errorOutput(termfolio.ReasonUnreadable, "neofetch: environment unavailable")
	}
	env := src.Capture()
	return &termfolio.Output{Kind: termfolio.KindEnvironment, Environment: &env}
}
