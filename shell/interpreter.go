// Package shell interprets command lines against a session and the virtual
// filesystem, and hosts sessions behind a serialized Console.
package shell

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/safwanadnan/termfolio"
	"github.com/safwanadnan/termfolio/content"
	"github.com/safwanadnan/termfolio/vfs"
)

// DefaultActivityLimit is the number of commits the github command shows
// when Options.ActivityLimit is unset.
const DefaultActivityLimit = 5

// EffectKind identifies a side effect requested by a command.
type EffectKind int

const (
	EffectCue EffectKind = iota
	EffectClear
	EffectDownload
	EffectReload
	EffectFetchActivity
)

// Effect is a side effect for the host to carry out after a command ran.
type Effect struct {
	Kind EffectKind
	// EffectCue
	Cue termfolio.Cue
	// EffectDownload
	Resource string
	// EffectFetchActivity
	RecordID int
	Identity string
	Limit    int
}

// Result is the outcome of interpreting one line.
type Result struct {
	// Command is the canonical name of the dispatched command, or empty when
	// nothing was dispatched or the name was unknown.
	Command string
	// Record is the appended transcript record, nil when none was appended.
	Record  *termfolio.Record
	Effects []Effect
}

// Options configures an Interpreter.
type Options struct {
	Content       *content.Bundle
	Activity      ActivitySource
	Environment   EnvironmentSource
	GitHubUser    string
	ActivityLimit int
	ResumeURL     string
}

// Interpreter dispatches input lines to the registered commands.
type Interpreter struct {
	registry  *Registry
	suggester *Suggester
	opts      Options
}

// NewInterpreter builds an interpreter with the built-in commands.
func NewInterpreter(opts Options) *Interpreter {
	if opts.ActivityLimit <= 0 {
		opts.ActivityLimit = DefaultActivityLimit
	}
	in := &Interpreter{opts: opts}
	in.registry = NewRegistry(builtins()...)
	in.suggester = NewSuggester(in.registry.Names())
	return in
}

// Names returns every recognized command name, aliases included.
func (in *Interpreter) Names() []string {
	return in.registry.Names()
}

// Banner returns the welcome banner with the given prompt.
func (in *Interpreter) Banner(prompt string) termfolio.Banner {
	if in.opts.Content == nil {
		return termfolio.Banner{Prompt: prompt}
	}
	return in.opts.Content.Banner(prompt)
}

// Invocation is the context a command handler runs in.
type Invocation struct {
	Name    string
	Args    []string
	Session *Session

	interp   *Interpreter
	recordID int
	effects  []Effect
}

func (inv *Invocation) emit(e Effect) {
	inv.effects = append(inv.effects, e)
}

func (inv *Invocation) cue(c termfolio.Cue) {
	inv.emit(Effect{Kind: EffectCue, Cue: c})
}

// Interpret runs one raw input line against sess. Every failure is reported
// as an error record; Interpret never returns an error.
func (in *Interpreter) Interpret(raw string, sess *Session) Result {
	sess.cursor = -1
	line := strings.TrimSpace(raw)
	if line == "" {
		return Result{}
	}
	sess.pushHistory(line)

	name, args := Tokenize(line)
	cmd, ok := in.registry.Lookup(name)
	if !ok {
		typed := strings.Fields(line)[0]
		out := errorOutput(termfolio.ReasonUnknownCommand,
			"Command not found: %s. Type 'help' for available commands.", typed)
		if s, ok := in.suggester.Suggest(name); ok {
			out.Suggestion = s
		}
		rec := sess.appendRecord(line, out)
		slog.Debug("unknown command", "name", name, "suggestion", out.Suggestion)
		return Result{
			Record: &rec,
			Effects: []Effect{{Kind: EffectCue, Cue: termfolio.CueError}},
		}
	}

	if cmd.NoRecord {
		sess.clearTranscript()
		return Result{Command: cmd.Name, Effects: []Effect{{Kind: EffectClear}}}
	}

	inv := &Invocation{
		Name:     name,
		Args:     args,
		Session:  sess,
		interp:   in,
		recordID: sess.peekID(),
	}
	inv.cue(termfolio.CueExecution)
	out := cmd.Run(inv)
	if out == nil {
		out = &termfolio.Output{Kind: termfolio.KindText}
	}
	if out.Kind == termfolio.KindError && !hasCue(inv.effects, termfolio.CueError) {
		inv.cue(termfolio.CueError)
	}
	rec := sess.appendRecord(line, out)
	slog.Debug("command", "name", cmd.Name, "args", len(args), "kind", out.Kind)
	return Result{Command: cmd.Name, Record: &rec, Effects: inv.effects}
}

func hasCue(effects []Effect, c termfolio.Cue) bool {
	for _, e := range effects {
		if e.Kind == EffectCue && e.Cue == c {
			return true
		}
	}
	return false
}

func errorOutput(reason termfolio.Reason, format string, args ...any) *termfolio.Output {
	return &termfolio.Output{
		Kind:   termfolio.KindError,
		Reason: reason,
		Body:   fmt.Sprintf(format, args...),
	}
}

func infoOutput(format string, args ...any) *termfolio.Output {
	return &termfolio.Output{Kind: termfolio.KindInfo, Body: fmt.Sprintf(format, args...)}
}

func (in *Interpreter) fs() *vfs.FS {
	if in.opts.Content == nil {
		return nil
	}
	return in.opts.Content.FS
}
