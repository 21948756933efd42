// Package render prints transcript records as terminal text.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/safwanadnan/termfolio"
)

const (
	messageWidth = 80
	shortSHA     = 7
	dateLayout   = "Jan 2, 2006"
)

// Renderer maps Output variants to coloured text.
type Renderer struct {
	prompt  *color.Color
	heading *color.Color
	dir     *color.Color
	file    *color.Color
	errc    *color.Color
	info    *color.Color
	accent  *color.Color
	dim     *color.Color
}

// New returns a renderer. With noColor set every style prints plain text.
func New(noColor bool) *Renderer {
	r := &Renderer{
		prompt:  color.New(color.FgGreen, color.Bold),
		heading: color.New(color.FgCyan, color.Bold),
		dir:     color.New(color.FgBlue, color.Bold),
		file:    color.New(color.FgWhite),
		errc:    color.New(color.FgRed),
		info:    color.New(color.FgYellow),
		accent:  color.New(color.FgMagenta),
		dim:     color.New(color.Faint),
	}
	for _, c := range []*color.Color{r.prompt, r.heading, r.dir, r.file, r.errc, r.info, r.accent, r.dim} {
		if noColor {
			c.DisableColor()
		} else {
			c.EnableColor()
		}
	}
	return r
}

// Prompt returns the styled prompt string.
func (r *Renderer) Prompt(prompt string) string {
	return r.prompt.Sprint(prompt) + " "
}

// Banner writes the welcome banner.
func (r *Renderer) Banner(w io.Writer, b termfolio.Banner) {
	if art := strings.Trim(b.Art, "\n"); art != "" {
		r.heading.Fprintln(w, art)
		fmt.Fprintln(w)
	}
	for _, line := range b.Lines {
		fmt.Fprintln(w, line)
	}
	if len(b.Lines) > 0 {
		fmt.Fprintln(w)
	}
}

// Record writes the echoed input line followed by its output.
func (r *Renderer) Record(w io.Writer, prompt string, rec termfolio.Record) {
	fmt.Fprintf(w, "%s%s\n", r.Prompt(prompt), rec.Input)
	r.Output(w, rec.Output)
}

// Output writes one output payload.
func (r *Renderer) Output(w io.Writer, out *termfolio.Output) {
	if out == nil {
		return
	}
	switch out.Kind {
	case termfolio.KindText:
		r.text(w, out)
	case termfolio.KindInfo:
		r.info.Fprintln(w, out.Body)
	case termfolio.KindError:
		r.errc.Fprintln(w, out.Body)
		if out.Suggestion != "" {
			r.dim.Fprintf(w, "Did you mean '%s'?\n", out.Suggestion)
		}
	case termfolio.KindHelp:
		r.help(w, out.Commands)
	case termfolio.KindListing:
		r.listing(w, out.Entries)
	case termfolio.KindFile:
		fmt.Fprintln(w, strings.TrimRight(out.Body, "\n"))
	case termfolio.KindMatches:
		r.accent.Fprintln(w, strings.Join(out.Items, "  "))
	case termfolio.KindHistory:
		for i, item := range out.Items {
			fmt.Fprintf(w, "%s  %s\n", r.dim.Sprintf("%4d", i+1), item)
		}
	case termfolio.KindActivity:
		r.activity(w, out.Activity)
	case termfolio.KindEnvironment:
		r.environment(w, out.Environment)
	default:
		if out.Body != "" {
			fmt.Fprintln(w, out.Body)
		}
	}
}

func (r *Renderer) text(w io.Writer, out *termfolio.Output) {
	if out.Title != "" {
		r.heading.Fprintln(w, out.Title)
	}
	if out.Body != "" {
		fmt.Fprintln(w, out.Body)
	}
	for i, s := range out.Sections {
		if i > 0 || out.Title != "" {
			fmt.Fprintln(w)
		}
		if s.Heading != "" {
			r.accent.Fprintln(w, s.Heading)
		}
		for _, line := range s.Lines {
			if s.Heading != "" {
				fmt.Fprintf(w, "  - %s\n", line)
			} else {
				fmt.Fprintln(w, line)
			}
		}
	}
}

func (r *Renderer) help(w io.Writer, cmds []termfolio.HelpEntry) {
	r.heading.Fprintln(w, "Available commands:")
	width := 0
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
		if len(c.Aliases) > 0 {
			names[i] += " (" + strings.Join(c.Aliases, ", ") + ")"
		}
		width = max(width, len(names[i]))
	}
	for i, c := range cmds {
		fmt.Fprintf(w, "  %s  %s\n", r.accent.Sprintf("%-*s", width, names[i]), c.Summary)
	}
}

func (r *Renderer) listing(w io.Writer, entries []termfolio.Entry) {
	if len(entries) == 0 {
		return
	}
	parts := make([]string, len(entries))
	for i, e := range entries {
		if e.Kind == termfolio.EntryDirectory {
			parts[i] = r.dir.Sprint(e.Name + "/")
		} else {
			parts[i] = r.file.Sprint(e.Name)
		}
	}
	fmt.Fprintln(w, strings.Join(parts, "  "))
}

func (r *Renderer) activity(w io.Writer, feed *termfolio.ActivityFeed) {
	if feed == nil {
		return
	}
	switch feed.Status {
	case termfolio.FeedLoading:
		r.dim.Fprintln(w, "Loading GitHub activity...")
		return
	case termfolio.FeedFailed:
		r.errc.Fprintf(w, "No GitHub activity found for %s\n", feed.Identity)
		if feed.Error != "" {
			r.dim.Fprintln(w, feed.Error)
		}
		return
	}
	if len(feed.Commits) == 0 {
		r.errc.Fprintf(w, "No GitHub activity found for %s\n", feed.Identity)
		return
	}

	r.heading.Fprintln(w, "Recent GitHub Activity")
	for _, c := range feed.Commits {
		sha := c.SHA
		if len(sha) > shortSHA {
			sha = sha[:shortSHA]
		}
		fmt.Fprintf(w, "%s %s %s\n", r.accent.Sprint(c.Repository), r.info.Sprint(sha), Truncate(firstLine(c.Message), messageWidth))
		meta := c.Date.Format(dateLayout)
		if c.URL != "" {
			meta += "  " + c.URL
		}
		r.dim.Fprintf(w, "  %s\n", meta)
	}
}

func (r *Renderer) environment(w io.Writer, env *termfolio.Environment) {
	if env == nil {
		return
	}
	if logo := strings.Trim(env.Logo, "\n"); logo != "" {
		r.accent.Fprintln(w, logo)
		fmt.Fprintln(w)
	}
	browser := env.Browser
	if env.BrowserVersion != "" {
		browser += " " + env.BrowserVersion
	}
	dark := "Disabled"
	if env.DarkMode {
		dark = "Enabled"
	}
	rows := [][2]string{
		{"OS", env.OS},
		{"Browser", browser},
		{"Resolution", env.Resolution},
		{"Color Depth", env.ColorDepth},
		{"CPU Threads", fmt.Sprint(env.CPUThreads)},
		{"Language", env.Language},
		{"Time Zone", env.TimeZone},
		{"Device", env.DeviceType},
		{"Dark Mode", dark},
		{"Memory", env.Memory},
		{"Uptime", env.Uptime},
	}
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		fmt.Fprintf(w, "%s %s\n", r.heading.Sprintf("%-12s", row[0]+":"), row[1])
	}
}

// Truncate keeps the first n runes of s and marks a cut with "...".
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
