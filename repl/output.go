package main

import (
	"bytes"
	"io"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/safwanadnan/termfolio"
	"github.com/safwanadnan/termfolio/render"
)

// crlfWriter converts \n to \r\n, since raw mode disables the kernel's
// output newline translation.
type crlfWriter struct {
	w io.Writer
}

func (c *crlfWriter) Write(p []byte) (int, error) {
	replaced := bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))
	_, err := c.w.Write(replaced)
	return len(p), err // report original length to caller
}

// transcriptEntry is one record of the structured transcript log.
type transcriptEntry struct {
	Timestamp time.Time `toml:"timestamp"`
	ID        int       `toml:"id"`
	Cwd       string    `toml:"cwd"`
	Input     string    `toml:"input"`
	Kind      string    `toml:"kind"`
	Reason    string    `toml:"reason,omitempty"`
	Replaced  bool      `toml:"replaced,omitempty"`
	Output    string    `toml:"output,omitempty"`
}

// transcriptLog appends records to w as TOML [[entry]] tables.
type transcriptLog struct {
	w     io.Writer
	plain *render.Renderer
	now   func() time.Time
}

func newTranscriptLog(w io.Writer) *transcriptLog {
	return &transcriptLog{w: w, plain: render.New(true), now: time.Now}
}

func (l *transcriptLog) write(cwd string, rec termfolio.Record, replaced bool) error {
	var out bytes.Buffer
	l.plain.Output(&out, rec.Output)

	entry := transcriptEntry{
		Timestamp: l.now().UTC().Truncate(time.Second),
		ID:        rec.ID,
		Cwd:       cwd,
		Input:     rec.Input,
		Replaced:  replaced,
		Output:    strings.TrimRight(out.String(), "\n"),
	}
	if rec.Output != nil {
		entry.Kind = string(rec.Output.Kind)
		entry.Reason = string(rec.Output.Reason)
	}

	doc := struct {
		Entry []transcriptEntry `toml:"entry"`
	}{Entry: []transcriptEntry{entry}}
	if err := toml.NewEncoder(l.w).Encode(doc); err != nil {
		return err
	}
	_, err := io.WriteString(l.w, "\n")
	return err
}
