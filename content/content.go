// Package content decodes the TOML content bundle: the welcome banner, the
// static command pages and the virtual filesystem.
package content

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	termfolio "github.com/safwanadnan/termfolio"
	defaults "github.com/safwanadnan/termfolio/default"
	"github.com/safwanadnan/termfolio/vfs"
)

// Pages that every bundle must provide; the static-content commands are
// keyed by these names.
var RequiredPages = []string{"about", "skills", "projects", "contact"}

// Bundle is the decoded, immutable content set.
type Bundle struct {
	FS     *vfs.FS
	banner termfolio.Banner
	pages  map[string]termfolio.Output
}

type bundleFile struct {
	Banner struct {
		Art   string   `toml:"art"`
		Lines []string `toml:"lines"`
	} `toml:"banner"`
	Pages map[string]pageSpec `toml:"pages"`
	Dirs  []dirSpec           `toml:"dir"`
	Files []fileSpec          `toml:"file"`
}

type pageSpec struct {
	Title    string        `toml:"title"`
	Sections []sectionSpec `toml:"sections"`
}

type sectionSpec struct {
	Heading string   `toml:"heading"`
	Lines   []string `toml:"lines"`
}

type dirSpec struct {
	Path    string      `toml:"path"`
	Entries []entrySpec `toml:"entries"`
}

type entrySpec struct {
	Name string `toml:"name"`
	Kind string `toml:"kind"`
}

type fileSpec struct {
	Path string `toml:"path"`
	Body string `toml:"body"`
}

// Default decodes the bundle embedded in the binary.
func Default() (*Bundle, error) {
	return Load(defaults.ContentTOML)
}

// Load decodes a TOML content bundle. Unknown keys are rejected so typos in
// the bundle surface at start-up instead of as missing content.
func Load(data []byte) (*Bundle, error) {
	var bf bundleFile
	md, err := toml.Decode(string(data), &bf)
	if err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("decode content: unknown keys %s", strings.Join(keys, ", "))
	}

	dirs := make(map[string][]termfolio.Entry, len(bf.Dirs))
	for _, d := range bf.Dirs {
		entries := make([]termfolio.Entry, len(d.Entries))
		for i, e := range d.Entries {
			entries[i] = termfolio.Entry{Name: e.Name, Kind: termfolio.EntryKind(e.Kind)}
		}
		if _, dup := dirs[d.Path]; dup {
			return nil, fmt.Errorf("content: directory %q defined twice", d.Path)
		}
		dirs[d.Path] = entries
	}
	files := make(map[string]string, len(bf.Files))
	for _, f := range bf.Files {
		if _, dup := files[f.Path]; dup {
			return nil, fmt.Errorf("content: file %q defined twice", f.Path)
		}
		files[f.Path] = f.Body
	}

	fs, err := vfs.New(dirs, files)
	if err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}

	b := &Bundle{
		FS: fs,
		banner: termfolio.Banner{
			Art:   bf.Banner.Art,
			Lines: bf.Banner.Lines,
		},
		pages: make(map[string]termfolio.Output, len(bf.Pages)),
	}
	for name, p := range bf.Pages {
		out := termfolio.Output{Kind: termfolio.KindText, Title: p.Title}
		for _, s := range p.Sections {
			out.Sections = append(out.Sections, termfolio.Section{Heading: s.Heading, Lines: s.Lines})
		}
		b.pages[strings.ToLower(name)] = out
	}

	var missing []string
	for _, name := range RequiredPages {
		if _, ok := b.pages[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("content: missing pages %s", strings.Join(missing, ", "))
	}

	slog.Debug("loaded content bundle", "pages", len(b.pages), "dirs", fs.Dirs(), "files", len(files))
	return b, nil
}

// Page returns the payload of a static-content page. The returned Output
// shares no slices with the bundle.
func (b *Bundle) Page(name string) (termfolio.Output, bool) {
	p, ok := b.pages[name]
	if !ok {
		return termfolio.Output{}, false
	}
	out := p
	out.Sections = make([]termfolio.Section, len(p.Sections))
	for i, s := range p.Sections {
		out.Sections[i] = termfolio.Section{Heading: s.Heading, Lines: append([]string(nil), s.Lines...)}
	}
	return out, true
}

// Pages returns the page names in sorted order.
func (b *Bundle) Pages() []string {
	names := make([]string, 0, len(b.pages))
	for name := range b.pages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Banner returns the welcome banner with the given prompt.
func (b *Bundle) Banner(prompt string) termfolio.Banner {
	return termfolio.Banner{
		Art:    b.banner.Art,
		Lines:  append([]string(nil), b.banner.Lines...),
		Prompt: prompt,
	}
}
